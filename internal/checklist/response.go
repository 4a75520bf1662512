package checklist

import (
	"encoding/json"
	"strconv"

	dErrors "foodaudit/pkg/domain-errors"
)

// ItemType declares the shape of answer a checklist item accepts.
type ItemType string

const (
	TypeYesNo          ItemType = "yes-no"
	TypeNumeric        ItemType = "numeric"
	TypeText           ItemType = "text"
	TypeMultipleChoice ItemType = "multiple-choice"
)

func (t ItemType) Valid() bool {
	switch t {
	case TypeYesNo, TypeNumeric, TypeText, TypeMultipleChoice:
		return true
	}
	return false
}

// Response is a tagged union holding one answer. The tag always matches the
// owning item's declared type: bool for yes-no, float64 for numeric, string
// for text and multiple-choice. Recording validates the tag so an untyped
// "any" value never enters the aggregate.
type Response struct {
	kind    ItemType
	boolVal bool
	numVal  float64
	strVal  string
}

func YesNo(v bool) Response      { return Response{kind: TypeYesNo, boolVal: v} }
func Numeric(v float64) Response { return Response{kind: TypeNumeric, numVal: v} }
func Text(v string) Response     { return Response{kind: TypeText, strVal: v} }
func Choice(v string) Response   { return Response{kind: TypeMultipleChoice, strVal: v} }

func (r Response) Kind() ItemType { return r.kind }

// Bool returns the yes-no answer; ok is false for any other kind.
func (r Response) Bool() (v bool, ok bool) { return r.boolVal, r.kind == TypeYesNo }

// Number returns the numeric answer; ok is false for any other kind.
func (r Response) Number() (v float64, ok bool) { return r.numVal, r.kind == TypeNumeric }

// Text returns the text or multiple-choice answer; ok is false otherwise.
func (r Response) Text() (v string, ok bool) {
	return r.strVal, r.kind == TypeText || r.kind == TypeMultipleChoice
}

// IsNo reports whether this is a strict boolean "No". Numeric zero, empty
// strings, and absent responses never count; non-compliance is a yes/no
// specific signal.
func (r Response) IsNo() bool { return r.kind == TypeYesNo && !r.boolVal }

type responseJSON struct {
	Kind  ItemType        `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the tag explicitly so persisted audits round-trip
// without guessing a string's kind.
func (r Response) MarshalJSON() ([]byte, error) {
	var value any
	switch r.kind {
	case TypeYesNo:
		value = r.boolVal
	case TypeNumeric:
		value = r.numVal
	default:
		value = r.strVal
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(responseJSON{Kind: r.kind, Value: raw})
}

func (r *Response) UnmarshalJSON(b []byte) error {
	var rj responseJSON
	if err := json.Unmarshal(b, &rj); err != nil {
		return err
	}
	parsed, err := ParseValue(rj.Kind, rj.Value)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseValue coerces a raw JSON value into a Response of the declared type,
// rejecting shape mismatches. This is how transport adapters turn a request
// body into a typed answer.
func ParseValue(t ItemType, raw json.RawMessage) (Response, error) {
	switch t {
	case TypeYesNo:
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return Response{}, dErrors.New(dErrors.CodeTypeMismatch, "yes-no item requires a boolean response")
		}
		return YesNo(v), nil
	case TypeNumeric:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return Response{}, dErrors.New(dErrors.CodeTypeMismatch, "numeric item requires a number response")
		}
		return Numeric(v), nil
	case TypeText:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return Response{}, dErrors.New(dErrors.CodeTypeMismatch, "text item requires a string response")
		}
		return Text(v), nil
	case TypeMultipleChoice:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return Response{}, dErrors.New(dErrors.CodeTypeMismatch, "multiple-choice item requires a string response")
		}
		return Choice(v), nil
	default:
		return Response{}, dErrors.New(dErrors.CodeValidation, "unknown item type "+strconv.Quote(string(t)))
	}
}
