package checklist

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "foodaudit/pkg/domain-errors"
)

type ChecklistSuite struct {
	suite.Suite
	checklist Checklist
}

func (s *ChecklistSuite) SetupTest() {
	s.checklist = Checklist{}
	s.Require().NoError(s.checklist.AddSection("Kitchen Cleanliness"))
}

func TestChecklistSuite(t *testing.T) {
	suite.Run(t, new(ChecklistSuite))
}

func (s *ChecklistSuite) TestAddSection() {
	s.Run("seeds a default item", func() {
		s.Len(s.checklist, 1)
		s.Require().Len(s.checklist[0].Items, 1)
		s.Equal(TypeYesNo, s.checklist[0].Items[0].Type)
		s.True(s.checklist[0].Items[0].Required)
	})

	s.Run("rejects blank title", func() {
		err := s.checklist.AddSection("   ")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Len(s.checklist, 1)
	})
}

func (s *ChecklistSuite) TestRemoveSection() {
	s.Run("refuses to remove the last section", func() {
		err := s.checklist.RemoveSection(0)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Len(s.checklist, 1)
	})

	s.Run("removes a section and preserves order", func() {
		s.Require().NoError(s.checklist.AddSection("Food Storage"))
		s.Require().NoError(s.checklist.AddSection("Documentation"))

		s.Require().NoError(s.checklist.RemoveSection(1))
		s.Require().Len(s.checklist, 2)
		s.Equal("Kitchen Cleanliness", s.checklist[0].Title)
		s.Equal("Documentation", s.checklist[1].Title)
	})

	s.Run("rejects out-of-range index", func() {
		err := s.checklist.RemoveSection(9)
		s.True(dErrors.HasCode(err, dErrors.CodeIndexOutOfRange))
	})
}

func (s *ChecklistSuite) TestItems() {
	s.Run("add and remove", func() {
		s.Require().NoError(s.checklist.AddItem(0))
		s.Len(s.checklist[0].Items, 2)

		s.Require().NoError(s.checklist.RemoveItem(0, 0))
		s.Len(s.checklist[0].Items, 1)
	})

	s.Run("refuses to remove the last item", func() {
		err := s.checklist.RemoveItem(0, 0)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Len(s.checklist[0].Items, 1)
	})

	s.Run("rejects out-of-range item index", func() {
		err := s.checklist.RemoveItem(0, 5)
		s.True(dErrors.HasCode(err, dErrors.CodeIndexOutOfRange))
	})
}

func (s *ChecklistSuite) TestSetItemType() {
	s.Run("moving to multiple-choice keeps options pending", func() {
		s.Require().NoError(s.checklist.SetItemType(0, 0, TypeMultipleChoice))
		s.Empty(s.checklist[0].Items[0].Options)

		// Not submit-ready until options are supplied.
		s.Require().NoError(s.checklist.SetItemQuestion(0, 0, "Floor condition?"))
		err := s.checklist.Validate()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		s.Require().NoError(s.checklist.SetItemOptions(0, 0, []string{"Good", "Fair", "Poor"}))
		s.NoError(s.checklist.Validate())
	})

	s.Run("moving away from multiple-choice clears options and response", func() {
		s.Require().NoError(s.checklist.SetItemType(0, 0, TypeMultipleChoice))
		s.Require().NoError(s.checklist.SetItemOptions(0, 0, []string{"Good", "Poor"}))
		s.Require().NoError(s.checklist[0].Items[0].SetResponse(Choice("Good"), ""))

		s.Require().NoError(s.checklist.SetItemType(0, 0, TypeNumeric))
		item := s.checklist[0].Items[0]
		s.Nil(item.Options)
		s.Nil(item.Response)
	})

	s.Run("rejects unknown type", func() {
		err := s.checklist.SetItemType(0, 0, ItemType("date"))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("options on non-choice item rejected", func() {
		s.Require().NoError(s.checklist.SetItemType(0, 0, TypeText))
		err := s.checklist.SetItemOptions(0, 0, []string{"A"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ChecklistSuite) TestSetResponse() {
	item := &s.checklist[0].Items[0]

	s.Run("type mismatch rejected", func() {
		err := item.SetResponse(Text("yes"), "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeTypeMismatch))
		s.False(item.Answered())
	})

	s.Run("choice outside options rejected", func() {
		s.Require().NoError(s.checklist.SetItemType(0, 0, TypeMultipleChoice))
		s.Require().NoError(s.checklist.SetItemOptions(0, 0, []string{"Pass", "Fail"}))
		err := item.SetResponse(Choice("Maybe"), "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidChoice))
	})

	s.Run("valid answer recorded with notes", func() {
		s.Require().NoError(item.SetResponse(Choice("Fail"), "observed during walkthrough"))
		s.True(item.Answered())
		s.Equal("observed during walkthrough", item.Notes)
	})
}

func (s *ChecklistSuite) TestResponseRoundTrip() {
	s.Require().NoError(s.checklist.SetItemQuestion(0, 0, "Surfaces sanitized?"))
	s.Require().NoError(s.checklist[0].Items[0].SetResponse(YesNo(false), ""))

	raw, err := json.Marshal(s.checklist)
	s.Require().NoError(err)

	var decoded Checklist
	s.Require().NoError(json.Unmarshal(raw, &decoded))
	s.Require().NotNil(decoded[0].Items[0].Response)
	s.True(decoded[0].Items[0].Response.IsNo())
}

func (s *ChecklistSuite) TestSectionComplete() {
	s.Require().NoError(s.checklist.AddItem(0))
	s.Require().NoError(s.checklist.SetItemRequired(0, 1, false))

	sec := &s.checklist[0]
	s.False(sec.Complete())

	s.Require().NoError(sec.Items[0].SetResponse(YesNo(true), ""))
	// Optional item still unanswered; section counts as complete.
	s.True(sec.Complete())
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		name     string
		itemType ItemType
		raw      string
		wantErr  dErrors.Code
	}{
		{"bool for yes-no", TypeYesNo, `false`, ""},
		{"number for yes-no", TypeYesNo, `0`, dErrors.CodeTypeMismatch},
		{"number for numeric", TypeNumeric, `4.5`, ""},
		{"string for numeric", TypeNumeric, `"4.5"`, dErrors.CodeTypeMismatch},
		{"string for text", TypeText, `"ok"`, ""},
		{"string for choice", TypeMultipleChoice, `"Pass"`, ""},
		{"bool for choice", TypeMultipleChoice, `true`, dErrors.CodeTypeMismatch},
		{"unknown type", ItemType("date"), `"x"`, dErrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := ParseValue(tc.itemType, json.RawMessage(tc.raw))
			if tc.wantErr != "" {
				if !dErrors.HasCode(err, tc.wantErr) {
					t.Fatalf("want code %s, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Kind() != tc.itemType {
				t.Fatalf("want kind %s, got %s", tc.itemType, v.Kind())
			}
		})
	}
}
