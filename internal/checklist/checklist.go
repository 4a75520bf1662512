// Package checklist models the reusable question tree: sections of items,
// each item one question with a typed answer slot. The package carries no
// audit-run state of its own; the audit aggregate owns a Checklist snapshot
// and gates when it may change.
package checklist

import (
	"strings"

	id "foodaudit/pkg/domain"
	dErrors "foodaudit/pkg/domain-errors"
)

// Item is one checklist question.
//
// Invariants:
//   - Type is one of the declared item types
//   - Options is non-empty iff Type is multiple-choice (enforced at
//     submit-readiness, not on every intermediate edit)
//   - A non-absent Response matches Type; for multiple-choice it equals one
//     of Options
type Item struct {
	ID       id.ItemID `json:"id"`
	Question string    `json:"question"`
	Type     ItemType  `json:"type"`
	Options  []string  `json:"options,omitempty"`
	Required bool      `json:"required"`
	Response *Response `json:"response,omitempty"`
	Notes    string    `json:"notes,omitempty"`
}

// Answered reports whether the item has a non-absent response.
func (i *Item) Answered() bool { return i.Response != nil }

// SetResponse validates and records an answer. The value's kind must match
// the declared type, and multiple-choice answers must be one of the options.
func (i *Item) SetResponse(value Response, notes string) error {
	if value.Kind() != i.Type {
		return dErrors.Newf(dErrors.CodeTypeMismatch,
			"item %q expects a %s response, got %s", i.ID, i.Type, value.Kind())
	}
	if i.Type == TypeMultipleChoice {
		answer, _ := value.Text()
		if !contains(i.Options, answer) {
			return dErrors.Newf(dErrors.CodeInvalidChoice,
				"%q is not an option for item %q", answer, i.ID)
		}
	}
	i.Response = &value
	if notes != "" {
		i.Notes = notes
	}
	return nil
}

// Section is a named, ordered group of items.
type Section struct {
	ID    id.SectionID `json:"id"`
	Title string       `json:"title"`
	Items []Item       `json:"items"`
}

// Complete reports whether every required item has a response.
func (s *Section) Complete() bool {
	for idx := range s.Items {
		if s.Items[idx].Required && !s.Items[idx].Answered() {
			return false
		}
	}
	return true
}

// Checklist is the ordered sequence of sections. Order is significant and
// preserved across edits; it drives finding numbering in reports.
type Checklist []Section

func newItem() Item {
	return Item{ID: id.NewItemID(), Type: TypeYesNo, Required: true}
}

// AddSection appends a section seeded with one default item.
func (c *Checklist) AddSection(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return dErrors.New(dErrors.CodeValidation, "section title must not be empty")
	}
	*c = append(*c, Section{ID: id.NewSectionID(), Title: title, Items: []Item{newItem()}})
	return nil
}

// RenameSection replaces a section's title.
func (c Checklist) RenameSection(sectionIndex int, title string) error {
	if err := c.checkSection(sectionIndex); err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return dErrors.New(dErrors.CodeValidation, "section title must not be empty")
	}
	c[sectionIndex].Title = title
	return nil
}

// RemoveSection deletes a section. The checklist must keep at least one.
func (c *Checklist) RemoveSection(sectionIndex int) error {
	if err := c.checkSection(sectionIndex); err != nil {
		return err
	}
	if len(*c) == 1 {
		return dErrors.New(dErrors.CodeInvariantViolation, "checklist must keep at least one section")
	}
	*c = append((*c)[:sectionIndex], (*c)[sectionIndex+1:]...)
	return nil
}

// AddItem appends a default item to a section.
func (c Checklist) AddItem(sectionIndex int) error {
	if err := c.checkSection(sectionIndex); err != nil {
		return err
	}
	c[sectionIndex].Items = append(c[sectionIndex].Items, newItem())
	return nil
}

// RemoveItem deletes an item. Each section must keep at least one.
func (c Checklist) RemoveItem(sectionIndex, itemIndex int) error {
	if err := c.checkItem(sectionIndex, itemIndex); err != nil {
		return err
	}
	sec := &c[sectionIndex]
	if len(sec.Items) == 1 {
		return dErrors.New(dErrors.CodeInvariantViolation, "section must keep at least one item")
	}
	sec.Items = append(sec.Items[:itemIndex], sec.Items[itemIndex+1:]...)
	return nil
}

// SetItemQuestion replaces an item's question text.
func (c Checklist) SetItemQuestion(sectionIndex, itemIndex int, question string) error {
	if err := c.checkItem(sectionIndex, itemIndex); err != nil {
		return err
	}
	c[sectionIndex].Items[itemIndex].Question = strings.TrimSpace(question)
	return nil
}

// SetItemRequired toggles whether an item must be answered before submit.
func (c Checklist) SetItemRequired(sectionIndex, itemIndex int, required bool) error {
	if err := c.checkItem(sectionIndex, itemIndex); err != nil {
		return err
	}
	c[sectionIndex].Items[itemIndex].Required = required
	return nil
}

// SetItemType changes an item's question type. Moving away from
// multiple-choice clears the options; moving to multiple-choice leaves the
// options to be supplied before the checklist is submit-ready. Any recorded
// response is dropped since its shape no longer applies.
func (c Checklist) SetItemType(sectionIndex, itemIndex int, t ItemType) error {
	if err := c.checkItem(sectionIndex, itemIndex); err != nil {
		return err
	}
	if !t.Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown item type %q", string(t))
	}
	item := &c[sectionIndex].Items[itemIndex]
	if item.Type == t {
		return nil
	}
	item.Type = t
	item.Response = nil
	if t != TypeMultipleChoice {
		item.Options = nil
	}
	return nil
}

// SetItemOptions replaces a multiple-choice item's options.
func (c Checklist) SetItemOptions(sectionIndex, itemIndex int, options []string) error {
	if err := c.checkItem(sectionIndex, itemIndex); err != nil {
		return err
	}
	item := &c[sectionIndex].Items[itemIndex]
	if item.Type != TypeMultipleChoice {
		return dErrors.New(dErrors.CodeValidation, "options apply only to multiple-choice items")
	}
	trimmed := make([]string, 0, len(options))
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			trimmed = append(trimmed, o)
		}
	}
	if len(trimmed) == 0 {
		return dErrors.New(dErrors.CodeValidation, "multiple-choice item needs at least one option")
	}
	item.Options = trimmed
	return nil
}

// Validate checks submit-readiness of the structure: at least one section,
// every section titled with at least one question, options present on
// multiple-choice items, ids unique within their scope.
func (c Checklist) Validate() error {
	if len(c) == 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "checklist must have at least one section")
	}
	sectionIDs := make(map[id.SectionID]struct{}, len(c))
	for si := range c {
		sec := &c[si]
		if strings.TrimSpace(sec.Title) == "" {
			return dErrors.Newf(dErrors.CodeValidation, "section %d has no title", si+1)
		}
		if _, dup := sectionIDs[sec.ID]; dup {
			return dErrors.Newf(dErrors.CodeInvariantViolation, "duplicate section id %q", sec.ID)
		}
		sectionIDs[sec.ID] = struct{}{}
		if len(sec.Items) == 0 {
			return dErrors.Newf(dErrors.CodeInvariantViolation, "section %q has no items", sec.Title)
		}
		itemIDs := make(map[id.ItemID]struct{}, len(sec.Items))
		for ii := range sec.Items {
			item := &sec.Items[ii]
			if !item.Type.Valid() {
				return dErrors.Newf(dErrors.CodeValidation, "item %q has unknown type %q", item.ID, string(item.Type))
			}
			if strings.TrimSpace(item.Question) == "" {
				return dErrors.Newf(dErrors.CodeValidation, "item %d in section %q has no question", ii+1, sec.Title)
			}
			if item.Type == TypeMultipleChoice && len(item.Options) == 0 {
				return dErrors.Newf(dErrors.CodeValidation, "multiple-choice item %q has no options", item.ID)
			}
			if _, dup := itemIDs[item.ID]; dup {
				return dErrors.Newf(dErrors.CodeInvariantViolation, "duplicate item id %q in section %q", item.ID, sec.Title)
			}
			itemIDs[item.ID] = struct{}{}
		}
	}
	return nil
}

// EnsureIDs assigns fresh ids to sections and items that arrived without
// one, such as checklists supplied raw by API clients.
func (c Checklist) EnsureIDs() {
	for si := range c {
		if c[si].ID == "" {
			c[si].ID = id.NewSectionID()
		}
		for ii := range c[si].Items {
			if c[si].Items[ii].ID == "" {
				c[si].Items[ii].ID = id.NewItemID()
			}
		}
	}
}

// Clone deep-copies the tree so stored snapshots never alias caller memory.
func (c Checklist) Clone() Checklist {
	out := make(Checklist, len(c))
	for si, sec := range c {
		items := make([]Item, len(sec.Items))
		for ii, item := range sec.Items {
			if item.Options != nil {
				item.Options = append([]string(nil), item.Options...)
			}
			if item.Response != nil {
				r := *item.Response
				item.Response = &r
			}
			items[ii] = item
		}
		out[si] = Section{ID: sec.ID, Title: sec.Title, Items: items}
	}
	return out
}

func (c Checklist) checkSection(sectionIndex int) error {
	if sectionIndex < 0 || sectionIndex >= len(c) {
		return dErrors.Newf(dErrors.CodeIndexOutOfRange, "section index %d out of range", sectionIndex)
	}
	return nil
}

func (c Checklist) checkItem(sectionIndex, itemIndex int) error {
	if err := c.checkSection(sectionIndex); err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(c[sectionIndex].Items) {
		return dErrors.Newf(dErrors.CodeIndexOutOfRange, "item index %d out of range in section %d", itemIndex, sectionIndex)
	}
	return nil
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
