// Package compliance derives the non-compliance report from an audit's
// responses. Pure reads: nothing here stores state or mutates the aggregate,
// so two calls on an unchanged audit always produce identical output.
package compliance

import (
	"foodaudit/internal/audit/models"
	"foodaudit/internal/checklist"
	id "foodaudit/pkg/domain"
)

// Finding is one non-compliant answer with its section context. Findings are
// ephemeral: recomputed on demand, never persisted.
type Finding struct {
	// Number is the 1-based position in the report, assigned in section
	// declaration order then item declaration order. Printed reports and
	// reviewers refer to issues by this number.
	Number       int            `json:"number"`
	SectionID    id.SectionID   `json:"section_id"`
	SectionTitle string         `json:"section_title"`
	Item         checklist.Item `json:"item"`
}

// Derive scans sections and items in declaration order and reports every item
// whose response is a strict boolean "No". Numeric zero, empty strings, and
// absent responses are not findings; non-compliance is a yes/no signal.
func Derive(audit *models.Audit) []Finding {
	var findings []Finding
	for si := range audit.Sections {
		sec := &audit.Sections[si]
		for ii := range sec.Items {
			item := &sec.Items[ii]
			if item.Response == nil || !item.Response.IsNo() {
				continue
			}
			findings = append(findings, Finding{
				Number:       len(findings) + 1,
				SectionID:    sec.ID,
				SectionTitle: sec.Title,
				Item:         *item,
			})
		}
	}
	return findings
}

// Count returns the number of non-compliant items.
func Count(audit *models.Audit) int {
	n := 0
	for si := range audit.Sections {
		for ii := range audit.Sections[si].Items {
			r := audit.Sections[si].Items[ii].Response
			if r != nil && r.IsNo() {
				n++
			}
		}
	}
	return n
}
