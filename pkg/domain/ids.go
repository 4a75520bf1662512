// Package domain defines the typed identifiers shared across modules.
//
// Wrapping uuid.UUID in distinct types keeps audit, auditor, and user ids
// from being mixed up at call sites; the compiler does the checking.
package domain

import "github.com/google/uuid"

// AuditID identifies one audit run.
type AuditID uuid.UUID

func NewAuditID() AuditID { return AuditID(uuid.New()) }

func ParseAuditID(s string) (AuditID, error) {
	u, err := uuid.Parse(s)
	return AuditID(u), err
}

func (i AuditID) String() string { return uuid.UUID(i).String() }
func (i AuditID) IsNil() bool    { return uuid.UUID(i) == uuid.Nil }

func (i AuditID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *AuditID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*i = AuditID(u)
	return nil
}

// AuditorID identifies an auditor.
type AuditorID uuid.UUID

func NewAuditorID() AuditorID { return AuditorID(uuid.New()) }

func ParseAuditorID(s string) (AuditorID, error) {
	u, err := uuid.Parse(s)
	return AuditorID(u), err
}

func (i AuditorID) String() string { return uuid.UUID(i).String() }
func (i AuditorID) IsNil() bool    { return uuid.UUID(i) == uuid.Nil }

func (i AuditorID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *AuditorID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*i = AuditorID(u)
	return nil
}

// UserID identifies an authenticated user acting on the system. It is
// threaded through for trail purposes only; no domain invariant depends on it.
type UserID uuid.UUID

func NewUserID() UserID { return UserID(uuid.New()) }

func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	return UserID(u), err
}

func (i UserID) String() string { return uuid.UUID(i).String() }
func (i UserID) IsNil() bool    { return uuid.UUID(i) == uuid.Nil }

func (i UserID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *UserID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*i = UserID(u)
	return nil
}

// TemplateID identifies a reusable checklist template.
type TemplateID uuid.UUID

func NewTemplateID() TemplateID { return TemplateID(uuid.New()) }

func ParseTemplateID(s string) (TemplateID, error) {
	u, err := uuid.Parse(s)
	return TemplateID(u), err
}

func (i TemplateID) String() string { return uuid.UUID(i).String() }
func (i TemplateID) IsNil() bool    { return uuid.UUID(i) == uuid.Nil }

func (i TemplateID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *TemplateID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*i = TemplateID(u)
	return nil
}

// SectionID identifies a section within an audit. Sections are created and
// addressed inside their owning aggregate, so an opaque string is enough.
type SectionID string

func NewSectionID() SectionID { return SectionID(uuid.NewString()) }

func (i SectionID) String() string { return string(i) }

// ItemID identifies a checklist item within a section.
type ItemID string

func NewItemID() ItemID { return ItemID(uuid.NewString()) }

func (i ItemID) String() string { return string(i) }
