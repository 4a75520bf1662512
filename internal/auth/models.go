// Package auth authenticates dashboard users and issues the bearer tokens the
// API requires.
package auth

import (
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	id "foodaudit/pkg/domain"
	dErrors "foodaudit/pkg/domain-errors"
)

// Role gates what an authenticated user may do. Reviewers approve audits;
// admins additionally manage the auditor directory.
type Role string

const (
	RoleAuditor  Role = "auditor"
	RoleReviewer Role = "reviewer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAuditor, RoleReviewer, RoleAdmin:
		return true
	}
	return false
}

// User is a dashboard account. The password is stored only as a bcrypt hash.
type User struct {
	ID           id.UserID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser validates fields and hashes the password.
func NewUser(userID id.UserID, email, name, password string, role Role, now time.Time) (*User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid email %q", email)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name must not be empty")
	}
	if len(password) < 8 {
		return nil, dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	if !role.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown role %q", string(role))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	return &User{
		ID:           userID,
		Email:        strings.ToLower(email),
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
	}, nil
}

// CheckPassword reports whether the cleartext matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
