package model

import (
	"net/mail"
	"time"
)

// UserProfile is the account record maintained by the identity service.
// Profiles are read-only from the client's perspective.
type UserProfile struct {
	ID       string  `json:"id" db:"id"`
	FullName *string `json:"full_name" db:"full_name"`
	Email    string  `json:"email" db:"email"`

	// IsAdmin is authoritative for role decisions made by the UI layer.
	IsAdmin bool `json:"is_admin" db:"is_admin"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EntityID returns the stable identifier used for cache de-duplication.
func (u UserProfile) EntityID() string { return u.ID }

// Validate checks the profile against its schema. The returned error is a
// *ValidationError listing every failed constraint.
func (u UserProfile) Validate() error {
	var issues []string

	if u.ID == "" {
		issues = append(issues, "profile id is required")
	}
	if u.Email == "" {
		issues = append(issues, "email is required")
	} else if _, err := mail.ParseAddress(u.Email); err != nil {
		issues = append(issues, "email is not a valid address")
	}
	if !u.UpdatedAt.IsZero() && u.UpdatedAt.Before(u.CreatedAt) {
		issues = append(issues, "updated_at precedes created_at")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// DisplayName returns the full name when present, otherwise the email.
func (u UserProfile) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Email
}
