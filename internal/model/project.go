package model

import (
	"strings"
	"time"
)

// Project is a unit of work assigned by an administrator to a user.
type Project struct {
	ID             string  `json:"id" db:"id"`
	AssignedUserID string  `json:"assigned_user_id" db:"assigned_user_id"`
	Title          string  `json:"title" db:"title"`
	Description    *string `json:"description" db:"description"`

	IsCompleted    bool `json:"is_completed" db:"is_completed"`
	CreatedByAdmin bool `json:"created_by_admin" db:"created_by_admin"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EntityID returns the stable identifier used for cache de-duplication.
func (p Project) EntityID() string { return p.ID }

// Validate checks the project against its schema. The returned error is a
// *ValidationError listing every failed constraint.
func (p Project) Validate() error {
	var issues []string

	if p.ID == "" {
		issues = append(issues, "project id is required")
	}
	if p.AssignedUserID == "" {
		issues = append(issues, "assigned user is required")
	}
	if len(p.Title) < 1 {
		issues = append(issues, "title cannot be empty")
	}
	if !p.UpdatedAt.IsZero() && p.UpdatedAt.Before(p.CreatedAt) {
		issues = append(issues, "updated_at precedes created_at")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// NormalizeDescription trims the given text and maps blank input to nil,
// so empty descriptions are stored as NULL rather than "".
func NormalizeDescription(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// CreateProjectInput carries the caller-supplied fields for a new project.
// New projects are always created in-progress and flagged admin-created.
type CreateProjectInput struct {
	AssignedUserID string  `json:"assigned_user_id"`
	Title          string  `json:"title"`
	Description    *string `json:"description"`
}

// Normalize trims the title and normalizes a blank description to nil.
func (in CreateProjectInput) Normalize() CreateProjectInput {
	in.Title = strings.TrimSpace(in.Title)
	if in.Description != nil {
		in.Description = NormalizeDescription(*in.Description)
	}
	return in
}

// Validate checks the create input; assignment is required at creation.
func (in CreateProjectInput) Validate() error {
	var issues []string

	if strings.TrimSpace(in.Title) == "" {
		issues = append(issues, "title cannot be empty")
	}
	if in.AssignedUserID == "" {
		issues = append(issues, "assigned user is required")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// ProjectPatch is a partial update. Nil fields are left untouched.
type ProjectPatch struct {
	AssignedUserID *string
	Title          *string
	Description    *string
	IsCompleted    *bool
}

// IsEmpty reports whether the patch carries no fields.
func (p ProjectPatch) IsEmpty() bool {
	return p.AssignedUserID == nil &&
		p.Title == nil &&
		p.Description == nil &&
		p.IsCompleted == nil
}

// Validate rejects empty patches and per-field constraint violations
// before any network call is made.
func (p ProjectPatch) Validate() error {
	var issues []string

	if p.IsEmpty() {
		issues = append(issues, "nothing to update")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		issues = append(issues, "title cannot be empty")
	}
	if p.AssignedUserID != nil && *p.AssignedUserID == "" {
		issues = append(issues, "assigned user is required")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Fields returns the normalized wire representation of the patch: only
// the set fields, with a blank description mapped to an explicit null.
func (p ProjectPatch) Fields() map[string]any {
	fields := make(map[string]any)

	if p.AssignedUserID != nil {
		fields["assigned_user_id"] = *p.AssignedUserID
	}
	if p.Title != nil {
		fields["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		if d := NormalizeDescription(*p.Description); d != nil {
			fields["description"] = *d
		} else {
			fields["description"] = nil
		}
	}
	if p.IsCompleted != nil {
		fields["is_completed"] = *p.IsCompleted
	}

	return fields
}

// Apply overlays the patch onto a project copy and bumps updated_at.
func (p ProjectPatch) Apply(project Project, now time.Time) Project {
	if p.AssignedUserID != nil {
		project.AssignedUserID = *p.AssignedUserID
	}
	if p.Title != nil {
		project.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		project.Description = NormalizeDescription(*p.Description)
	}
	if p.IsCompleted != nil {
		project.IsCompleted = *p.IsCompleted
	}
	project.UpdatedAt = now
	return project
}
