package cache

import (
	"strings"

	"github.com/Anshpatel2434/Demaze-task/internal/gateway"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
)

// Completion is the tri-state completion filter for project list keys.
// Keys must stay comparable, so this replaces a *bool.
type Completion int

const (
	CompletionAny Completion = iota
	CompletionOpen
	CompletionDone
)

// Bool converts the filter to the gateway's optional-bool form.
func (c Completion) Bool() *bool {
	switch c {
	case CompletionOpen:
		v := false
		return &v
	case CompletionDone:
		v := true
		return &v
	default:
		return nil
	}
}

// Next advances the filter one step: any, open, done, back to any.
func (c Completion) Next() Completion {
	switch c {
	case CompletionAny:
		return CompletionOpen
	case CompletionOpen:
		return CompletionDone
	default:
		return CompletionAny
	}
}

// String returns the filter's display label.
func (c Completion) String() string {
	switch c {
	case CompletionOpen:
		return "open"
	case CompletionDone:
		return "completed"
	default:
		return "all"
	}
}

// ProjectKey identifies a cached project list by its filter criteria.
// Offset is deliberately absent: pages at different offsets merge into
// the same entry.
type ProjectKey struct {
	AssignedUserID string
	Completion     Completion
	Limit          int
}

// DefaultProjectKey is the unfiltered admin-board key.
func DefaultProjectKey(limit int) ProjectKey {
	return ProjectKey{Limit: limit}
}

// AssigneeKey is the per-user column key.
func AssigneeKey(userID string, limit int) ProjectKey {
	return ProjectKey{AssignedUserID: userID, Limit: limit}
}

// Query converts the key into a gateway query at the given offset.
func (k ProjectKey) Query(offset int) gateway.ProjectQuery {
	return gateway.ProjectQuery{
		AssignedUserID: k.AssignedUserID,
		IsCompleted:    k.Completion.Bool(),
		Offset:         offset,
		Limit:          k.Limit,
	}
}

// Matches reports whether a project satisfies the key's filter criteria,
// independent of pagination. Used to decide which resident entries an
// updated record belongs in.
func (k ProjectKey) Matches(p model.Project) bool {
	if k.AssignedUserID != "" && p.AssignedUserID != k.AssignedUserID {
		return false
	}
	switch k.Completion {
	case CompletionOpen:
		return !p.IsCompleted
	case CompletionDone:
		return p.IsCompleted
	default:
		return true
	}
}

// ProfileKey identifies a cached user-profile list.
type ProfileKey struct {
	SearchEmail string
	Limit       int
}

// NormalizedProfileKey trims and lowercases the search term so that
// "Alice" and " alice " share an entry.
func NormalizedProfileKey(search string, limit int) ProfileKey {
	return ProfileKey{
		SearchEmail: strings.ToLower(strings.TrimSpace(search)),
		Limit:       limit,
	}
}

// Query converts the key into a gateway query at the given offset.
func (k ProfileKey) Query(offset int) gateway.ProfileQuery {
	return gateway.ProfileQuery{
		SearchEmail: k.SearchEmail,
		Offset:      offset,
		Limit:       k.Limit,
	}
}

// Matches reports whether a profile satisfies the key's search filter.
func (k ProfileKey) Matches(p model.UserProfile) bool {
	if k.SearchEmail == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Email), k.SearchEmail)
}
