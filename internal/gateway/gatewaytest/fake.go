// Package gatewaytest provides an in-memory gateway.Gateway with
// scriptable failures for cache and coordinator tests.
package gatewaytest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Anshpatel2434/Demaze-task/internal/gateway"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
)

// Fake is an in-memory Gateway. Zero value is usable; populate Profiles
// and Projects directly, or set the *Err fields to force failures.
type Fake struct {
	UserID   string
	Profiles []model.UserProfile
	Projects []model.Project

	// Injected failures; each applies to every call until cleared.
	ListErr   error
	InsertErr error
	UpdateErr error
	AuthErr   error

	// Calls records the operation names in invocation order.
	Calls []string

	nextID int
	now    func() time.Time
}

// Now overrides the clock used for server-assigned timestamps.
func (f *Fake) Now(clock func() time.Time) { f.now = clock }

func (f *Fake) clock() time.Time {
	if f.now != nil {
		return f.now()
	}
	return time.Now().UTC()
}

func (f *Fake) record(op string) {
	f.Calls = append(f.Calls, op)
}

// CallCount returns how many recorded calls match the given op name.
func (f *Fake) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *Fake) CurrentUserID(ctx context.Context) (string, error) {
	f.record("current_user")
	if f.AuthErr != nil {
		return "", f.AuthErr
	}
	return f.UserID, nil
}

func (f *Fake) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	f.record("profile")
	if f.AuthErr != nil {
		return nil, f.AuthErr
	}
	for _, p := range f.Profiles {
		if p.ID == userID {
			profile := p
			return &profile, nil
		}
	}
	return nil, nil
}

func (f *Fake) ListProfiles(ctx context.Context, q gateway.ProfileQuery) ([]model.UserProfile, error) {
	f.record("list_profiles")
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	var matched []model.UserProfile
	search := strings.ToLower(strings.TrimSpace(q.SearchEmail))
	for _, p := range f.Profiles {
		if search != "" && !strings.Contains(strings.ToLower(p.Email), search) {
			continue
		}
		matched = append(matched, p)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return page(matched, q.Offset, q.Limit), nil
}

func (f *Fake) ListProjects(ctx context.Context, q gateway.ProjectQuery) ([]model.Project, error) {
	f.record("list_projects")
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	var matched []model.Project
	for _, p := range f.Projects {
		if q.AssignedUserID != "" && p.AssignedUserID != q.AssignedUserID {
			continue
		}
		if q.IsCompleted != nil && p.IsCompleted != *q.IsCompleted {
			continue
		}
		matched = append(matched, p)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return page(matched, q.Offset, q.Limit), nil
}

func (f *Fake) InsertProject(ctx context.Context, in model.CreateProjectInput) (model.Project, error) {
	f.record("insert_project")
	if f.InsertErr != nil {
		return model.Project{}, f.InsertErr
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Project{}, err
	}

	f.nextID++
	now := f.clock()
	p := model.Project{
		ID:             fmt.Sprintf("real-%d", f.nextID),
		AssignedUserID: in.AssignedUserID,
		Title:          in.Title,
		Description:    in.Description,
		CreatedByAdmin: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.Projects = append(f.Projects, p)
	return p, nil
}

func (f *Fake) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	f.record("update_project")
	if f.UpdateErr != nil {
		return model.Project{}, f.UpdateErr
	}

	if err := patch.Validate(); err != nil {
		return model.Project{}, err
	}

	for i, p := range f.Projects {
		if p.ID == id {
			f.Projects[i] = patch.Apply(p, f.clock())
			return f.Projects[i], nil
		}
	}
	return model.Project{}, &gateway.Error{
		Op:      "update project",
		Message: fmt.Sprintf("project %s not found", id),
	}
}

func (f *Fake) SignOut(ctx context.Context) error {
	f.record("sign_out")
	if f.AuthErr != nil {
		return f.AuthErr
	}
	f.UserID = ""
	return nil
}

// page slices out [offset, offset+limit) with bounds clamping.
func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
