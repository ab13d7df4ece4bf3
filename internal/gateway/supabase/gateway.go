package supabase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Anshpatel2434/Demaze-task/internal/gateway"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
)

// Gateway implements gateway.Gateway against a Supabase project:
// PostgREST for rows, GoTrue for the session.
type Gateway struct {
	client *Client
}

// New creates a Gateway on top of an existing client.
func New(client *Client) *Gateway {
	return &Gateway{client: client}
}

// Client exposes the underlying HTTP client, mainly so the session layer
// can install tokens obtained from sign-in.
func (g *Gateway) Client() *Client {
	return g.client
}

// ListProfiles returns a page of user profiles ordered by creation time
// descending, optionally filtered by an email substring.
func (g *Gateway) ListProfiles(
	ctx context.Context,
	q gateway.ProfileQuery,
) ([]model.UserProfile, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("order", "created_at.desc")
	params.Set("offset", fmt.Sprint(q.Offset))
	params.Set("limit", fmt.Sprint(q.Limit))
	if q.SearchEmail != "" {
		params.Set("email", "ilike.*"+q.SearchEmail+"*")
	}

	var rows []model.UserProfile
	if err := g.client.Get(ctx, "/rest/v1/user_profiles?"+params.Encode(), &rows); err != nil {
		return nil, err
	}

	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// ListProjects returns a page of projects ordered by creation time
// descending, filtered by assignee and/or completion state.
func (g *Gateway) ListProjects(
	ctx context.Context,
	q gateway.ProjectQuery,
) ([]model.Project, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("order", "created_at.desc")
	params.Set("offset", fmt.Sprint(q.Offset))
	params.Set("limit", fmt.Sprint(q.Limit))
	if q.AssignedUserID != "" {
		params.Set("assigned_user_id", "eq."+q.AssignedUserID)
	}
	if q.IsCompleted != nil {
		params.Set("is_completed", fmt.Sprintf("eq.%t", *q.IsCompleted))
	}

	var rows []model.Project
	if err := g.client.Get(ctx, "/rest/v1/projects?"+params.Encode(), &rows); err != nil {
		return nil, err
	}

	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// InsertProject creates a project row. New rows always start in-progress
// and flagged admin-created; the stored record is returned.
func (g *Gateway) InsertProject(
	ctx context.Context,
	in model.CreateProjectInput,
) (model.Project, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Project{}, err
	}

	body := map[string]any{
		"title":            in.Title,
		"description":      in.Description,
		"assigned_user_id": in.AssignedUserID,
		"created_by_admin": true,
		"is_completed":     false,
	}

	// Prefer: return=representation makes PostgREST echo the stored row.
	var rows []model.Project
	err := g.client.Post(ctx, "/rest/v1/projects",
		map[string]string{"Prefer": "return=representation"},
		body, &rows)
	if err != nil {
		return model.Project{}, err
	}
	if len(rows) == 0 {
		return model.Project{}, &gateway.Error{
			Op:      "insert project",
			Message: "no row returned",
		}
	}

	created := rows[0]
	if err := created.Validate(); err != nil {
		return model.Project{}, err
	}
	return created, nil
}

// UpdateProject applies a partial patch to a project row and returns the
// stored record.
func (g *Gateway) UpdateProject(
	ctx context.Context,
	id string,
	patch model.ProjectPatch,
) (model.Project, error) {
	if err := patch.Validate(); err != nil {
		return model.Project{}, err
	}

	params := url.Values{}
	params.Set("id", "eq."+id)

	var rows []model.Project
	err := g.client.Patch(ctx, "/rest/v1/projects?"+params.Encode(),
		map[string]string{"Prefer": "return=representation"},
		patch.Fields(), &rows)
	if err != nil {
		return model.Project{}, err
	}
	if len(rows) == 0 {
		return model.Project{}, &gateway.Error{
			Op:      "update project",
			Message: fmt.Sprintf("project %s not found", id),
		}
	}

	updated := rows[0]
	if err := updated.Validate(); err != nil {
		return model.Project{}, err
	}
	return updated, nil
}
