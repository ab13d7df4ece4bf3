// Package mutate coordinates optimistic project mutations against the
// query cache: speculative writes are applied to resident cache entries
// before the network round-trip, reconciled with the server record on
// success, and rolled back exactly on failure.
//
// Each mutation is split in three so it fits the event loop's threading
// rules: Stage* runs on the loop and writes speculative data, Execute*
// is a pure gateway call safe to run in a background command, and
// Resolve*/Rollback* run on the loop again with the outcome.
package mutate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Anshpatel2434/Demaze-task/internal/cache"
	"github.com/Anshpatel2434/Demaze-task/internal/gateway"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
)

// Coordinator owns the optimistic write path for projects.
type Coordinator struct {
	gw       gateway.Gateway
	projects *cache.Store[cache.ProjectKey, model.Project]
	pageSize int

	now    func() time.Time
	tempID func() string
}

// New creates a coordinator over the given gateway and project cache.
func New(
	gw gateway.Gateway,
	projects *cache.Store[cache.ProjectKey, model.Project],
	pageSize int,
) *Coordinator {
	return &Coordinator{
		gw:       gw,
		projects: projects,
		pageSize: pageSize,
		now:      func() time.Time { return time.Now().UTC() },
		tempID:   func() string { return "temp-" + uuid.New().String() },
	}
}

// Clock overrides the timestamp source, for tests.
func (c *Coordinator) Clock(now func() time.Time) { c.now = now }

// TempIDs overrides the placeholder id source, for tests.
func (c *Coordinator) TempIDs(gen func() string) { c.tempID = gen }

// journal is the undo log for one staged mutation. Undos run in reverse
// order so overlapping cache entries unwind to their exact prior state.
type journal struct {
	undos []func()
}

func (j *journal) add(undo func()) { j.undos = append(j.undos, undo) }

func (j *journal) rollback() {
	for i := len(j.undos) - 1; i >= 0; i-- {
		j.undos[i]()
	}
	j.undos = nil
}

// CreateTicket tracks one optimistic create from staging to settlement.
type CreateTicket struct {
	Input  model.CreateProjectInput
	TempID string

	journal journal
}

// StageCreate validates the input and prepends a placeholder project to
// the default (unfiltered) cache entry. The returned ticket must be
// settled with ResolveCreate or RollbackCreate.
func (c *Coordinator) StageCreate(in model.CreateProjectInput) (*CreateTicket, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := c.now()
	placeholder := model.Project{
		ID:             c.tempID(),
		AssignedUserID: in.AssignedUserID,
		Title:          in.Title,
		Description:    in.Description,
		CreatedByAdmin: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	t := &CreateTicket{Input: in, TempID: placeholder.ID}
	for _, key := range c.projects.Keys() {
		if !key.Matches(placeholder) {
			continue
		}
		undo, ok := c.projects.Update(key, func(p *cache.Page[model.Project]) {
			p.Items = append([]model.Project{placeholder}, p.Items...)
		})
		if ok {
			t.journal.add(undo)
		}
	}
	return t, nil
}

// ExecuteCreate performs the network insert. It touches no shared state
// and may run concurrently with the event loop.
func (c *Coordinator) ExecuteCreate(ctx context.Context, t *CreateTicket) (model.Project, error) {
	return c.gw.InsertProject(ctx, t.Input)
}

// ResolveCreate replaces the placeholder with the authoritative server
// record: the placeholder is removed everywhere it was inserted, and the
// real record is prepended to every resident entry whose filter it
// matches.
func (c *Coordinator) ResolveCreate(t *CreateTicket, created model.Project) {
	t.journal.undos = nil

	for _, key := range c.projects.Keys() {
		key := key
		c.projects.Update(key, func(p *cache.Page[model.Project]) {
			kept := p.Items[:0:0]
			for _, item := range p.Items {
				if item.ID != t.TempID && item.ID != created.ID {
					kept = append(kept, item)
				}
			}
			if key.Matches(created) {
				kept = append([]model.Project{created}, kept...)
			}
			p.Items = kept
		})
	}
}

// RollbackCreate removes the placeholder by undoing the staged writes.
func (c *Coordinator) RollbackCreate(t *CreateTicket) {
	t.journal.rollback()
}

// UpdateTicket tracks one optimistic update from staging to settlement.
type UpdateTicket struct {
	ProjectID string
	Patch     model.ProjectPatch
	Prior     model.Project

	journal journal
}

// StageUpdate validates the patch and applies it speculatively to every
// resident cache entry: patched in place where the record stays
// matching, removed where it no longer matches the entry's filter, and
// inserted best-effort into resident entries it newly matches. prior is
// the current record as known to the caller.
func (c *Coordinator) StageUpdate(
	prior model.Project,
	patch model.ProjectPatch,
) (*UpdateTicket, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	patched := patch.Apply(prior, c.now())
	t := &UpdateTicket{ProjectID: prior.ID, Patch: patch, Prior: prior}

	for _, key := range c.projects.Keys() {
		key := key
		resident := c.projects.Contains(key, prior.ID)
		matches := key.Matches(patched)

		var undo func()
		var ok bool
		switch {
		case resident && matches:
			undo, ok = c.projects.Update(key, func(p *cache.Page[model.Project]) {
				for i := range p.Items {
					if p.Items[i].ID == prior.ID {
						p.Items[i] = patched
					}
				}
			})
		case resident && !matches:
			undo, ok = c.projects.Update(key, func(p *cache.Page[model.Project]) {
				kept := p.Items[:0:0]
				for _, item := range p.Items {
					if item.ID != prior.ID {
						kept = append(kept, item)
					}
				}
				p.Items = kept
			})
		case !resident && matches:
			// Best-effort insert; ordering is reconciled on the next
			// refetch of this entry.
			undo, ok = c.projects.Update(key, func(p *cache.Page[model.Project]) {
				p.Items = append([]model.Project{patched}, p.Items...)
			})
		}
		if ok {
			t.journal.add(undo)
		}
	}
	return t, nil
}

// ExecuteUpdate performs the network patch. It touches no shared state
// and may run concurrently with the event loop.
func (c *Coordinator) ExecuteUpdate(ctx context.Context, t *UpdateTicket) (model.Project, error) {
	return c.gw.UpdateProject(ctx, t.ProjectID, t.Patch)
}

// ResolveUpdate swaps the speculative record for the authoritative one
// wherever it is resident and flags the touched entries stale, so
// ordering drift from best-effort inserts is corrected by refetch.
func (c *Coordinator) ResolveUpdate(t *UpdateTicket, updated model.Project) {
	t.journal.undos = nil

	for _, key := range c.projects.Keys() {
		if !c.projects.Contains(key, updated.ID) {
			continue
		}
		c.projects.Update(key, func(p *cache.Page[model.Project]) {
			for i := range p.Items {
				if p.Items[i].ID == updated.ID {
					p.Items[i] = updated
				}
			}
		})
	}
	c.projects.MarkStaleContaining(updated.ID)
}

// RollbackUpdate restores every touched cache entry to its pre-staging
// state.
func (c *Coordinator) RollbackUpdate(t *UpdateTicket) {
	t.journal.rollback()
}
