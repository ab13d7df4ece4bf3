package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Anshpatel2434/Demaze-task/internal/gateway"
	"github.com/Anshpatel2434/Demaze-task/internal/model"
)

// Gateway implements gateway.Gateway on a local SQLite database. It
// exists for offline/dev use and as a realistic double in tests; the
// contract (ordering, validation, error shapes) matches the remote one.
type Gateway struct {
	db *sqlx.DB
}

// New opens (or creates) a SQLite database at dbPath, enables WAL mode,
// runs any pending schema migrations, and seeds a local admin account on
// first run.
func New(dbPath string) (*Gateway, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	g := &Gateway{db: db}
	if err := g.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	if err := g.seed(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding local gateway: %w", err)
	}

	return g, nil
}

// Close closes the underlying database connection.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (g *Gateway) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := g.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = g.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := g.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// seed creates the local admin profile and signs it in, so offline mode
// is usable without a remote identity service.
func (g *Gateway) seed() error {
	var count int
	if err := g.db.Get(&count, "SELECT COUNT(*) FROM user_profiles"); err != nil {
		return fmt.Errorf("counting profiles: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	adminID := uuid.New().String()
	name := "Local Admin"

	_, err := g.db.Exec(`
		INSERT INTO user_profiles (id, full_name, email, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)`,
		adminID, name, "admin@demaze.local", now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting admin profile: %w", err)
	}

	_, err = g.db.Exec(`INSERT OR REPLACE INTO session (id, user_id) VALUES (1, ?)`, adminID)
	if err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	return nil
}

// AddProfile inserts a profile record, mainly for dev seeding and tests.
func (g *Gateway) AddProfile(ctx context.Context, p model.UserProfile) (model.UserProfile, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	if err := p.Validate(); err != nil {
		return model.UserProfile{}, err
	}

	_, err := g.db.ExecContext(ctx, `
		INSERT INTO user_profiles (id, full_name, email, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.FullName, p.Email, boolToInt(p.IsAdmin), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return model.UserProfile{}, &gateway.Error{Op: "insert profile", Message: err.Error()}
	}
	return p, nil
}

// CurrentUserID returns the locally signed-in user id, or "" after
// sign-out.
func (g *Gateway) CurrentUserID(ctx context.Context) (string, error) {
	var userID sql.NullString
	err := g.db.GetContext(ctx, &userID, "SELECT user_id FROM session WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", &gateway.Error{Op: "current user", Message: err.Error()}
	}
	if !userID.Valid {
		return "", nil
	}
	return userID.String, nil
}

// SignInAs marks the given user as the active local session.
func (g *Gateway) SignInAs(ctx context.Context, userID string) error {
	_, err := g.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO session (id, user_id) VALUES (1, ?)", userID)
	if err != nil {
		return &gateway.Error{Op: "sign in", Message: err.Error()}
	}
	return nil
}

// SignOut clears the local session.
func (g *Gateway) SignOut(ctx context.Context) error {
	_, err := g.db.ExecContext(ctx, "UPDATE session SET user_id = NULL WHERE id = 1")
	if err != nil {
		return &gateway.Error{Op: "sign out", Message: err.Error()}
	}
	return nil
}

// Profile fetches a profile by id, or nil when absent.
func (g *Gateway) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var p model.UserProfile
	err := g.db.GetContext(ctx, &p, "SELECT * FROM user_profiles WHERE id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &gateway.Error{Op: "get profile", Message: err.Error()}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProfiles returns a page of profiles ordered by creation time
// descending, optionally filtered by an email substring.
func (g *Gateway) ListProfiles(
	ctx context.Context,
	q gateway.ProfileQuery,
) ([]model.UserProfile, error) {
	query := "SELECT * FROM user_profiles"
	var args []interface{}

	if s := strings.TrimSpace(q.SearchEmail); s != "" {
		query += " WHERE email LIKE ?"
		args = append(args, "%"+s+"%")
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	var rows []model.UserProfile
	if err := g.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &gateway.Error{Op: "list profiles", Message: err.Error()}
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
	var conditions []string
	var args []interface{}

	if q.AssignedUserID != "" {
		conditions = append(conditions, "assigned_user_id = ?")
		args = append(args, q.AssignedUserID)
	}
	if q.IsCompleted != nil {
		conditions = append(conditions, "is_completed = ?")
		args = append(args, boolToInt(*q.IsCompleted))
	}

	query := "SELECT * FROM projects"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	var rows []model.Project
	if err := g.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &gateway.Error{Op: "list projects", Message: err.Error()}
	}

	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// InsertProject creates a project row and returns the stored record.
func (g *Gateway) InsertProject(
	ctx context.Context,
	in model.CreateProjectInput,
) (model.Project, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Project{}, err
	}

	now := time.Now().UTC()
	p := model.Project{
		ID:             uuid.New().String(),
		AssignedUserID: in.AssignedUserID,
		Title:          in.Title,
		Description:    in.Description,
		IsCompleted:    false,
		CreatedByAdmin: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := g.db.ExecContext(ctx, `
		INSERT INTO projects (id, assigned_user_id, title, description,
			is_completed, created_by_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.AssignedUserID, p.Title, p.Description,
		boolToInt(p.IsCompleted), boolToInt(p.CreatedByAdmin),
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return model.Project{}, &gateway.Error{Op: "insert project", Message: err.Error()}
	}

	return p, nil
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

	var sets []string
	var args []interface{}
	for column, value := range patch.Fields() {
		sets = append(sets, column+" = ?")
		if b, ok := value.(bool); ok {
			value = boolToInt(b)
		}
		args = append(args, value)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	result, err := g.db.ExecContext(ctx,
		"UPDATE projects SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return model.Project{}, &gateway.Error{Op: "update project", Message: err.Error()}
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return model.Project{}, &gateway.Error{
			Op:      "update project",
			Message: fmt.Sprintf("project %s not found", id),
		}
	}

	var updated model.Project
	if err := g.db.GetContext(ctx, &updated, "SELECT * FROM projects WHERE id = ?", id); err != nil {
		return model.Project{}, &gateway.Error{Op: "update project", Message: err.Error()}
	}
	if err := updated.Validate(); err != nil {
		return model.Project{}, err
	}
	return updated, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
