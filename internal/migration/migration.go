// Package migration brings a SQL store's schema up to the embedded version.
// Files are named NNN_description.sql and applied in version order, each in
// its own transaction together with the schema_version bump.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/smallwins/internal/logger"
)

// ErrSchemaTooNew means the store was migrated by a newer smallwins.
var ErrSchemaTooNew = errors.New("store schema is newer than this build supports")

// Migration is one versioned schema file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Status compares the store's schema with the embedded files.
type Status struct {
	Current int
	Latest  int
	Pending []Migration
}

func (s Status) UpToDate() bool { return s.Current == s.Latest }
func (s Status) TooNew() bool   { return s.Current > s.Latest }

// Runner applies migrations from files to db. Statements are rebound to the
// driver's placeholder style, so SQLite and Postgres share it.
type Runner struct {
	db    *sqlx.DB
	files fs.FS
}

func NewRunner(db *sqlx.DB, files fs.FS) *Runner {
	return &Runner{db: db, files: files}
}

// Parse lists the migrations in files, sorted by version. Non-.sql entries
// are ignored.
func Parse(files fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var out []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		version, name, err := parseName(entry.Name())
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d (%s and %s)", version, prev, entry.Name())
		}
		seen[version] = entry.Name()

		body, err := fs.ReadFile(files, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// parseName splits "001_init.sql" into 1 and "init".
func parseName(file string) (int, string, error) {
	prefix, rest, ok := strings.Cut(strings.TrimSuffix(file, ".sql"), "_")
	if !ok || rest == "" {
		return 0, "", fmt.Errorf("invalid migration filename %s (expected NNN_name.sql)", file)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number in %s: %w", file, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version number in %s: version must be at least 1", file)
	}
	return version, rest, nil
}

func (r *Runner) ensureVersionTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion is the applied schema version, 0 for a fresh database.
func (r *Runner) CurrentVersion(ctx context.Context) (int, error) {
	if err := r.ensureVersionTable(ctx); err != nil {
		return 0, err
	}

	var version int
	err := r.db.GetContext(ctx, &version, "SELECT version FROM schema_version")
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Status reports the applied and latest versions and what is left to apply.
func (r *Runner) Status(ctx context.Context) (Status, error) {
	current, err := r.CurrentVersion(ctx)
	if err != nil {
		return Status{}, err
	}
	all, err := Parse(r.files)
	if err != nil {
		return Status{}, err
	}

	st := Status{Current: current}
	for _, m := range all {
		st.Latest = m.Version
		if m.Version > current {
			st.Pending = append(st.Pending, m)
		}
	}
	return st, nil
}

// Check fails with ErrSchemaTooNew when the store is ahead of the files.
func (r *Runner) Check(ctx context.Context) error {
	st, err := r.Status(ctx)
	if err != nil {
		return err
	}
	if st.TooNew() {
		return fmt.Errorf("%w (store %d, supported %d); upgrade smallwins", ErrSchemaTooNew, st.Current, st.Latest)
	}
	return nil
}

// Apply runs every pending migration and returns how many were applied. On
// failure the versions before the failing one stay applied.
func (r *Runner) Apply(ctx context.Context) (int, error) {
	st, err := r.Status(ctx)
	if err != nil {
		return 0, err
	}
	if st.TooNew() {
		return 0, fmt.Errorf("%w (store %d, supported %d); upgrade smallwins", ErrSchemaTooNew, st.Current, st.Latest)
	}
	if len(st.Pending) == 0 {
		logger.Debug("Schema is up to date", "version", st.Current)
		return 0, nil
	}

	start := time.Now()
	for i, m := range st.Pending {
		if err := r.applyOne(ctx, m); err != nil {
			return i, err
		}
		logger.Info("Applied migration", "version", m.Version, "name", m.Name)
	}
	logger.Info("Schema migrated", "from", st.Current, "to", st.Latest, "took", time.Since(start))
	return len(st.Pending), nil
}

func (r *Runner) applyOne(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO schema_version (version) VALUES (?)"), m.Version); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}
	return tx.Commit()
}
