// Package migration applies the numbered SQL files that define the arise
// database schema.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Migration is a single numbered schema change read from NNN_name.sql.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

func (m Migration) String() string {
	return fmt.Sprintf("%03d_%s", m.Version, m.Name)
}

// SchemaTooNewError reports a database written by a newer release.
type SchemaTooNewError struct {
	Current int
	Latest  int
}

func (e *SchemaTooNewError) Error() string {
	return fmt.Sprintf("database schema version (%d) is newer than supported version (%d) - please upgrade arise", e.Current, e.Latest)
}

// Status describes where a database stands against the bundled migrations.
type Status struct {
	Current int
	Latest  int
	Pending []Migration
}

func (s Status) UpToDate() bool {
	return s.Current >= s.Latest
}

// Runner applies migrations from an fs.FS to a database, tracking progress in
// a one-row schema_version table.
type Runner struct {
	db *sql.DB
	fs fs.FS
}

func NewRunner(db *sql.DB, migrationFS fs.FS) *Runner {
	return &Runner{
		db: db,
		fs: migrationFS,
	}
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func ensureVersionTable(db execer) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return nil
}

func writeVersion(db execer, version int) error {
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear version: %w", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}
	return nil
}

// CurrentVersion returns the applied schema version, or 0 for a fresh database.
func (r *Runner) CurrentVersion() (int, error) {
	if err := ensureVersionTable(r.db); err != nil {
		return 0, err
	}

	var version int
	err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

func (r *Runner) SetVersion(version int) error {
	if err := ensureVersionTable(r.db); err != nil {
		return err
	}
	return writeVersion(r.db, version)
}

func parseName(name string) (int, string, error) {
	prefix, label, ok := strings.Cut(name, "_")
	if !ok {
		return 0, "", fmt.Errorf("invalid migration filename format: %s (expected NNN_name.sql)", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number in filename %s: %w", name, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version number in filename %s: version must be at least 1", name)
	}
	return version, strings.TrimSuffix(label, ".sql"), nil
}

// Migrations parses every .sql file at the root of the FS, sorted by version.
func (r *Runner) Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var list []Migration
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		version, label, err := parseName(entry.Name())
		if err != nil {
			return nil, err
		}
		content, err := fs.ReadFile(r.fs, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}
		list = append(list, Migration{Version: version, Name: label, SQL: string(content)})
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Version < list[j].Version })
	for i := 1; i < len(list); i++ {
		if list[i].Version == list[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", list[i].Version)
		}
	}
	return list, nil
}

// Status compares the applied version with the bundled migrations.
func (r *Runner) Status() (Status, error) {
	current, err := r.CurrentVersion()
	if err != nil {
		return Status{}, err
	}
	list, err := r.Migrations()
	if err != nil {
		return Status{}, err
	}

	st := Status{Current: current}
	if len(list) > 0 {
		st.Latest = list[len(list)-1].Version
	}
	for _, m := range list {
		if m.Version > current {
			st.Pending = append(st.Pending, m)
		}
	}
	return st, nil
}

// Validate fails with a *SchemaTooNewError when the database was written by a
// newer release.
func (r *Runner) Validate() error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	if st.Current > st.Latest {
		return &SchemaTooNewError{Current: st.Current, Latest: st.Latest}
	}
	return nil
}

// Apply runs all pending migrations, each in its own transaction, and returns
// how many were applied.
func (r *Runner) Apply(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}

	st, err := r.Status()
	if err != nil {
		return 0, err
	}
	if st.Current > st.Latest {
		return 0, &SchemaTooNewError{Current: st.Current, Latest: st.Latest}
	}
	if len(st.Pending) == 0 {
		logFn(fmt.Sprintf("Database schema is up to date (version %d)", st.Current))
		return 0, nil
	}

	logFn(fmt.Sprintf("Migrating schema from version %d to %d", st.Current, st.Latest))
	start := time.Now()
	for i, m := range st.Pending {
		if err := r.apply(m); err != nil {
			return i, err
		}
		logFn("  ✓ " + m.String())
	}
	logFn(fmt.Sprintf("Applied %d migration(s) in %v", len(st.Pending), time.Since(start)))
	return len(st.Pending), nil
}

func (r *Runner) apply(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
	}
	if _, err := tx.Exec(m.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to apply migration %s: %w", m, err)
	}
	if err := writeVersion(tx, m.Version); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %s: %w", m, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}
