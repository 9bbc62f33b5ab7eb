// Package store persists a local snapshot of the last fetched record
// list, so the UI has something to render before the first remote round
// trip completes. The remote table stays the source of truth; this is a
// read-through cache, not an offline store.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/lifeos/internal/model"
)

// SnapshotStore holds record snapshots in a local SQLite database.
type SnapshotStore struct {
	db *sqlx.DB
}

// NewSnapshotStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SnapshotStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SnapshotStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Replace swaps the stored snapshot for the given record set and stamps
// the refresh time. Pending optimistic entries are skipped; only
// server-confirmed records belong in the cache.
func (s *SnapshotStore) Replace(
	ctx context.Context,
	records []model.Record,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM record_snapshot"); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}

	const query = `
		INSERT INTO record_snapshot (
			id, title, content, status, type, priority,
			category, tags, next_actions, due_date, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if r.Pending {
			continue
		}

		tags, err := json.Marshal(r.Tags)
		if err != nil {
			return fmt.Errorf("marshaling tags for record %s: %w", r.ID, err)
		}
		nextActions, err := json.Marshal(r.NextActions)
		if err != nil {
			return fmt.Errorf("marshaling next actions for record %s: %w", r.ID, err)
		}

		var due *time.Time
		if r.DueDate != nil {
			d := r.DueDate.UTC()
			due = &d
		}

		_, err = stmt.ExecContext(ctx,
			r.ID, r.Title, r.Content, r.Status, r.Type, r.Priority,
			r.Category, string(tags), string(nextActions),
			due, r.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("inserting snapshot record %s: %w", r.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO snapshot_meta (key, value)
		VALUES ('refreshed_at', ?)`,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("stamping snapshot time: %w", err)
	}

	return tx.Commit()
}

// snapshotRow mirrors the record_snapshot table for sqlx scanning.
type snapshotRow struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Content     string     `db:"content"`
	Status      string     `db:"status"`
	Type        string     `db:"type"`
	Priority    string     `db:"priority"`
	Category    string     `db:"category"`
	Tags        string     `db:"tags"`
	NextActions string     `db:"next_actions"`
	DueDate     *time.Time `db:"due_date"`
	CreatedAt   time.Time  `db:"created_at"`
}

// Load returns the cached record set, newest first. An empty cache
// returns an empty slice and no error.
func (s *SnapshotStore) Load(ctx context.Context) ([]model.Record, error) {
	var rows []snapshotRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM record_snapshot ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		rec := model.Record{
			ID:        row.ID,
			Title:     row.Title,
			Content:   row.Content,
			Status:    row.Status,
			Type:      row.Type,
			Priority:  row.Priority,
			Category:  row.Category,
			DueDate:   row.DueDate,
			CreatedAt: row.CreatedAt,
		}
		if err := json.Unmarshal([]byte(row.Tags), &rec.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags for record %s: %w", row.ID, err)
		}
		if err := json.Unmarshal([]byte(row.NextActions), &rec.NextActions); err != nil {
			return nil, fmt.Errorf("decoding next actions for record %s: %w", row.ID, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// RefreshedAt returns when the snapshot was last replaced, or the zero
// time if it never was.
func (s *SnapshotStore) RefreshedAt(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.GetContext(ctx, &value,
		"SELECT value FROM snapshot_meta WHERE key = 'refreshed_at'")
	if err != nil {
		// No row yet means no refresh has happened.
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing snapshot time: %w", err)
	}
	return t, nil
}
