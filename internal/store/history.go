package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const historyFileName = "history.sqlite"

// ErrRevisionNotFound is returned by GetRevision for unknown ids.
var ErrRevisionNotFound = errors.New("revision not found")

// Revision is one saved version of a document.
type Revision struct {
	ID      int64     `json:"id"`
	Path    string    `json:"path"`
	SavedAt time.Time `json:"savedAt"`
	SHA256  string    `json:"sha256"`
	Size    int       `json:"size"`
	Body    []byte    `json:"-"`
}

func (s Store) historyPath() string {
	return filepath.Join(s.Dir, historyFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.historyPath())
	if err != nil {
		return nil, err
	}
	// busy_timeout helps when the CLI and the editor save at the same time.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateHistory(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateHistory(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS revisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			saved_at_unixms INTEGER NOT NULL,
			sha256 TEXT NOT NULL,
			body BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS revisions_path_id ON revisions(path, id)`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate history: %w", err)
		}
	}
	return nil
}

func historyKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// RecordRevision stores body as the newest revision of path. A body identical
// to the newest stored revision is not stored again (added == false).
// keep > 0 prunes older revisions of the same path.
func (s Store) RecordRevision(ctx context.Context, path string, body []byte, keep int) (rev Revision, added bool, err error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return Revision{}, false, err
	}
	defer db.Close()

	key := historyKey(path)
	sum := sha256.Sum256(body)
	digest := hex.EncodeToString(sum[:])

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return Revision{}, false, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		lastID     int64
		lastDigest string
		lastMs     int64
		lastSize   int
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, sha256, saved_at_unixms, length(body) FROM revisions WHERE path = ? ORDER BY id DESC LIMIT 1`, key,
	).Scan(&lastID, &lastDigest, &lastMs, &lastSize)
	switch {
	case err == nil && lastDigest == digest:
		return Revision{ID: lastID, Path: key, SavedAt: time.UnixMilli(lastMs).UTC(), SHA256: digest, Size: lastSize}, false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return Revision{}, false, err
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO revisions(path, saved_at_unixms, sha256, body) VALUES(?, ?, ?, ?)`,
		key, now.UnixMilli(), digest, body,
	)
	if err != nil {
		return Revision{}, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Revision{}, false, err
	}
	if keep > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM revisions WHERE path = ? AND id NOT IN (SELECT id FROM revisions WHERE path = ? ORDER BY id DESC LIMIT ?)`,
			key, key, keep,
		); err != nil {
			return Revision{}, false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Revision{}, false, err
	}
	return Revision{ID: id, Path: key, SavedAt: time.UnixMilli(now.UnixMilli()).UTC(), SHA256: digest, Size: len(body), Body: body}, true, nil
}

// ListRevisions returns revisions of path, newest first, without bodies.
// limit == 0 means "all".
func (s Store) ListRevisions(ctx context.Context, path string, limit int) ([]Revision, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	key := historyKey(path)
	q := `SELECT id, path, saved_at_unixms, sha256, length(body) FROM revisions WHERE path = ? ORDER BY id DESC`
	var rows *sql.Rows
	if limit > 0 {
		rows, err = db.QueryContext(ctx, q+` LIMIT ?`, key, limit)
	} else {
		rows, err = db.QueryContext(ctx, q, key)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Revision{}
	for rows.Next() {
		var (
			r  Revision
			ms int64
		)
		if err := rows.Scan(&r.ID, &r.Path, &ms, &r.SHA256, &r.Size); err != nil {
			return nil, err
		}
		r.SavedAt = time.UnixMilli(ms).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRevision loads a revision including its body.
func (s Store) GetRevision(ctx context.Context, id int64) (Revision, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return Revision{}, err
	}
	defer db.Close()

	var (
		r  Revision
		ms int64
	)
	err = db.QueryRowContext(ctx,
		`SELECT id, path, saved_at_unixms, sha256, body FROM revisions WHERE id = ?`, id,
	).Scan(&r.ID, &r.Path, &ms, &r.SHA256, &r.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, ErrRevisionNotFound
	}
	if err != nil {
		return Revision{}, err
	}
	r.SavedAt = time.UnixMilli(ms).UTC()
	r.Size = len(r.Body)
	return r, nil
}
