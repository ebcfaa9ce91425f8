// Package session keeps per-session key/value state (the verified project) in a local SQLite
// file. Each session owns a scope; ending the session deletes its scope.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// KeyCurrentProject holds the verified project.
const KeyCurrentProject = "currentProject"

// DefaultScope is used by CLI invocations that don't name a session.
const DefaultScope = "default"

// IdleTTL is how long an untouched scope survives before Open prunes it.
const IdleTTL = 24 * time.Hour

var ErrClosed = errors.New("session store closed")

type DB struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the session database at path and prunes idle scopes.
func Open(ctx context.Context, path string) (*DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("session: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
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
	d := &DB{db: db, now: time.Now}
	if err := d.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := d.Prune(ctx, IdleTTL); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session_kv (
			scope TEXT NOT NULL,
			k TEXT NOT NULL,
			v TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY (scope, k)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_session_kv_updated ON session_kv(updated_at_unixms);`,
	}
	for _, s := range stmts {
		if _, err := d.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate session db: %w", err)
		}
	}
	return nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Prune deletes every scope whose newest write is older than ttl and returns how many rows went.
func (d *DB) Prune(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := d.now().Add(-ttl).UTC().UnixMilli()
	res, err := d.db.ExecContext(ctx, `DELETE FROM session_kv WHERE scope IN (
		SELECT scope FROM session_kv GROUP BY scope HAVING MAX(updated_at_unixms) < ?
	)`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Scope returns the key/value view for one session id. A blank id means DefaultScope.
func (d *DB) Scope(id string) *Scope {
	id = strings.TrimSpace(id)
	if id == "" {
		id = DefaultScope
	}
	return &Scope{db: d, id: id}
}

// NewScopeID returns a fresh random scope id, one per interactive run.
func NewScopeID() string { return "tui-" + uuid.NewString() }

type Scope struct {
	db *DB
	id string
}

func (s *Scope) ID() string { return s.id }

// Get returns the raw value for key; ok is false when it is absent.
func (s *Scope) Get(ctx context.Context, key string) (string, bool, error) {
	if s.db == nil || s.db.db == nil {
		return "", false, ErrClosed
	}
	var v string
	err := s.db.db.QueryRowContext(ctx, `SELECT v FROM session_kv WHERE scope = ? AND k = ?`, s.id, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Scope) Set(ctx context.Context, key, value string) error {
	if s.db == nil || s.db.db == nil {
		return ErrClosed
	}
	_, err := s.db.db.ExecContext(ctx, `INSERT OR REPLACE INTO session_kv(scope, k, v, updated_at_unixms) VALUES(?, ?, ?, ?)`,
		s.id, key, value, s.db.now().UTC().UnixMilli())
	return err
}

func (s *Scope) Delete(ctx context.Context, key string) error {
	if s.db == nil || s.db.db == nil {
		return ErrClosed
	}
	_, err := s.db.db.ExecContext(ctx, `DELETE FROM session_kv WHERE scope = ? AND k = ?`, s.id, key)
	return err
}

// End removes everything stored for the scope.
func (s *Scope) End(ctx context.Context) error {
	if s.db == nil || s.db.db == nil {
		return ErrClosed
	}
	_, err := s.db.db.ExecContext(ctx, `DELETE FROM session_kv WHERE scope = ?`, s.id)
	return err
}

// GetJSON decodes the value under key into out.
func (s *Scope) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode session %s: %w", key, err)
	}
	return true, nil
}

func (s *Scope) SetJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(b))
}
