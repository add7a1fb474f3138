package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a durable key-value record store backed by SQLite. Each named
// record is an independent JSON document. A read miss is "uninitialized",
// never an error; callers supply their own defaults.
//
// Every read-modify-write must go through Update, which holds a per-key
// mutex for the whole span. Plain Get/Put are for read-only consumers and
// initial writes.
type Store struct {
	db *sql.DB

	getStmt *sql.Stmt
	putStmt *sql.Stmt

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New creates a Store from an already-opened database.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db, locks: make(map[string]*sync.Mutex)}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	return err
}

func (s *Store) prepareStatements() error {
	var err error

	s.getStmt, err = s.db.Prepare(`SELECT value FROM records WHERE key = ?`)
	if err != nil {
		return err
	}

	s.putStmt, err = s.db.Prepare(`
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	return err
}

func (s *Store) Close() error {
	if s.getStmt != nil {
		s.getStmt.Close()
	}
	if s.putStmt != nil {
		s.putStmt.Close()
	}
	return s.db.Close()
}

// keyLock returns the mutex guarding a record key, creating it on first use.
func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Get unmarshals the record at key into out. The second return is false
// when the record does not exist; out is left untouched in that case.
func (s *Store) Get(ctx context.Context, key string, out any) (bool, error) {
	var raw string
	err := s.getStmt.QueryRowContext(ctx, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Put marshals v and writes it at key.
func (s *Store) Put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if _, err := s.putStmt.ExecContext(ctx, key, string(data), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Update runs fn under the key's mutex with the current raw record (nil
// when absent) and writes back whatever fn returns. Returning a nil value
// skips the write, which makes no-op paths cheap.
func (s *Store) Update(ctx context.Context, key string, fn func(found bool, raw []byte) (any, error)) error {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	var raw string
	found := true
	err := s.getStmt.QueryRowContext(ctx, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		found = false
	} else if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}

	v, err := fn(found, []byte(raw))
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return s.Put(ctx, key, v)
}
