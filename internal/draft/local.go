package draft

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"regwiz/internal/log"
	"regwiz/internal/registration"
)

// StorageKey is the fixed key the draft blob lives under, kept from the
// original browser client so drafts keep their identity across clients.
const StorageKey = "churchRegistrationData"

// migrations are applied in order; PRAGMA user_version tracks how many
// have run.
var migrations = []string{
	`CREATE TABLE drafts (
		key        TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
}

// LocalStore persists a single draft blob in a local SQLite database.
// This is the synchronous, same-device channel; the receipt binary does
// not survive it by contract.
type LocalStore struct {
	db   *sql.DB
	path string
}

// OpenLocal opens (creating if necessary) the draft database at path and
// brings its schema up to date.
func OpenLocal(path string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating draft directory: %w", err)
	}

	log.Debug(log.CatDB, "Opening draft database", "path", path)
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening draft database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging draft database: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &LocalStore{db: db, path: path}, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	for ; version < len(migrations); version++ {
		if _, err := db.Exec(migrations[version]); err != nil {
			return fmt.Errorf("applying migration %d: %w", version+1, err)
		}
		if _, err := db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, version+1)); err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
		log.Info(log.CatDB, "Applied draft schema migration", "version", version+1)
	}
	return nil
}

// Path returns the database file location, used by the draft watcher.
func (s *LocalStore) Path() string {
	return s.path
}

// Save serializes the form state and stores it under the fixed key,
// replacing any previous draft.
func (s *LocalStore) Save(f registration.FormData) error {
	data, err := Encode(f, true, time.Now().UTC())
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT INTO drafts (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		StorageKey, string(data), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	log.Info(log.CatDraft, "Draft saved locally", "bytes", len(data))
	return nil
}

// Load returns the stored draft, or found=false when none exists.
// Loaded state goes through the shared normalization so dates come back
// as time values and nested collections are never nil.
func (s *LocalStore) Load() (f registration.FormData, found bool, err error) {
	var data string
	err = s.db.QueryRow(`SELECT data FROM drafts WHERE key = ?`, StorageKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return registration.FormData{}, false, nil
	}
	if err != nil {
		return registration.FormData{}, false, fmt.Errorf("loading draft: %w", err)
	}

	f, err = Decode([]byte(data))
	if err != nil {
		return registration.FormData{}, false, err
	}
	log.Info(log.CatDraft, "Draft loaded locally", "bytes", len(data))
	return f, true, nil
}

// Clear removes the stored draft. Clearing an absent draft is a no-op.
func (s *LocalStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM drafts WHERE key = ?`, StorageKey); err != nil {
		return fmt.Errorf("clearing draft: %w", err)
	}
	log.Info(log.CatDraft, "Local draft cleared")
	return nil
}

// Close releases the database handle.
func (s *LocalStore) Close() error {
	return s.db.Close()
}
