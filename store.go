package campaignkit

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding the opaque blob table (media bytes,
// the media index document, the site content document) and the singleton
// email settings row.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS blobs (
    key TEXT PRIMARY KEY,
    data BLOB NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS email_settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    host TEXT NOT NULL DEFAULT '',
    port INTEGER NOT NULL DEFAULT 587,
    secure INTEGER NOT NULL DEFAULT 0,
    username TEXT NOT NULL DEFAULT '',
    password TEXT NOT NULL DEFAULT '',
    from_name TEXT NOT NULL DEFAULT '',
    from_email TEXT NOT NULL DEFAULT '',
    to_email TEXT NOT NULL DEFAULT '',
    enabled INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL DEFAULT '',
    updated_by_email TEXT NOT NULL DEFAULT ''
);
`)
	return err
}

// ErrNotFound is returned when a requested blob or row does not exist.
var ErrNotFound = sql.ErrNoRows

// GetBlob returns the bytes stored under key, or ErrNotFound.
func (s *Store) GetBlob(key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM blobs WHERE key = ?`, key).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// PutBlob stores data under key, replacing any existing value.
func (s *Store) PutBlob(key string, data []byte) error {
	_, err := s.db.Exec(`
INSERT INTO blobs (key, data, created_at) VALUES (?, ?, datetime('now'))
ON CONFLICT(key) DO UPDATE SET data = excluded.data
`, key, data)
	return err
}

// DeleteBlob removes the blob under key. Deleting a missing key is not an
// error.
func (s *Store) DeleteBlob(key string) error {
	_, err := s.db.Exec(`DELETE FROM blobs WHERE key = ?`, key)
	return err
}

// GetEmailSettings returns the singleton settings row. The second result is
// false when no row has been saved yet.
func (s *Store) GetEmailSettings() (EmailSettings, bool, error) {
	var es EmailSettings
	var secure, enabled int
	err := s.db.QueryRow(`
SELECT host, port, secure, username, password, from_name, from_email, to_email, enabled, updated_at, updated_by_email
FROM email_settings WHERE id = 1
`).Scan(&es.Host, &es.Port, &secure, &es.Username, &es.Password,
		&es.FromName, &es.FromEmail, &es.ToEmail, &enabled, &es.UpdatedAt, &es.UpdatedByEmail)
	if err == sql.ErrNoRows {
		return EmailSettings{}, false, nil
	}
	if err != nil {
		return EmailSettings{}, false, err
	}
	es.Secure = secure == 1
	es.Enabled = enabled == 1
	return es, true, nil
}

// SaveEmailSettings upserts the singleton settings row.
func (s *Store) SaveEmailSettings(es EmailSettings) error {
	_, err := s.db.Exec(`
INSERT INTO email_settings (id, host, port, secure, username, password, from_name, from_email, to_email, enabled, updated_at, updated_by_email)
VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    host = excluded.host,
    port = excluded.port,
    secure = excluded.secure,
    username = excluded.username,
    password = excluded.password,
    from_name = excluded.from_name,
    from_email = excluded.from_email,
    to_email = excluded.to_email,
    enabled = excluded.enabled,
    updated_at = excluded.updated_at,
    updated_by_email = excluded.updated_by_email
`, es.Host, es.Port, boolToInt(es.Secure), es.Username, es.Password,
		es.FromName, es.FromEmail, es.ToEmail, boolToInt(es.Enabled), es.UpdatedAt, es.UpdatedByEmail)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
