// Package store keeps rendered vCard documents in SQLite, addressed both by a
// UUID and by the CID of their bytes.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	mh "github.com/multiformats/go-multihash"
)

var log = logging.Logger("store")

// Document formats.
const (
	FormatText = "text"
	FormatXML  = "xml"
	FormatJSON = "json"
	FormatHTML = "html"
	FormatQR   = "qr"
)

// Errors
var (
	ErrNotFound      = errors.New("document not found")
	ErrInvalidFormat = errors.New("invalid document format")
	ErrEmptyBody     = errors.New("document body is empty")
)

var formats = map[string]bool{
	FormatText: true,
	FormatXML:  true,
	FormatJSON: true,
	FormatHTML: true,
	FormatQR:   true,
}

// Record is a stored document.
type Record struct {
	ID        string
	CID       string
	Format    string
	Name      string
	Body      []byte
	CreatedAt time.Time
}

// Store is a SQLite-backed document store. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Open opens or creates the store at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	return s, nil
}

func (s *Store) initTables() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			cid TEXT NOT NULL,
			format TEXT NOT NULL,
			name TEXT,
			body BLOB NOT NULL,
			created_at INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create cards table: %w", err)
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_cards_cid ON cards (cid)`); err != nil {
		return fmt.Errorf("failed to create cid index: %w", err)
	}
	return nil
}

// ComputeCID returns the CIDv1 (raw codec, sha2-256) of data.
func ComputeCID(data []byte) (string, error) {
	hash, err := mh.Sum(data, mh.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("failed to encode multihash: %w", err)
	}
	return cid.NewCidV1(cid.Raw, hash).String(), nil
}

// Put stores body under a new ID and returns the record.
func (s *Store) Put(format, name string, body []byte) (*Record, error) {
	if !formats[format] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	c, err := ComputeCID(body)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:        uuid.NewString(),
		CID:       c,
		Format:    format,
		Name:      name,
		Body:      body,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(
		`INSERT INTO cards (id, cid, format, name, body, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CID, rec.Format, rec.Name, rec.Body, rec.CreatedAt.Unix(),
	); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	log.Debugf("Stored %s document %s with CID: %s", format, rec.ID, rec.CID)
	return rec, nil
}

// Get returns the record with the given ID.
func (s *Store) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryOne(`SELECT id, cid, format, name, body, created_at FROM cards WHERE id = ?`, id)
}

// GetByCID returns the oldest record whose body has the given CID.
func (s *Store) GetByCID(c string) (*Record, error) {
	parsed, err := cid.Decode(c)
	if err != nil {
		return nil, fmt.Errorf("invalid CID %q: %w", c, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryOne(`SELECT id, cid, format, name, body, created_at FROM cards WHERE cid = ? ORDER BY created_at, id LIMIT 1`, parsed.String())
}

func (s *Store) queryOne(query string, arg string) (*Record, error) {
	rec, err := scanRecord(s.db.QueryRow(query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec     Record
		name    sql.NullString
		created int64
	)
	if err := row.Scan(&rec.ID, &rec.CID, &rec.Format, &name, &rec.Body, &created); err != nil {
		return nil, err
	}
	rec.Name = name.String
	rec.CreatedAt = time.Unix(created, 0).UTC()
	return &rec, nil
}

// List returns every record without its body, newest first.
func (s *Store) List() ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, cid, format, name, X'', created_at FROM cards ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		rec.Body = nil
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes the record with the given ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *Store) Count() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
