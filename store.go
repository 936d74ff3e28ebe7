package codorbits

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Submission kinds recorded by the Store.
const (
	KindContact   = "contact"
	KindSubscribe = "subscribe"
)

// Submission is one contact or newsletter form attempt.
type Submission struct {
	ID        string
	Kind      string
	Email     string
	Subject   string
	Message   string
	Success   bool
	Detail    string
	CreatedAt time.Time
}

// createdLayout sorts lexically in time order for UTC values.
const createdLayout = "2006-01-02T15:04:05.000000Z07:00"

// Store wraps a SQLite database holding the form submission log.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the request handlers append while an operator reads the log.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
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
CREATE TABLE IF NOT EXISTS submissions (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    email TEXT NOT NULL,
    subject TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL DEFAULT '',
    success INTEGER NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_kind_created ON submissions(kind, created_at);
`)
	return err
}

// RecordSubmission appends sub to the log, filling ID and CreatedAt when unset.
func (s *Store) RecordSubmission(sub Submission) (Submission, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	success := 0
	if sub.Success {
		success = 1
	}
	_, err := s.db.Exec(`INSERT INTO submissions (id, kind, email, subject, message, success, detail, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Kind, sub.Email, sub.Subject, sub.Message, success, sub.Detail, sub.CreatedAt.UTC().Format(createdLayout))
	if err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// ListSubmissions returns the newest submissions of kind first, at most limit.
// An empty kind lists every kind.
func (s *Store) ListSubmissions(kind string, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`SELECT id, kind, email, subject, message, success, detail, created_at FROM submissions WHERE (? = '' OR kind = ?) ORDER BY created_at DESC LIMIT ?`,
		kind, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		var success int
		var created string
		if err := rows.Scan(&sub.ID, &sub.Kind, &sub.Email, &sub.Subject, &sub.Message, &success, &sub.Detail, &created); err != nil {
			return nil, err
		}
		sub.Success = success == 1
		sub.CreatedAt, _ = time.Parse(createdLayout, created)
		out = append(out, sub)
	}
	return out, rows.Err()
}
