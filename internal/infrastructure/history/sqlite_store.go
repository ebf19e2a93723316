// Package history persists resolution records so the user can audit what
// the assistant understood and did.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/ports"
)

// SQLiteStore persists history in a SQLite database. When the database
// cannot be opened it silently degrades to the jsonl FileStore; history is
// a convenience and must never block a command.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)

// NewSQLiteStore creates (or opens) the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS resolutions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		utterance TEXT,
		action TEXT,
		tier TEXT,
		score REAL,
		executed INTEGER,
		success INTEGER,
		duration_ms INTEGER
	);`)
	return err
}

// Save inserts a new record.
func (s *SQLiteStore) Save(record domain.HistoryRecord) error {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO resolutions
		(timestamp, utterance, action, tier, score, executed, success, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp.Format(domain.TimestampFormat),
		record.Utterance,
		string(record.Action),
		string(record.Tier),
		record.Score,
		boolToInt(record.Executed),
		boolToInt(record.Success),
		record.DurationMS,
	)
	return err
}

// Records returns history entries, newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, utterance, action, tier, score, executed, success, duration_ms FROM resolutions")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE utterance LIKE ? OR action LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts, action, tier string
		var executed, success int
		if err := rows.Scan(&ts, &rec.Utterance, &action, &tier, &rec.Score, &executed, &success, &rec.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Action = domain.Action(action)
		rec.Tier = domain.Tier(tier)
		rec.Executed = executed == 1
		rec.Success = success == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Clear()
	}
	_, err := s.db.Exec("DELETE FROM resolutions")
	return err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) fallbackPath() string {
	return strings.TrimSuffix(s.path, filepath.Ext(s.path)) + ".jsonl"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
