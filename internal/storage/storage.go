package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"myday/internal/task"
)

const memoryPath = ":memory:"

// Store persists task snapshots and key/value settings in SQLite. It sits
// beside the in-memory task.Store: LoadTasks seeds it at start-up and
// SaveTasks writes each new snapshot back.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if dbPath != memoryPath && !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY,
	text TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT 'Personal',
	completed INTEGER NOT NULL DEFAULT 0,
	deleted INTEGER NOT NULL DEFAULT 0,
	due TEXT DEFAULT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTaskColumns()
}

// ensureTaskColumns adds columns introduced after the first schema.
func (s *Store) ensureTaskColumns() error {
	required := map[string]string{
		"reminder": "ALTER TABLE tasks ADD COLUMN reminder INTEGER NOT NULL DEFAULT 0;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// LoadTasks returns every stored task ordered by id, which is insertion order.
func (s *Store) LoadTasks() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT id, text, category, completed, deleted, due, reminder, created_at FROM tasks ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		var category, createdStr string
		var completed, deleted, reminder int
		var dueStr sql.NullString

		if err := rows.Scan(&t.ID, &t.Text, &category, &completed, &deleted, &dueStr, &reminder, &createdStr); err != nil {
			return nil, fmt.Errorf("load tasks: %w", err)
		}
		if t.Category, err = task.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("load task %d: %w", t.ID, err)
		}
		t.Completed = completed == 1
		t.Deleted = deleted == 1
		t.Reminder = reminder == 1
		if dueStr.Valid {
			if t.Due, err = task.ParseDate(dueStr.String); err != nil {
				return nil, fmt.Errorf("load task %d: %w", t.ID, err)
			}
		}
		created, err := time.Parse(time.RFC3339Nano, createdStr)
		if err != nil {
			return nil, fmt.Errorf("load task %d: created_at: %w", t.ID, err)
		}
		t.CreatedAt = created.Local()
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return tasks, nil
}

// SaveTasks upserts a snapshot in one transaction. Only completed and deleted
// change for rows that already exist; rows are never removed.
func (s *Store) SaveTasks(tasks []task.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	stmt, err := tx.Prepare(`
INSERT INTO tasks (id, text, category, completed, deleted, due, reminder, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET completed = excluded.completed, deleted = excluded.deleted;`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("save tasks: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		due := sql.NullString{}
		if !t.Due.IsZero() {
			due = sql.NullString{String: t.Due.String(), Valid: true}
		}
		_, err := stmt.Exec(t.ID, t.Text, string(t.Category), boolToInt(t.Completed), boolToInt(t.Deleted),
			due, boolToInt(t.Reminder), t.CreatedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("save task %d: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// GetSetting returns the stored value for key, or "" when unset.
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, key, value)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sqliteDSN(path string) string {
	if path == memoryPath || strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
