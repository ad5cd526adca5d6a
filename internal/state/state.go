package state

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/llehouerou/taplist/internal/db"
)

const (
	appName    = "taplist"
	dbFileName = "taplist.db"
	memoryPath = ":memory:"
)

const (
	selectValue = `SELECT value FROM session_kv WHERE key = ?`
	upsertValue = `INSERT INTO session_kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	deleteValue = `DELETE FROM session_kv WHERE key = ?`
)

// Manager is the SQLite session backend. Each key is one row of session_kv.
type Manager struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens the SQLite database at path, or the default XDG data file when
// path is empty, and brings its schema up to date.
func Open(path string) (*Manager, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(conn); err != nil {
		return nil, errors.Join(err, conn.Close())
	}

	return &Manager{conn: conn, now: time.Now}, nil
}

func resolvePath(path string) (string, error) {
	switch path {
	case "":
		return xdg.DataFile(filepath.Join(appName, dbFileName))
	case memoryPath:
		return path, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, nil
}

func (m *Manager) Get(key string) (string, bool, error) {
	var value string
	switch err := m.conn.QueryRow(selectValue, key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, err
	}
	return value, true, nil
}

func (m *Manager) Set(key, value string) error {
	_, err := m.conn.Exec(upsertValue, key, value, m.now().Unix())
	return err
}

func (m *Manager) Delete(key string) error {
	_, err := m.conn.Exec(deleteValue, key)
	return err
}

func (m *Manager) Close() error {
	return m.conn.Close()
}

// DB exposes the connection for schema inspection.
func (m *Manager) DB() *sql.DB {
	return m.conn
}
