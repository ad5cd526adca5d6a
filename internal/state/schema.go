package state

import (
	"context"
	"database/sql"

	"github.com/llehouerou/taplist/internal/db"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS session_kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
}

func initSchema(conn *sql.DB) error {
	return db.Migrate(context.Background(), conn, migrations)
}
