package db

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"course-service/internal/observability"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Connect opens the database for the given driver and applies migrations.
func Connect(driver, dsn string) (*sqlx.DB, error) {
	if driver == DriverSQLite && !strings.Contains(dsn, "_foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=on&_busy_timeout=5000"
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if driver == DriverSQLite {
		// one writer at a time keeps sqlite transactions from hitting SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sqlx.DB) error {
	for _, m := range migrations(db.DriverName()) {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	observability.Logger().Info("database migrations applied", zap.String("driver", db.DriverName()))
	return nil
}

func migrations(driver string) []string {
	pk, ts := "SERIAL PRIMARY KEY", "TIMESTAMPTZ"
	if driver == DriverSQLite {
		pk, ts = "INTEGER PRIMARY KEY AUTOINCREMENT", "DATETIME"
	}
	r := strings.NewReplacer("{{pk}}", pk, "{{ts}}", ts)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id {{pk}},
            name TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL UNIQUE,
            role TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'active',
            password_hash TEXT NOT NULL,
            created_at {{ts}} NOT NULL,
            updated_at {{ts}} NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS courses (
            id {{pk}},
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL,
            file_path TEXT NOT NULL,
            creator_id INT NOT NULL REFERENCES users(id),
            created_at {{ts}} NOT NULL,
            updated_at {{ts}} NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS homework (
            id {{pk}},
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            deadline {{ts}} NOT NULL,
            created_at {{ts}} NOT NULL,
            updated_at {{ts}} NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS homework_answers (
            id {{pk}},
            homework_id INT NOT NULL REFERENCES homework(id) ON DELETE CASCADE,
            user_id INT NOT NULL REFERENCES users(id),
            file_path TEXT,
            score INT,
            comment TEXT,
            created_at {{ts}} NOT NULL,
            updated_at {{ts}} NOT NULL,
            UNIQUE(homework_id, user_id)
        );`,
		`CREATE TABLE IF NOT EXISTS practices (
            id {{pk}},
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            created_at {{ts}} NOT NULL,
            updated_at {{ts}} NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS practice_answers (
            id {{pk}},
            practice_id INT NOT NULL REFERENCES practices(id) ON DELETE CASCADE,
            user_id INT NOT NULL REFERENCES users(id),
            file_path TEXT NOT NULL,
            score REAL,
            comment TEXT,
            created_at {{ts}} NOT NULL,
            updated_at {{ts}} NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS watch_progress (
            id {{pk}},
            course_id INT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
            user_id INT NOT NULL REFERENCES users(id),
            progress INT NOT NULL DEFAULT 0,
            current_seconds INT NOT NULL DEFAULT 0,
            duration INT NOT NULL DEFAULT 0,
            is_completed BOOLEAN NOT NULL DEFAULT FALSE,
            created_at {{ts}} NOT NULL,
            updated_at {{ts}} NOT NULL,
            UNIQUE(course_id, user_id)
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            id {{pk}},
            content TEXT NOT NULL,
            from_user_id INT NOT NULL,
            to_user_id INT NOT NULL,
            is_read BOOLEAN NOT NULL DEFAULT FALSE,
            created_at {{ts}} NOT NULL,
            updated_at {{ts}} NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_messages_pair_time ON messages (from_user_id, to_user_id, created_at);`,
	}

	for i, s := range stmts {
		stmts[i] = r.Replace(s)
	}
	return stmts
}
