package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// DB wraps a SQL connection and the dialect its queries are written for.
type DB struct {
	conn    *sql.DB
	dialect Dialect
}

// New opens (or creates) the SQLite file at dbPath.
func New(dbPath string) (*DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	return Open(DialectSQLite, sqliteDSN(dbPath))
}

// Open connects with one of the supported drivers and runs migrations.
func Open(dialect Dialect, dsn string) (*DB, error) {
	switch dialect {
	case DialectSQLite, DialectPostgres, DialectMySQL:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", dialect)
	}

	conn, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// SQLite only supports one writer
		conn.SetMaxOpenConns(1)
	}

	db := &DB{conn: conn, dialect: dialect}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

// rebind rewrites ? placeholders to $n for postgres.
func (db *DB) rebind(query string) string {
	if db.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) migrations() []string {
	text, key, ts := "TEXT", "TEXT", "DATETIME"
	switch db.dialect {
	case DialectPostgres:
		ts = "TIMESTAMPTZ"
	case DialectMySQL:
		text, key, ts = "LONGTEXT", "VARCHAR(64)", "DATETIME(6)"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS tactics (
			id ` + key + ` PRIMARY KEY,
			team_id ` + key + ` NOT NULL,
			name ` + text + ` NOT NULL,
			shapes_json ` + text + ` NOT NULL,
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS roster_members (
			id ` + key + ` NOT NULL,
			team_id ` + key + ` NOT NULL,
			name ` + text + ` NOT NULL,
			number INTEGER NOT NULL DEFAULT 0,
			position ` + text + ` NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (team_id, id)
		)`,
		`CREATE INDEX idx_tactics_team ON tactics(team_id)`,
	}
}

func (db *DB) migrate() error {
	for _, m := range db.migrations() {
		if _, err := db.conn.Exec(m); err != nil {
			// CREATE INDEX has no IF NOT EXISTS on mysql; a rerun reports the index as present
			if strings.HasPrefix(m, "CREATE INDEX") && isDuplicateIndex(err) {
				continue
			}
			return fmt.Errorf("migration failed: %.40s: %w", m, err)
		}
	}
	return nil
}

func isDuplicateIndex(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate key name")
}
