package storage

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// sqlitePragmas are applied by modernc.org/sqlite on every new connection.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Endpoint describes a server-backed store when no raw DSN is configured.
type Endpoint struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN builds the connection string for the given dialect.
func (e Endpoint) DSN(dialect Dialect) (string, error) {
	switch dialect {
	case DialectPostgres:
		port := e.Port
		if port == 0 {
			port = 5432
		}
		sslMode := e.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			Host:     net.JoinHostPort(e.Host, strconv.Itoa(port)),
			Path:     "/" + e.Database,
			RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
		}
		switch {
		case e.Password != "":
			u.User = url.UserPassword(e.User, e.Password)
		case e.User != "":
			u.User = url.User(e.User)
		}
		return u.String(), nil
	case DialectMySQL:
		port := e.Port
		if port == 0 {
			port = 3306
		}
		cfg := mysql.NewConfig()
		cfg.User = e.User
		cfg.Passwd = e.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(e.Host, strconv.Itoa(port))
		cfg.DBName = e.Database
		// parseTime is required to scan DATETIME into time.Time
		cfg.ParseTime = true
		if e.SSLMode == "require" {
			cfg.TLSConfig = "true"
		}
		if err := cfg.Apply(mysql.Charset("utf8mb4", "")); err != nil {
			return "", fmt.Errorf("mysql config: %w", err)
		}
		return cfg.FormatDSN(), nil
	case DialectSQLite:
		if e.Database == "" {
			return "", fmt.Errorf("sqlite endpoint needs a database path")
		}
		return sqliteDSN(e.Database), nil
	}
	return "", fmt.Errorf("unsupported store driver %q", dialect)
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqlitePragmas
	}
	return path + "?" + sqlitePragmas
}
