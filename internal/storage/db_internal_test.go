package storage

import (
	"net/url"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestRebind(t *testing.T) {
	pg := &DB{dialect: DialectPostgres}
	if got := pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"); got != "SELECT * FROM t WHERE a = $1 AND b = $2" {
		t.Errorf("postgres rebind = %q", got)
	}
	my := &DB{dialect: DialectMySQL}
	if got := my.rebind("a = ?"); got != "a = ?" {
		t.Errorf("mysql rebind = %q", got)
	}
}

func TestEndpointDSN(t *testing.T) {
	e := Endpoint{Host: "db", User: "coach", Password: "pw", Database: "pm"}
	tests := []struct {
		dialect Dialect
		want    string
	}{
		{DialectPostgres, "postgres://coach:pw@db:5432/pm?sslmode=disable"},
		{DialectMySQL, "coach:pw@tcp(db:3306)/pm?charset=utf8mb4&parseTime=true"},
		{DialectSQLite, "pm?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
	}
	for _, tt := range tests {
		got, err := e.DSN(tt.dialect)
		if err != nil {
			t.Fatalf("%s: %v", tt.dialect, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.dialect, got, tt.want)
		}
	}
	if _, err := e.DSN("oracle"); err == nil {
		t.Error("expected error for unknown dialect")
	}
}

func TestEndpointDSN_PostgresCredentials(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"empty password", ""},
		{"password with space", "red card"},
		{"password with separators", "a=b@c/d?e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Endpoint{Host: "db", User: "coach", Password: tt.password, Database: "pm", SSLMode: "require"}
			dsn, err := e.DSN(DialectPostgres)
			if err != nil {
				t.Fatal(err)
			}
			u, err := url.Parse(dsn)
			if err != nil {
				t.Fatalf("parse %q: %v", dsn, err)
			}
			if u.User.Username() != "coach" {
				t.Errorf("user = %q", u.User.Username())
			}
			if pw, _ := u.User.Password(); pw != tt.password {
				t.Errorf("password = %q, want %q", pw, tt.password)
			}
			if u.Path != "/pm" || u.Query().Get("sslmode") != "require" {
				t.Errorf("dsn = %q", dsn)
			}
		})
	}
}

func TestEndpointDSN_MySQLCredentials(t *testing.T) {
	for _, password := range []string{"", "red card", "a:b@c/d"} {
		e := Endpoint{Host: "db", Port: 3307, User: "coach", Password: password, Database: "pm", SSLMode: "require"}
		dsn, err := e.DSN(DialectMySQL)
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			t.Fatalf("parse %q: %v", dsn, err)
		}
		if cfg.Passwd != password || cfg.DBName != "pm" || cfg.Addr != "db:3307" || !cfg.ParseTime || cfg.TLSConfig != "true" {
			t.Errorf("password %q: cfg = %+v", password, cfg)
		}
	}
}

func TestNewAppliesPragmas(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "pm.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var mode string
	if err := db.conn.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
	var timeout int
	if err := db.conn.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatal(err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestMongoDBFromURI(t *testing.T) {
	tests := []struct {
		uri, want string
	}{
		{"mongodb://localhost:27017", "playmaker"},
		{"mongodb://u:p@host:27017/club?authSource=admin", "club"},
		{"mongodb+srv://u:p@cluster.example.net/tactics", "tactics"},
	}
	for _, tt := range tests {
		if got := mongoDBFromURI(tt.uri); got != tt.want {
			t.Errorf("mongoDBFromURI(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
