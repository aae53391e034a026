package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playmaker/internal/board"
)

func TestParse(t *testing.T) {
	input := `
# local dev
[server]
addr = :9090
advertise = true

[store]
driver = Postgres
dsn = "host=localhost dbname=playmaker"

[backend]
url = https://api.example.com/
team = t1

[roster]
file = roster.json
refresh = @every 5m

[render]
highlight = #FF0000
head_length = 20
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Server.Addr != ":9090" || !cfg.Server.Advertise {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Store.Driver != "postgres" || cfg.Store.DSN != "host=localhost dbname=playmaker" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Store.MongoDB != "playmaker" {
		t.Errorf("mongo_db default lost: %q", cfg.Store.MongoDB)
	}
	if cfg.Backend.URL != "https://api.example.com" || cfg.Backend.Team != "t1" {
		t.Errorf("backend = %+v", cfg.Backend)
	}
	if cfg.Roster.Refresh != "@every 5m" {
		t.Errorf("refresh = %q", cfg.Roster.Refresh)
	}
	if cfg.Render.Theme.Highlight != "#FF0000" || cfg.Render.Theme.Neutral != board.DefaultTheme.Neutral {
		t.Errorf("theme = %+v", cfg.Render.Theme)
	}
	if got := cfg.ArrowOptions().HeadLength; got != 20 {
		t.Errorf("head length = %v", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad bool", "[server]\nadvertise = maybe\n"},
		{"bad color", "[render]\nperson = blue\n"},
		{"bad head length", "[render]\nhead_length = -3\n"},
		{"bad port", "[store]\nport = http\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCircular(t *testing.T) {
	cfg := New()
	cfg.Server.Advertise = true
	cfg.Backend.URL = "http://localhost:3000"
	cfg.Roster.File = "/tmp/roster.json"
	cfg.Store.Driver = "mysql"
	cfg.Store.Host = "db.local"
	cfg.Store.Port = 3307
	cfg.Store.User = "coach"
	cfg.Render.Theme.Person = "#00FF00"
	cfg.Render.HeadLength = 18

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}
	if cfg.Server != cfg2.Server || cfg.Store != cfg2.Store || cfg.Backend != cfg2.Backend || cfg.Roster != cfg2.Roster {
		t.Errorf("mismatch:\n%+v\n%+v", cfg, cfg2)
	}
	if cfg.Render != cfg2.Render {
		t.Errorf("render mismatch: %+v vs %+v", cfg.Render, cfg2.Render)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PLAYMAKER_ADDR":         ":7000",
		"PLAYMAKER_STORE_DRIVER": "mysql",
		"PLAYMAKER_BACKEND_URL":  "http://b",
	}
	cfg := New()
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if cfg.Server.Addr != ":7000" || cfg.Store.Driver != "mysql" || cfg.Backend.URL != "http://b" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Store.DSN != "playmaker.db" {
		t.Errorf("unset variable overrode dsn: %q", cfg.Store.DSN)
	}
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pm.rc")
	if err := os.WriteFile(path, []byte("[server]\naddr = :1234\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader("test", path)
	l.Getenv = func(string) string { return "" }
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":1234" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	if _, err := NewLoader("test", filepath.Join(dir, "missing.rc")).Load(); err == nil {
		t.Error("expected error for missing explicit path")
	}
}
