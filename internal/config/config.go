// Package config reads the playmaker RC file.
package config

import (
	"fmt"
	"strings"

	"playmaker/internal/board"
)

type Server struct {
	Addr      string
	Advertise bool
}

// Store selects the tactic store. Host and the fields after it describe a
// postgres or mysql server when DSN is empty.
type Store struct {
	Driver   string // sqlite, postgres, mysql or mongo
	DSN      string
	MongoURI string
	MongoDB  string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// Backend is the remote REST store. An empty URL means tactics are kept
// in the local store.
type Backend struct {
	URL   string
	Token string
	Team  string
}

type Roster struct {
	File    string
	Refresh string // cron spec
}

type Render struct {
	Theme      board.Theme
	HeadLength float64
}

// Config holds the application configuration.
type Config struct {
	Server  Server
	Store   Store
	Backend Backend
	Roster  Roster
	Render  Render
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Server: Server{Addr: ":8080"},
		Store:  Store{Driver: "sqlite", DSN: "playmaker.db", MongoDB: "playmaker"},
		Render: Render{Theme: board.DefaultTheme, HeadLength: board.DefaultHeadLength},
	}
}

// ArrowOptions returns the arrowhead geometry for the renderer.
func (c *Config) ArrowOptions() board.ArrowOptions {
	opts := board.DefaultArrowOptions
	if c.Render.HeadLength > 0 {
		opts.HeadLength = c.Render.HeadLength
	}
	return opts
}

// ApplyEnv overrides file values from PLAYMAKER_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("PLAYMAKER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("PLAYMAKER_STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := getenv("PLAYMAKER_STORE_DSN"); v != "" {
		c.Store.DSN = v
	}
	if v := getenv("PLAYMAKER_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
}

// String returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	sb.WriteString("[server]\n")
	fmt.Fprintf(&sb, "addr = %s\n", c.Server.Addr)
	fmt.Fprintf(&sb, "advertise = %v\n\n", c.Server.Advertise)

	sb.WriteString("[store]\n")
	fmt.Fprintf(&sb, "driver = %s\n", c.Store.Driver)
	writeOpt(&sb, "dsn", c.Store.DSN)
	writeOpt(&sb, "mongo_uri", c.Store.MongoURI)
	writeOpt(&sb, "mongo_db", c.Store.MongoDB)
	writeOpt(&sb, "host", c.Store.Host)
	if c.Store.Port != 0 {
		fmt.Fprintf(&sb, "port = %d\n", c.Store.Port)
	}
	writeOpt(&sb, "user", c.Store.User)
	writeOpt(&sb, "password", c.Store.Password)
	writeOpt(&sb, "database", c.Store.Database)
	writeOpt(&sb, "sslmode", c.Store.SSLMode)
	sb.WriteString("\n")

	sb.WriteString("[backend]\n")
	writeOpt(&sb, "url", c.Backend.URL)
	writeOpt(&sb, "token", c.Backend.Token)
	writeOpt(&sb, "team", c.Backend.Team)
	sb.WriteString("\n")

	sb.WriteString("[roster]\n")
	writeOpt(&sb, "file", c.Roster.File)
	writeOpt(&sb, "refresh", c.Roster.Refresh)
	sb.WriteString("\n")

	sb.WriteString("[render]\n")
	fmt.Fprintf(&sb, "neutral = %s\n", c.Render.Theme.Neutral)
	fmt.Fprintf(&sb, "highlight = %s\n", c.Render.Theme.Highlight)
	fmt.Fprintf(&sb, "person = %s\n", c.Render.Theme.Person)
	fmt.Fprintf(&sb, "label = %s\n", c.Render.Theme.Label)
	fmt.Fprintf(&sb, "head_length = %g\n", c.Render.HeadLength)

	return sb.String()
}

func writeOpt(sb *strings.Builder, key, value string) {
	if value != "" {
		fmt.Fprintf(sb, "%s = %s\n", key, value)
	}
}
