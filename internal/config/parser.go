package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"playmaker/internal/board"
)

// Parse reads configuration from an io.Reader. Unknown sections and keys
// are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section {
		case "server":
			err = setServerField(&cfg.Server, key, value)
		case "store":
			err = setStoreField(&cfg.Store, key, value)
		case "backend":
			setBackendField(&cfg.Backend, key, value)
		case "roster":
			setRosterField(&cfg.Roster, key, value)
		case "render":
			err = setRenderField(&cfg.Render, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("error in section [%s]: %w", section, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := cfg.Render.Theme.Validate(); err != nil {
		return nil, fmt.Errorf("error in section [render]: %w", err)
	}
	return cfg, nil
}

func setServerField(s *Server, key, value string) error {
	switch key {
	case "addr":
		s.Addr = value
	case "advertise":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		s.Advertise = b
	}
	return nil
}

func setStoreField(s *Store, key, value string) error {
	switch key {
	case "driver":
		s.Driver = strings.ToLower(value)
	case "dsn":
		s.DSN = value
	case "mongo_uri":
		s.MongoURI = value
	case "mongo_db":
		s.MongoDB = value
	case "host":
		s.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port %q", value)
		}
		s.Port = port
	case "user":
		s.User = value
	case "password":
		s.Password = value
	case "database":
		s.Database = value
	case "sslmode":
		s.SSLMode = value
	}
	return nil
}

func setBackendField(b *Backend, key, value string) {
	switch key {
	case "url":
		b.URL = strings.TrimRight(value, "/")
	case "token":
		b.Token = value
	case "team":
		b.Team = value
	}
}

func setRosterField(r *Roster, key, value string) {
	switch key {
	case "file":
		r.File = value
	case "refresh":
		r.Refresh = value
	}
}

func setRenderField(r *Render, key, value string) error {
	switch key {
	case "neutral", "highlight", "person", "label":
		if _, err := board.ParseHex(value); err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		switch key {
		case "neutral":
			r.Theme.Neutral = value
		case "highlight":
			r.Theme.Highlight = value
		case "person":
			r.Theme.Person = value
		case "label":
			r.Theme.Label = value
		}
	case "head_length":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid head_length %q", value)
		}
		r.HeadLength = v
	}
	return nil
}
