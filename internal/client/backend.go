// Package client talks to the team backend over REST.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"playmaker/internal/domain"
	"playmaker/internal/wire"
)

const maxErrorBody = 64 << 10

// Backend is the REST save port and roster source.
type Backend struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Backend)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(b *Backend) { b.http = c }
}

// WithToken sends a bearer token on every request.
func WithToken(token string) Option {
	return func(b *Backend) { b.token = token }
}

func New(baseURL string, opts ...Option) *Backend {
	b := &Backend{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// errorBody is the error shape the backend may answer with. Either field
// may carry the message.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b *Backend) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return &domain.BackendError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		be := &domain.BackendError{Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			be.Message = eb.Message
			if be.Message == "" {
				be.Message = eb.Error
			}
		}
		return be
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &domain.BackendError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func notFound(err error) error {
	var be *domain.BackendError
	if errors.As(err, &be) && be.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	return err
}

// SaveTactic stores the tactic with PUT /api/tactics/{id}. The stored
// version returned by the backend, if any, is copied back into t.
func (b *Backend) SaveTactic(ctx context.Context, t *wire.Tactic) error {
	var stored wire.Tactic
	if err := b.do(ctx, http.MethodPut, "/api/tactics/"+url.PathEscape(t.ID), t, &stored); err != nil {
		return err
	}
	if stored.UpdatedAt != nil {
		t.UpdatedAt = stored.UpdatedAt
	}
	return nil
}

func (b *Backend) LoadTactic(ctx context.Context, id string) (*wire.Tactic, error) {
	var t wire.Tactic
	if err := b.do(ctx, http.MethodGet, "/api/tactics/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (b *Backend) ListTactics(ctx context.Context, teamID string) ([]wire.Tactic, error) {
	var out []wire.Tactic
	if err := b.do(ctx, http.MethodGet, "/api/teams/"+url.PathEscape(teamID)+"/tactics", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Backend) DeleteTactic(ctx context.Context, id string) error {
	return notFound(b.do(ctx, http.MethodDelete, "/api/tactics/"+url.PathEscape(id), nil, nil))
}

// FetchRoster returns the team's members in backend order.
func (b *Backend) FetchRoster(ctx context.Context, teamID string) ([]domain.Member, error) {
	var members []domain.Member
	if err := b.do(ctx, http.MethodGet, "/api/teams/"+url.PathEscape(teamID)+"/roster", nil, &members); err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}
	return members, nil
}
