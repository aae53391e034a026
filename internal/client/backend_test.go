package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"playmaker/internal/client"
	"playmaker/internal/domain"
	"playmaker/internal/wire"
)

func TestSaveTactic_SendsPayload(t *testing.T) {
	var got wire.Tactic
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/tactics/t1" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		got.UpdatedAt = &ts
		json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	b := client.New(srv.URL+"/", client.WithToken("secret"))
	payload := &wire.Tactic{ID: "t1", TeamID: "team", Shapes: wire.Encode([]domain.Shape{domain.Person{ID: "p", Size: 32}})}
	if err := b.SaveTactic(context.Background(), payload); err != nil {
		t.Fatal(err)
	}
	if len(got.Shapes) != 1 || got.Shapes[0].ID != "p" {
		t.Errorf("server got %+v", got)
	}
	if auth != "Bearer secret" {
		t.Errorf("authorization = %q", auth)
	}
	if payload.UpdatedAt == nil || payload.UpdatedAt.Year() != 2026 {
		t.Errorf("updatedAt not copied back: %v", payload.UpdatedAt)
	}
}

func TestSaveTactic_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"message field", 422, `{"message":"tactic name required"}`, "tactic name required"},
		{"error field", 400, `{"ok":false,"error":"bad shapes"}`, "bad shapes"},
		{"message wins", 400, `{"message":"first","error":"second"}`, "first"},
		{"no json", 502, `<html>bad gateway</html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := client.New(srv.URL).SaveTactic(context.Background(), &wire.Tactic{ID: "t"})
			var be *domain.BackendError
			if !errors.As(err, &be) {
				t.Fatalf("expected BackendError, got %T %v", err, err)
			}
			if be.Status != tt.status || be.Message != tt.wantMessage {
				t.Errorf("got status=%d message=%q", be.Status, be.Message)
			}
		})
	}
}

func TestSaveTactic_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := client.New(url).SaveTactic(context.Background(), &wire.Tactic{ID: "t"})
	var be *domain.BackendError
	if !errors.As(err, &be) || be.Err == nil || be.Status != 0 {
		t.Fatalf("expected transport BackendError, got %#v", err)
	}
}

func TestLoadTactic_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).LoadTactic(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchRoster(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/teams/lions/roster" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":"m1","name":"Alex"},{"id":"m2","name":"Bo"}]`))
	}))
	defer srv.Close()

	members, err := client.New(srv.URL).FetchRoster(context.Background(), "lions")
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 || members[1].Name != "Bo" {
		t.Errorf("members = %+v", members)
	}
}
