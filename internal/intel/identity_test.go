package intel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/osintscan/osintscan/internal/config"
	"github.com/osintscan/osintscan/internal/model"
)

// newIdentityServer serves both the account registry and the commit
// search API from one mux.
func newIdentityServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer reg-key" {
			t.Errorf("registry auth header = %q", got)
		}
		_, _ = w.Write([]byte(`{
			"accounts": [
				{"service": "spotify", "registered_at": "2021-02-03T00:00:00Z"},
				{"service": "adobe"}
			],
			"profiles": [
				{"platform": "LinkedIn", "username": "alice-doe", "url": "https://linkedin.com/in/alice-doe", "confidence": 60, "exists": true}
			]
		}`))
	})
	mux.HandleFunc("/search/commits", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"total_count": 3,
			"items": [
				{"commit": {"author": {"email": "Alice@Example.com"}}},
				{"commit": {"author": {"email": "alice@example.com"}}},
				{"commit": {"author": {"email": "12345+alice@users.noreply.github.com"}}},
				{"commit": {"author": {"email": "alice.work@corp.example"}}}
			]
		}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestIdentityAdapter_Lookup tests registry and commit-search merging.
func TestIdentityAdapter_Lookup(t *testing.T) {
	t.Parallel()

	t.Run("merges registry accounts and leaked emails", func(t *testing.T) {
		t.Parallel()

		srv := newIdentityServer(t)
		adapter := NewIdentityAdapter(
			config.SourceConfig{APIKey: "reg-key", Endpoint: srv.URL},
			config.SourceConfig{Endpoint: srv.URL},
			nil, nil, "", 0,
		)

		result, err := adapter.Lookup(context.Background(), model.Classify("alice@example.com"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		ir := result.Identity
		if ir == nil {
			t.Fatal("expected identity payload")
		}
		if len(ir.Accounts) != 2 || ir.Accounts[0].Service != "spotify" {
			t.Errorf("accounts = %+v", ir.Accounts)
		}
		if ir.Accounts[0].RegisteredAt == nil {
			t.Error("expected spotify registration date")
		}
		if ir.Accounts[1].RegisteredAt != nil {
			t.Error("expected no adobe registration date")
		}
		if len(ir.Profiles) != 1 || ir.Profiles[0].Platform != "LinkedIn" {
			t.Errorf("profiles = %+v", ir.Profiles)
		}

		// Leaked emails: lowercased, deduplicated, noreply filtered, sorted
		expected := []string{"alice.work@corp.example", "alice@example.com"}
		if !reflect.DeepEqual(ir.LeakedEmails, expected) {
			t.Errorf("leaked emails = %v, expected %v", ir.LeakedEmails, expected)
		}
	})

	t.Run("commit search runs without registry key", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/search/commits", func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("q"); got != "author:ghost42" {
				t.Errorf("query = %q", got)
			}
			_, _ = w.Write([]byte(`{"total_count":1,"items":[{"commit":{"author":{"email":"ghost@example.net"}}}]}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		adapter := NewIdentityAdapter(
			config.SourceConfig{Endpoint: srv.URL}, // no registry key
			config.SourceConfig{Endpoint: srv.URL},
			nil, nil, "", 0,
		)

		result, err := adapter.Lookup(context.Background(), model.Classify("ghost42"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Identity == nil || len(result.Identity.LeakedEmails) != 1 {
			t.Fatalf("result = %+v, expected one leaked email", result.Identity)
		}
		if len(result.Identity.Accounts) != 0 {
			t.Error("expected no registry accounts without a key")
		}
	})

	t.Run("no findings is an empty result", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"total_count":0,"items":[]}`))
		}))
		defer srv.Close()

		adapter := NewIdentityAdapter(
			config.SourceConfig{Endpoint: srv.URL},
			config.SourceConfig{Endpoint: srv.URL},
			nil, nil, "", 0,
		)

		result, err := adapter.Lookup(context.Background(), model.Classify("ghost42"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Empty() {
			t.Error("expected empty result")
		}
	})

	t.Run("unsupported identifier type is empty", func(t *testing.T) {
		t.Parallel()

		adapter := NewIdentityAdapter(config.SourceConfig{}, config.SourceConfig{}, nil, nil, "", 0)
		result, err := adapter.Lookup(context.Background(), model.Classify("203.0.113.7"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Empty() {
			t.Error("expected empty result for ip")
		}
	})

	t.Run("both sources failing is an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		adapter := NewIdentityAdapter(
			config.SourceConfig{APIKey: "k", Endpoint: srv.URL},
			config.SourceConfig{Endpoint: srv.URL},
			nil, nil, "", 0,
		)

		if _, err := adapter.Lookup(context.Background(), model.Classify("ghost42"), LookupOpts{}); err == nil {
			t.Error("expected error when both sources fail")
		}
	})
}
