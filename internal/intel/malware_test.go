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

const malwareFixture = `{
	"data": {
		"attributes": {
			"last_analysis_stats": {
				"malicious": 41,
				"suspicious": 2,
				"harmless": 20,
				"undetected": 7
			},
			"last_analysis_results": {
				"EngineB": {"category": "malicious", "result": "trojan.generic"},
				"EngineA": {"category": "malicious", "result": "ransom.lockbit"},
				"EngineC": {"category": "harmless", "result": ""}
			},
			"reputation": -54
		}
	}
}`

// TestMalwareAdapter_Lookup tests reputation report parsing.
func TestMalwareAdapter_Lookup(t *testing.T) {
	t.Parallel()

	t.Run("parses file report for hash", func(t *testing.T) {
		t.Parallel()

		hash := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/files/"+hash {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			if got := r.Header.Get("x-vt-api-key"); got != "vt-key" {
				t.Errorf("api key header = %q", got)
			}
			_, _ = w.Write([]byte(malwareFixture))
		}))
		defer srv.Close()

		adapter := NewMalwareAdapter(config.SourceConfig{APIKey: "vt-key", Endpoint: srv.URL}, nil, nil, "", 0)
		result, err := adapter.Lookup(context.Background(), model.Classify(hash), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		mr := result.Malware
		if mr == nil {
			t.Fatal("expected malware payload")
		}
		if mr.Detections != 43 {
			t.Errorf("detections = %d, expected 43", mr.Detections)
		}
		if mr.Engines != 70 {
			t.Errorf("engines = %d, expected 70", mr.Engines)
		}
		if mr.Reputation != -54 {
			t.Errorf("reputation = %d", mr.Reputation)
		}
		// Verdicts are sorted for determinism
		expected := []string{"ransom.lockbit", "trojan.generic"}
		if !reflect.DeepEqual(mr.Verdicts, expected) {
			t.Errorf("verdicts = %v, expected %v", mr.Verdicts, expected)
		}
	})

	t.Run("unknown hash is empty", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		adapter := NewMalwareAdapter(config.SourceConfig{APIKey: "k", Endpoint: srv.URL}, nil, nil, "", 0)
		result, err := adapter.Lookup(context.Background(), model.Classify("d41d8cd98f00b204e9800998ecf8427e"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Empty() {
			t.Error("expected empty result")
		}
	})

	t.Run("missing api key skips source", func(t *testing.T) {
		t.Parallel()

		adapter := NewMalwareAdapter(config.SourceConfig{}, nil, nil, "", 0)
		result, err := adapter.Lookup(context.Background(), model.Classify("d41d8cd98f00b204e9800998ecf8427e"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected nil error for unconfigured source, got %v", err)
		}
		if !result.Empty() {
			t.Error("expected empty result")
		}
	})

	t.Run("unsupported identifier type is empty", func(t *testing.T) {
		t.Parallel()

		adapter := NewMalwareAdapter(config.SourceConfig{APIKey: "k"}, nil, nil, "", 0)
		result, err := adapter.Lookup(context.Background(), model.Classify("ghost42"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Empty() {
			t.Error("expected empty result for username")
		}
	})
}
