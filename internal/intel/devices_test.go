package intel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/osintscan/osintscan/internal/config"
	"github.com/osintscan/osintscan/internal/model"
)

const devicesFixture = `{
	"ports": [22, 80, 8443],
	"data": [
		{"port": 80, "transport": "tcp", "product": "nginx", "data": "HTTP/1.1 200 OK"},
		{"port": 22, "transport": "tcp", "product": "OpenSSH", "data": "SSH-2.0-OpenSSH_9.6"}
	],
	"vulns": ["CVE-2024-6387", "CVE-2023-44487"],
	"hostnames": ["vps.example.net"],
	"last_update": "2026-08-12T04:18:47"
}`

// TestDevicesAdapter_Lookup tests exposed-device report parsing.
func TestDevicesAdapter_Lookup(t *testing.T) {
	t.Parallel()

	t.Run("parses host report", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/shodan/host/203.0.113.7" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			if got := r.URL.Query().Get("key"); got != "shodan-key" {
				t.Errorf("key query param = %q", got)
			}
			_, _ = w.Write([]byte(devicesFixture))
		}))
		defer srv.Close()

		adapter := NewDevicesAdapter(config.SourceConfig{APIKey: "shodan-key", Endpoint: srv.URL}, nil, nil, "", 0)
		result, err := adapter.Lookup(context.Background(), model.Classify("203.0.113.7"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		dr := result.Devices
		if dr == nil {
			t.Fatal("expected devices payload")
		}
		// Ports sorted ascending, banner detail preferred, bare ports kept
		if len(dr.OpenPorts) != 3 {
			t.Fatalf("open ports = %d, expected 3", len(dr.OpenPorts))
		}
		if dr.OpenPorts[0].Port != 22 || dr.OpenPorts[0].Service != "OpenSSH" {
			t.Errorf("port[0] = %+v", dr.OpenPorts[0])
		}
		if dr.OpenPorts[2].Port != 8443 || dr.OpenPorts[2].Service != "" {
			t.Errorf("port[2] = %+v", dr.OpenPorts[2])
		}
		if len(dr.Vulns) != 2 || dr.Vulns[0] != "CVE-2023-44487" {
			t.Errorf("vulns = %v", dr.Vulns)
		}
		if dr.LastSeen == nil || dr.LastSeen.Year() != 2026 {
			t.Errorf("last seen = %v", dr.LastSeen)
		}
	})

	t.Run("unknown address is empty", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		adapter := NewDevicesAdapter(config.SourceConfig{APIKey: "k", Endpoint: srv.URL}, nil, nil, "", 0)
		result, err := adapter.Lookup(context.Background(), model.Classify("198.51.100.250"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Empty() {
			t.Error("expected empty result")
		}
	})

	t.Run("missing api key skips source", func(t *testing.T) {
		t.Parallel()

		adapter := NewDevicesAdapter(config.SourceConfig{}, nil, nil, "", 0)
		result, err := adapter.Lookup(context.Background(), model.Classify("203.0.113.7"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected nil error for unconfigured source, got %v", err)
		}
		if !result.Empty() {
			t.Error("expected empty result")
		}
	})

	t.Run("non-ip identifier is empty", func(t *testing.T) {
		t.Parallel()

		adapter := NewDevicesAdapter(config.SourceConfig{APIKey: "k"}, nil, nil, "", 0)
		result, err := adapter.Lookup(context.Background(), model.Classify("example.com"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Empty() {
			t.Error("expected empty result for domain")
		}
	})
}
