package intel

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/osintscan/osintscan/internal/config"
	"github.com/osintscan/osintscan/internal/model"
)

// rdapFixture is a trimmed RDAP domain object with registrar entity,
// registration events, and nameservers.
const rdapFixture = `{
	"ldhName": "example.com",
	"events": [
		{"eventAction": "registration", "eventDate": "2019-03-01T00:00:00Z"},
		{"eventAction": "expiration", "eventDate": "2027-03-01T00:00:00Z"}
	],
	"nameservers": [
		{"ldhName": "NS1.EXAMPLE-DNS.COM"},
		{"ldhName": "NS2.EXAMPLE-DNS.COM"}
	],
	"entities": [
		{
			"roles": ["registrar"],
			"vcardArray": ["vcard", [["version", {}, "text", "4.0"], ["fn", {}, "text", "Example Registrar Inc"]]]
		}
	]
}`

// TestDomainAdapter_Lookup tests RDAP parsing and DNS enrichment.
func TestDomainAdapter_Lookup(t *testing.T) {
	t.Parallel()

	newAdapter := func(t *testing.T, rdapBody string, status int) *DomainAdapter {
		t.Helper()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if status != http.StatusOK {
				w.WriteHeader(status)
				return
			}
			_, _ = w.Write([]byte(rdapBody))
		}))
		t.Cleanup(srv.Close)

		adapter := NewDomainAdapter(config.SourceConfig{Endpoint: srv.URL}, nil, nil, "", 0)
		adapter.resolver = &fakeResolver{
			hosts: map[string][]string{"example.com": {"93.184.216.34"}},
			mx: map[string][]*net.MX{
				"example.com": {{Host: "mail.example.com.", Pref: 10}},
			},
		}
		return adapter
	}

	t.Run("parses registration data and dns", func(t *testing.T) {
		t.Parallel()

		adapter := newAdapter(t, rdapFixture, http.StatusOK)
		result, err := adapter.Lookup(context.Background(), model.Classify("example.com"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		dr := result.Domain
		if dr == nil {
			t.Fatal("expected domain payload")
		}
		if dr.Registrar != "Example Registrar Inc" {
			t.Errorf("registrar = %q", dr.Registrar)
		}
		if dr.CreatedAt == nil || dr.CreatedAt.Year() != 2019 {
			t.Errorf("created at = %v", dr.CreatedAt)
		}
		if dr.ExpiresAt == nil || dr.ExpiresAt.Year() != 2027 {
			t.Errorf("expires at = %v", dr.ExpiresAt)
		}
		if len(dr.NameServers) != 2 || dr.NameServers[0] != "ns1.example-dns.com" {
			t.Errorf("nameservers = %v", dr.NameServers)
		}
		if len(dr.ResolvedIPs) != 1 || dr.ResolvedIPs[0] != "93.184.216.34" {
			t.Errorf("resolved ips = %v", dr.ResolvedIPs)
		}
		if len(dr.MXHosts) != 1 || dr.MXHosts[0] != "mail.example.com" {
			t.Errorf("mx hosts = %v", dr.MXHosts)
		}
	})

	t.Run("email identifiers use the email domain", func(t *testing.T) {
		t.Parallel()

		adapter := newAdapter(t, rdapFixture, http.StatusOK)
		result, err := adapter.Lookup(context.Background(), model.Classify("alice@example.com"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Domain == nil || result.Domain.Domain != "example.com" {
			t.Errorf("domain = %+v", result.Domain)
		}
	})

	t.Run("url identifiers use the host", func(t *testing.T) {
		t.Parallel()

		adapter := newAdapter(t, rdapFixture, http.StatusOK)
		result, err := adapter.Lookup(context.Background(), model.Classify("https://example.com/path"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Domain == nil || result.Domain.Domain != "example.com" {
			t.Errorf("domain = %+v", result.Domain)
		}
	})

	t.Run("dns survives rdap failure", func(t *testing.T) {
		t.Parallel()

		adapter := newAdapter(t, "", http.StatusInternalServerError)
		result, err := adapter.Lookup(context.Background(), model.Classify("example.com"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error when dns works, got %v", err)
		}
		if result.Domain == nil || len(result.Domain.ResolvedIPs) != 1 {
			t.Errorf("expected dns-only result, got %+v", result.Domain)
		}
		if result.Domain.Registrar != "" {
			t.Errorf("unexpected registrar %q", result.Domain.Registrar)
		}
	})

	t.Run("total miss with rdap failure errors", func(t *testing.T) {
		t.Parallel()

		adapter := newAdapter(t, "", http.StatusInternalServerError)
		adapter.resolver = &fakeResolver{}

		if _, err := adapter.Lookup(context.Background(), model.Classify("example.com"), LookupOpts{}); err == nil {
			t.Error("expected error when both rdap and dns fail")
		}
	})

	t.Run("non-domain identifier is empty", func(t *testing.T) {
		t.Parallel()

		adapter := newAdapter(t, rdapFixture, http.StatusOK)
		result, err := adapter.Lookup(context.Background(), model.Classify("ghost42"), LookupOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Empty() {
			t.Error("expected empty result for username identifier")
		}
	})
}
