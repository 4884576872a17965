package intel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/osintscan/osintscan/internal/config"
	"github.com/osintscan/osintscan/internal/model"
)

// DefaultDomainEndpoint is the RDAP bootstrap service base URL. RDAP is
// the IETF-standard successor to WHOIS and returns structured JSON.
const DefaultDomainEndpoint = "https://rdap.org"

// dnsResolver is the subset of net.Resolver the adapters use.
// Tests inject a fake; production uses net.DefaultResolver.
type dnsResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// DomainAdapter queries registration data over RDAP and resolves live
// DNS records. It applies to domain and url identifiers, and to the
// domain part of email identifiers.
//
// RDAP is free to query; no API key is required.
type DomainAdapter struct {
	source httpSource
	logger *slog.Logger

	// resolver performs the live DNS lookups. Injectable for tests.
	resolver dnsResolver
}

// NewDomainAdapter creates a domain registration/DNS adapter.
func NewDomainAdapter(cfg config.SourceConfig, httpClient *http.Client, logger *slog.Logger, userAgent string, maxBodySize int64) *DomainAdapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultDomainEndpoint
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DomainAdapter{
		source:   newHTTPSource(httpClient, cfg, userAgent, maxBodySize),
		logger:   logger,
		resolver: net.DefaultResolver,
	}
}

// Name returns the adapter name.
func (a *DomainAdapter) Name() string { return "domain" }

// rdapResponse is the subset of the RDAP domain object we consume.
type rdapResponse struct {
	LdhName string `json:"ldhName"`
	Events  []struct {
		Action string `json:"eventAction"`
		Date   string `json:"eventDate"`
	} `json:"events"`
	Nameservers []struct {
		LdhName string `json:"ldhName"`
	} `json:"nameservers"`
	Entities []struct {
		Roles      []string `json:"roles"`
		VcardArray []any    `json:"vcardArray"`
	} `json:"entities"`
}

// subjectDomain extracts the domain to investigate from the identifier.
func subjectDomain(id model.Identifier) string {
	switch id.Type {
	case model.TypeDomain:
		return id.Raw
	case model.TypeURL:
		return id.Host()
	case model.TypeEmail:
		return id.EmailDomain()
	default:
		return ""
	}
}

// Lookup fetches RDAP registration data and live DNS records for the
// identifier's domain. RDAP and DNS are independent: a failure of one
// still reports the other's findings, and only a total miss errors.
func (a *DomainAdapter) Lookup(ctx context.Context, id model.Identifier, _ LookupOpts) (*model.IntelResult, error) {
	result := &model.IntelResult{Adapter: a.Name()}

	domain := subjectDomain(id)
	if domain == "" {
		return result, nil
	}

	dr := &model.DomainResult{Domain: domain}

	var rdapErr error
	var resp rdapResponse
	endpoint := fmt.Sprintf("%s/domain/%s", a.source.cfg.Endpoint, url.PathEscape(domain))
	if err := a.source.getJSON(ctx, endpoint, nil, &resp); err != nil {
		if !errors.Is(err, errNotFound) {
			rdapErr = err
			a.logger.Debug("rdap lookup failed", "domain", domain, "error", err)
		}
	} else {
		a.applyRDAP(dr, &resp)
	}

	// Live DNS, independent of registration data.
	if addrs, err := a.resolver.LookupHost(ctx, domain); err == nil {
		dr.ResolvedIPs = addrs
	}
	if mxs, err := a.resolver.LookupMX(ctx, domain); err == nil {
		for _, mx := range mxs {
			dr.MXHosts = append(dr.MXHosts, strings.TrimSuffix(mx.Host, "."))
		}
	}

	// A domain that neither registers nor resolves is a dead end; if
	// RDAP also failed, surface that failure.
	if dr.Registrar == "" && dr.CreatedAt == nil && len(dr.ResolvedIPs) == 0 && len(dr.MXHosts) == 0 {
		if rdapErr != nil {
			return nil, fmt.Errorf("domain lookup: %w", rdapErr)
		}
		return result, nil
	}

	result.Domain = dr
	return result, nil
}

// applyRDAP maps the RDAP object onto the domain result.
func (a *DomainAdapter) applyRDAP(dr *model.DomainResult, resp *rdapResponse) {
	for _, ev := range resp.Events {
		date, ok := parseSourceDate(ev.Date)
		if !ok {
			continue
		}
		switch ev.Action {
		case "registration":
			d := date
			dr.CreatedAt = &d
		case "expiration":
			d := date
			dr.ExpiresAt = &d
		}
	}

	for _, ns := range resp.Nameservers {
		if ns.LdhName != "" {
			dr.NameServers = append(dr.NameServers, strings.ToLower(ns.LdhName))
		}
	}

	// Registrar name lives in the registrar entity's vCard, a nested
	// array structure: ["vcard", [["fn", {}, "text", "Registrar Inc"], ...]].
	for _, ent := range resp.Entities {
		if !hasRole(ent.Roles, "registrar") {
			continue
		}
		if name := vcardFullName(ent.VcardArray); name != "" {
			dr.Registrar = name
			break
		}
	}
}

func hasRole(roles []string, want string) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}

// vcardFullName digs the "fn" property out of a jCard array.
func vcardFullName(vcard []any) string {
	if len(vcard) < 2 {
		return ""
	}
	props, ok := vcard[1].([]any)
	if !ok {
		return ""
	}
	for _, p := range props {
		fields, ok := p.([]any)
		if !ok || len(fields) < 4 {
			continue
		}
		if name, ok := fields[0].(string); !ok || name != "fn" {
			continue
		}
		if value, ok := fields[3].(string); ok {
			return value
		}
	}
	return ""
}
