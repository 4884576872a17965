package intel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/osintscan/osintscan/internal/config"
	"github.com/osintscan/osintscan/internal/model"
)

// DefaultNetworkEndpoint is the IP intelligence API base URL. The
// project mirror aggregates geolocation with VPN/Tor/proxy exit lists
// behind a single JSON endpoint.
const DefaultNetworkEndpoint = "https://ipintel.osintscan.dev/v2"

// NetworkAdapter queries an IP intelligence source for geolocation and
// anonymization signals (VPN, Tor exit, open proxy). It applies to ip
// identifiers directly; for domain identifiers the orchestrator selects
// it after the domain adapter so the report carries both views, and the
// adapter resolves the domain's first address itself.
//
// The source is free to query; no API key is required.
type NetworkAdapter struct {
	source httpSource
	logger *slog.Logger

	// resolver resolves domain identifiers to an address before the
	// geolocation lookup. Injectable for tests.
	resolver hostResolver
}

// hostResolver is the subset of net.Resolver the network adapter uses.
type hostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// NewNetworkAdapter creates an IP intelligence adapter.
func NewNetworkAdapter(cfg config.SourceConfig, httpClient *http.Client, logger *slog.Logger, userAgent string, maxBodySize int64) *NetworkAdapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultNetworkEndpoint
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NetworkAdapter{
		source:   newHTTPSource(httpClient, cfg, userAgent, maxBodySize),
		logger:   logger,
		resolver: net.DefaultResolver,
	}
}

// Name returns the adapter name.
func (a *NetworkAdapter) Name() string { return "network" }

// networkResponse is the IP intelligence wire format.
type networkResponse struct {
	Status    string  `json:"status"`
	Country   string  `json:"country"`
	City      string  `json:"city"`
	ISP       string  `json:"isp"`
	ASN       string  `json:"as"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	VPN       bool    `json:"vpn"`
	Tor       bool    `json:"tor"`
	Proxy     bool    `json:"proxy"`
}

// Lookup geolocates the identifier's address and reports anonymization
// signals. Domain identifiers are resolved first; a domain with no A
// record yields an empty result, not an error.
func (a *NetworkAdapter) Lookup(ctx context.Context, id model.Identifier, _ LookupOpts) (*model.IntelResult, error) {
	result := &model.IntelResult{Adapter: a.Name()}

	addr := id.Raw
	if id.Type == model.TypeDomain {
		addrs, err := a.resolver.LookupHost(ctx, id.Raw)
		if err != nil || len(addrs) == 0 {
			a.logger.Debug("network lookup skipped", "domain", id.Raw, "reason", "no address records")
			return result, nil
		}
		addr = addrs[0]
	}

	var resp networkResponse
	endpoint := fmt.Sprintf("%s/ip/%s", a.source.cfg.Endpoint, url.PathEscape(addr))
	if err := a.source.getJSON(ctx, endpoint, nil, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return result, nil
		}
		return nil, fmt.Errorf("ip intelligence lookup: %w", err)
	}
	if resp.Status != "" && resp.Status != "success" {
		// The source reports private/reserved ranges as failures.
		a.logger.Debug("network lookup unresolvable", "ip", addr, "status", resp.Status)
		return result, nil
	}

	result.Network = &model.NetworkResult{
		IP:        addr,
		Country:   resp.Country,
		City:      resp.City,
		ISP:       resp.ISP,
		ASN:       resp.ASN,
		Latitude:  resp.Latitude,
		Longitude: resp.Longitude,
		VPN:       resp.VPN,
		Tor:       resp.Tor,
		Proxy:     resp.Proxy,
	}
	return result, nil
}
