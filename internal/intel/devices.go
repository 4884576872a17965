package intel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"

	"github.com/osintscan/osintscan/internal/config"
	"github.com/osintscan/osintscan/internal/model"
)

// DefaultDevicesEndpoint is the exposed-device search API base URL.
const DefaultDevicesEndpoint = "https://api.shodan.io"

// DevicesAdapter queries an internet-wide device scanner for services
// exposed on an address: open ports, banners, and associated CVE
// identifiers. It applies to ip identifiers and, on deep scans of
// domains, to their resolved addresses via the orchestrator plan.
//
// The scanner requires an API key passed as a query parameter; without
// one the adapter skips the source.
type DevicesAdapter struct {
	source httpSource
	logger *slog.Logger
}

// NewDevicesAdapter creates an exposed-device search adapter.
func NewDevicesAdapter(cfg config.SourceConfig, httpClient *http.Client, logger *slog.Logger, userAgent string, maxBodySize int64) *DevicesAdapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultDevicesEndpoint
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DevicesAdapter{
		source: newHTTPSource(httpClient, cfg, userAgent, maxBodySize),
		logger: logger,
	}
}

// Name returns the adapter name.
func (a *DevicesAdapter) Name() string { return "devices" }

// devicesResponse is the device scanner's host report wire format.
type devicesResponse struct {
	Ports []int `json:"ports"`
	Data  []struct {
		Port      int    `json:"port"`
		Transport string `json:"transport"`
		Product   string `json:"product"`
		Banner    string `json:"data"`
	} `json:"data"`
	Vulns      []string `json:"vulns"`
	Hostnames  []string `json:"hostnames"`
	LastUpdate string   `json:"last_update"`
}

// Lookup fetches the scanner's host report for an address. An address
// the scanner has never observed (404) is an empty result.
func (a *DevicesAdapter) Lookup(ctx context.Context, id model.Identifier, _ LookupOpts) (*model.IntelResult, error) {
	result := &model.IntelResult{Adapter: a.Name()}

	if a.source.cfg.APIKey == "" {
		a.logger.Debug("devices source skipped", "reason", "no api key configured")
		return result, nil
	}
	if id.Type != model.TypeIP {
		return result, nil
	}

	endpoint := fmt.Sprintf("%s/shodan/host/%s?key=%s",
		a.source.cfg.Endpoint, url.PathEscape(id.Raw), url.QueryEscape(a.source.cfg.APIKey))

	var resp devicesResponse
	if err := a.source.getJSON(ctx, endpoint, nil, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return result, nil
		}
		return nil, fmt.Errorf("device search lookup: %w", err)
	}

	dr := &model.DeviceResult{
		Hostnames: resp.Hostnames,
	}
	if ts, ok := parseSourceDate(resp.LastUpdate); ok {
		dr.LastSeen = &ts
	}

	// Prefer per-service detail; fall back to the bare port list for
	// services the scanner has no banner for.
	detailed := make(map[int]bool, len(resp.Data))
	for _, svc := range resp.Data {
		detailed[svc.Port] = true
		dr.OpenPorts = append(dr.OpenPorts, model.PortInfo{
			Port:    svc.Port,
			Proto:   svc.Transport,
			Service: svc.Product,
			Banner:  svc.Banner,
		})
	}
	for _, port := range resp.Ports {
		if !detailed[port] {
			dr.OpenPorts = append(dr.OpenPorts, model.PortInfo{Port: port})
		}
	}
	sort.Slice(dr.OpenPorts, func(i, j int) bool {
		return dr.OpenPorts[i].Port < dr.OpenPorts[j].Port
	})

	dr.Vulns = append(dr.Vulns, resp.Vulns...)
	sort.Strings(dr.Vulns)

	result.Devices = dr
	return result, nil
}
