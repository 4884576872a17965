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

// DefaultMalwareEndpoint is the malware reputation API base URL.
const DefaultMalwareEndpoint = "https://www.virustotal.com/api/v3"

// malwareAPIKeyHeader is the scanner's authentication header.
const malwareAPIKeyHeader = "x-vt-api-key"

// MalwareAdapter queries a multi-engine malware reputation scanner.
// It applies to hash identifiers (file reports), url identifiers, and,
// on deep scans, to ip and domain identifiers.
//
// The scanner requires an API key; without one the adapter skips the
// source.
type MalwareAdapter struct {
	source httpSource
	logger *slog.Logger
}

// NewMalwareAdapter creates a malware reputation adapter.
func NewMalwareAdapter(cfg config.SourceConfig, httpClient *http.Client, logger *slog.Logger, userAgent string, maxBodySize int64) *MalwareAdapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultMalwareEndpoint
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MalwareAdapter{
		source: newHTTPSource(httpClient, cfg, userAgent, maxBodySize),
		logger: logger,
	}
}

// Name returns the adapter name.
func (a *MalwareAdapter) Name() string { return "malware" }

// malwareResponse is the scanner's wire format, following the common
// attributes/last_analysis_stats shape.
type malwareResponse struct {
	Data struct {
		Attributes struct {
			Stats struct {
				Malicious  int `json:"malicious"`
				Suspicious int `json:"suspicious"`
				Harmless   int `json:"harmless"`
				Undetected int `json:"undetected"`
			} `json:"last_analysis_stats"`
			Results map[string]struct {
				Category string `json:"category"`
				Result   string `json:"result"`
			} `json:"last_analysis_results"`
			Reputation int `json:"reputation"`
		} `json:"attributes"`
	} `json:"data"`
}

// reportPath maps identifier types onto the scanner's report endpoints.
func reportPath(id model.Identifier) string {
	switch id.Type {
	case model.TypeHash:
		return "/files/" + url.PathEscape(id.Raw)
	case model.TypeURL:
		// The scanner addresses URL reports by the URL itself,
		// query-escaped.
		return "/urls/" + url.QueryEscape(id.Raw)
	case model.TypeDomain:
		return "/domains/" + url.PathEscape(id.Raw)
	case model.TypeIP:
		return "/ip_addresses/" + url.PathEscape(id.Raw)
	default:
		return ""
	}
}

// Lookup fetches the multi-engine analysis report for the identifier.
// An unknown hash or URL (404 from the scanner) is an empty result.
func (a *MalwareAdapter) Lookup(ctx context.Context, id model.Identifier, _ LookupOpts) (*model.IntelResult, error) {
	result := &model.IntelResult{Adapter: a.Name()}

	if a.source.cfg.APIKey == "" {
		a.logger.Debug("malware source skipped", "reason", "no api key configured")
		return result, nil
	}

	path := reportPath(id)
	if path == "" {
		return result, nil
	}

	headers := map[string]string{malwareAPIKeyHeader: a.source.cfg.APIKey}

	var resp malwareResponse
	if err := a.source.getJSON(ctx, a.source.cfg.Endpoint+path, headers, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			// Never submitted to the scanner; no reputation data.
			return result, nil
		}
		return nil, fmt.Errorf("malware reputation lookup: %w", err)
	}

	stats := resp.Data.Attributes.Stats
	mr := &model.MalwareResult{
		Detections: stats.Malicious + stats.Suspicious,
		Engines:    stats.Malicious + stats.Suspicious + stats.Harmless + stats.Undetected,
		Reputation: resp.Data.Attributes.Reputation,
	}
	for _, er := range resp.Data.Attributes.Results {
		if er.Category == "malicious" && er.Result != "" {
			mr.Verdicts = append(mr.Verdicts, er.Result)
		}
	}
	// Engine results arrive as a map; sort for deterministic output.
	sort.Strings(mr.Verdicts)

	result.Malware = mr
	return result, nil
}
