package intel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/osintscan/osintscan/internal/config"
	"github.com/osintscan/osintscan/internal/model"
)

// DefaultBreachEndpoint is the breach registry API base URL.
const DefaultBreachEndpoint = "https://haveibeenpwned.com/api/v3"

// breachAPIKeyHeader is the registry's authentication header.
const breachAPIKeyHeader = "hibp-api-key"

// BreachAdapter queries a breach-record registry (HIBP-style JSON API)
// for breaches the identifier appeared in. It applies to emails,
// usernames, and phone numbers.
//
// The registry requires an API key. Without one the adapter skips the
// source: breach data is supplementary, and a half-configured install
// should still produce a useful report from the free sources.
type BreachAdapter struct {
	source httpSource
	logger *slog.Logger
}

// NewBreachAdapter creates a breach registry adapter. A nil httpClient
// gets a default client with the source timeout; pass the anonnet client
// for discreet mode.
func NewBreachAdapter(cfg config.SourceConfig, httpClient *http.Client, logger *slog.Logger, userAgent string, maxBodySize int64) *BreachAdapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultBreachEndpoint
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BreachAdapter{
		source: newHTTPSource(httpClient, cfg, userAgent, maxBodySize),
		logger: logger,
	}
}

// Name returns the adapter name.
func (a *BreachAdapter) Name() string { return "breach" }

// breachRecord is the registry's wire format for one breach.
type breachRecord struct {
	Name        string   `json:"Name"`
	Domain      string   `json:"Domain"`
	BreachDate  string   `json:"BreachDate"`
	DataClasses []string `json:"DataClasses"`
	RiskScore   int      `json:"RiskScore"`
	Description string   `json:"Description"`
}

// confirmedResponse is the deep-scan confirmation endpoint's wire format.
type confirmedResponse struct {
	Confirmed bool `json:"confirmed"`
}

// Lookup fetches the breach records for the identifier. On deep scan it
// additionally runs the registry's direct confirmation check for email
// identifiers, which feeds the post-scoring adjustment.
func (a *BreachAdapter) Lookup(ctx context.Context, id model.Identifier, opts LookupOpts) (*model.IntelResult, error) {
	result := &model.IntelResult{Adapter: a.Name()}

	// Registry auth is mandatory; skip without a key.
	if a.source.cfg.APIKey == "" {
		a.logger.Debug("breach source skipped", "reason", "no api key configured")
		return result, nil
	}

	headers := map[string]string{breachAPIKeyHeader: a.source.cfg.APIKey}

	var records []breachRecord
	endpoint := fmt.Sprintf("%s/breachedaccount/%s?truncateResponse=false",
		a.source.cfg.Endpoint, url.PathEscape(id.Raw))
	if err := a.source.getJSON(ctx, endpoint, headers, &records); err != nil {
		if errors.Is(err, errNotFound) {
			// Identifier not present in any known breach.
			return result, nil
		}
		return nil, fmt.Errorf("breach registry lookup: %w", err)
	}

	breach := &model.BreachResult{}
	for _, r := range records {
		date, ok := parseSourceDate(r.BreachDate)
		if !ok {
			a.logger.Debug("skipping breach with unparseable date", "breach", r.Name, "date", r.BreachDate)
			continue
		}
		breach.Records = append(breach.Records, model.BreachRecord{
			Domain:      r.Domain,
			Date:        date,
			DataClasses: r.DataClasses,
			RiskScore:   r.RiskScore,
			Description: r.Description,
		})
	}

	// Deep scan: confirmed-breach check for emails. A confirmation means
	// the address itself, not just the account name, appears in leaked
	// data sets.
	if opts.DeepScan && id.Type == model.TypeEmail {
		var confirmed confirmedResponse
		confirmEndpoint := fmt.Sprintf("%s/confirmed/%s", a.source.cfg.Endpoint, url.PathEscape(id.Raw))
		if err := a.source.getJSON(ctx, confirmEndpoint, headers, &confirmed); err != nil {
			if !errors.Is(err, errNotFound) {
				// The base lookup succeeded; log and keep what we have.
				a.logger.Warn("confirmed-breach check failed", "error", err)
			}
		} else {
			breach.ConfirmedForEmail = confirmed.Confirmed
		}
	}

	result.Breaches = breach
	return result, nil
}
