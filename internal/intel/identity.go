package intel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/osintscan/osintscan/internal/config"
	"github.com/osintscan/osintscan/internal/model"
)

// Default identity source endpoints.
const (
	// DefaultIdentityEndpoint is the account registry API base URL. The
	// registry aggregates holehe-style account existence checks across
	// consumer services.
	DefaultIdentityEndpoint = "https://identregistry.osintscan.dev/v1"

	// DefaultGitHubEndpoint is the GitHub REST API base URL, used for
	// leaked-commit email discovery.
	DefaultGitHubEndpoint = "https://api.github.com"
)

// IdentityAdapter queries an account registry for services where the
// identifier is registered, and searches public code commits for leaked
// email addresses. It applies to email, username, and phone identifiers.
//
// The adapter combines two sources:
//   - the account registry ("identity" in the config file), which
//     requires an API key and is skipped without one;
//   - the GitHub commit search ("github"), which works unauthenticated
//     at a reduced rate limit, so it always runs. A configured token is
//     sent as a bearer credential.
type IdentityAdapter struct {
	registry httpSource
	github   httpSource
	logger   *slog.Logger
}

// NewIdentityAdapter creates an identity adapter from the registry and
// github source configurations.
func NewIdentityAdapter(registryCfg, githubCfg config.SourceConfig, httpClient *http.Client, logger *slog.Logger, userAgent string, maxBodySize int64) *IdentityAdapter {
	if registryCfg.Endpoint == "" {
		registryCfg.Endpoint = DefaultIdentityEndpoint
	}
	if githubCfg.Endpoint == "" {
		githubCfg.Endpoint = DefaultGitHubEndpoint
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityAdapter{
		registry: newHTTPSource(httpClient, registryCfg, userAgent, maxBodySize),
		github:   newHTTPSource(httpClient, githubCfg, userAgent, maxBodySize),
		logger:   logger,
	}
}

// Name returns the adapter name.
func (a *IdentityAdapter) Name() string { return "identity" }

// registryResponse is the account registry wire format.
type registryResponse struct {
	Accounts []struct {
		Service      string `json:"service"`
		RegisteredAt string `json:"registered_at"`
	} `json:"accounts"`
	Profiles []struct {
		Platform   string `json:"platform"`
		Username   string `json:"username"`
		URL        string `json:"url"`
		Confidence int    `json:"confidence"`
		Exists     bool   `json:"exists"`
	} `json:"profiles"`
}

// commitSearchResponse is the subset of the commit search API we consume.
type commitSearchResponse struct {
	TotalCount int `json:"total_count"`
	Items      []struct {
		Commit struct {
			Author struct {
				Email string `json:"email"`
			} `json:"author"`
		} `json:"commit"`
	} `json:"items"`
}

// Lookup queries the account registry and the public commit search.
// The two sources are independent; a failure in one does not discard
// the other's findings unless both fail.
func (a *IdentityAdapter) Lookup(ctx context.Context, id model.Identifier, _ LookupOpts) (*model.IntelResult, error) {
	result := &model.IntelResult{Adapter: a.Name()}
	ir := &model.IdentityResult{}

	registryErr := a.lookupRegistry(ctx, id, ir)
	commitErr := a.lookupCommitEmails(ctx, id, ir)

	if registryErr != nil && commitErr != nil {
		return nil, fmt.Errorf("identity lookup: %w", errors.Join(registryErr, commitErr))
	}
	if registryErr != nil {
		a.logger.Warn("account registry lookup failed", "error", registryErr)
	}
	if commitErr != nil {
		a.logger.Warn("commit email search failed", "error", commitErr)
	}

	if len(ir.Accounts) == 0 && len(ir.LeakedEmails) == 0 && len(ir.Profiles) == 0 {
		return result, nil
	}
	result.Identity = ir
	return result, nil
}

// lookupRegistry fills accounts and supplementary profiles from the
// account registry. Skipped silently without an API key.
func (a *IdentityAdapter) lookupRegistry(ctx context.Context, id model.Identifier, ir *model.IdentityResult) error {
	if a.registry.cfg.APIKey == "" {
		a.logger.Debug("account registry skipped", "reason", "no api key configured")
		return nil
	}

	var param string
	switch id.Type {
	case model.TypeEmail:
		param = "email"
	case model.TypeUsername:
		param = "username"
	case model.TypePhone:
		param = "phone"
	default:
		return nil
	}

	endpoint := fmt.Sprintf("%s/accounts?%s=%s", a.registry.cfg.Endpoint, param, url.QueryEscape(id.Raw))
	headers := map[string]string{"Authorization": "Bearer " + a.registry.cfg.APIKey}

	var resp registryResponse
	if err := a.registry.getJSON(ctx, endpoint, headers, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil
		}
		return err
	}

	for _, acc := range resp.Accounts {
		hit := model.AccountHit{Service: acc.Service}
		if ts, ok := parseSourceDate(acc.RegisteredAt); ok {
			hit.RegisteredAt = &ts
		}
		ir.Accounts = append(ir.Accounts, hit)
	}
	for _, p := range resp.Profiles {
		ir.Profiles = append(ir.Profiles, model.SocialProfileMatch{
			Platform:   p.Platform,
			Username:   p.Username,
			URL:        p.URL,
			Confidence: p.Confidence,
			Exists:     p.Exists,
		})
	}
	return nil
}

// lookupCommitEmails searches public commits for email addresses tied to
// the identifier. For emails the search confirms public exposure of the
// address itself; for usernames it harvests the author emails of the
// user's public commits.
func (a *IdentityAdapter) lookupCommitEmails(ctx context.Context, id model.Identifier, ir *model.IdentityResult) error {
	var query string
	switch id.Type {
	case model.TypeEmail:
		query = fmt.Sprintf("%q", id.Raw)
	case model.TypeUsername:
		query = "author:" + id.Raw
	default:
		return nil
	}

	endpoint := fmt.Sprintf("%s/search/commits?q=%s&per_page=30", a.github.cfg.Endpoint, url.QueryEscape(query))
	headers := map[string]string{}
	if a.github.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + a.github.cfg.APIKey
	}

	var resp commitSearchResponse
	if err := a.github.getJSON(ctx, endpoint, headers, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil
		}
		return err
	}
	if resp.TotalCount == 0 {
		return nil
	}

	seen := make(map[string]bool)
	for _, item := range resp.Items {
		email := strings.ToLower(item.Commit.Author.Email)
		if email == "" || seen[email] {
			continue
		}
		// Provider noreply addresses are deliberate privacy shields,
		// not leaks.
		if strings.HasSuffix(email, "@users.noreply.github.com") {
			continue
		}
		seen[email] = true
		ir.LeakedEmails = append(ir.LeakedEmails, email)
	}
	sort.Strings(ir.LeakedEmails)
	return nil
}
