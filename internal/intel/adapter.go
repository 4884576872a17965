package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/osintscan/osintscan/internal/config"
	"github.com/osintscan/osintscan/internal/model"
)

// LookupOpts carries per-run options into an adapter lookup.
type LookupOpts struct {
	// DeepScan enables the adapter's expensive extras: confirmed-breach
	// checks, avatar EXIF inspection.
	DeepScan bool
}

// Adapter is one intelligence source. Implementations must be safe for
// concurrent use: the orchestrator runs all selected adapters in parallel.
type Adapter interface {
	// Name returns the adapter's stable name, used in result attribution,
	// custody records, and error reporting.
	Name() string

	// Lookup queries the source for the given identifier. A source that
	// is not configured returns an empty result and nil error. Network
	// and parse failures return a non-nil error.
	Lookup(ctx context.Context, id model.Identifier, opts LookupOpts) (*model.IntelResult, error)
}

// defaultMaxBodySize caps response bodies when the caller did not
// configure a limit.
const defaultMaxBodySize = int64(5 * 1024 * 1024)

// httpSource bundles the HTTP plumbing shared by every adapter: a client,
// the merged source configuration, and request defaults.
type httpSource struct {
	client      *http.Client
	cfg         config.SourceConfig
	userAgent   string
	maxBodySize int64
}

// newHTTPSource builds the shared plumbing for one source. A nil client
// falls back to a plain http.Client with the source timeout; callers in
// discreet mode pass the anonnet client instead.
func newHTTPSource(client *http.Client, cfg config.SourceConfig, userAgent string, maxBodySize int64) httpSource {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}
	return httpSource{
		client:      client,
		cfg:         cfg,
		userAgent:   userAgent,
		maxBodySize: maxBodySize,
	}
}

// get performs a GET request with the source's headers and returns the
// response. The caller owns the body.
func (s *httpSource) get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range s.cfg.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// getJSON performs a GET request and decodes the JSON response into v.
//
// Status handling follows the conventions of the registries we query:
// 404 means "no data for this identifier" and is reported as errNotFound
// so adapters can map it to an empty result; 429 maps to ErrRateLimited;
// any other non-200 status maps to ErrUnexpectedStatus.
func (s *httpSource) getJSON(ctx context.Context, url string, headers map[string]string, v any) error {
	resp, err := s.get(ctx, url, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return errNotFound
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, url)
	default:
		return fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// fetchBytes performs a GET request and returns the raw body, capped at
// the source's body limit. Used for avatar downloads.
func (s *httpSource) fetchBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := s.get(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
}

// parseSourceDate parses the date formats breach and registration
// registries use, most specific first.
func parseSourceDate(s string) (time.Time, bool) {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
