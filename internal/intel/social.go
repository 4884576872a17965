package intel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/osintscan/osintscan/internal/config"
	"github.com/osintscan/osintscan/internal/model"
)

// socialProbeConcurrency caps simultaneous platform probes. Probing is
// I/O bound; a small limit keeps us polite without serializing the scan.
const socialProbeConcurrency = 4

// platform is one entry in the prober's platform table.
type platform struct {
	// name is the display name carried into profile matches.
	name string

	// profileURL is the profile URL template; %s is the username.
	profileURL string
}

// defaultPlatforms is the platform table probed for every username.
// Platforms whose profile pages require authentication (LinkedIn,
// Facebook) are excluded: an unauthenticated probe cannot distinguish
// "exists" from "walled".
var defaultPlatforms = []platform{
	{"GitHub", "https://github.com/%s"},
	{"X", "https://x.com/%s"},
	{"Instagram", "https://www.instagram.com/%s/"},
	{"Reddit", "https://www.reddit.com/user/%s/"},
	{"Telegram", "https://t.me/%s"},
	{"YouTube", "https://www.youtube.com/@%s"},
	{"TikTok", "https://www.tiktok.com/@%s"},
	{"Mastodon", "https://mastodon.social/@%s"},
	{"Keybase", "https://keybase.io/%s"},
	{"Medium", "https://medium.com/@%s"},
}

// Probe confidence values. A 200 response proves the page exists; the
// username echoed in the page title is stronger evidence that it is a
// profile rather than a placeholder.
const (
	confidenceTitleMatch = 85
	confidencePageExists = 70
)

// SocialAdapter probes social platforms for profiles matching the
// identifier. It applies to username identifiers directly and to the
// local part of email identifiers.
//
// No credentials are needed: the prober only fetches public profile
// pages. Page titles are parsed for display names and og:image avatars;
// deep scans additionally download avatars and inspect their EXIF
// metadata for location and device leaks.
type SocialAdapter struct {
	source    httpSource
	logger    *slog.Logger
	platforms []platform
}

// NewSocialAdapter creates a social profile prober.
//
// If cfg.Endpoint is set, platform URLs are rewritten to
// {endpoint}/{platform}/{username}. This exists for tests and for
// installs that route probes through a caching mirror.
func NewSocialAdapter(cfg config.SourceConfig, httpClient *http.Client, logger *slog.Logger, userAgent string, maxBodySize int64) *SocialAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SocialAdapter{
		source:    newHTTPSource(httpClient, cfg, userAgent, maxBodySize),
		logger:    logger,
		platforms: defaultPlatforms,
	}
}

// Name returns the adapter name.
func (a *SocialAdapter) Name() string { return "social" }

// candidateUsername extracts the handle to probe from the identifier.
func candidateUsername(id model.Identifier) string {
	switch id.Type {
	case model.TypeUsername:
		return id.Raw
	case model.TypeEmail:
		return id.EmailLocalPart()
	default:
		return ""
	}
}

// profileURL renders the probe URL for a platform and username.
func (a *SocialAdapter) profileURL(p platform, username string) string {
	if a.source.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", a.source.cfg.Endpoint, strings.ToLower(p.name), username)
	}
	return fmt.Sprintf(p.profileURL, username)
}

// Lookup probes every platform in the table concurrently. Each probe
// writes only its own slot of a pre-sized result slice, so no locking
// is needed; probe failures skip the platform rather than failing the
// adapter.
func (a *SocialAdapter) Lookup(ctx context.Context, id model.Identifier, opts LookupOpts) (*model.IntelResult, error) {
	result := &model.IntelResult{Adapter: a.Name()}

	username := candidateUsername(id)
	if username == "" {
		return result, nil
	}

	found := make([]*model.SocialProfileMatch, len(a.platforms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(socialProbeConcurrency)
	for i, p := range a.platforms {
		g.Go(func() error {
			match, err := a.probe(gctx, p, username)
			if err != nil {
				a.logger.Debug("platform probe failed", "platform", p.name, "error", err)
				return nil
			}
			found[i] = match
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // probes never return errors

	pr := &model.ProfileResult{}
	for _, match := range found {
		if match == nil {
			continue
		}
		if opts.DeepScan && match.AvatarURL != "" {
			a.inspectAvatar(ctx, match)
		}
		pr.Profiles = append(pr.Profiles, *match)
	}
	if len(pr.Profiles) == 0 {
		return result, nil
	}

	result.Profiles = pr
	return result, nil
}

// probe checks one platform for the username. It returns (nil, nil)
// when the profile does not exist.
func (a *SocialAdapter) probe(ctx context.Context, p platform, username string) (*model.SocialProfileMatch, error) {
	probeURL := a.profileURL(p, username)

	resp, err := a.source.get(ctx, probeURL, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 404 means no such profile; other statuses (403 bot walls,
		// 429) are indistinguishable from absence for a polite prober.
		return nil, nil
	}

	match := &model.SocialProfileMatch{
		Platform:   p.name,
		Username:   username,
		URL:        probeURL,
		Confidence: confidencePageExists,
		Exists:     true,
	}

	// Parse the page for a title and an og:image avatar. Parse errors
	// downgrade nothing: the 200 already proved existence.
	title, avatar := parseProfilePage(resp, a.source.maxBodySize)
	if avatar != "" {
		match.AvatarURL = avatar
	}
	if title != "" {
		match.Notes = "page title: " + title
		if strings.Contains(strings.ToLower(title), strings.ToLower(username)) {
			match.Confidence = confidenceTitleMatch
		}
	}

	return match, nil
}

// parseProfilePage extracts the <title> text and og:image URL from a
// profile page.
func parseProfilePage(resp *http.Response, maxBody int64) (title, avatar string) {
	doc, err := html.Parse(limitBody(resp, maxBody))
	if err != nil {
		return "", ""
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode && title == "" {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				var property, content string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "property", "name":
						property = attr.Val
					case "content":
						content = attr.Val
					}
				}
				if property == "og:image" && avatar == "" {
					avatar = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return title, avatar
}
