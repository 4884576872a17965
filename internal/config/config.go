package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen based on the response characteristics of
// public intelligence sources.
const (
	// DefaultTimeout is set to 30 seconds per intelligence source.
	// Public registries and reputation services usually answer within a
	// few seconds; a generous timeout avoids false "source down" results
	// on slow networks without stalling the whole investigation, since
	// sources are queried concurrently.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies osintscan in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows source
	// operators to identify scanner traffic in their logs.
	DefaultUserAgent = "osintscan/1.0 (+https://github.com/osintscan/osintscan)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for any source response while preventing memory
	// exhaustion from unexpectedly large payloads.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "osintscan"

	// DefaultTorProxyAddress is the standard Tor SOCKS5 proxy address.
	// Port 9050 is the default for the Tor daemon's SOCKS port.
	// We use 127.0.0.1 instead of localhost to avoid DNS resolution overhead
	// and potential issues with IPv6 resolution on some systems.
	DefaultTorProxyAddress = "127.0.0.1:9050"

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap when discreet mode is enabled. 3 minutes is
	// typically sufficient for most network conditions.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultBatchSize is the number of concurrent investigations when
	// multiple identifiers are given. Each investigation already fans out
	// to several sources, so a modest batch keeps total connection count
	// reasonable.
	DefaultBatchSize = 5
)

// Config holds all configuration options for osintscan.
// This struct is designed to be populated from CLI flags and the
// .osintscan file and passed through the application via dependency
// injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CollectConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Target is the identifier to investigate. Classification into
	// email/username/phone/ip/domain/url/hash happens downstream; the
	// config layer treats it as opaque text.
	Target string

	// Targets holds all identifiers when more than one was given on the
	// command line. Investigations for multiple targets run concurrently
	// up to BatchSize. Target always mirrors the first entry.
	Targets []string

	// BatchSize is the number of concurrent investigations when multiple
	// targets are given.
	BatchSize int

	// DeepScan enables the optional deep-scan adapters (malware
	// reputation, exposed-device lookup, avatar metadata inspection)
	// and the post-scoring adjustments they feed.
	DeepScan bool

	// Actor is the name recorded as the acting party in each case's
	// custody trail. Empty means the engine's default actor.
	Actor string

	// Timeout is the per-source request timeout. It applies to each
	// intelligence source independently, not to the investigation as a
	// whole.
	Timeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .osintscan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Sources holds per-source credentials and endpoint overrides loaded
	// from the config file. Adapters whose source has no credentials
	// configured skip themselves and contribute an empty result.
	Sources *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output with tables, alerts,
	// and a risk-factor pie chart. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite case database.
	// When set, investigation cases are saved for later retrieval.
	// Defaults to the XDG data directory (~/.local/share/osintscan on Linux).
	DBDir string

	// SaveToDB indicates whether to persist investigation cases.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// Discreet routes all source lookups through Tor. Slower, but keeps
	// the investigator's address out of source logs.
	Discreet bool

	// TorProxyAddress is the address of the Tor SOCKS5 proxy in
	// "host:port" format. Only used when Discreet is true.
	TorProxyAddress string

	// UseExternalTor disables the embedded Tor daemon and uses an
	// external proxy at TorProxyAddress. Only relevant in discreet mode.
	UseExternalTor bool

	// TorStartupTimeout is the maximum time to wait for the embedded Tor
	// daemon to bootstrap. Only used when Discreet is true and
	// UseExternalTor is false.
	TorStartupTimeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	// A descriptive User-Agent helps source operators identify scanner traffic.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, proxy
// address). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:           DefaultTimeout,
		BatchSize:         DefaultBatchSize,
		TorProxyAddress:   DefaultTorProxyAddress,
		TorStartupTimeout: DefaultTorStartupTimeout,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for osintscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/osintscan
// On macOS: ~/Library/Application Support/osintscan
// On Windows: %LOCALAPPDATA%\osintscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for osintscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/osintscan
// On macOS: ~/Library/Application Support/osintscan
// On Windows: %APPDATA%\osintscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for osintscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/osintscan
// On macOS: ~/Library/Caches/osintscan
// On Windows: %LOCALAPPDATA%\osintscan\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any collection begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have exactly one identifier to investigate
	if c.Target == "" {
		return ErrNoTarget
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// MaxBodySize must be non-negative; 0 means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// BatchSize must be non-negative; 0 means use the default
	if c.BatchSize < 0 {
		return ErrInvalidBatchSize
	}

	return nil
}
