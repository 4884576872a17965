package config

import "time"

// SourceConfig holds credentials and endpoint settings for a single
// intelligence source. Sources without an API key are either free to
// query or skipped by their adapter.
type SourceConfig struct {
	// APIKey is the source's API credential. Adapters that require a key
	// and find it empty skip the source and contribute an empty result
	// rather than failing the investigation.
	APIKey string `yaml:"apiKey,omitempty"`

	// Endpoint overrides the source's default API base URL. Mainly
	// useful for on-prem mirrors and for tests.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Timeout overrides the global per-source timeout for this source.
	// If zero, the global Timeout is used.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Headers are custom HTTP headers to include in requests to this
	// source, in addition to the authentication header the adapter sets.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .osintscan configuration file.
type File struct {
	// Sources maps source names to their credentials and endpoints.
	// Keys are the adapter source names ("social", "identity", "github",
	// "breach", "domain", "network", "malware", "devices").
	Sources map[string]SourceConfig `yaml:"sources,omitempty"`

	// Defaults contains source configuration applied to all sources
	// unless overridden in the source-specific configuration.
	Defaults SourceConfig `yaml:"defaults,omitempty"`
}

// GetSourceConfig returns the configuration for a named source.
// It merges the source-specific configuration with defaults.
func (cf *File) GetSourceConfig(name string) SourceConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with source-specific configuration if present
	if sc, ok := cf.Sources[name]; ok {
		if sc.APIKey != "" {
			result.APIKey = sc.APIKey
		}
		if sc.Endpoint != "" {
			result.Endpoint = sc.Endpoint
		}
		if sc.Timeout != 0 {
			result.Timeout = sc.Timeout
		}
		if len(sc.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range sc.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}
