// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of sensitive values (cookies, tokens, secrets)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//   - Compatibility with tornago's slog-based logging
//
// # Security Features
//
// The SecureHandler automatically sanitizes sensitive information in log output:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Source API credentials loaded from the .osintscan file
//   - Secret values detected by pattern matching (passwords, tokens, keys)
//   - Session identifiers and authentication tokens
//
// An investigation routinely logs which sources were queried and with what
// credentials configured; even in verbose mode, sensitive values are masked
// to prevent accidental exposure of API keys in logs that may be shared.
//
// # Usage
//
//	// Create a secure logger
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("source queried",
//	    "api_key", "hunter2-hunter2",  // Will be sanitized to "***REDACTED***"
//	    "source", "breachdb",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
//
// # Integration with tornago
//
// The SecureHandler is compatible with tornago's slog integration, used
// when discreet mode routes lookups through an embedded Tor daemon:
//
//	secureLogger := log.NewSecureLogger(os.Stderr, verbose)
//	// Use with tornago components that accept *slog.Logger
package log
