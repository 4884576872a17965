// Package config provides configuration structures and utilities for osintscan.
// It defines the main configuration options for intelligence collection,
// per-source credentials, and report generation preferences.
package config
