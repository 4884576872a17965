// Package main provides the entry point for the osintscan CLI.
//
// osintscan aggregates open-source intelligence for a single identifier
// (email address, username, phone number, IP address, domain, URL, or
// file hash) and produces a composite risk assessment.
//
// Usage:
//
//	osintscan investigate <identifier>
//	osintscan cases --list
//
// See --help for all available options.
package main

// main is the entry point for osintscan.
func main() {
	Execute()
}
