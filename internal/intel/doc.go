// Package intel implements the intelligence source adapters.
//
// Each adapter queries one external reconnaissance source (breach registry,
// IP intelligence, domain registration, malware reputation, exposed-device
// search, social platforms, account registries) and normalizes the response
// into a model.IntelResult. Adapters are independent: they carry their own
// HTTP client, endpoint, credentials, and timeout, and never talk to each
// other.
//
// Failure contract:
//   - A source that is not configured (missing API key) is not an error.
//     The adapter returns an empty result and nil so the investigation
//     proceeds on the remaining sources.
//   - Network and parse failures return a non-nil error. The orchestrator
//     absorbs these per adapter; one failed source never aborts the run.
//
// All HTTP traffic can optionally be routed through the anonnet package's
// Tor-proxied client for discreet investigations.
package intel
