// Package anonnet provides Tor-routed network connectivity for discreet
// investigations.
//
// When discreet mode is enabled, all intelligence source lookups are routed
// through a Tor SOCKS5 proxy so the investigator's own address never appears
// in source logs. The package wraps the tornago library for managing an
// embedded Tor daemon and provides HTTP clients configured for the proxy.
//
// Design decision: We use tornago instead of directly implementing SOCKS5
// daemon management because tornago provides a well-tested, maintained
// implementation covering process lifecycle and bootstrap monitoring. This
// reduces our maintenance burden and leverages existing expertise in Tor
// connectivity.
//
// The package is designed to be used with dependency injection - create a
// Client and pass its HTTP client to the adapters that need discreet
// connectivity rather than using global state.
package anonnet
