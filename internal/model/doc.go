// Package model defines the core data structures for osintscan.
//
// It contains the classified identifier, the typed intelligence results
// returned by the reconnaissance adapters, the evidence graph, the threat
// score breakdown, the chain-of-custody events, and the investigation
// case aggregate that ties them together.
package model
