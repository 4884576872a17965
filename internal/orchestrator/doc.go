// Package orchestrator selects which intelligence adapters apply to a
// classified identifier, fans out to them concurrently, and merges
// their overlapping findings deterministically. One failing adapter
// never aborts the others.
package orchestrator
