// Package investigate wires the investigation lifecycle together:
// classify the identifier, run the pipeline stages, and persist the
// resulting case through an injected store.
package investigate
