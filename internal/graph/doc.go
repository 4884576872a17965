// Package graph builds the evidence graph for an investigation: a star
// topology rooted at the identifier, with one directed edge per derived
// fact and a content hash on every node for custody verification.
package graph
