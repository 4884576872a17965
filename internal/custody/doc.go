// Package custody records the append-only chain-of-custody trail for
// an investigation. Every event carries a SHA-256 digest of the case
// data snapshot at the moment it was recorded, so later tampering with
// stored evidence is detectable against the trail.
package custody
