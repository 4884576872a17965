// Package scoring computes the composite risk score for an
// investigation: six independently capped factors summed and clamped
// to [0,100], followed by ordered post-hoc adjustments from deep-scan
// signals. The computation is pure; the same evidence always yields
// the same score and breakdown.
package scoring
