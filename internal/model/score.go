package model

// RiskLevel is the qualitative level derived from the composite score.
//
// Design decision: We use iota-based constants for efficient comparison
// and ordering; String() provides the serialized form.
type RiskLevel int

// Risk level constants, ordered by severity.
const (
	// LevelLow covers composite scores below 20.
	LevelLow RiskLevel = iota
	// LevelMedium covers scores in [20,45).
	LevelMedium
	// LevelHigh covers scores in [45,70).
	LevelHigh
	// LevelCritical covers scores of 70 and above.
	LevelCritical
)

// String returns the human-readable risk level.
func (l RiskLevel) String() string {
	switch l {
	case LevelLow:
		return "LOW"
	case LevelMedium:
		return "MEDIUM"
	case LevelHigh:
		return "HIGH"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// LevelForScore maps a clamped composite score to its risk level.
func LevelForScore(score int) RiskLevel {
	switch {
	case score < 20:
		return LevelLow
	case score < 45:
		return LevelMedium
	case score < 70:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// RiskFactor is one capped contribution to the composite score.
// Invariant: 0 <= Points <= MaxPoints.
type RiskFactor struct {
	// Category identifies the factor ("breach_severity", "breach_recency",
	// "data_exposure", "digital_footprint", "pattern_analysis",
	// "query_type_risk").
	Category string `json:"category"`

	Points    float64 `json:"points"`
	MaxPoints float64 `json:"max_points"`

	// Description explains what drove the points, for the breakdown.
	Description string `json:"description"`
}

// Breakdown holds the six risk factors in their fixed order.
type Breakdown struct {
	BreachSeverity   RiskFactor `json:"breach_severity"`
	BreachRecency    RiskFactor `json:"breach_recency"`
	DataExposure     RiskFactor `json:"data_exposure"`
	DigitalFootprint RiskFactor `json:"digital_footprint"`
	PatternAnalysis  RiskFactor `json:"pattern_analysis"`
	QueryTypeRisk    RiskFactor `json:"query_type_risk"`
}

// Factors returns the breakdown factors in display order.
func (b *Breakdown) Factors() []RiskFactor {
	return []RiskFactor{
		b.BreachSeverity,
		b.BreachRecency,
		b.DataExposure,
		b.DigitalFootprint,
		b.PatternAnalysis,
		b.QueryTypeRisk,
	}
}

// Adjustment is one applied post-hoc score delta from a deep-scan
// signal, recorded for the audit breakdown.
type Adjustment struct {
	// Trigger names the signal ("tor_detected", "vpn_detected", ...).
	Trigger string `json:"trigger"`

	// Delta is the points added before the [0,100] clamp.
	Delta int `json:"delta"`

	// ScoreAfter is the clamped score after applying this adjustment.
	ScoreAfter int `json:"score_after"`
}

// CompositeScore is the final bounded risk assessment.
type CompositeScore struct {
	// Score is the composite risk value in [0,100] after adjustments.
	Score int `json:"score"`

	// BaseScore is the clamped factor sum before deep-scan adjustments.
	BaseScore int `json:"base_score"`

	// Level is derived from Score by fixed thresholds.
	Level RiskLevel `json:"level"`

	// LevelText is the serialized level for report output.
	LevelText string `json:"level_text"`

	Breakdown Breakdown `json:"breakdown"`

	// Adjustments lists the deep-scan deltas in application order.
	Adjustments []Adjustment `json:"adjustments,omitempty"`

	// Recommendations are human-readable guidance strings generated
	// from triggered conditions.
	Recommendations []string `json:"recommendations,omitempty"`
}

// DeepSignals are the deep-scan observations that drive post-hoc score
// adjustments. They are derived from the merged intelligence results
// after the base composite is computed.
type DeepSignals struct {
	EmailBreachConfirmed  bool `json:"email_breach_confirmed"`
	VPNDetected           bool `json:"vpn_detected"`
	TorDetected           bool `json:"tor_detected"`
	MalwareDetections     int  `json:"malware_detections"`
	NewlyRegisteredDomain bool `json:"newly_registered_domain"`
	KnownVulns            int  `json:"known_vulns"`
}
