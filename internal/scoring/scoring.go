package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/osintscan/osintscan/internal/model"
)

// recentHighImpactAge is the window in which a high-riskScore breach
// triggers its own recommendation.
const recentHighImpactAge = 6 * 30 * 24 * time.Hour

// highImpactRiskScore is the per-record riskScore threshold for the
// recent high-impact recommendation.
const highImpactRiskScore = 70

// Evaluate computes the composite risk score for the case's merged
// evidence as of the given time. The base score is the clamped sum of
// the six capped factors; deep-scan signal adjustments are then applied
// in their fixed order. Evaluate never mutates the case.
func Evaluate(c *model.InvestigationCase, now time.Time) *model.CompositeScore {
	breakdown := model.Breakdown{
		BreachSeverity:   breachSeverity(c.Breaches),
		BreachRecency:    breachRecency(c.Breaches, now),
		DataExposure:     dataExposure(c.Breaches),
		DigitalFootprint: digitalFootprint(c.Profiles),
		PatternAnalysis:  patternAnalysis(c.Profiles, c.Breaches),
		QueryTypeRisk:    queryType(c.Identifier.Type),
	}

	var sum float64
	for _, f := range breakdown.Factors() {
		sum += f.Points
	}
	base := int(math.Round(min(sum, 100)))

	signals := DeriveSignals(c, now)
	score, adjustments := applyAdjustments(base, signals)

	level := model.LevelForScore(score)
	return &model.CompositeScore{
		Score:           score,
		BaseScore:       base,
		Level:           level,
		LevelText:       level.String(),
		Breakdown:       breakdown,
		Adjustments:     adjustments,
		Recommendations: recommendations(c, level, now),
	}
}

// recommendations generates the human-readable guidance strings for
// the conditions the evidence triggered.
func recommendations(c *model.InvestigationCase, level model.RiskLevel, now time.Time) []string {
	var recs []string

	if n := len(c.Breaches); n > 3 {
		recs = append(recs, fmt.Sprintf(
			"identifier appears in %d breaches; rotate all associated credentials", n))
	}

	for _, b := range c.Breaches {
		if b.RiskScore >= highImpactRiskScore && now.Sub(b.Date) < recentHighImpactAge {
			recs = append(recs, fmt.Sprintf(
				"recent high-impact breach at %s; assume active credential exposure", b.Domain))
			break
		}
	}

	for _, b := range c.Breaches {
		if b.HasDataClass("password") {
			recs = append(recs,
				"passwords exposed in at least one breach; enable multi-factor authentication")
			break
		}
	}

	if level >= model.LevelHigh {
		recs = append(recs,
			"overall risk is "+level.String()+"; prioritize this case for analyst review")
	}

	if reuse, ok := usernameReuseRatio(c.Profiles); ok && reuse < 0.7 {
		recs = append(recs,
			"username reused across platforms; a single compromise exposes the whole footprint")
	}

	return recs
}
