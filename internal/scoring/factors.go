package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/osintscan/osintscan/internal/model"
)

// Factor caps. The composite is the clamped sum of the six factors, so
// the caps bound how much any single evidence class can contribute.
const (
	capBreachSeverity   = 30.0
	capBreachRecency    = 15.0
	capDataExposure     = 20.0
	capDigitalFootprint = 15.0
	capPatternAnalysis  = 10.0
	capQueryTypeRisk    = 10.0
)

// perBreachSeverityCap bounds one breach's riskScore contribution so a
// single maximal record cannot dominate the severity factor.
const perBreachSeverityCap = 10.0

// severityCategoryWeights are the per-breach bonuses for sensitive data
// categories named in a record's declared classes.
var severityCategoryWeights = []struct {
	keyword string
	weight  float64
}{
	{"ssn", 2.5},
	{"password", 2.0},
	{"financial", 2.0},
	{"medical", 1.5},
	{"address", 1.0},
	{"date of birth", 1.0},
	{"phone", 0.5},
	{"email", 0.5},
	{"username", 0.5},
}

// exposureCategoryBonuses are the flat data-exposure bonuses, granted
// once per distinct category present anywhere across the breach set.
var exposureCategoryBonuses = []struct {
	keyword string
	bonus   float64
}{
	{"password", 6},
	{"financial", 6},
	{"ssn", 6},
	{"medical", 4},
	{"address", 3},
	{"date of birth", 3},
	{"phone", 2},
	{"email", 2},
}

// platformRisk weights a discovered profile by how strongly its
// platform correlates with risky activity. Unlisted platforms score as
// mainstream.
var platformRisk = map[string]float64{
	"dread":    3,
	"breached": 3,
	"telegram": 2,
	"discord":  1.5,
	"github":   1,
	"reddit":   1,
}

// platformRiskDefault is the bonus for mainstream platforms.
const platformRiskDefault = 0.5

// riskyNoteKeywords each add a small footprint bonus when present in a
// profile's notes.
var riskyNoteKeywords = []string{
	"hacker", "breach", "leak", "dump", "crypto", "wallet", "anonymous", "tor",
}

// queryTypeRisk is the fixed base risk per classified identifier type.
// Network addresses score highest: investigating an address usually
// means it already showed up somewhere it should not have.
var queryTypeRisk = map[model.IdentifierType]float64{
	model.TypeIP:       8,
	model.TypeHash:     7,
	model.TypeURL:      6,
	model.TypeEmail:    5,
	model.TypePhone:    5,
	model.TypeDomain:   4,
	model.TypeUsername: 3,
}

// breachSeverity scores the accumulated severity of the breach set.
func breachSeverity(breaches []model.BreachRecord) model.RiskFactor {
	var points float64
	for _, b := range breaches {
		points += min(float64(b.RiskScore)*0.5, perBreachSeverityCap)
		for _, cat := range severityCategoryWeights {
			if b.HasDataClass(cat.keyword) {
				points += cat.weight
			}
		}
	}
	return capped("breach_severity", points, capBreachSeverity,
		fmt.Sprintf("%d breach records weighted by risk and data classes", len(breaches)))
}

// breachRecency scores how recent the breaches are. Fresh breaches are
// far more actionable than decade-old ones.
func breachRecency(breaches []model.BreachRecord, now time.Time) model.RiskFactor {
	var points float64
	for _, b := range breaches {
		age := now.Sub(b.Date)
		switch {
		case age < 3*30*24*time.Hour:
			points += 5
		case age < 12*30*24*time.Hour:
			points += 3
		case age < 24*30*24*time.Hour:
			points += 2
		default:
			points++
		}
	}
	return capped("breach_recency", points, capBreachRecency,
		fmt.Sprintf("%d breach records weighted by age", len(breaches)))
}

// dataExposure scores the distinct sensitive data categories exposed
// anywhere across the breach set, plus sector heuristics on the
// breached domains.
func dataExposure(breaches []model.BreachRecord) model.RiskFactor {
	var points float64
	var present []string
	for _, cat := range exposureCategoryBonuses {
		for _, b := range breaches {
			if b.HasDataClass(cat.keyword) {
				points += cat.bonus
				present = append(present, cat.keyword)
				break
			}
		}
	}

	// Sector heuristics: a breach at a bank or a clinic exposes more
	// than its declared classes admit.
	for _, b := range breaches {
		domain := strings.ToLower(b.Domain)
		if strings.Contains(domain, "bank") || strings.Contains(domain, "financial") {
			points += 4
			break
		}
	}
	for _, b := range breaches {
		domain := strings.ToLower(b.Domain)
		if strings.Contains(domain, "health") || strings.Contains(domain, "medical") {
			points += 3
			break
		}
	}

	desc := "no sensitive data categories exposed"
	if len(present) > 0 {
		desc = "exposed categories: " + strings.Join(present, ", ")
	}
	return capped("data_exposure", points, capDataExposure, desc)
}

// digitalFootprint scores the breadth and character of the discovered
// profile set.
func digitalFootprint(profiles []model.SocialProfileMatch) model.RiskFactor {
	var points float64
	for _, p := range profiles {
		switch {
		case p.Confidence > 90:
			points += 2
		case p.Confidence > 70:
			points += 1.5
		case p.Confidence > 50:
			points++
		}

		if w, ok := platformRisk[p.Key()]; ok {
			points += w
		} else {
			points += platformRiskDefault
		}

		notes := strings.ToLower(p.Notes)
		for _, kw := range riskyNoteKeywords {
			if strings.Contains(notes, kw) {
				points += 0.5
			}
		}
	}
	return capped("digital_footprint", points, capDigitalFootprint,
		fmt.Sprintf("%d profiles weighted by confidence, platform, and notes", len(profiles)))
}

// patternAnalysis scores cross-evidence behavioral patterns.
func patternAnalysis(profiles []model.SocialProfileMatch, breaches []model.BreachRecord) model.RiskFactor {
	var points float64
	var drivers []string

	if reuse, ok := usernameReuseRatio(profiles); ok && reuse < 0.7 {
		points += 4
		drivers = append(drivers, "username reuse")
	}

	emailBearing := 0
	for _, b := range breaches {
		if b.HasDataClass("email") {
			emailBearing++
		}
	}
	if emailBearing > 2 {
		points += 3
		drivers = append(drivers, "email in multiple breaches")
	}

	if len(profiles) > 10 && len(breaches) > 5 {
		points += 3
		drivers = append(drivers, "broad footprint with heavy breach history")
	}

	desc := "no notable patterns"
	if len(drivers) > 0 {
		desc = strings.Join(drivers, ", ")
	}
	return capped("pattern_analysis", points, capPatternAnalysis, desc)
}

// usernameReuseRatio returns unique usernames over total profiles. A
// low ratio means the subject reuses one handle everywhere, which makes
// the profile set far more likely to belong to a single person.
func usernameReuseRatio(profiles []model.SocialProfileMatch) (float64, bool) {
	if len(profiles) == 0 {
		return 0, false
	}
	unique := make(map[string]bool)
	for _, p := range profiles {
		unique[strings.ToLower(p.Username)] = true
	}
	return float64(len(unique)) / float64(len(profiles)), true
}

// queryType scores the fixed base risk of the identifier's type.
func queryType(t model.IdentifierType) model.RiskFactor {
	return capped("query_type_risk", queryTypeRisk[t], capQueryTypeRisk,
		"base risk for a "+string(t)+" query")
}

// capped builds a factor with points clamped into [0, max].
func capped(category string, points, max float64, desc string) model.RiskFactor {
	if points > max {
		points = max
	}
	if points < 0 {
		points = 0
	}
	return model.RiskFactor{
		Category:    category,
		Points:      points,
		MaxPoints:   max,
		Description: desc,
	}
}
