package scoring

import (
	"time"

	"github.com/osintscan/osintscan/internal/model"
)

// newDomainAge is the registration age below which a domain counts as
// newly registered. Short-lived domains are a staple of phishing
// infrastructure.
const newDomainAge = 90 * 24 * time.Hour

// adjustmentRule is one post-hoc score delta from a deep-scan signal.
// Rules are applied in a fixed order, each clamping independently, so
// the same signals always produce the same adjustment trail.
type adjustmentRule struct {
	trigger string
	applies func(model.DeepSignals) bool
	delta   func(model.DeepSignals) int
}

func flatDelta(n int) func(model.DeepSignals) int {
	return func(model.DeepSignals) int { return n }
}

var adjustmentRules = []adjustmentRule{
	{
		trigger: "email_breach_confirmed",
		applies: func(s model.DeepSignals) bool { return s.EmailBreachConfirmed },
		delta:   flatDelta(20),
	},
	{
		trigger: "vpn_detected",
		applies: func(s model.DeepSignals) bool { return s.VPNDetected },
		delta:   flatDelta(15),
	},
	{
		trigger: "tor_detected",
		applies: func(s model.DeepSignals) bool { return s.TorDetected },
		delta:   flatDelta(30),
	},
	{
		trigger: "malware_detected",
		applies: func(s model.DeepSignals) bool { return s.MalwareDetections > 0 },
		delta:   func(s model.DeepSignals) int { return 25 + s.MalwareDetections },
	},
	{
		trigger: "newly_registered_domain",
		applies: func(s model.DeepSignals) bool { return s.NewlyRegisteredDomain },
		delta:   flatDelta(15),
	},
	{
		trigger: "known_vulns",
		applies: func(s model.DeepSignals) bool { return s.KnownVulns > 0 },
		delta:   flatDelta(20),
	},
}

// applyAdjustments runs the rule list over the base score. Each applied
// rule clamps independently: score = min(100, score + delta). The
// deltas act directly on the final score and are never re-normalized
// against the factor caps.
func applyAdjustments(base int, signals model.DeepSignals) (int, []model.Adjustment) {
	score := base
	var applied []model.Adjustment
	for _, rule := range adjustmentRules {
		if !rule.applies(signals) {
			continue
		}
		delta := rule.delta(signals)
		score = min(100, score+delta)
		applied = append(applied, model.Adjustment{
			Trigger:    rule.trigger,
			Delta:      delta,
			ScoreAfter: score,
		})
	}
	return score, applied
}

// DeriveSignals extracts the deep-scan adjustment signals from the
// merged intelligence results.
func DeriveSignals(c *model.InvestigationCase, now time.Time) model.DeepSignals {
	var s model.DeepSignals
	for i := range c.Intel {
		ir := &c.Intel[i]
		if ir.Breaches != nil && ir.Breaches.ConfirmedForEmail {
			s.EmailBreachConfirmed = true
		}
		if ir.Network != nil {
			s.VPNDetected = s.VPNDetected || ir.Network.VPN
			s.TorDetected = s.TorDetected || ir.Network.Tor
		}
		if ir.Malware != nil && ir.Malware.Detections > s.MalwareDetections {
			s.MalwareDetections = ir.Malware.Detections
		}
		if ir.Domain != nil && ir.Domain.CreatedAt != nil && now.Sub(*ir.Domain.CreatedAt) < newDomainAge {
			s.NewlyRegisteredDomain = true
		}
		if ir.Devices != nil {
			s.KnownVulns += len(ir.Devices.Vulns)
		}
	}
	return s
}
