package model

import (
	"strings"
	"time"
)

// BreachRecord is a single breach the identifier appeared in.
// Uniqueness across adapters is keyed by (domain, date).
type BreachRecord struct {
	// Domain is the breached service's domain.
	Domain string `json:"domain"`

	// Date is when the breach occurred.
	Date time.Time `json:"date"`

	// DataClasses lists the exposed data categories as reported by the
	// breach registry (e.g. "Email addresses", "Passwords").
	DataClasses []string `json:"data_classes"`

	// RiskScore is the registry's per-record risk assessment in [0,100].
	RiskScore int `json:"risk_score"`

	// Description is a short human-readable summary of the incident.
	Description string `json:"description,omitempty"`
}

// Key returns the dedup key for this breach: lowercase domain plus the
// breach date. Two registries reporting the same incident agree on both.
func (b BreachRecord) Key() string {
	return strings.ToLower(b.Domain) + "|" + b.Date.Format("2006-01-02")
}

// HasDataClass reports whether any declared data class contains the
// given keyword, case-insensitive.
func (b BreachRecord) HasDataClass(keyword string) bool {
	kw := strings.ToLower(keyword)
	for _, dc := range b.DataClasses {
		if strings.Contains(strings.ToLower(dc), kw) {
			return true
		}
	}
	return false
}
