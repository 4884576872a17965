package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// CaseStatus is the investigation lifecycle state.
// Transitions: created -> analyzing -> (closed | archived).
type CaseStatus string

// Case status constants.
const (
	StatusCreated   CaseStatus = "created"
	StatusAnalyzing CaseStatus = "analyzing"
	StatusClosed    CaseStatus = "closed"
	StatusArchived  CaseStatus = "archived"
)

// InvestigationCase is the aggregate root for one investigation run.
// It is created per request, mutated only by the pipeline stages during
// the single synchronous run, and immutable afterwards except for
// append-only custody events.
type InvestigationCase struct {
	// ID is the case identifier, unique across the store.
	ID string `json:"id"`

	// Identifier is the classified subject of the investigation.
	Identifier Identifier `json:"identifier"`

	// DeepScan records whether the optional deep-scan adapters ran.
	DeepScan bool `json:"deep_scan"`

	// Intel holds the per-adapter results that contributed. Adapters
	// that failed or were skipped are simply absent.
	Intel []IntelResult `json:"intel,omitempty"`

	// Profiles is the merged, deduplicated social profile list.
	Profiles []SocialProfileMatch `json:"profiles,omitempty"`

	// Breaches is the merged, deduplicated breach list.
	Breaches []BreachRecord `json:"breaches,omitempty"`

	// LeakedEmails are addresses exposed through public code commits.
	LeakedEmails []string `json:"leaked_emails,omitempty"`

	// Graph is the evidence graph rooted at the identifier.
	Graph *EvidenceGraph `json:"graph,omitempty"`

	// Score is the composite risk assessment with its breakdown.
	Score *CompositeScore `json:"score,omitempty"`

	// Custody is the append-only audit trail.
	Custody []CustodyEvent `json:"custody,omitempty"`

	// AdapterErrors maps adapter names to the failure messages absorbed
	// during fan-out. Kept for the audit trail; failures never abort
	// the investigation.
	AdapterErrors map[string]string `json:"adapter_errors,omitempty"`

	Status CaseStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CaseSummary is the listing view of a case.
type CaseSummary struct {
	ID         string         `json:"id"`
	Identifier string         `json:"identifier"`
	Type       IdentifierType `json:"type"`
	Score      int            `json:"score"`
	Level      string         `json:"level"`
	Status     CaseStatus     `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewInvestigationCase creates a case for the given classified
// identifier with a fresh random ID and status "created".
func NewInvestigationCase(id Identifier, deepScan bool) *InvestigationCase {
	return &InvestigationCase{
		ID:         NewCaseID(),
		Identifier: id,
		DeepScan:   deepScan,
		Status:     StatusCreated,
		CreatedAt:  time.Now().UTC(),
	}
}

// NewCaseID returns a random 16-hex-character case identifier.
func NewCaseID() string {
	var b [8]byte
	// rand.Read never fails on supported platforms (it panics instead).
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// AppendCustody appends an event to the case's audit trail.
func (c *InvestigationCase) AppendCustody(ev CustodyEvent) {
	c.Custody = append(c.Custody, ev)
}

// Summary returns the listing view of the case.
func (c *InvestigationCase) Summary() CaseSummary {
	s := CaseSummary{
		ID:         c.ID,
		Identifier: c.Identifier.Raw,
		Type:       c.Identifier.Type,
		Status:     c.Status,
		CreatedAt:  c.CreatedAt,
	}
	if c.Score != nil {
		s.Score = c.Score.Score
		s.Level = c.Score.Level.String()
	}
	return s
}

// RecordAdapterError records an absorbed adapter failure.
func (c *InvestigationCase) RecordAdapterError(adapter, msg string) {
	if c.AdapterErrors == nil {
		c.AdapterErrors = make(map[string]string)
	}
	c.AdapterErrors[adapter] = msg
}
