package model

import (
	"testing"
	"time"
)

// TestNewInvestigationCase tests the initial case state.
func TestNewInvestigationCase(t *testing.T) {
	t.Parallel()

	id := Classify("alice@example.com")
	c := NewInvestigationCase(id, true)

	if len(c.ID) != 16 {
		t.Errorf("case ID length = %d, expected 16 hex characters", len(c.ID))
	}
	if c.Identifier != id {
		t.Errorf("identifier = %+v, expected %+v", c.Identifier, id)
	}
	if !c.DeepScan {
		t.Error("expected deep scan flag to be set")
	}
	if c.Status != StatusCreated {
		t.Errorf("status = %v, expected %v", c.Status, StatusCreated)
	}
	if c.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if c.CompletedAt != nil {
		t.Error("expected CompletedAt to be nil on a fresh case")
	}
}

// TestNewCaseID verifies IDs are unique across calls.
func TestNewCaseID(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewCaseID()
		if seen[id] {
			t.Fatalf("duplicate case ID %q", id)
		}
		seen[id] = true
	}
}

// TestCaseSummary tests the listing projection with and without a score.
func TestCaseSummary(t *testing.T) {
	t.Parallel()

	c := NewInvestigationCase(Classify("203.0.113.7"), false)

	// Unscored case: score fields stay zero.
	s := c.Summary()
	if s.Score != 0 || s.Level != "" {
		t.Errorf("unscored summary = %+v, expected zero score and empty level", s)
	}
	if s.Type != TypeIP {
		t.Errorf("summary type = %v, expected %v", s.Type, TypeIP)
	}

	c.Score = &CompositeScore{Score: 52, Level: LevelHigh}
	s = c.Summary()
	if s.Score != 52 {
		t.Errorf("summary score = %d, expected 52", s.Score)
	}
	if s.Level != "HIGH" {
		t.Errorf("summary level = %q, expected HIGH", s.Level)
	}
}

// TestAppendCustody verifies the trail is append-only and ordered.
func TestAppendCustody(t *testing.T) {
	t.Parallel()

	c := NewInvestigationCase(Classify("ghost42"), false)
	c.AppendCustody(CustodyEvent{Action: ActionCollected})
	c.AppendCustody(CustodyEvent{Action: ActionAnalyzed})
	c.AppendCustody(CustodyEvent{Action: ActionViewed})

	if len(c.Custody) != 3 {
		t.Fatalf("custody length = %d, expected 3", len(c.Custody))
	}
	want := []CustodyAction{ActionCollected, ActionAnalyzed, ActionViewed}
	for i, ev := range c.Custody {
		if ev.Action != want[i] {
			t.Errorf("custody[%d].Action = %v, expected %v", i, ev.Action, want[i])
		}
	}
}

// TestRecordAdapterError verifies lazy map initialization and overwrite.
func TestRecordAdapterError(t *testing.T) {
	t.Parallel()

	c := NewInvestigationCase(Classify("ghost42"), false)
	c.RecordAdapterError("breach", "timeout after 10s")
	c.RecordAdapterError("network", "connection refused")

	if len(c.AdapterErrors) != 2 {
		t.Fatalf("adapter errors = %d, expected 2", len(c.AdapterErrors))
	}
	if c.AdapterErrors["breach"] != "timeout after 10s" {
		t.Errorf("breach error = %q", c.AdapterErrors["breach"])
	}
}

// TestBreachRecordKey tests the dedup key format.
func TestBreachRecordKey(t *testing.T) {
	t.Parallel()

	b := BreachRecord{
		Domain: "Example.COM",
		Date:   time.Date(2023, 6, 15, 12, 30, 0, 0, time.UTC),
	}
	if got := b.Key(); got != "example.com|2023-06-15" {
		t.Errorf("Key() = %q", got)
	}
}

// TestBreachRecordHasDataClass tests case-insensitive keyword matching.
func TestBreachRecordHasDataClass(t *testing.T) {
	t.Parallel()

	b := BreachRecord{DataClasses: []string{"Email addresses", "Passwords", "Phone numbers"}}

	if !b.HasDataClass("password") {
		t.Error("expected match for password")
	}
	if !b.HasDataClass("PHONE") {
		t.Error("expected case-insensitive match for PHONE")
	}
	if b.HasDataClass("ssn") {
		t.Error("unexpected match for ssn")
	}
}
