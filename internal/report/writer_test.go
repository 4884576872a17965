package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/osintscan/osintscan/internal/model"
)

func reportCase(t *testing.T) *model.InvestigationCase {
	t.Helper()

	c := model.NewInvestigationCase(model.Classify("alice@example.com"), true)
	c.Status = model.StatusArchived
	c.Profiles = []model.SocialProfileMatch{
		{Platform: "github", Username: "alice", URL: "https://github.com/alice", Confidence: 85, Exists: true},
		{Platform: "reddit", Username: "alice", Confidence: 70, Exists: true, Notes: "page title: alice"},
	}
	c.Breaches = []model.BreachRecord{
		{
			Domain:      "example.com",
			Date:        time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
			RiskScore:   60,
			DataClasses: []string{"Email addresses", "Passwords"},
		},
	}
	c.LeakedEmails = []string{"alice.work@corp.example"}
	c.Intel = []model.IntelResult{
		{Adapter: "network", Network: &model.NetworkResult{IP: "203.0.113.7", Country: "NL", City: "Amsterdam", VPN: true}},
	}
	c.AdapterErrors = map[string]string{"devices": "scanner unreachable"}
	c.Score = &model.CompositeScore{
		Score:     58,
		BaseScore: 43,
		Level:     model.LevelHigh,
		LevelText: "HIGH",
		Breakdown: model.Breakdown{
			BreachSeverity:   model.RiskFactor{Category: "breach_severity", Points: 12.5, MaxPoints: 30},
			BreachRecency:    model.RiskFactor{Category: "breach_recency", Points: 1, MaxPoints: 15},
			DataExposure:     model.RiskFactor{Category: "data_exposure", Points: 8, MaxPoints: 20},
			DigitalFootprint: model.RiskFactor{Category: "digital_footprint", Points: 4.5, MaxPoints: 15},
			PatternAnalysis:  model.RiskFactor{Category: "pattern_analysis", Points: 4, MaxPoints: 10},
			QueryTypeRisk:    model.RiskFactor{Category: "query_type_risk", Points: 5, MaxPoints: 10},
		},
		Adjustments: []model.Adjustment{
			{Trigger: "vpn_detected", Delta: 15, ScoreAfter: 58},
		},
		Recommendations: []string{"passwords exposed in at least one breach; enable multi-factor authentication"},
	}
	c.Custody = []model.CustodyEvent{
		{ID: c.ID + "-1", Timestamp: time.Now().UTC(), Action: model.ActionCollected, Actor: "engine", Details: "2 adapters contributed", Hash: strings.Repeat("ab", 32)},
	}
	return c
}

// TestSimpleWriter tests the human-readable text output.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders all populated sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(reportCase(t))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"alice@example.com",
			"SCORE: 58/100  [HIGH]",
			"breach_severity",
			"vpn_detected",
			"Github",
			"example.com (2021-06-01) risk 60",
			"alice.work@corp.example",
			"203.0.113.7",
			"VPN",
			"multi-factor",
			"ADAPTER FAILURES",
			"scanner unreachable",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("custody trail requires verbose", func(t *testing.T) {
		t.Parallel()

		c := reportCase(t)

		var quiet bytes.Buffer
		if _, err := NewSimpleWriter(&quiet).Write(c); err != nil {
			t.Fatalf("write: %v", err)
		}
		if strings.Contains(quiet.String(), "CUSTODY TRAIL") {
			t.Error("expected no custody trail without verbose")
		}

		var verbose bytes.Buffer
		if _, err := NewSimpleWriter(&verbose, WithVerbose(true)).Write(c); err != nil {
			t.Fatalf("write: %v", err)
		}
		if !strings.Contains(verbose.String(), "CUSTODY TRAIL") {
			t.Error("expected custody trail with verbose")
		}
	})

	t.Run("empty sections are hidden unless requested", func(t *testing.T) {
		t.Parallel()

		c := model.NewInvestigationCase(model.Classify("ghost42"), false)

		var hidden bytes.Buffer
		if _, err := NewSimpleWriter(&hidden).Write(c); err != nil {
			t.Fatalf("write: %v", err)
		}
		if strings.Contains(hidden.String(), "DISCOVERED PROFILES") {
			t.Error("expected empty profile section hidden")
		}

		var shown bytes.Buffer
		if _, err := NewSimpleWriter(&shown, WithShowEmpty(true)).Write(c); err != nil {
			t.Fatalf("write: %v", err)
		}
		if !strings.Contains(shown.String(), "No profiles discovered") {
			t.Error("expected empty profile section with showEmpty")
		}
	})
}

// TestJSONWriter tests machine-readable output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("round trips through encoding/json", func(t *testing.T) {
		t.Parallel()

		c := reportCase(t)
		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(c); err != nil {
			t.Fatalf("write: %v", err)
		}

		var decoded model.InvestigationCase
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if decoded.ID != c.ID || decoded.Score.Score != 58 {
			t.Errorf("decoded = %+v", decoded.Summary())
		}
	})

	t.Run("full writer wraps with version metadata", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewFullJSONWriter(&buf, "1.2.3", WithPrettyPrint()).Write(reportCase(t)); err != nil {
			t.Fatalf("write: %v", err)
		}

		var decoded JSONReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if decoded.Version != "1.2.3" {
			t.Errorf("version = %q", decoded.Version)
		}
		if decoded.Summary.Level != "HIGH" {
			t.Errorf("summary = %+v", decoded.Summary)
		}
	})
}

// TestMarkdownWriter tests the markdown rendering.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(reportCase(t)); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Investigation Report",
		"## Risk Assessment",
		"**Composite score: 58/100 (HIGH)**",
		"```mermaid",
		"Risk Factor Breakdown",
		"vpn_detected",
		"## Discovered Profiles",
		"Github",
		"## Breach Exposure",
		"example.com",
		"## Custody Trail",
		"collected",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

// TestMultiWriter tests fan-out to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := mw.Write(reportCase(t))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("total = %d, expected %d", n, text.Len()+js.Len())
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}

// TestDisplayPlatform tests platform name normalization.
func TestDisplayPlatform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, out string
	}{
		{"github", "Github"},
		{"GitHub", "Github"},
		{"reddit", "Reddit"},
	}
	for _, tt := range tests {
		if got := displayPlatform(tt.in); got != tt.out {
			t.Errorf("displayPlatform(%q) = %q, expected %q", tt.in, got, tt.out)
		}
	}
}
