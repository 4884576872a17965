package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/osintscan/osintscan/internal/intel"
	"github.com/osintscan/osintscan/internal/model"
	"github.com/osintscan/osintscan/internal/orchestrator"
)

// stubAdapter is a canned-response adapter for step tests.
type stubAdapter struct {
	name   string
	result *model.IntelResult
	err    error
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Lookup(_ context.Context, _ model.Identifier, _ intel.LookupOpts) (*model.IntelResult, error) {
	return s.result, s.err
}

func investigatedCase(t *testing.T) *model.InvestigationCase {
	t.Helper()

	c := model.NewInvestigationCase(model.Classify("ghost42"), false)
	c.Profiles = []model.SocialProfileMatch{
		{Platform: "GitHub", Username: "ghost42", Confidence: 85, Exists: true},
	}
	c.Breaches = []model.BreachRecord{
		{Domain: "example.com", Date: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), RiskScore: 60},
	}
	return c
}

// TestCollectStep tests fan-out, merge, and custody recording.
func TestCollectStep(t *testing.T) {
	t.Parallel()

	t.Run("merges findings and records custody", func(t *testing.T) {
		t.Parallel()

		social := &stubAdapter{
			name: "social",
			result: &model.IntelResult{
				Adapter: "social",
				Profiles: &model.ProfileResult{Profiles: []model.SocialProfileMatch{
					{Platform: "GitHub", Username: "ghost42", Confidence: 85, Exists: true},
				}},
			},
		}
		identity := &stubAdapter{name: "identity", err: errors.New("registry unreachable")}

		orch := orchestrator.New([]intel.Adapter{social, identity}, nil)
		step := NewCollectStep(orch, "analyst-7", nil)

		c := model.NewInvestigationCase(model.Classify("ghost42"), false)
		if err := step.Do(context.Background(), c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(c.Profiles) != 1 {
			t.Errorf("profiles = %d, expected 1", len(c.Profiles))
		}
		if c.AdapterErrors["identity"] == "" {
			t.Error("expected the absorbed identity failure on the case")
		}
		if len(c.Custody) != 1 || c.Custody[0].Action != model.ActionCollected {
			t.Fatalf("custody = %+v, expected one collected event", c.Custody)
		}
		if c.Custody[0].Actor != "analyst-7" {
			t.Errorf("actor = %q", c.Custody[0].Actor)
		}
	})

	t.Run("cancelled context fails the step", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := NewCollectStep(orchestrator.New(nil, nil), "", nil)
		c := model.NewInvestigationCase(model.Classify("ghost42"), false)
		if err := step.Do(ctx, c); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

// TestBuildGraphStep tests graph attachment.
func TestBuildGraphStep(t *testing.T) {
	t.Parallel()

	c := investigatedCase(t)
	if err := NewBuildGraphStep().Do(context.Background(), c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if c.Graph == nil {
		t.Fatal("expected evidence graph on the case")
	}
	// Root + profile + breach.
	if len(c.Graph.Nodes) != 3 || len(c.Graph.Edges) != 2 {
		t.Errorf("graph = %d nodes %d edges, expected 3 and 2", len(c.Graph.Nodes), len(c.Graph.Edges))
	}
}

// TestScoreStep tests score attachment and custody recording.
func TestScoreStep(t *testing.T) {
	t.Parallel()

	c := investigatedCase(t)
	if err := NewScoreStep("analyst-7").Do(context.Background(), c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if c.Score == nil {
		t.Fatal("expected composite score on the case")
	}
	if c.Score.Score < 0 || c.Score.Score > 100 {
		t.Errorf("score = %d, expected [0,100]", c.Score.Score)
	}
	if len(c.Custody) != 1 || c.Custody[0].Action != model.ActionAnalyzed {
		t.Fatalf("custody = %+v, expected one analyzed event", c.Custody)
	}
}

// TestSteps_FullRun tests the three stages wired into one pipeline.
func TestSteps_FullRun(t *testing.T) {
	t.Parallel()

	social := &stubAdapter{
		name: "social",
		result: &model.IntelResult{
			Adapter: "social",
			Profiles: &model.ProfileResult{Profiles: []model.SocialProfileMatch{
				{Platform: "GitHub", Username: "ghost42", Confidence: 85, Exists: true},
			}},
		},
	}

	orch := orchestrator.New([]intel.Adapter{social}, nil)
	p := New()
	p.AddSteps(NewCollectStep(orch, "", nil), NewBuildGraphStep(), NewScoreStep(""))

	c := model.NewInvestigationCase(model.Classify("ghost42"), false)
	if err := p.Execute(context.Background(), c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if c.Graph == nil || c.Score == nil {
		t.Fatal("expected graph and score after a full run")
	}
	if len(c.Custody) != 2 {
		t.Errorf("custody events = %d, expected collected and analyzed", len(c.Custody))
	}
}
