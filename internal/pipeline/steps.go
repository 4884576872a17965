package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/osintscan/osintscan/internal/custody"
	"github.com/osintscan/osintscan/internal/graph"
	"github.com/osintscan/osintscan/internal/intel"
	"github.com/osintscan/osintscan/internal/model"
	"github.com/osintscan/osintscan/internal/orchestrator"
	"github.com/osintscan/osintscan/internal/scoring"
)

// CollectStep fans the investigation out to the intelligence adapters
// and merges their findings onto the case. Individual adapter failures
// are absorbed into the case's error map; the step itself fails only on
// context cancellation.
type CollectStep struct {
	orch   *orchestrator.Orchestrator
	actor  string
	logger *slog.Logger
}

// NewCollectStep creates the collection step.
func NewCollectStep(orch *orchestrator.Orchestrator, actor string, logger *slog.Logger) *CollectStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectStep{orch: orch, actor: actor, logger: logger}
}

// Name returns the step name.
func (s *CollectStep) Name() string { return "collect" }

// Do runs the adapter fan-out and records the collected custody event.
func (s *CollectStep) Do(ctx context.Context, c *model.InvestigationCase) error {
	result, err := s.orch.Run(ctx, c.Identifier, intel.LookupOpts{DeepScan: c.DeepScan})
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	c.Intel = result.Intel
	c.Profiles = result.Profiles
	c.Breaches = result.Breaches
	c.LeakedEmails = result.LeakedEmails

	var ok, failed, skipped int
	for _, outcome := range result.Outcomes {
		switch outcome.Outcome {
		case orchestrator.OutcomeOK:
			ok++
		case orchestrator.OutcomeFailed:
			failed++
			c.RecordAdapterError(outcome.Adapter, outcome.Err)
		case orchestrator.OutcomeSkipped:
			skipped++
		}
	}

	s.logger.Info("collection complete",
		"case", c.ID,
		"adapters_ok", ok,
		"adapters_failed", failed,
		"adapters_skipped", skipped,
	)

	details := fmt.Sprintf("%d adapters contributed, %d failed, %d skipped", ok, failed, skipped)
	custody.NewLogger(c, s.actor).Append(model.ActionCollected, details, c.Intel)
	return nil
}

// BuildGraphStep constructs the evidence graph from the merged findings.
type BuildGraphStep struct{}

// NewBuildGraphStep creates the graph construction step.
func NewBuildGraphStep() *BuildGraphStep { return &BuildGraphStep{} }

// Name returns the step name.
func (s *BuildGraphStep) Name() string { return "build-graph" }

// Do builds the star-topology evidence graph onto the case.
func (s *BuildGraphStep) Do(_ context.Context, c *model.InvestigationCase) error {
	c.Graph = graph.Build(c)
	return nil
}

// ScoreStep computes the composite risk score from the merged evidence.
type ScoreStep struct {
	actor string
}

// NewScoreStep creates the scoring step.
func NewScoreStep(actor string) *ScoreStep {
	return &ScoreStep{actor: actor}
}

// Name returns the step name.
func (s *ScoreStep) Name() string { return "score" }

// Do evaluates the composite score and records the analyzed custody
// event.
func (s *ScoreStep) Do(_ context.Context, c *model.InvestigationCase) error {
	c.Score = scoring.Evaluate(c, time.Now().UTC())

	details := fmt.Sprintf("score %d (%s), base %d, %d adjustments",
		c.Score.Score, c.Score.LevelText, c.Score.BaseScore, len(c.Score.Adjustments))
	custody.NewLogger(c, s.actor).Append(model.ActionAnalyzed, details, c.Score)
	return nil
}
