package investigate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/osintscan/osintscan/internal/custody"
	"github.com/osintscan/osintscan/internal/model"
	"github.com/osintscan/osintscan/internal/orchestrator"
	"github.com/osintscan/osintscan/internal/pipeline"
)

// Request describes one investigation to run.
type Request struct {
	// Identifier is the raw free-text subject; classification happens
	// inside Start.
	Identifier string

	// DeepScan enables the expensive adapters and post-hoc scoring
	// adjustments.
	DeepScan bool
}

// Service runs investigations end to end and mediates case retrieval.
type Service struct {
	orch   *orchestrator.Orchestrator
	store  CaseStore
	actor  string
	logger *slog.Logger
}

// NewService creates an investigation service. The store may be nil,
// in which case cases are returned to the caller but never persisted
// and retrieval operations fail with ErrNoStore.
func NewService(orch *orchestrator.Orchestrator, store CaseStore, actor string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{orch: orch, store: store, actor: actor, logger: logger}
}

// Start runs one investigation synchronously: classify, collect, build
// the graph, score, then persist. The returned case is complete even
// when individual adapters failed; those failures live in the case's
// adapter error map.
func (s *Service) Start(ctx context.Context, req Request) (*model.InvestigationCase, error) {
	c := model.NewInvestigationCase(model.Classify(req.Identifier), req.DeepScan)
	c.Status = model.StatusAnalyzing

	s.logger.Info("investigation started",
		"case", c.ID,
		"identifier", c.Identifier.Raw,
		"type", c.Identifier.Type,
		"deep_scan", req.DeepScan,
	)

	p := pipeline.New(pipeline.WithLogger(s.logger))
	p.AddSteps(
		pipeline.NewCollectStep(s.orch, s.actor, s.logger),
		pipeline.NewBuildGraphStep(),
		pipeline.NewScoreStep(s.actor),
	)
	if err := p.Execute(ctx, c); err != nil {
		return nil, fmt.Errorf("investigation %s: %w", c.ID, err)
	}

	now := time.Now().UTC()
	c.CompletedAt = &now
	c.Status = model.StatusClosed

	if s.store != nil {
		c.Status = model.StatusArchived
		custody.NewLogger(c, s.actor).Append(model.ActionArchived, "case persisted to store", c.Summary())
		if err := s.store.Save(ctx, c); err != nil {
			return nil, fmt.Errorf("archive case %s: %w", c.ID, err)
		}
	}

	s.logger.Info("investigation completed",
		"case", c.ID,
		"score", c.Score.Score,
		"level", c.Score.LevelText,
	)
	return c, nil
}

// Get retrieves a stored case and records the access in its custody
// trail. The viewed event is persisted back to the store so the trail
// in storage stays complete.
func (s *Service) Get(ctx context.Context, id string) (*model.InvestigationCase, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}

	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	custody.NewLogger(c, s.actor).Append(model.ActionViewed, "case retrieved", c.Summary())
	viewed := c.Custody[len(c.Custody)-1]
	if err := s.store.Update(ctx, id, Patch{AppendCustody: []model.CustodyEvent{viewed}}); err != nil {
		// The caller still gets the case; an unrecorded view is worth
		// a warning, not a failed retrieval.
		s.logger.Warn("failed to persist viewed custody event", "case", id, "error", err)
	}
	return c, nil
}

// List returns summaries of all stored cases, newest first.
func (s *Service) List(ctx context.Context) ([]model.CaseSummary, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}

	cases, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.CaseSummary, 0, len(cases))
	for _, c := range cases {
		summaries = append(summaries, c.Summary())
	}
	return summaries, nil
}
