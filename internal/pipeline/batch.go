package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/osintscan/osintscan/internal/model"
)

// BatchProcessor handles concurrent investigation of multiple
// identifiers. It uses errgroup to manage goroutines and respect the
// concurrency limit.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-case execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each case.
	// A factory ensures each investigation gets a fresh instance.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent investigations.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed cases. Access is synchronized via mutex.
	results []*model.InvestigationCase
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent investigations.
// Default is 10 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called per identifier to create a
// fresh pipeline, so no pipeline state leaks between investigations.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     10,
		results:         make([]*model.InvestigationCase, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch investigates multiple identifiers concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each identifier gets its own goroutine, but only 'concurrency'
// goroutines run simultaneously.
//
// Returns all cases in input order, including those whose pipelines
// failed; the error return indicates cancellation.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, identifiers []string, deepScan bool) ([]*model.InvestigationCase, error) {
	bp.logger.Info("starting batch processing",
		"total_identifiers", len(identifiers),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate the results slice to maintain input order.
	bp.results = make([]*model.InvestigationCase, len(identifiers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, raw := range identifiers {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("investigating identifier",
				"identifier", raw,
				"index", i+1,
				"total", len(identifiers),
			)

			c := model.NewInvestigationCase(model.Classify(raw), deepScan)
			c.Status = model.StatusAnalyzing

			err := bp.pipelineFactory().Execute(ctx, c)

			// Store the case regardless of error; the adapter error
			// map carries what went wrong.
			bp.mu.Lock()
			bp.results[i] = c
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("investigation failed",
					"identifier", raw,
					"error", err,
				)
				// Don't return the error to errgroup - the remaining
				// investigations should still run.
				return nil
			}

			now := time.Now().UTC()
			c.Status = model.StatusClosed
			c.CompletedAt = &now

			bp.logger.Info("investigation completed",
				"identifier", raw,
				"case", c.ID,
			)

			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_identifiers", len(identifiers),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback investigates multiple identifiers and calls
// a callback for each completed case. This is useful for streaming
// results.
//
// The callback receives the case and the index of the identifier in
// the original slice. It is called from the goroutine that completed
// the investigation, so it must be safe for concurrent use if it
// touches shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	identifiers []string,
	deepScan bool,
	callback func(c *model.InvestigationCase, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_identifiers", len(identifiers),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, raw := range identifiers {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			c := model.NewInvestigationCase(model.Classify(raw), deepScan)
			c.Status = model.StatusAnalyzing
			if err := bp.pipelineFactory().Execute(ctx, c); err == nil {
				now := time.Now().UTC()
				c.Status = model.StatusClosed
				c.CompletedAt = &now
			}

			callback(c, i)

			return nil
		})
	}

	return g.Wait()
}
