package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/osintscan/osintscan/internal/model"
)

// countingStep tracks how many times it ran across pipelines.
type countingStep struct {
	count atomic.Int64
}

func (s *countingStep) Name() string { return "counting" }

func (s *countingStep) Do(_ context.Context, _ *model.InvestigationCase) error {
	s.count.Add(1)
	return nil
}

// TestBatchProcessor_ProcessBatch tests concurrent multi-identifier runs.
func TestBatchProcessor_ProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("results preserve input order", func(t *testing.T) {
		t.Parallel()

		step := &countingStep{}
		bp := NewBatchProcessor(func() *Pipeline {
			p := New()
			p.AddStep(step)
			return p
		}, WithConcurrency(3))

		identifiers := []string{"alice@example.com", "203.0.113.7", "ghost42"}
		cases, err := bp.ProcessBatch(context.Background(), identifiers, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(cases) != 3 {
			t.Fatalf("cases = %d, expected 3", len(cases))
		}
		for i, c := range cases {
			if c == nil {
				t.Fatalf("case %d is nil", i)
			}
			if c.Identifier.Raw != identifiers[i] {
				t.Errorf("case %d = %q, expected %q", i, c.Identifier.Raw, identifiers[i])
			}
			if c.Status != model.StatusClosed {
				t.Errorf("case %d status = %v, expected closed", i, c.Status)
			}
			if c.CompletedAt == nil {
				t.Errorf("case %d has no completion time", i)
			}
		}
		if got := step.count.Load(); got != 3 {
			t.Errorf("pipeline executions = %d, expected 3", got)
		}
	})

	t.Run("classifies each identifier independently", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		cases, err := bp.ProcessBatch(context.Background(), []string{"alice@example.com", "203.0.113.7"}, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if cases[0].Identifier.Type != model.TypeEmail || cases[1].Identifier.Type != model.TypeIP {
			t.Errorf("types = %v, %v", cases[0].Identifier.Type, cases[1].Identifier.Type)
		}
		if !cases[0].DeepScan {
			t.Error("expected deep scan flag carried onto the case")
		}
	})
}

// TestBatchProcessor_ProcessBatchWithCallback tests streamed results.
func TestBatchProcessor_ProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(2))

	var mu sync.Mutex
	got := make(map[int]string)
	err := bp.ProcessBatchWithCallback(context.Background(),
		[]string{"ghost42", "example.com"}, false,
		func(c *model.InvestigationCase, index int) {
			mu.Lock()
			defer mu.Unlock()
			got[index] = c.Identifier.Raw
		})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got[0] != "ghost42" || got[1] != "example.com" {
		t.Errorf("callback results = %v", got)
	}
}
