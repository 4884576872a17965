package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/osintscan/osintscan/internal/intel"
	"github.com/osintscan/osintscan/internal/model"
)

// planTable maps each identifier type to the adapters invoked for it.
// The table is fixed; per-install tuning happens by leaving adapters
// unregistered, not by editing the plan.
var planTable = map[model.IdentifierType][]string{
	model.TypeEmail:    {"social", "identity", "breach", "domain"},
	model.TypeUsername: {"social", "identity", "breach"},
	model.TypePhone:    {"identity"},
	model.TypeIP:       {"network"},
	model.TypeDomain:   {"domain", "network"},
	model.TypeURL:      {"domain", "malware"},
	model.TypeHash:     {"malware"},
}

// deepScanExtras lists the adapters appended to the plan when a deep
// scan is requested. Malware and device scans are expensive and only
// meaningful for addressable infrastructure.
var deepScanExtras = map[model.IdentifierType][]string{
	model.TypeIP:     {"malware", "devices"},
	model.TypeDomain: {"malware", "devices"},
}

// Outcome classifies how one planned adapter invocation ended.
type Outcome string

// Adapter invocation outcomes.
const (
	// OutcomeOK means the adapter ran and contributed findings.
	OutcomeOK Outcome = "ok"
	// OutcomeFailed means the adapter returned an error, which the
	// orchestrator absorbed.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means the adapter ran but contributed nothing,
	// or was planned but not registered.
	OutcomeSkipped Outcome = "skipped"
)

// AdapterOutcome records how one planned adapter fared, for the
// custody trail.
type AdapterOutcome struct {
	Adapter string
	Outcome Outcome
	// Err is the absorbed failure message when Outcome is failed.
	Err string
}

// Result is the merged output of one fan-out run.
type Result struct {
	// Intel holds the non-empty per-adapter results in plan order.
	Intel []model.IntelResult

	// Profiles is the merged social profile list. The base prober's
	// entries come first with their own confidences; supplementary
	// discoveries follow with ConfidenceDirectMatch.
	Profiles []model.SocialProfileMatch

	// Breaches is the merged breach list, deduplicated by (domain, date).
	Breaches []model.BreachRecord

	// LeakedEmails is the sorted union of commit-leaked addresses.
	LeakedEmails []string

	// Outcomes records one entry per planned adapter, in plan order.
	Outcomes []AdapterOutcome
}

// Orchestrator fans an investigation out to the registered adapters.
type Orchestrator struct {
	adapters map[string]intel.Adapter
	logger   *slog.Logger
}

// New creates an orchestrator over the given adapters. Adapters are
// addressed by Name(); a planned name with no registered adapter is
// reported as skipped at run time.
func New(adapters []intel.Adapter, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	byName := make(map[string]intel.Adapter, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}
	return &Orchestrator{adapters: byName, logger: logger}
}

// Plan returns the adapter names selected for the identifier type,
// deep-scan extras included when requested.
func Plan(t model.IdentifierType, deepScan bool) []string {
	names := planTable[t]
	plan := make([]string, 0, len(names)+2)
	plan = append(plan, names...)
	if deepScan {
		plan = append(plan, deepScanExtras[t]...)
	}
	return plan
}

// Run invokes the planned adapters concurrently and merges their
// findings. Adapter failures are absorbed into the outcome list; Run
// itself fails only when the context is cancelled before fan-out.
//
// Each goroutine writes only its own index of the pre-sized results
// slice, so the fan-out needs no locking, and every goroutine returns
// nil so one failure never cancels its siblings.
func (o *Orchestrator) Run(ctx context.Context, id model.Identifier, opts intel.LookupOpts) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	plan := Plan(id.Type, opts.DeepScan)

	type slot struct {
		result *model.IntelResult
		err    error
	}
	slots := make([]slot, len(plan))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range plan {
		adapter, ok := o.adapters[name]
		if !ok {
			continue
		}
		g.Go(func() error {
			result, err := adapter.Lookup(gctx, id, opts)
			slots[i] = slot{result: result, err: err}
			if err != nil {
				o.logger.Warn("adapter lookup failed",
					"adapter", name, "identifier", id.Raw, "error", err)
			}
			return nil
		})
	}
	// The goroutines never return errors; Wait is a pure join.
	_ = g.Wait() //nolint:errcheck

	merged := &Result{Outcomes: make([]AdapterOutcome, 0, len(plan))}
	for i, name := range plan {
		if _, ok := o.adapters[name]; !ok {
			merged.Outcomes = append(merged.Outcomes, AdapterOutcome{Adapter: name, Outcome: OutcomeSkipped})
			continue
		}
		s := slots[i]
		switch {
		case s.err != nil:
			merged.Outcomes = append(merged.Outcomes, AdapterOutcome{
				Adapter: name, Outcome: OutcomeFailed, Err: s.err.Error(),
			})
		case s.result == nil || s.result.Empty():
			merged.Outcomes = append(merged.Outcomes, AdapterOutcome{Adapter: name, Outcome: OutcomeSkipped})
		default:
			merged.Outcomes = append(merged.Outcomes, AdapterOutcome{Adapter: name, Outcome: OutcomeOK})
			merged.Intel = append(merged.Intel, *s.result)
		}
	}

	mergeProfiles(merged)
	mergeBreaches(merged)
	mergeLeakedEmails(merged)

	return merged, nil
}

// mergeProfiles builds the deduplicated profile list. The base
// prober's entries seed the list and keep their own confidences;
// supplementary discoveries from other adapters are added only when
// they positively confirmed existence and their platform key is still
// unseen. First seen wins, no overwrite.
func mergeProfiles(r *Result) {
	seen := make(map[string]bool)

	for _, ir := range r.Intel {
		if ir.Adapter != "social" || ir.Profiles == nil {
			continue
		}
		for _, p := range ir.Profiles.Profiles {
			if seen[p.Key()] {
				continue
			}
			seen[p.Key()] = true
			r.Profiles = append(r.Profiles, p)
		}
	}

	for _, ir := range r.Intel {
		var supplementary []model.SocialProfileMatch
		switch {
		case ir.Adapter != "social" && ir.Profiles != nil:
			supplementary = ir.Profiles.Profiles
		case ir.Identity != nil:
			supplementary = ir.Identity.Profiles
		default:
			continue
		}
		for _, p := range supplementary {
			if !p.Exists || seen[p.Key()] {
				continue
			}
			seen[p.Key()] = true
			p.Confidence = model.ConfidenceDirectMatch
			r.Profiles = append(r.Profiles, p)
		}
	}
}

// mergeBreaches deduplicates breach records by (domain, date) across
// adapters, first seen wins.
func mergeBreaches(r *Result) {
	seen := make(map[string]bool)
	for _, ir := range r.Intel {
		if ir.Breaches == nil {
			continue
		}
		for _, b := range ir.Breaches.Records {
			if seen[b.Key()] {
				continue
			}
			seen[b.Key()] = true
			r.Breaches = append(r.Breaches, b)
		}
	}
}

// mergeLeakedEmails unions the commit-leaked addresses across adapters
// into a sorted, deduplicated list.
func mergeLeakedEmails(r *Result) {
	seen := make(map[string]bool)
	for _, ir := range r.Intel {
		if ir.Identity == nil {
			continue
		}
		for _, email := range ir.Identity.LeakedEmails {
			if seen[email] {
				continue
			}
			seen[email] = true
			r.LeakedEmails = append(r.LeakedEmails, email)
		}
	}
	sort.Strings(r.LeakedEmails)
}
