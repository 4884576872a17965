package investigate

import (
	"context"
	"errors"

	"github.com/osintscan/osintscan/internal/model"
)

// ErrCaseNotFound is returned when no case exists for the given id.
var ErrCaseNotFound = errors.New("investigate: case not found")

// ErrNoStore is returned by retrieval operations when the service was
// built without a case store.
var ErrNoStore = errors.New("investigate: no case store configured")

// Patch is a partial update applied to a stored case. Nil fields are
// left unchanged; custody events are appended, never replaced, which
// keeps the trail append-only at the store boundary too.
type Patch struct {
	// Status replaces the case status when non-nil.
	Status *model.CaseStatus

	// AppendCustody lists custody events to append to the stored trail.
	AppendCustody []model.CustodyEvent
}

// CaseStore persists investigation cases.
//
// Design decision: The store is an injected interface with an explicit
// lifecycle owned by the hosting process. Nothing in this module ever
// reaches for a process-wide store; a test can hand the service a
// fake, and two services can run against different stores in one
// process.
type CaseStore interface {
	// Get returns the case with the given id, or ErrCaseNotFound.
	Get(ctx context.Context, id string) (*model.InvestigationCase, error)

	// GetAll returns all stored cases, newest first.
	GetAll(ctx context.Context) ([]*model.InvestigationCase, error)

	// Save stores a completed case.
	Save(ctx context.Context, c *model.InvestigationCase) error

	// Update applies a patch to the stored case with the given id,
	// or returns ErrCaseNotFound.
	Update(ctx context.Context, id string, p Patch) error
}
