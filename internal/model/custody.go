package model

import "time"

// CustodyAction identifies the processing stage an audit event records.
type CustodyAction string

// Custody action constants.
const (
	// ActionCollected is appended after adapter fan-in completes.
	ActionCollected CustodyAction = "collected"
	// ActionAnalyzed is appended after scoring completes.
	ActionAnalyzed CustodyAction = "analyzed"
	// ActionArchived is appended when the case is persisted.
	ActionArchived CustodyAction = "archived"
	// ActionViewed is appended when the case is retrieved.
	ActionViewed CustodyAction = "viewed"
)

// CustodyEvent is one entry in a case's append-only audit trail.
//
// Each event's Hash covers the case data snapshot at the moment the
// event was recorded. Hashes are independent per event, not chained to
// the previous event's hash.
type CustodyEvent struct {
	// ID uniquely identifies the event within the case.
	ID string `json:"id"`

	// Timestamp is when the event was recorded.
	Timestamp time.Time `json:"timestamp"`

	Action CustodyAction `json:"action"`

	// Actor is who or what performed the stage (an analyst name or the
	// engine's own identity).
	Actor string `json:"actor"`

	// Details is free-text context (e.g. adapter success/failure counts).
	Details string `json:"details,omitempty"`

	// Hash is the SHA-256 digest of the data snapshot, hex encoded.
	Hash string `json:"hash"`
}
