package intel

import "errors"

// Adapter errors.
// These are returned from Lookup and absorbed per adapter by the
// orchestrator; they are the "AdapterFailure" class of failures.
//
// Design decision: We use package-level sentinel errors wrapped with
// request context at the call site. This allows callers to classify
// failures with errors.Is() while the wrapped message still names the
// offending URL or source.
var (
	// ErrUnexpectedStatus is returned when a source answers with an HTTP
	// status the adapter does not know how to interpret.
	ErrUnexpectedStatus = errors.New("source returned unexpected status")

	// ErrRateLimited is returned when a source answers 429. The core
	// never retries; the failure is recorded against the adapter.
	ErrRateLimited = errors.New("source rate limit exceeded")

	// errNotFound is the internal marker for a 404 response. Adapters
	// translate it to an empty result because "no data" is a valid
	// answer, not a failure. It is unexported: callers outside the
	// package never see it.
	errNotFound = errors.New("no data for identifier")
)
