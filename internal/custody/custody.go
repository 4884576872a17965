package custody

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/osintscan/osintscan/internal/model"
)

// DefaultActor is recorded when no analyst identity is configured.
const DefaultActor = "osintscan-engine"

// Logger appends custody events to one case's audit trail. It is owned
// by a single investigation run and is not safe for concurrent use; the
// pipeline stages that call it run sequentially.
//
// Design decision: Event hashes cover the data snapshot at recording
// time and are deliberately not chained to the previous event's hash.
// The trail proves what each stage saw, not sequence integrity; a
// linked hash chain would also make legitimate event replay (store
// round-trips) order-fragile.
type Logger struct {
	kase  *model.InvestigationCase
	actor string
}

// NewLogger creates a custody logger for the case. An empty actor
// falls back to DefaultActor.
func NewLogger(kase *model.InvestigationCase, actor string) *Logger {
	if actor == "" {
		actor = DefaultActor
	}
	return &Logger{kase: kase, actor: actor}
}

// Append records one custody event. The snapshot is JSON encoded and
// hashed with SHA-256; a snapshot that cannot be encoded is recorded
// with an empty-object hash rather than dropping the event, because a
// gap in the trail is worse than a degraded hash.
func (l *Logger) Append(action model.CustodyAction, details string, snapshot any) {
	l.kase.AppendCustody(model.CustodyEvent{
		ID:        fmt.Sprintf("%s-%d", l.kase.ID, len(l.kase.Custody)+1),
		Timestamp: time.Now().UTC(),
		Action:    action,
		Actor:     l.actor,
		Details:   details,
		Hash:      SnapshotHash(snapshot),
	})
}

// SnapshotHash computes the hex-encoded SHA-256 digest of the JSON
// encoding of the snapshot.
func SnapshotHash(snapshot any) string {
	data, err := json.Marshal(snapshot)
	if err != nil {
		data = []byte("{}")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the snapshot hash and reports whether it matches
// the recorded event hash.
func Verify(ev model.CustodyEvent, snapshot any) bool {
	return ev.Hash == SnapshotHash(snapshot)
}
