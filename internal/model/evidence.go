package model

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"
)

// NodeType categorizes an evidence node.
type NodeType string

// Evidence node type constants.
const (
	NodePerson   NodeType = "person"
	NodeAccount  NodeType = "account"
	NodeIP       NodeType = "ip"
	NodeDevice   NodeType = "device"
	NodeLocation NodeType = "location"
	NodeDocument NodeType = "document"
)

// EvidenceNode is one discovered fact in the evidence graph.
type EvidenceNode struct {
	// ID is unique within a single case.
	ID string `json:"id"`

	// Type categorizes what the node represents.
	Type NodeType `json:"type"`

	// Label is a short human-readable name.
	Label string `json:"label"`

	// Payload is the JSON-encoded fact backing this node.
	Payload json.RawMessage `json:"payload"`

	// Source names the adapter that produced the fact.
	Source string `json:"source"`

	// Timestamp is when the node was recorded (RFC3339).
	Timestamp string `json:"timestamp"`

	// Hash is the BLAKE2b-256 digest of Payload, hex encoded. It is
	// used for custody verification, not for graph identity.
	Hash string `json:"hash"`
}

// EvidenceEdge is a directed relation between two evidence nodes.
type EvidenceEdge struct {
	ID string `json:"id"`

	// From and To are node IDs within the same graph.
	From string `json:"from"`
	To   string `json:"to"`

	// Relation is the edge label ("owns", "exposed_in", "resolves_to",
	// "leaked_email").
	Relation string `json:"relation"`

	// Confidence is the relation confidence in [0,100].
	Confidence int `json:"confidence"`
}

// EvidenceGraph is the node/edge structure rooted at the identifier.
// The builder guarantees a star topology: one root, one directed edge
// from the root to every derived node, no cycles.
type EvidenceGraph struct {
	// RootID is the identifier node's ID.
	RootID string `json:"root_id"`

	Nodes []EvidenceNode `json:"nodes"`
	Edges []EvidenceEdge `json:"edges"`
}

// Node returns the node with the given ID, or nil.
func (g *EvidenceGraph) Node(id string) *EvidenceNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// ContentHash computes the deterministic BLAKE2b-256 digest of a JSON
// payload, hex encoded. Payloads are marshaled with encoding/json, which
// sorts map keys, so equal values always hash equal.
func ContentHash(payload []byte) string {
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
