package graph

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/osintscan/osintscan/internal/model"
)

// Edge relation labels.
const (
	// RelationOwns links the identifier to a social profile.
	RelationOwns = "owns"
	// RelationExposedIn links the identifier to a breach record.
	RelationExposedIn = "exposed_in"
	// RelationResolvesTo links the identifier to its network address.
	RelationResolvesTo = "resolves_to"
	// RelationLeakedEmail links the identifier to a commit-leaked email.
	RelationLeakedEmail = "leaked_email"
)

// confidenceFact is the edge confidence for relations backed by a
// direct observation rather than a probabilistic match.
const confidenceFact = 100

// builder accumulates nodes and edges with sequential IDs.
type builder struct {
	graph *model.EvidenceGraph
	now   string
}

// Build constructs the evidence graph for a completed fan-out: one
// root node for the identifier and one directed edge from the root to
// every derived node. Profile and breach lists are consumed as merged,
// so the graph performs no deduplication of its own.
func Build(c *model.InvestigationCase) *model.EvidenceGraph {
	b := &builder{
		graph: &model.EvidenceGraph{},
		now:   time.Now().UTC().Format(time.RFC3339),
	}

	root := b.addNode(rootNodeType(c.Identifier.Type), c.Identifier.Raw, c.Identifier, "classifier")
	b.graph.RootID = root

	for _, p := range c.Profiles {
		id := b.addNode(model.NodeAccount, p.Platform+": "+p.Username, p, "social")
		b.addEdge(root, id, RelationOwns, p.Confidence)
	}

	for _, br := range c.Breaches {
		id := b.addNode(model.NodeDocument, "breach: "+br.Domain, br, "breach")
		b.addEdge(root, id, RelationExposedIn, confidenceFact)
	}

	if nr := networkResult(c); nr != nil {
		id := b.addNode(model.NodeIP, nr.IP, nr, "network")
		b.addEdge(root, id, RelationResolvesTo, confidenceFact)
	}

	for _, email := range c.LeakedEmails {
		id := b.addNode(model.NodePerson, email, email, "identity")
		b.addEdge(root, id, RelationLeakedEmail, confidenceFact)
	}

	return b.graph
}

// rootNodeType maps the identifier type to its node category.
func rootNodeType(t model.IdentifierType) model.NodeType {
	switch t {
	case model.TypeIP:
		return model.NodeIP
	case model.TypeEmail, model.TypeUsername, model.TypePhone:
		return model.NodePerson
	default:
		// Domains, URLs, and hashes are artifacts, not actors.
		return model.NodeDocument
	}
}

// networkResult returns the first network payload in the case's
// intelligence results, or nil.
func networkResult(c *model.InvestigationCase) *model.NetworkResult {
	for i := range c.Intel {
		if c.Intel[i].Network != nil {
			return c.Intel[i].Network
		}
	}
	return nil
}

// addNode appends a node with a sequential ID and a content hash over
// its JSON payload. A fact that fails to marshal carries a null
// payload; the node still exists so the edge count stays truthful.
func (b *builder) addNode(t model.NodeType, label string, fact any, source string) string {
	payload, err := json.Marshal(fact)
	if err != nil {
		payload = []byte("null")
	}

	id := fmt.Sprintf("n%d", len(b.graph.Nodes)+1)
	b.graph.Nodes = append(b.graph.Nodes, model.EvidenceNode{
		ID:        id,
		Type:      t,
		Label:     label,
		Payload:   payload,
		Source:    source,
		Timestamp: b.now,
		Hash:      model.ContentHash(payload),
	})
	return id
}

// addEdge appends a directed edge with a sequential ID.
func (b *builder) addEdge(from, to, relation string, confidence int) {
	b.graph.Edges = append(b.graph.Edges, model.EvidenceEdge{
		ID:         fmt.Sprintf("e%d", len(b.graph.Edges)+1),
		From:       from,
		To:         to,
		Relation:   relation,
		Confidence: confidence,
	})
}
