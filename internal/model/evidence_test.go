package model

import "testing"

// TestContentHash verifies the digest is deterministic and input-sensitive.
func TestContentHash(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"platform":"GitHub","username":"ghost42"}`)

	first := ContentHash(payload)
	second := ContentHash(payload)
	if first != second {
		t.Errorf("equal payloads hashed differently: %q vs %q", first, second)
	}
	if len(first) != 64 {
		t.Errorf("hash length = %d, expected 64 hex characters", len(first))
	}

	other := ContentHash([]byte(`{"platform":"GitHub","username":"ghost43"}`))
	if other == first {
		t.Error("distinct payloads produced the same hash")
	}
}

// TestEvidenceGraphNode tests node lookup by ID.
func TestEvidenceGraphNode(t *testing.T) {
	t.Parallel()

	g := &EvidenceGraph{
		RootID: "root",
		Nodes: []EvidenceNode{
			{ID: "root", Type: NodePerson, Label: "alice@example.com"},
			{ID: "acct-1", Type: NodeAccount, Label: "GitHub:ghost42"},
		},
	}

	if n := g.Node("acct-1"); n == nil || n.Type != NodeAccount {
		t.Errorf("Node(acct-1) = %+v, expected account node", n)
	}
	if n := g.Node("missing"); n != nil {
		t.Errorf("Node(missing) = %+v, expected nil", n)
	}
}

// TestSocialProfileMatchKey verifies the merge key is the lowercase platform.
func TestSocialProfileMatchKey(t *testing.T) {
	t.Parallel()

	p := SocialProfileMatch{Platform: "GitHub", Username: "ghost42"}
	if got := p.Key(); got != "github" {
		t.Errorf("Key() = %q, expected %q", got, "github")
	}
}
