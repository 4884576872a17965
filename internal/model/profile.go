package model

import (
	"strings"
	"time"
)

// SocialProfileMatch is a discovered social account tied to the
// identifier. Uniqueness across adapters is keyed by platform name,
// case-insensitive; the merge step enforces first-seen-wins.
type SocialProfileMatch struct {
	// Platform is the platform name (e.g. "GitHub", "reddit").
	Platform string `json:"platform"`

	// Username is the account handle on the platform.
	Username string `json:"username"`

	// URL is the profile URL.
	URL string `json:"url"`

	// Confidence is the match confidence in [0,100].
	// Profiles confirmed through a direct existence check carry
	// ConfidenceDirectMatch.
	Confidence int `json:"confidence"`

	// Notes carries free-text context from the discovering adapter
	// (bio excerpts, avatar metadata warnings, keyword hits).
	Notes string `json:"notes,omitempty"`

	// AvatarURL is the profile picture URL, if the adapter found one.
	AvatarURL string `json:"avatar_url,omitempty"`

	// LastActive is the most recent observed activity, if known.
	LastActive *time.Time `json:"last_active,omitempty"`

	// Exists reports whether the adapter positively confirmed the
	// account. Supplementary discoveries with Exists=false never enter
	// the merged profile list.
	Exists bool `json:"exists"`
}

// ConfidenceDirectMatch is the fixed confidence assigned to profiles
// added through a direct existence check during the merge.
const ConfidenceDirectMatch = 95

// Key returns the merge key for this profile: the lowercase platform name.
func (p SocialProfileMatch) Key() string {
	return strings.ToLower(p.Platform)
}
