package model

import (
	"net"
	"regexp"
	"strings"
)

// IdentifierType classifies the kind of identifier under investigation.
// The type determines which intelligence adapters apply.
type IdentifierType string

// Identifier type constants.
const (
	// TypeEmail is an email address (user@domain.tld).
	TypeEmail IdentifierType = "email"
	// TypeUsername is a bare account handle. This is also the fallback
	// type when no other pattern matches.
	TypeUsername IdentifierType = "username"
	// TypePhone is a phone number in local or international format.
	TypePhone IdentifierType = "phone"
	// TypeIP is an IPv4 or IPv6 address.
	TypeIP IdentifierType = "ip"
	// TypeDomain is a bare domain name (example.com).
	TypeDomain IdentifierType = "domain"
	// TypeURL is a full URL with an http or https scheme.
	TypeURL IdentifierType = "url"
	// TypeHash is a hex digest of length 32, 40, or 64 (MD5/SHA-1/SHA-256).
	TypeHash IdentifierType = "hash"
)

// String returns the string representation of the identifier type.
func (t IdentifierType) String() string {
	return string(t)
}

// IsValid returns true if this is a known identifier type.
func (t IdentifierType) IsValid() bool {
	switch t {
	case TypeEmail, TypeUsername, TypePhone, TypeIP, TypeDomain, TypeURL, TypeHash:
		return true
	default:
		return false
	}
}

// Identifier is the raw query string paired with its classified type.
// It is immutable once built by Classify.
type Identifier struct {
	// Raw is the user-supplied string, whitespace-trimmed.
	Raw string `json:"raw"`

	// Type is the classified identifier type.
	Type IdentifierType `json:"type"`
}

// Classification patterns. Compiled once at package load.
//
// Design decision: We anchor every pattern to the full string because the
// classifier receives a single identifier, not free text. Partial matches
// (an email embedded in a sentence) should fall through to username.
var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

	// 32/40/64 hex characters: MD5, SHA-1, SHA-256 digests.
	hashPattern = regexp.MustCompile(`^(?:[A-Fa-f0-9]{32}|[A-Fa-f0-9]{40}|[A-Fa-f0-9]{64})$`)

	// International or local phone format: optional +, then at least
	// seven digits with optional separators.
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 .()-]{5,18}[0-9]$`)

	domainPattern = regexp.MustCompile(`^(?:[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?\.)+[A-Za-z]{2,}$`)
)

// Classify maps raw text to a classified identifier. It is a pure, total
// function: it never fails and always returns a type.
//
// Precedence (first match wins): email, IPv4/IPv6, URL scheme prefix,
// hex digest, phone, domain, then the username fallback. The order
// matters: a SHA-256 digest would also match the domain-less username
// fallback, and a bare domain would match nothing stricter.
func Classify(raw string) Identifier {
	s := strings.TrimSpace(raw)

	switch {
	case emailPattern.MatchString(s):
		return Identifier{Raw: s, Type: TypeEmail}
	case net.ParseIP(s) != nil:
		return Identifier{Raw: s, Type: TypeIP}
	case strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://"):
		return Identifier{Raw: s, Type: TypeURL}
	case hashPattern.MatchString(s):
		return Identifier{Raw: s, Type: TypeHash}
	case phonePattern.MatchString(s):
		return Identifier{Raw: s, Type: TypePhone}
	case domainPattern.MatchString(s):
		return Identifier{Raw: s, Type: TypeDomain}
	default:
		return Identifier{Raw: s, Type: TypeUsername}
	}
}

// EmailDomain returns the domain part of an email identifier,
// or an empty string for any other type.
func (i Identifier) EmailDomain() string {
	if i.Type != TypeEmail {
		return ""
	}
	at := strings.LastIndex(i.Raw, "@")
	if at < 0 {
		return ""
	}
	return i.Raw[at+1:]
}

// EmailLocalPart returns the local part of an email identifier,
// or an empty string for any other type.
func (i Identifier) EmailLocalPart() string {
	if i.Type != TypeEmail {
		return ""
	}
	at := strings.LastIndex(i.Raw, "@")
	if at < 0 {
		return ""
	}
	return i.Raw[:at]
}

// Host returns the host portion of a URL identifier (without scheme,
// path, or port), or an empty string for any other type.
func (i Identifier) Host() string {
	if i.Type != TypeURL {
		return ""
	}
	s := strings.TrimPrefix(strings.TrimPrefix(i.Raw, "https://"), "http://")
	if idx := strings.IndexAny(s, "/?#"); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.LastIndex(s, ":"); idx >= 0 && !strings.Contains(s, "]") {
		s = s[:idx]
	}
	return s
}
