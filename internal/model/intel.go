package model

import "time"

// IntelResult is the typed payload returned by one intelligence adapter,
// tagged with the adapter's name. Exactly one of the payload pointers is
// non-nil; the tag tells the merge step which one without reflection.
//
// Design decision: We use a tagged variant struct rather than a
// map[string]any because each source returns a distinct shape, and the
// merge rules are easier to audit when the compiler knows the shapes.
// An adapter that was skipped or failed contributes no IntelResult at
// all, never a partial or zero-valued one.
type IntelResult struct {
	// Adapter is the reporting adapter's name (e.g. "breach", "social").
	Adapter string `json:"adapter"`

	Identity *IdentityResult `json:"identity,omitempty"`
	Breaches *BreachResult   `json:"breaches,omitempty"`
	Network  *NetworkResult  `json:"network,omitempty"`
	Domain   *DomainResult   `json:"domain,omitempty"`
	Malware  *MalwareResult  `json:"malware,omitempty"`
	Devices  *DeviceResult   `json:"devices,omitempty"`
	Profiles *ProfileResult  `json:"profiles,omitempty"`
}

// Empty reports whether the result carries no payload at all.
// Adapters return an empty result when they are unavailable
// (missing credentials) rather than an error.
func (r *IntelResult) Empty() bool {
	return r.Identity == nil && r.Breaches == nil && r.Network == nil &&
		r.Domain == nil && r.Malware == nil && r.Devices == nil && r.Profiles == nil
}

// IdentityResult is returned by the identity/account registry adapter.
type IdentityResult struct {
	// Accounts lists registries/services where the identifier is known.
	Accounts []AccountHit `json:"accounts,omitempty"`

	// LeakedEmails are email addresses exposed through public code
	// commits attributable to the identifier.
	LeakedEmails []string `json:"leaked_emails,omitempty"`

	// Profiles are supplementary social profile discoveries. They feed
	// the merge step but never override the base prober's findings.
	Profiles []SocialProfileMatch `json:"profiles,omitempty"`
}

// AccountHit is a single registry where an account exists.
type AccountHit struct {
	// Service is the registry/service name.
	Service string `json:"service"`

	// RegisteredAt is the account creation time, if disclosed.
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
}

// BreachResult is returned by the breach-record registry adapter.
type BreachResult struct {
	// Records are the breaches the identifier appeared in.
	Records []BreachRecord `json:"records,omitempty"`

	// ConfirmedForEmail is set during deep scans when the registry
	// directly confirms the email in at least one verified breach.
	ConfirmedForEmail bool `json:"confirmed_for_email,omitempty"`
}

// NetworkResult is returned by the geolocation/anonymization adapter.
type NetworkResult struct {
	// IP is the address the geolocation applies to. For domain
	// identifiers this is the resolved address.
	IP string `json:"ip"`

	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
	ISP     string `json:"isp,omitempty"`
	ASN     string `json:"asn,omitempty"`

	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	// Anonymization signals.
	VPN   bool `json:"vpn"`
	Tor   bool `json:"tor"`
	Proxy bool `json:"proxy"`
}

// DomainResult is returned by the domain registration/DNS adapter.
type DomainResult struct {
	Domain      string     `json:"domain"`
	Registrar   string     `json:"registrar,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	NameServers []string   `json:"name_servers,omitempty"`

	// ResolvedIPs are the A/AAAA records at lookup time.
	ResolvedIPs []string `json:"resolved_ips,omitempty"`

	// MXHosts are the mail exchanger hosts, used to judge whether an
	// email domain actually receives mail.
	MXHosts []string `json:"mx_hosts,omitempty"`
}

// MalwareResult is returned by the malware/reputation scanner adapter.
type MalwareResult struct {
	// Detections is the number of engines that flagged the identifier.
	Detections int `json:"detections"`

	// Engines is the total number of engines consulted.
	Engines int `json:"engines"`

	// Verdicts are the engine verdict labels (e.g. "trojan.generic").
	Verdicts []string `json:"verdicts,omitempty"`

	// Reputation is the scanner's community reputation value; negative
	// values indicate distrust.
	Reputation int `json:"reputation,omitempty"`
}

// DeviceResult is returned by the exposed-device scanner adapter.
type DeviceResult struct {
	// OpenPorts lists the exposed services observed on the address.
	OpenPorts []PortInfo `json:"open_ports,omitempty"`

	// Vulns lists CVE identifiers associated with the exposed services.
	Vulns []string `json:"vulns,omitempty"`

	// Hostnames are reverse-resolved names for the address.
	Hostnames []string `json:"hostnames,omitempty"`

	// LastSeen is when the scanner last observed the device.
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// PortInfo is one exposed service on a scanned device.
type PortInfo struct {
	Port    int    `json:"port"`
	Proto   string `json:"proto,omitempty"`
	Service string `json:"service,omitempty"`
	Banner  string `json:"banner,omitempty"`
}

// ProfileResult is returned by the social-profile existence prober.
type ProfileResult struct {
	// Profiles are the prober's discoveries with their own confidences.
	Profiles []SocialProfileMatch `json:"profiles,omitempty"`
}
