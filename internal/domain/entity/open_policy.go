package entity

import "strings"

// OpenPolicy selects how "open now" is decided.
type OpenPolicy string

const (
	// OpenPolicyHours derives the answer from OpeningHours, falling back to IsOpen.
	OpenPolicyHours OpenPolicy = "hours"
	// OpenPolicyFlag trusts the persisted IsOpen flag.
	OpenPolicyFlag OpenPolicy = "flag"
)

// ParseOpenPolicy returns the policy named by s, or fallback when s is blank or unknown.
func ParseOpenPolicy(s string, fallback OpenPolicy) OpenPolicy {
	switch OpenPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case OpenPolicyHours:
		return OpenPolicyHours
	case OpenPolicyFlag:
		return OpenPolicyFlag
	default:
		return fallback
	}
}

// IsValid checks if the OpenPolicy is a known value.
func (p OpenPolicy) IsValid() bool {
	return p == OpenPolicyHours || p == OpenPolicyFlag
}
