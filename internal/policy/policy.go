// Package policy decides whether the gateway may fetch a candidate URL.
//
// The check is intentionally a syntactic substring blacklist plus a scheme
// prefix test. It performs no hostname resolution, no numeric-IP
// normalization and no private-range checks: alternate loopback encodings
// such as 2130706433, 0177.0.0.1 or 0x7f.0x0.0x0.0x1 pass. That gap is the
// point of this lab and must not be closed here.
package policy

import "strings"

// Verdict classifies the outcome of Validate.
type Verdict int

const (
	VerdictAllowed Verdict = iota
	VerdictForbidden
	VerdictUnsupportedScheme
)

// ReasonForbidden is the reason attached to blacklist hits.
const ReasonForbidden = "local addresses are not allowed"

var forbiddenSubstrings = []string{
	"localhost",
	"127.0.0.1",
	"::1",
}

// Decision is the immutable result of validating one URL.
type Decision struct {
	Allowed bool
	Verdict Verdict
	Reason  string
}

// Validate applies the blacklist to the raw URL string. Checks run on the
// lowercased input, in order: blacklist substrings, then scheme prefix.
func Validate(rawURL string) Decision {
	lowered := strings.ToLower(rawURL)

	for _, entry := range forbiddenSubstrings {
		if strings.Contains(lowered, entry) {
			return Decision{Verdict: VerdictForbidden, Reason: ReasonForbidden}
		}
	}

	if !strings.HasPrefix(lowered, "http://") && !strings.HasPrefix(lowered, "https://") {
		return Decision{Verdict: VerdictUnsupportedScheme, Reason: "only http and https allowed"}
	}

	return Decision{Allowed: true, Verdict: VerdictAllowed}
}
