package policy

import "testing"

func TestValidateBlocksBlacklistedTargets(t *testing.T) {
	tests := []string{
		"http://localhost:8000/internal/flag",
		"http://LOCALHOST/",
		"http://127.0.0.1:8000/internal/flag",
		"https://127.0.0.1/admin",
		"http://[::1]:8000/",
		"http://evil.localhost.example/",
		"http://sub.localhost/",
	}

	for _, rawURL := range tests {
		d := Validate(rawURL)
		if d.Allowed || d.Verdict != VerdictForbidden {
			t.Fatalf("expected %s to be forbidden, got %+v", rawURL, d)
		}
		if d.Reason != ReasonForbidden {
			t.Fatalf("unexpected reason for %s: %q", rawURL, d.Reason)
		}
	}
}

func TestValidateAllowsEncodedLoopback(t *testing.T) {
	// Alternate spellings of 127.0.0.1 that the substring blacklist does
	// not recognize. These must stay allowed.
	tests := []string{
		"http://2130706433:8000/internal/flag",
		"http://0177.0.0.1:8000/internal/flag",
		"http://0x7f.0x0.0x0.0x1:8000/internal/flag",
		"http://0x7f000001/",
	}

	for _, rawURL := range tests {
		d := Validate(rawURL)
		if !d.Allowed {
			t.Fatalf("expected %s to be allowed, got %+v", rawURL, d)
		}
	}
}

func TestValidateRejectsUnsupportedSchemes(t *testing.T) {
	tests := []string{
		"ftp://example.com/",
		"file:///etc/passwd",
		"gopher://example.com/",
		"example.com",
		"//example.com",
		"",
	}

	for _, rawURL := range tests {
		d := Validate(rawURL)
		if d.Allowed || d.Verdict != VerdictUnsupportedScheme {
			t.Fatalf("expected %s to be unsupported-scheme, got %+v", rawURL, d)
		}
	}
}

func TestValidateAllowsPublicURLs(t *testing.T) {
	tests := []string{
		"http://example.com/",
		"HTTPS://Example.COM/path?q=1",
		"http://93.184.216.34:8080/",
	}

	for _, rawURL := range tests {
		d := Validate(rawURL)
		if !d.Allowed || d.Verdict != VerdictAllowed {
			t.Fatalf("expected %s to be allowed, got %+v", rawURL, d)
		}
	}
}

func TestBlacklistBeatsSchemeCheck(t *testing.T) {
	// The blacklist runs first, so even a bogus scheme with a loopback
	// literal is reported as forbidden, not unsupported.
	d := Validate("ftp://127.0.0.1/")
	if d.Verdict != VerdictForbidden {
		t.Fatalf("expected forbidden verdict, got %+v", d)
	}
}
