package staticpub

import (
	"testing"
	"time"
)

// Shared fixtures for the package tests.

const testDomain = "https://social.example.org"

// testClock is the fixed parse time injected where determinism matters.
var testClock = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// testConfig returns a validated configuration for the fixture instance.
func testConfig(t *testing.T) *Config {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Instance.Domain = testDomain
	cfg.Instance.Host = "social.example.org"
	cfg.Actor.PreferredUsername = "alice"
	cfg.Actor.Name = "Alice"
	cfg.Actor.Summary = "a static instance"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validating test config: %v", err)
	}
	return cfg
}

// mustParseNote parses content as a pseudo-note under the fixture domain.
func mustParseNote(t *testing.T, filename, content string) *Note {
	t.Helper()

	note, err := ParseNote(testDomain, filename, []byte(content), testClock)
	if err != nil {
		t.Fatalf("ParseNote(%s) error = %v", filename, err)
	}
	return note
}
