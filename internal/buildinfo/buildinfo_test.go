package buildinfo

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	v, c := Version, Commit
	defer func() { Version, Commit = v, c }()

	Version, Commit = "dev", "unknown"
	if got := Short(); got != "dev" {
		t.Fatalf("Short()=%q, want dev", got)
	}
	Commit = "abc1234"
	if got := Short(); got != "abc1234" {
		t.Fatalf("Short()=%q, want commit", got)
	}
	Version = "v0.3.0"
	if got := Short(); got != "v0.3.0" {
		t.Fatalf("Short()=%q, want version", got)
	}
	if ua := UserAgent(); !strings.HasPrefix(ua, "transitboard/v0.3.0") {
		t.Fatalf("UserAgent()=%q", ua)
	}
}
