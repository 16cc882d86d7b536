package version

import (
	"strings"
	"testing"
)

func TestVersionHasDefault(t *testing.T) {
	if Version == "" {
		t.Fatal("Version should have a default value")
	}
}

func TestPlainStripsColor(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "\x1b[36;1m1\x1b[0m.\x1b[32;1m2\x1b[0m.3-rc.1"
	if got := Plain(); got != "1.2.3-rc.1" {
		t.Fatalf("Plain() = %q", got)
	}
	if strings.ContainsRune(Plain(), 0x1b) {
		t.Fatal("escape left in plain version")
	}
}

func TestOverrides(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"
	if GitCommit != "abc123def456" || BuildDate != "2024-01-15T10:30:00Z" {
		t.Fatalf("overrides not applied: %q %q", GitCommit, BuildDate)
	}
}
