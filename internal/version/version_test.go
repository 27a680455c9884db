package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestColoredKeepsSegments(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	got := Colored()
	if got != Version {
		t.Fatalf("Colored() = %q, want %q without color", got, Version)
	}
	if !strings.Contains(got, ".") {
		t.Fatalf("version lost its dots: %q", got)
	}
}

func TestColoredFallsBackOnOddVersions(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "snapshot"
	if got := Colored(); got != "snapshot" {
		t.Fatalf("non-semver version mangled: %q", got)
	}
}
