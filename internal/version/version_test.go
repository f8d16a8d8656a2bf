package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if strings.Contains(Version, "\x1b[") {
		t.Errorf("Version must be plain text, got %q", Version)
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "1.2.3-rc1"
	got := Colored()
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc1") {
		t.Errorf("Colored() = %q", got)
	}

	Version = "nightly"
	if got := Colored(); got != "nightly" {
		t.Errorf("Colored() for a non-semver version = %q", got)
	}
}

func TestInfo_Overrides(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Info(false)
	for _, want := range []string{"krllint 1.2.3\n", "commit: abc123def456\n", "built:  2024-01-15T10:30:00Z\n", "go:     "} {
		if !strings.Contains(info, want) {
			t.Errorf("Info() lacks %q:\n%s", want, info)
		}
	}
}
