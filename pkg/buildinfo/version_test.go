package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02"
	defer func() { Version, Commit, Date = old, "none", "unknown" }()

	s := String()
	for _, want := range []string{"version: v1.2.3", "commit: abc123", "built: 2026-01-02"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
	if got := Get(); got.Version != "v1.2.3" || got.Commit != "abc123" {
		t.Errorf("Get() = %+v", got)
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
}
