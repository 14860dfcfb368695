package cli

import (
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/notediagram/pkg/catalog"
)

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"cross-hatch": "Cross Hatch",
		"zigzag-line": "Zigzag Line",
		"default":     "Default",
		"ocean":       "Ocean",
	}
	for in, want := range tests {
		if got := displayName(in); got != want {
			t.Errorf("displayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCompleteDiagrams(t *testing.T) {
	got, _ := completeDiagrams(nil, nil, "")
	if len(got) != len(catalog.IDs()) {
		t.Fatalf("got %d completions, want %d", len(got), len(catalog.IDs()))
	}
	if got, _ := completeDiagrams(nil, []string{"arrow"}, ""); got != nil {
		t.Errorf("second argument completed: %v", got)
	}
}

func TestCompleteThemes(t *testing.T) {
	c := New(io.Discard, LogInfo)
	got, _ := c.completeThemes(nil, nil, "")
	if !slices.Contains(got, "default") {
		t.Errorf("themes %v missing default", got)
	}
}

func TestFixedCompletion(t *testing.T) {
	got, _ := fixedCompletion("flat", "sketch")(nil, nil, "")
	if !slices.Equal(got, []string{"flat", "sketch"}) {
		t.Errorf("got %v", got)
	}
}

func TestListCommand(t *testing.T) {
	for _, args := range [][]string{
		{"list"},
		{"list", "diagrams"},
		{"list", "themes", "--json"},
		{"list", "styles"},
	} {
		if err := runCLI(t, args...); err != nil {
			t.Errorf("%v: %v", args, err)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			c := New(io.Discard, LogInfo)
			root := c.RootCommand()
			var out strings.Builder
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell, "--no-descriptions"})
			if err := root.Execute(); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}
}
