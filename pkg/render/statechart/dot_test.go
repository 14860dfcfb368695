package statechart

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/notediagram/pkg/render/pass"
)

func TestToDOT(t *testing.T) {
	dot := ToDOT(Options{})
	for _, s := range pass.States() {
		if !strings.Contains(dot, `"`+s.String()+`" [label=`) {
			t.Errorf("missing node %s", s)
		}
	}
	if got := strings.Count(dot, "->"); got != len(pass.Edges()) {
		t.Errorf("edges = %d, want %d", got, len(pass.Edges()))
	}
	if !strings.Contains(dot, `"geometry-built" -> "failed";`) {
		t.Error("missing failure edge")
	}
}

func TestToDOT_Options(t *testing.T) {
	cur := pass.Fitted
	dot := ToDOT(Options{Current: &cur, ShowReset: true})
	if !strings.Contains(dot, `"fitted" [label="fitted", fillcolor="#4f46e5"`) {
		t.Errorf("current state not highlighted:\n%s", dot)
	}
	if !strings.Contains(dot, `"failed" -> "idle" [style=dashed`) {
		t.Error("reset edge missing")
	}
	if strings.Contains(dot, `"idle" -> "idle"`) {
		t.Error("idle should not reset to itself")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("unexpected root: %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Error("svg without viewBox should pass through")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(Options{}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "presented") {
		t.Error("rendered chart missing state label")
	}
}
