package scene

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/notediagram/pkg/render/geom"
)

func TestKindText(t *testing.T) {
	for _, k := range []Kind{Filled, Stroked, Solid} {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Kind
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", b, err)
		}
		if got != k {
			t.Errorf("round trip %s = %s", k, got)
		}
	}

	var k Kind
	if err := json.Unmarshal([]byte(`"glowing"`), &k); err == nil {
		t.Error("unknown kind accepted")
	}
	if Kind(9).String() != "unknown" {
		t.Errorf("Kind(9) = %s", Kind(9))
	}
}

func TestSceneBounds(t *testing.T) {
	s := &Scene{Nodes: []Node{
		{Shape: 0, Elements: []Element{
			{Kind: Filled, Bounds: geom.Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}},
		}},
		{Shape: 1, Elements: []Element{
			{Kind: Stroked, Bounds: geom.Rect{MinX: 5, MinY: -5, MaxX: 20, MaxY: 8}},
			{Kind: Solid, Bounds: geom.Rect{MinX: 2, MinY: 2, MaxX: 3, MaxY: 30}},
		}},
	}}

	want := geom.Rect{MinX: 0, MinY: -5, MaxX: 20, MaxY: 30}
	if got := s.Bounds(); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
	if s.Len() != 2 || s.Elements() != 3 {
		t.Errorf("Len %d Elements %d", s.Len(), s.Elements())
	}
	if !(&Scene{}).Bounds().IsEmpty() {
		t.Error("empty scene should have empty bounds")
	}
	if !(Node{}).Bounds().IsEmpty() {
		t.Error("node without elements should have empty bounds")
	}
}
