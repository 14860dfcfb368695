package pass

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/matzehuels/notediagram/pkg/catalog"
	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/render/backend/sketch"
	"github.com/matzehuels/notediagram/pkg/render/content"
	"github.com/matzehuels/notediagram/pkg/render/viewport"
)

type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) observe(ev Event) {
	r.mu.Lock()
	r.states = append(r.states, ev.To)
	r.mu.Unlock()
}

func (r *recorder) got() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func seed(v uint64) *uint64 { return &v }

func TestInstance_StateSequence(t *testing.T) {
	inst := NewInstance(NewEngine())
	rec := &recorder{}
	inst.Observe(rec.observe)

	res, err := inst.Update(context.Background(), Params{Diagram: catalog.Stacked})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := []State{Idle, GeometryBuilt, Drawn, Fitted, Presented}
	if got := rec.got(); !reflect.DeepEqual(got, want) {
		t.Errorf("states = %v, want %v", got, want)
	}
	if inst.State() != Presented {
		t.Errorf("final state = %v, want presented", inst.State())
	}
	if snap := inst.Snapshot(); snap.Result != res {
		t.Error("snapshot result differs from returned result")
	}
}

func TestInstance_StackedFlat(t *testing.T) {
	inst := NewInstance(nil)
	res, err := inst.Update(context.Background(), Params{Diagram: catalog.Stacked, Theme: "default", Mode: Flat})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.Scene.Len() != 9 {
		t.Errorf("nodes = %d, want 9", res.Scene.Len())
	}
	b := res.Scene.Bounds()
	if res.Viewport != b.Expand(viewport.Padding) {
		t.Errorf("viewport = %+v, want bounds %+v padded by %v", res.Viewport, b, viewport.Padding)
	}
	for _, n := range res.Scene.Nodes {
		if !n.Paint.Flat {
			t.Errorf("shape %d not flat in flat mode", n.Shape)
		}
	}
	if res.Backend != "flat" {
		t.Errorf("backend = %q", res.Backend)
	}
	if res.Params.Layout != content.Vertical {
		t.Errorf("layout default = %q, want vertical", res.Params.Layout)
	}
}

func TestInstance_ConfigurationErrorStaysIdle(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"unknown diagram", Params{Diagram: "hexagon"}},
		{"unknown theme", Params{Diagram: catalog.Arrow, Theme: "neon"}},
		{"unknown mode", Params{Diagram: catalog.Arrow, Mode: "watercolor"}},
		{"unknown style", Params{Diagram: catalog.Arrow, Mode: Sketch, SketchStyle: "crayon"}},
		{"unknown layout", Params{Diagram: catalog.Arrow, Layout: "grid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := NewInstance(nil)
			rec := &recorder{}
			inst.Observe(rec.observe)

			_, err := inst.Update(context.Background(), tt.p)
			if !errors.IsConfiguration(err) {
				t.Fatalf("err = %v, want configuration error", err)
			}
			snap := inst.Snapshot()
			if snap.State != Idle || snap.Result != nil {
				t.Errorf("snapshot = %v/%v, want idle with no result", snap.State, snap.Result)
			}
			if snap.Err == nil {
				t.Error("snapshot error not recorded")
			}
			for _, s := range rec.got() {
				if s != Idle {
					t.Errorf("left idle: reached %v", s)
				}
			}
		})
	}
}

func TestInstance_MalformedPathFails(t *testing.T) {
	bad := func(catalog.ID) ([]catalog.Shape, error) {
		return []catalog.Shape{
			{Path: "M0 0 L10 0 L10 10 Z"},
			{Path: "M0 0 L10 banana"},
		}, nil
	}
	for _, mode := range []Mode{Flat, Sketch} {
		t.Run(string(mode), func(t *testing.T) {
			inst := NewInstance(NewEngine(WithShapeSource(bad)))
			_, err := inst.Update(context.Background(), Params{Diagram: catalog.Arrow, Mode: mode})
			if !errors.IsRenderFailure(err) {
				t.Fatalf("err = %v, want render failure", err)
			}
			if got := inst.State(); got != Failed {
				t.Errorf("state = %v, want failed", got)
			}
		})
	}
}

func TestInstance_EmptySceneStaysIdle(t *testing.T) {
	empty := func(catalog.ID) ([]catalog.Shape, error) { return nil, nil }
	inst := NewInstance(NewEngine(WithShapeSource(empty)))
	_, err := inst.Update(context.Background(), Params{Diagram: catalog.Arrow})
	if err != viewport.ErrEmpty {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
	if inst.State() != Idle {
		t.Errorf("state = %v, want idle", inst.State())
	}
}

func TestInstance_LastWriterWins(t *testing.T) {
	inst := NewInstance(nil)
	var once sync.Once
	var second *Result
	var secondErr error
	inst.Observe(func(ev Event) {
		if ev.Generation == 1 && ev.To == Drawn {
			once.Do(func() {
				second, secondErr = inst.Update(context.Background(), Params{Diagram: catalog.Pyramid})
			})
		}
	})

	first, err := inst.Update(context.Background(), Params{Diagram: catalog.Stacked})
	if err != ErrSuperseded {
		t.Fatalf("first pass err = %v, want ErrSuperseded", err)
	}
	if first != nil {
		t.Error("superseded pass returned a result")
	}
	if secondErr != nil {
		t.Fatalf("second pass: %v", secondErr)
	}
	snap := inst.Snapshot()
	if snap.State != Presented || snap.Result != second {
		t.Fatalf("committed state = %v, want second pass presented", snap.State)
	}
	if snap.Result.Params.Diagram != catalog.Pyramid {
		t.Errorf("committed diagram = %q, want pyramid", snap.Result.Params.Diagram)
	}
}

func TestInstance_Reset(t *testing.T) {
	inst := NewInstance(nil)
	if _, err := inst.Update(context.Background(), Params{Diagram: catalog.Eight}); err != nil {
		t.Fatal(err)
	}
	inst.Reset()
	if snap := inst.Snapshot(); snap.State != Idle || snap.Result != nil {
		t.Errorf("after reset: %v", snap.State)
	}
}

func TestInstance_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inst := NewInstance(nil)
	_, err := inst.Update(ctx, Params{Diagram: catalog.Radial, Mode: Sketch})
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if inst.State() != Idle {
		t.Errorf("state = %v, want idle", inst.State())
	}
}

func TestEngine_FlatDeterministic(t *testing.T) {
	e := NewEngine()
	p := Params{Diagram: catalog.Puzzle, Theme: "ocean"}
	a, err := e.Render(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Render(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Scene, b.Scene) || a.Viewport != b.Viewport {
		t.Error("flat passes differ")
	}
	if a.ID == b.ID {
		t.Error("results share an ID")
	}
}

func TestEngine_SketchSeed(t *testing.T) {
	var calls int
	e := NewEngine(WithSeedSource(func() uint64 { calls++; return uint64(calls) }))

	pinned := Params{Diagram: catalog.Diamond, Mode: Sketch, SketchStyle: sketch.Hachure, Seed: seed(42)}
	a, err := e.Render(context.Background(), pinned)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Render(context.Background(), pinned)
	if err != nil {
		t.Fatal(err)
	}
	if a.Seed != 42 || !reflect.DeepEqual(a.Scene, b.Scene) {
		t.Error("pinned seed did not reproduce the scene")
	}

	free := Params{Diagram: catalog.Diamond, Mode: Sketch}
	c, err := e.Render(context.Background(), free)
	if err != nil {
		t.Fatal(err)
	}
	d, err := e.Render(context.Background(), free)
	if err != nil {
		t.Fatal(err)
	}
	if c.Seed == d.Seed {
		t.Errorf("unpinned passes reused seed %d", c.Seed)
	}
	if c.Backend != "sketch:solid" {
		t.Errorf("backend = %q, want sketch:solid", c.Backend)
	}
}

func TestEngine_NoRoughStaysFlatWhenSketching(t *testing.T) {
	for _, id := range []catalog.ID{catalog.Stacked, catalog.Pinwheel} {
		t.Run(string(id), func(t *testing.T) {
			e := NewEngine()
			sk, err := e.Render(context.Background(), Params{Diagram: id, Mode: Sketch, SketchStyle: sketch.Hachure, Seed: seed(7)})
			if err != nil {
				t.Fatal(err)
			}
			flat, err := e.Render(context.Background(), Params{Diagram: id})
			if err != nil {
				t.Fatal(err)
			}
			shapes, _ := catalog.Lookup(id)
			crisp := 0
			for i, n := range sk.Scene.Nodes {
				if !shapes[i].Style.NoRough {
					if !n.Sketched {
						t.Errorf("shape %d was not sketched", i)
					}
					continue
				}
				crisp++
				if n.Sketched || !n.Paint.Flat {
					t.Errorf("shape %d: NoRough but Sketched=%v Flat=%v", i, n.Sketched, n.Paint.Flat)
				}
				if !reflect.DeepEqual(n, flat.Scene.Nodes[i]) {
					t.Errorf("shape %d differs from the flat pass:\n%+v\n%+v", i, n, flat.Scene.Nodes[i])
				}
			}
			if crisp == 0 {
				t.Fatalf("%s has no NoRough shapes", id)
			}
		})
	}
}

func TestEngine_PlacementBound(t *testing.T) {
	pts := []content.BulletPoint{{Title: "A"}, {Title: "B"}, {Title: "C"}, {Title: "D"}}
	res, err := NewEngine().Render(context.Background(), Params{Diagram: catalog.Arrow, Points: pts, Layout: content.Horizontal})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Placement.Row) != content.Slots || res.Placement.Row[3].Point.Title != "D" {
		t.Errorf("placement row = %+v", res.Placement.Row)
	}
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{Idle, GeometryBuilt, true},
		{GeometryBuilt, Drawn, true},
		{GeometryBuilt, Failed, true},
		{Drawn, Fitted, true},
		{Fitted, Presented, true},
		{Presented, Idle, true},
		{Failed, Idle, true},
		{Idle, Presented, false},
		{Drawn, Presented, false},
		{Failed, Presented, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%v -> %v = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
	if State(99).String() != "unknown" {
		t.Error("out of range state should be unknown")
	}
	if len(Edges()) != 6 {
		t.Errorf("edges = %d, want 6", len(Edges()))
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": Flat, "FLAT": Flat, " sketch ": Sketch} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("rough"); !errors.IsConfiguration(err) {
		t.Errorf("ParseMode(rough) err = %v", err)
	}
}

func TestParams_Deterministic(t *testing.T) {
	if !(Params{Mode: Flat}).Deterministic() {
		t.Error("flat should be deterministic")
	}
	if (Params{Mode: Sketch}).Deterministic() {
		t.Error("unseeded sketch should not be deterministic")
	}
	if !(Params{Mode: Sketch, Seed: seed(1)}).Deterministic() {
		t.Error("seeded sketch should be deterministic")
	}
}
