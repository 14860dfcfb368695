package pass

import (
	"context"
	stderrors "errors"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/notediagram/pkg/catalog"
	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/observability"
	"github.com/matzehuels/notediagram/pkg/render/backend"
	"github.com/matzehuels/notediagram/pkg/render/backend/sketch"
	"github.com/matzehuels/notediagram/pkg/render/content"
	"github.com/matzehuels/notediagram/pkg/render/geom"
	"github.com/matzehuels/notediagram/pkg/render/scene"
	"github.com/matzehuels/notediagram/pkg/render/style"
	"github.com/matzehuels/notediagram/pkg/render/viewport"
	"github.com/matzehuels/notediagram/pkg/theme"
)

// ErrSuperseded is returned by a pass whose parameters were replaced while
// it was running. Its partial result is discarded.
var ErrSuperseded = stderrors.New("render pass superseded")

// ShapeSource returns the shapes of a diagram. The default is [catalog.Lookup].
type ShapeSource func(catalog.ID) ([]catalog.Shape, error)

// Result is the committed output of a presented pass.
type Result struct {
	ID         uuid.UUID         `json:"id"`
	Params     Params            `json:"params"`
	Theme      theme.Theme       `json:"theme"`
	Backend    string            `json:"backend"`
	Scene      *scene.Scene      `json:"scene"`
	Viewport   geom.Rect         `json:"viewport"`
	Placement  content.Placement `json:"placement"`
	Seed       uint64            `json:"seed"`
	Generation uint64            `json:"generation"`
}

// Engine runs render passes. It is safe for concurrent use; per-view
// last-writer-wins bookkeeping lives in [Instance].
type Engine struct {
	themes     *theme.Registry
	shapes     ShapeSource
	logger     *log.Logger
	sketchOpts []sketch.Option
	seeds      func() uint64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithThemes replaces the built-in theme registry.
func WithThemes(r *theme.Registry) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.themes = r
		}
	}
}

// WithLogger sets the logger used for pass tracing. The default discards.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithShapeSource replaces the diagram catalog.
func WithShapeSource(src ShapeSource) EngineOption {
	return func(e *Engine) {
		if src != nil {
			e.shapes = src
		}
	}
}

// WithSketchOptions tunes the sketch backend. Later options override
// earlier ones.
func WithSketchOptions(opts ...sketch.Option) EngineOption {
	return func(e *Engine) { e.sketchOpts = append(e.sketchOpts, opts...) }
}

// WithSeedSource sets the generator for unpinned sketch seeds.
func WithSeedSource(fn func() uint64) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.seeds = fn
		}
	}
}

// NewEngine creates an Engine with the built-in catalog and themes.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		themes: theme.Default,
		shapes: catalog.Lookup,
		logger: log.New(io.Discard),
		seeds:  rand.Uint64,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Themes returns the registry the engine resolves colors from.
func (e *Engine) Themes() *theme.Registry { return e.themes }

// SketchOptions returns the effective sketch tuning.
func (e *Engine) SketchOptions() sketch.Options { return sketch.Apply(e.sketchOpts...) }

// Render runs one standalone pass to completion. Transitions are reported
// to the pass hooks but no Instance records them.
func (e *Engine) Render(ctx context.Context, p Params) (*Result, error) {
	from := Idle
	res, _, err := e.run(ctx, p, 0, func(to State, _ *Result, _ error) error {
		observability.Pass().OnTransition(ctx, from.String(), to.String())
		from = to
		return nil
	})
	return res, err
}

// stepFunc commits a state change. It returns ErrSuperseded when the pass
// should stop.
type stepFunc func(to State, res *Result, err error) error

// run executes one pass and reports the terminal state it reached. Failures
// before drawing leave the pass Idle; backend failures end in Failed.
func (e *Engine) run(ctx context.Context, p Params, gen uint64, step stepFunc) (*Result, State, error) {
	p = p.Normalize()
	hooks := observability.Pass()
	start := time.Now()
	hooks.OnPassStart(ctx, string(p.Diagram), string(p.Mode))

	finish := func(res *Result, to State, err error) (*Result, State, error) {
		shapes := 0
		if res != nil {
			shapes = res.Scene.Len()
		}
		if !stderrors.Is(err, ErrSuperseded) {
			hooks.OnPassComplete(ctx, string(p.Diagram), string(p.Mode), shapes, time.Since(start), err)
		}
		return res, to, err
	}

	if err := p.Validate(e.themes); err != nil {
		return finish(nil, Idle, err)
	}
	t, err := e.themes.Lookup(p.Theme)
	if err != nil {
		return finish(nil, Idle, err)
	}
	shapes, err := e.shapes(p.Diagram)
	if err != nil {
		return finish(nil, Idle, errors.Wrap(errors.ErrCodeConfiguration, err, "load diagram %s", p.Diagram))
	}

	sketching := p.Mode == Sketch
	resolved := make([]backend.Resolved, len(shapes))
	for i, s := range shapes {
		resolved[i] = backend.Resolved{Index: i, Shape: s, Paint: style.Resolve(s.Style, t, sketching)}
	}
	if err := step(GeometryBuilt, nil, nil); err != nil {
		return finish(nil, Idle, err)
	}

	var seed uint64
	b := backend.Composite{}
	if sketching {
		if p.Seed != nil {
			seed = *p.Seed
		} else {
			seed = e.seeds()
		}
		b.Sketch = sketch.New(p.SketchStyle, seed, e.sketchOpts...)
	}
	if err := ctx.Err(); err != nil {
		return finish(nil, Idle, err)
	}
	sc, err := backend.DrawAll(b, resolved)
	if err != nil {
		e.logger.Debug("draw failed", "diagram", p.Diagram, "backend", b.Name(), "err", err)
		if serr := step(Failed, nil, err); serr != nil {
			return finish(nil, Idle, serr)
		}
		return finish(nil, Failed, err)
	}
	if err := step(Drawn, nil, nil); err != nil {
		return finish(nil, Idle, err)
	}

	vp, err := viewport.Fit(sc)
	if err != nil {
		return finish(nil, Idle, err)
	}
	if err := step(Fitted, nil, nil); err != nil {
		return finish(nil, Idle, err)
	}

	res := &Result{
		ID:         uuid.New(),
		Params:     p,
		Theme:      t,
		Backend:    b.Name(),
		Scene:      sc,
		Viewport:   vp,
		Placement:  content.Bind(p.Points, p.Layout),
		Seed:       seed,
		Generation: gen,
	}
	if err := ctx.Err(); err != nil {
		return finish(nil, Idle, err)
	}
	if err := step(Presented, res, nil); err != nil {
		return finish(nil, Idle, err)
	}
	e.logger.Debug("pass presented", "diagram", p.Diagram, "backend", res.Backend, "shapes", sc.Len(), "viewport", vp.ViewBox())
	return finish(res, Presented, nil)
}
