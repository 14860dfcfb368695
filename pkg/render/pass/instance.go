package pass

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"

	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/observability"
)

// Event describes one state change of an Instance.
type Event struct {
	Generation uint64
	From, To   State
	Err        error
}

// Observer receives state changes. Observers run outside the instance lock
// and may call Update re-entrantly; the running pass is then superseded.
type Observer func(Event)

// Snapshot is a consistent view of an Instance.
type Snapshot struct {
	Generation uint64  `json:"generation"`
	State      State   `json:"state"`
	Result     *Result `json:"result,omitempty"`
	Err        error   `json:"-"`
}

// Instance is one rendered diagram view. Every Update starts a fresh pass
// and only the newest pass may commit: results of superseded passes are
// dropped.
type Instance struct {
	engine *Engine
	gen    atomic.Uint64

	mu        sync.Mutex
	state     State
	result    *Result
	err       error
	observers []Observer
}

// NewInstance creates an Idle instance backed by e.
func NewInstance(e *Engine) *Instance {
	if e == nil {
		e = NewEngine()
	}
	return &Instance{engine: e}
}

// Observe registers fn for every subsequent state change.
func (i *Instance) Observe(fn Observer) {
	if fn == nil {
		return
	}
	i.mu.Lock()
	i.observers = append(i.observers, fn)
	i.mu.Unlock()
}

// Snapshot returns the current state, result and error.
func (i *Instance) Snapshot() Snapshot {
	i.mu.Lock()
	defer i.mu.Unlock()
	return Snapshot{Generation: i.gen.Load(), State: i.state, Result: i.result, Err: i.err}
}

// State returns the current state.
func (i *Instance) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Update runs a pass for p. It returns ErrSuperseded if another Update
// started before this one finished.
func (i *Instance) Update(ctx context.Context, p Params) (*Result, error) {
	gen := i.gen.Add(1)
	if err := i.commit(gen, Idle, nil, nil); err != nil {
		return nil, err
	}

	res, final, err := i.engine.run(ctx, p, gen, func(to State, r *Result, err error) error {
		return i.commit(gen, to, r, err)
	})
	if stderrors.Is(err, ErrSuperseded) {
		observability.Pass().OnSuperseded(ctx, gen)
		i.engine.logger.Debug("pass superseded", "generation", gen)
		return nil, err
	}
	if err != nil && final == Idle {
		// Rejected or empty passes record the error but stay Idle.
		if cerr := i.commit(gen, Idle, nil, err); cerr != nil {
			return nil, cerr
		}
	}
	return res, err
}

// Reset returns the instance to Idle and cancels any running pass.
func (i *Instance) Reset() {
	gen := i.gen.Add(1)
	_ = i.commit(gen, Idle, nil, nil)
}

func (i *Instance) commit(gen uint64, to State, res *Result, err error) error {
	i.mu.Lock()
	if gen != i.gen.Load() {
		i.mu.Unlock()
		return ErrSuperseded
	}
	from := i.state
	if !from.CanTransition(to) {
		i.mu.Unlock()
		return errors.New(errors.ErrCodeInternal, "illegal pass transition %s -> %s", from, to)
	}
	i.state = to
	i.result = res
	i.err = err
	observers := append([]Observer(nil), i.observers...)
	i.mu.Unlock()

	observability.Pass().OnTransition(context.Background(), from.String(), to.String())
	i.engine.logger.Debug("pass transition", "generation", gen, "from", from, "to", to)
	ev := Event{Generation: gen, From: from, To: to, Err: err}
	for _, fn := range observers {
		fn(ev)
	}
	return nil
}
