// Package host is the ownership boundary between a document editor and the
// render engine.
//
// An editor embeds diagrams as opaque blocks. For each block it calls
// [Host.Create] with a container name, feeds parameter changes through
// [Host.Update], and releases the view with [Host.Dispose]. The engine
// never sees the editor's model: the only editor data a handle carries is
// the [Source] metadata, stored verbatim and handed back on request.
package host

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/notediagram/pkg/errors"
	"github.com/matzehuels/notediagram/pkg/render/pass"
)

// Handle identifies one mounted diagram view.
type Handle struct {
	ID        uuid.UUID `json:"id"`
	Container string    `json:"container"`
}

func (h Handle) String() string { return h.Container + "/" + h.ID.String() }

// Source records where a diagram block came from in the editor document.
type Source struct {
	OriginalText     string `json:"originalText,omitempty"`
	SourceBlockIndex *int   `json:"sourceBlockIndex,omitempty"`
}

// CreateOption configures a new view.
type CreateOption func(*view)

// WithSource attaches editor metadata to the view.
func WithSource(text string, blockIndex int) CreateOption {
	return func(v *view) {
		v.source = Source{OriginalText: text, SourceBlockIndex: &blockIndex}
	}
}

// WithObserver subscribes fn to the view's pass transitions.
func WithObserver(fn pass.Observer) CreateOption {
	return func(v *view) { v.inst.Observe(fn) }
}

type view struct {
	handle Handle
	source Source
	inst   *pass.Instance
}

// Host owns the mounted views. It is safe for concurrent use.
type Host struct {
	engine *pass.Engine

	mu    sync.Mutex
	views map[uuid.UUID]*view
}

// New creates a Host whose views render with e. A nil engine uses the
// defaults.
func New(e *pass.Engine) *Host {
	if e == nil {
		e = pass.NewEngine()
	}
	return &Host{engine: e, views: make(map[uuid.UUID]*view)}
}

// Create mounts a new Idle view in container.
func (h *Host) Create(container string, opts ...CreateOption) Handle {
	v := &view{
		handle: Handle{ID: uuid.New(), Container: container},
		inst:   pass.NewInstance(h.engine),
	}
	for _, opt := range opts {
		opt(v)
	}
	h.mu.Lock()
	h.views[v.handle.ID] = v
	h.mu.Unlock()
	return v.handle
}

func (h *Host) lookup(hd Handle) (*view, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.views[hd.ID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no diagram view %s", hd)
	}
	return v, nil
}

// Update applies new parameters to the view and runs a pass. Concurrent
// updates of the same view resolve last-writer-wins.
func (h *Host) Update(ctx context.Context, hd Handle, p pass.Params) (*pass.Result, error) {
	v, err := h.lookup(hd)
	if err != nil {
		return nil, err
	}
	return v.inst.Update(ctx, p)
}

// Snapshot returns the view's current pass state.
func (h *Host) Snapshot(hd Handle) (pass.Snapshot, error) {
	v, err := h.lookup(hd)
	if err != nil {
		return pass.Snapshot{}, err
	}
	return v.inst.Snapshot(), nil
}

// Source returns the editor metadata stored with the view.
func (h *Host) Source(hd Handle) (Source, error) {
	v, err := h.lookup(hd)
	if err != nil {
		return Source{}, err
	}
	return v.source, nil
}

// Dispose unmounts the view. A running pass on it is superseded.
func (h *Host) Dispose(hd Handle) error {
	h.mu.Lock()
	v, ok := h.views[hd.ID]
	delete(h.views, hd.ID)
	h.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no diagram view %s", hd)
	}
	v.inst.Reset()
	return nil
}

// Handles lists mounted views ordered by container, then ID.
func (h *Host) Handles() []Handle {
	h.mu.Lock()
	out := make([]Handle, 0, len(h.views))
	for _, v := range h.views {
		out = append(out, v.handle)
	}
	h.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Container != out[j].Container {
			return out[i].Container < out[j].Container
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Len returns the number of mounted views.
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.views)
}
