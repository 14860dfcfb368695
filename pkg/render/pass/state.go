package pass

// State is a render pass lifecycle state.
type State int

const (
	// Idle means nothing to show: no pass has run, the last update was
	// rejected, or the drawn scene was empty.
	Idle State = iota
	// GeometryBuilt means shapes were looked up and paints resolved.
	GeometryBuilt
	// Drawn means every shape was painted by its backend.
	Drawn
	// Fitted means the viewport was computed from the drawn scene.
	Fitted
	// Presented means the result is committed and visible.
	Presented
	// Failed means a backend could not draw. It is distinct from Idle so
	// callers can tell "no data yet" from "failed to draw".
	Failed
)

var stateNames = [...]string{
	Idle:          "idle",
	GeometryBuilt: "geometry-built",
	Drawn:         "drawn",
	Fitted:        "fitted",
	Presented:     "presented",
	Failed:        "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// transitions lists the legal successors of each state. Any state may
// return to Idle when a new update starts a fresh pass.
var transitions = map[State][]State{
	Idle:          {GeometryBuilt},
	GeometryBuilt: {Drawn, Failed},
	Drawn:         {Fitted, Idle},
	Fitted:        {Presented},
	Presented:     {},
	Failed:        {},
}

// CanTransition reports whether s may move to next.
func (s State) CanTransition(next State) bool {
	if next == Idle {
		return true
	}
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// States returns every state in lifecycle order.
func States() []State {
	return []State{Idle, GeometryBuilt, Drawn, Fitted, Presented, Failed}
}

// Edge is one legal transition.
type Edge struct {
	From, To State
}

// Edges returns the forward transitions of the state machine, excluding
// the implicit reset to Idle that every update performs.
func Edges() []Edge {
	var out []Edge
	for _, from := range States() {
		for _, to := range transitions[from] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}
