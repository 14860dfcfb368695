package theme

import (
	"slices"
	"sort"

	"github.com/matzehuels/notediagram/pkg/errors"
)

// Registry is an immutable set of themes keyed by name. It is safe for
// concurrent use because nothing mutates it after construction.
type Registry struct {
	themes map[string]Theme
	names  []string
}

// Default holds the built-in themes.
var Default = mustRegistry()

func mustRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// NewRegistry builds a registry from the built-in themes plus extra.
// An extra theme with a built-in name replaces the built-in. Two extras
// with the same name, an empty palette or an invalid hex color are
// CONFIGURATION_ERRORs.
func NewRegistry(extra ...Theme) (*Registry, error) {
	r := &Registry{themes: make(map[string]Theme, len(builtins)+len(extra))}
	for _, t := range builtins {
		n, err := normalize(t)
		if err != nil {
			return nil, err
		}
		r.themes[n.Name] = n
	}

	seen := make(map[string]bool, len(extra))
	for _, t := range extra {
		n, err := normalize(t)
		if err != nil {
			return nil, err
		}
		if seen[n.Name] {
			return nil, errors.New(errors.ErrCodeConfiguration, "duplicate theme: %q", n.Name)
		}
		seen[n.Name] = true
		r.themes[n.Name] = n
	}

	for name := range r.themes {
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Lookup returns the named theme.
func (r *Registry) Lookup(name string) (Theme, error) {
	t, ok := r.themes[name]
	if !ok {
		return Theme{}, errors.New(errors.ErrCodeConfiguration, "unknown theme: %q", name)
	}
	return Theme{Name: t.Name, Colors: slices.Clone(t.Colors)}, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.themes[name]
	return ok
}

// ResolveColor resolves fillIndex against the named theme. It fails only
// when the theme is unknown.
func (r *Registry) ResolveColor(name string, fillIndex int) (string, error) {
	t, ok := r.themes[name]
	if !ok {
		return "", errors.New(errors.ErrCodeConfiguration, "unknown theme: %q", name)
	}
	return t.Color(fillIndex), nil
}

// Names returns all theme names, sorted.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// All returns every theme in name order.
func (r *Registry) All() []Theme {
	out := make([]Theme, 0, len(r.names))
	for _, name := range r.names {
		t := r.themes[name]
		out = append(out, Theme{Name: t.Name, Colors: slices.Clone(t.Colors)})
	}
	return out
}
