package theme

import (
	"slices"
	"testing"

	"github.com/matzehuels/notediagram/pkg/errors"
)

func TestColor(t *testing.T) {
	th := Theme{Name: "t", Colors: []string{"#111111", "#222222", "#333333"}}

	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"first", 0, "#111111"},
		{"last", 2, "#333333"},
		{"wraps", 3, "#111111"},
		{"wraps twice", 7, "#222222"},
		{"black sentinel", 100, Black},
		{"white sentinel", 101, White},
		{"near sentinel wraps", 99, "#111111"},
		{"past sentinel wraps", 102, "#111111"},
		{"negative wraps", -1, "#333333"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := th.Color(tt.index); got != tt.want {
				t.Errorf("Color(%d) = %s, want %s", tt.index, got, tt.want)
			}
		})
	}
}

func TestColor_EmptyPalette(t *testing.T) {
	if got := (Theme{}).Color(3); got != Black {
		t.Errorf("Color() on empty palette = %s, want %s", got, Black)
	}
}

func TestRegistry_Builtins(t *testing.T) {
	names := Default.Names()
	want := []string{"default", "forest", "monochrome", "ocean", "pastel", "sunset", "vibrant"}
	if !slices.Equal(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}

	lengths := map[int]bool{}
	for _, th := range Default.All() {
		lengths[th.Len()] = true
	}
	if len(lengths) < 3 {
		t.Errorf("built-in palettes should vary in length, got %v", lengths)
	}
}

func TestRegistry_Lookup(t *testing.T) {
	th, err := Default.Lookup("ocean")
	if err != nil {
		t.Fatalf("Lookup(ocean): %v", err)
	}
	if th.Len() != 4 {
		t.Errorf("ocean len = %d, want 4", th.Len())
	}

	th.Colors[0] = "#badbad"
	again, _ := Default.Lookup("ocean")
	if again.Colors[0] == "#badbad" {
		t.Error("Lookup leaked registry palette")
	}

	_, err = Default.Lookup("neon")
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Lookup(neon) error = %v, want CONFIGURATION_ERROR", err)
	}
}

func TestRegistry_ResolveColor(t *testing.T) {
	tests := []struct {
		name      string
		theme     string
		index     int
		want      string
		wantError bool
	}{
		{"in range", "monochrome", 1, "#374151", false},
		{"wraps", "monochrome", 5, "#374151", false},
		{"black", "pastel", 100, "#000000", false},
		{"white", "pastel", 101, "#ffffff", false},
		{"unknown theme", "neon", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Default.ResolveColor(tt.theme, tt.index)
			if (err != nil) != tt.wantError {
				t.Fatalf("ResolveColor error = %v, wantError %v", err, tt.wantError)
			}
			if got != tt.want {
				t.Errorf("ResolveColor(%s, %d) = %s, want %s", tt.theme, tt.index, got, tt.want)
			}
		})
	}
}

func TestNewRegistry_Extra(t *testing.T) {
	r, err := NewRegistry(
		Theme{Name: "brand", Colors: []string{"#FF0000", "00ff00"}},
		Theme{Name: "default", Colors: []string{"#123456"}},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	brand, err := r.Lookup("brand")
	if err != nil {
		t.Fatalf("Lookup(brand): %v", err)
	}
	if brand.Colors[0] != "#ff0000" {
		t.Errorf("colors not normalized: %v", brand.Colors)
	}

	def, _ := r.Lookup("default")
	if def.Color(9) != "#123456" {
		t.Errorf("extra theme did not replace built-in: %v", def.Colors)
	}

	if Default.Has("brand") {
		t.Error("extra theme leaked into Default registry")
	}
}

func TestNewRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		extra []Theme
	}{
		{"empty name", []Theme{{Name: " ", Colors: []string{"#000000"}}}},
		{"no colors", []Theme{{Name: "x"}}},
		{"bad hex", []Theme{{Name: "x", Colors: []string{"#zzzzzz"}}}},
		{"duplicate", []Theme{{Name: "x", Colors: []string{"#000000"}}, {Name: "x", Colors: []string{"#ffffff"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.extra...)
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("NewRegistry error = %v, want CONFIGURATION_ERROR", err)
			}
		})
	}
}
