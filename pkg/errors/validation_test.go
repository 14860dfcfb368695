package errors

import (
	"strings"
	"testing"
)

func TestValidateNoteID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid uuid", "3f2b8c9e-4d7a-4b1e-9c2f-6a5d8e7f1b3c", false},
		{"valid short", "block_12", false},
		{"valid digits", "42", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"leading dash", "-abc", true},
		{"slash", "notes/1", true},
		{"colon", "note:1", true},
		{"space", "note 1", true},
		{"control char", "note\x01", true},
		{"newline", "note\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNoteID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNoteID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidInput {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "out/diagram.svg", false},
		{"valid absolute", "/tmp/diagram.png", false},
		{"valid dotted name", "my..diagram.svg", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"traversal", "../etc/passwd", true},
		{"inner traversal", "out/../../x.svg", true},
		{"windows traversal", "out\\..\\x.svg", true},
		{"null byte", "out\x00.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
