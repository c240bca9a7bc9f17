package models

import "testing"

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantMode  Mode
		wantValid bool
	}{
		{name: "normal", input: "normal", wantMode: ModeNormal, wantValid: true},
		{name: "crazy", input: "crazy", wantMode: ModeCrazy, wantValid: true},
		{name: "bombastic", input: "bombastic", wantMode: ModeBombastic, wantValid: true},
		{name: "unknown value", input: "extreme", wantValid: false},
		{name: "empty", input: "", wantValid: false},
		{name: "case sensitive", input: "Normal", wantValid: false},
		{name: "whitespace not trimmed", input: " normal", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mode, ok := ParseMode(tt.input)
			if ok != tt.wantValid {
				t.Fatalf("ParseMode(%q) valid = %v, want %v", tt.input, ok, tt.wantValid)
			}
			if ok && mode != tt.wantMode {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, mode, tt.wantMode)
			}
		})
	}
}
