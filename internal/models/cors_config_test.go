package models

import (
	"reflect"
	"testing"
)

func TestSplitOrigins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "http://localhost:5173", []string{"http://localhost:5173"}},
		{"trims and drops blanks", " https://a.example ,, https://b.example ", []string{"https://a.example", "https://b.example"}},
		{"deduplicates", "https://a.example,https://a.example", []string{"https://a.example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SplitOrigins(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitOrigins(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCorsConfigOriginList(t *testing.T) {
	t.Parallel()

	c := &CorsConfig{AllowedOrigins: "https://a.example, https://b.example"}
	got := c.OriginList()
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OriginList() = %v, want %v", got, want)
	}
}
