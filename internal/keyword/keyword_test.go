package keyword

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"simple lowercase", "apple", "apple"},
		{"uppercase folds", "APPLE", "apple"},
		{"mixed case", "ApPlE", "apple"},
		{"punctuation dropped", "run-down!", "rundown"},
		{"spaces dropped", "give up", "giveup"},
		{"digits dropped", "catch22", "catch"},
		{"diacritics folded", "Café!", "cafe"},
		{"only symbols", "!@#$", ""},
		{"apostrophe", "o'clock", "oclock"},
		{"german sharp s kept as letter", "straße", "straße"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEquivalence(t *testing.T) {
	// The properties the merge engine depends on.
	pairs := [][2]string{
		{"Café!", "cafe"},
		{"CAFE", "cafe"},
		{"Apple", "apple"},
		{"naïve", "naive"},
	}
	for _, p := range pairs {
		if Normalize(p[0]) != Normalize(p[1]) {
			t.Errorf("Normalize(%q) = %q, Normalize(%q) = %q; want equal",
				p[0], Normalize(p[0]), p[1], Normalize(p[1]))
		}
	}
}
