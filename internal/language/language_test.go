package language

import "testing"

func TestToISO2(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ar", "ar"},
		{"ara", "ar"},
		{"Arabic", "ar"},
		{"ENG", "en"},
		{"fre", "fr"},
		{"farsi", "fa"},
		{"xx", "xx"}, // unknown 2-letter passes through
		{"klingon", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ToISO2(tt.input); got != tt.want {
			t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("ar"); got != "Arabic" {
		t.Fatalf("Display(ar) = %q", got)
	}
	if got := Display("zz"); got != "zz" {
		t.Fatalf("Display(zz) = %q", got)
	}
}
