package segments

import (
	"errors"
	"testing"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"partial overlap", Interval{0, 1.5}, Interval{1, 2}, true},
		{"contained", Interval{0, 10}, Interval{2, 3}, true},
		{"identical", Interval{1, 2}, Interval{1, 2}, true},
		{"touching boundaries", Interval{0, 1}, Interval{1, 2}, false},
		{"disjoint", Interval{0, 1}, Interval{5, 6}, false},
		{"zero length inside", Interval{1, 1}, Interval{0, 2}, true},
		{"zero length at boundary", Interval{1, 1}, Interval{1, 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Overlaps(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Overlaps: %v", err)
			}
			if got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// The relation must be symmetric.
			rev, err := Overlaps(tt.b, tt.a)
			if err != nil {
				t.Fatalf("Overlaps reversed: %v", err)
			}
			if rev != got {
				t.Errorf("Overlaps not symmetric for %v, %v", tt.a, tt.b)
			}
		})
	}
}

func TestOverlapsRejectsInvalid(t *testing.T) {
	if _, err := Overlaps(Interval{2, 1}, Interval{0, 1}); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	if _, err := Overlaps(Interval{0, 1}, Interval{-1, 1}); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestIntervalValidate(t *testing.T) {
	if err := (Interval{0, 0}).Validate(); err != nil {
		t.Fatalf("zero-length interval should validate: %v", err)
	}
	if err := (Interval{3, 2}).Validate(); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}
