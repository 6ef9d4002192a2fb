package segments

import (
	"errors"
	"fmt"
)

// ErrInvalidInterval indicates an interval whose bounds are not usable.
var ErrInvalidInterval = errors.New("invalid interval")

// Interval is a half-open time span in seconds.
type Interval struct {
	Start float64
	End   float64
}

// Validate rejects intervals with negative bounds or end before start.
// Zero-length intervals are allowed.
func (iv Interval) Validate() error {
	if iv.Start < 0 || iv.End < 0 {
		return fmt.Errorf("%w: negative bound [%v, %v]", ErrInvalidInterval, iv.Start, iv.End)
	}
	if iv.End < iv.Start {
		return fmt.Errorf("%w: end before start [%v, %v]", ErrInvalidInterval, iv.Start, iv.End)
	}
	return nil
}

// Duration returns the interval length in seconds.
func (iv Interval) Duration() float64 {
	return iv.End - iv.Start
}

// Overlaps reports whether two intervals share any positive-length span.
// Intervals that merely touch at a boundary do not overlap. The relation is
// symmetric.
func Overlaps(a, b Interval) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}
	if err := b.Validate(); err != nil {
		return false, err
	}
	return a.Start < b.End && a.End > b.Start, nil
}

// TranscriptSegment is one timed utterance from the transcription stage.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Interval returns the segment bounds as an Interval.
func (s TranscriptSegment) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// DiarizationSegment is one speaker turn from the diarization stage.
type DiarizationSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// Interval returns the turn bounds as an Interval.
func (s DiarizationSegment) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}
