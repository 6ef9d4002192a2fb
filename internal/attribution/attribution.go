package attribution

import (
	"errors"
	"fmt"

	"tafrigh/internal/segments"
	"tafrigh/internal/textutil"
)

// ErrMalformedSegment indicates a transcript or diarization segment whose
// interval bounds are unusable.
var ErrMalformedSegment = errors.New("malformed segment")

// Result is the terminal artifact of the attribution stage.
type Result struct {
	Speakers *SpeakerMap `json:"speakers"`
	// HostGuess is the speaker with the strictly greatest word count, or
	// empty when no speaker was attributed.
	HostGuess string `json:"host_guess,omitempty"`
	// Dropped counts transcript segments that overlapped no diarization
	// turn. Dropping is designed behavior, the count exists for
	// observability.
	Dropped int `json:"dropped"`
}

// Attribute assigns each transcript segment to the first diarization turn it
// overlaps, accumulating text per speaker. Segments overlapping no turn are
// dropped and counted. Empty inputs yield an empty result, not an error.
func Attribute(transcript []segments.TranscriptSegment, turns []segments.DiarizationSegment) (Result, error) {
	result := Result{Speakers: NewSpeakerMap()}

	for i, seg := range transcript {
		if err := seg.Interval().Validate(); err != nil {
			return Result{}, fmt.Errorf("%w: transcript segment %d: %v", ErrMalformedSegment, i, err)
		}
	}
	for i, turn := range turns {
		if err := turn.Interval().Validate(); err != nil {
			return Result{}, fmt.Errorf("%w: diarization segment %d: %v", ErrMalformedSegment, i, err)
		}
	}

	for _, seg := range transcript {
		speaker, matched := firstOverlap(seg, turns)
		if !matched {
			result.Dropped++
			continue
		}
		result.Speakers.Append(speaker, seg.Text)
	}

	result.HostGuess = hostGuess(result.Speakers)
	return result, nil
}

func firstOverlap(seg segments.TranscriptSegment, turns []segments.DiarizationSegment) (string, bool) {
	for _, turn := range turns {
		// Bounds were validated up front, the overlap test cannot fail here.
		ok, err := segments.Overlaps(seg.Interval(), turn.Interval())
		if err != nil {
			return "", false
		}
		if ok {
			return turn.Speaker, true
		}
	}
	return "", false
}

// hostGuess returns the speaker with the strictly greatest word count.
// Ties keep the earlier-inserted speaker.
func hostGuess(speakers *SpeakerMap) string {
	var best string
	bestCount := -1
	for _, speaker := range speakers.Speakers() {
		text, _ := speakers.Get(speaker)
		if count := textutil.WordCount(text); count > bestCount {
			best = speaker
			bestCount = count
		}
	}
	return best
}
