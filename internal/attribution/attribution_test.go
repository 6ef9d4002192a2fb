package attribution

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"tafrigh/internal/segments"
)

func TestAttributeTouchingSegmentExcluded(t *testing.T) {
	transcript := []segments.TranscriptSegment{
		{Start: 0, End: 1, Text: "hi"},
		{Start: 1, End: 2, Text: "there"},
	}
	turns := []segments.DiarizationSegment{
		{Start: 0, End: 1, Speaker: "S0"},
	}

	result, err := Attribute(transcript, turns)
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	if got, _ := result.Speakers.Get("S0"); got != "hi" {
		t.Errorf("S0 block = %q, want %q", got, "hi")
	}
	if result.HostGuess != "S0" {
		t.Errorf("host guess = %q, want S0", result.HostGuess)
	}
	if result.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", result.Dropped)
	}
}

func TestAttributeFirstMatchWins(t *testing.T) {
	transcript := []segments.TranscriptSegment{
		{Start: 0, End: 2, Text: "a b c"},
	}
	turns := []segments.DiarizationSegment{
		{Start: 0, End: 1, Speaker: "S0"},
		{Start: 1, End: 2, Speaker: "S1"},
	}

	result, err := Attribute(transcript, turns)
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	if got, _ := result.Speakers.Get("S0"); got != "a b c" {
		t.Errorf("S0 block = %q, want %q", got, "a b c")
	}
	if _, ok := result.Speakers.Get("S1"); ok {
		t.Error("S1 should be absent from speaker mapping")
	}
	if result.HostGuess != "S0" {
		t.Errorf("host guess = %q, want S0", result.HostGuess)
	}
}

func TestAttributeAccumulatesWithSpaces(t *testing.T) {
	transcript := []segments.TranscriptSegment{
		{Start: 0, End: 1, Text: "مرحبا"},
		{Start: 1.2, End: 2, Text: "بكم"},
	}
	turns := []segments.DiarizationSegment{
		{Start: 0, End: 5, Speaker: "SPEAKER_00"},
	}

	result, err := Attribute(transcript, turns)
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	if got, _ := result.Speakers.Get("SPEAKER_00"); got != "مرحبا بكم" {
		t.Errorf("block = %q", got)
	}
}

func TestAttributeEmptyInputs(t *testing.T) {
	result, err := Attribute(nil, nil)
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	if result.Speakers.Len() != 0 {
		t.Errorf("speakers = %d, want 0", result.Speakers.Len())
	}
	if result.HostGuess != "" {
		t.Errorf("host guess = %q, want absent", result.HostGuess)
	}

	// Transcript with no diarization drops everything.
	result, err = Attribute([]segments.TranscriptSegment{{Start: 0, End: 1, Text: "x"}}, nil)
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	if result.Speakers.Len() != 0 || result.HostGuess != "" {
		t.Errorf("expected empty mapping, got %d speakers host %q", result.Speakers.Len(), result.HostGuess)
	}
	if result.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", result.Dropped)
	}
}

func TestAttributeMalformedSegment(t *testing.T) {
	_, err := Attribute([]segments.TranscriptSegment{{Start: 2, End: 1, Text: "x"}}, nil)
	if !errors.Is(err, ErrMalformedSegment) {
		t.Fatalf("expected ErrMalformedSegment, got %v", err)
	}

	_, err = Attribute(nil, []segments.DiarizationSegment{{Start: -1, End: 1, Speaker: "S0"}})
	if !errors.Is(err, ErrMalformedSegment) {
		t.Fatalf("expected ErrMalformedSegment, got %v", err)
	}
}

func TestAttributeIdempotent(t *testing.T) {
	transcript := []segments.TranscriptSegment{
		{Start: 0, End: 1, Text: "one two"},
		{Start: 1.5, End: 3, Text: "three"},
		{Start: 3.5, End: 4, Text: "four"},
	}
	turns := []segments.DiarizationSegment{
		{Start: 0, End: 1.2, Speaker: "S0"},
		{Start: 1.2, End: 4.5, Speaker: "S1"},
	}

	first, err := Attribute(transcript, turns)
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	second, err := Attribute(transcript, turns)
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("attribution is not idempotent")
	}
}

func TestHostGuessTieKeepsFirstInserted(t *testing.T) {
	transcript := []segments.TranscriptSegment{
		{Start: 0, End: 1, Text: "alpha beta"},
		{Start: 2, End: 3, Text: "gamma delta"},
	}
	turns := []segments.DiarizationSegment{
		{Start: 0, End: 1.5, Speaker: "S0"},
		{Start: 1.5, End: 3.5, Speaker: "S1"},
	}

	result, err := Attribute(transcript, turns)
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	if result.HostGuess != "S0" {
		t.Errorf("host guess = %q, want first-inserted S0 on tie", result.HostGuess)
	}
}

func TestSpeakerMapJSONRoundTripPreservesOrder(t *testing.T) {
	m := NewSpeakerMap()
	m.Append("SPEAKER_01", "b")
	m.Append("SPEAKER_00", "a")
	m.Append("SPEAKER_01", "c")

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"SPEAKER_01":"b c","SPEAKER_00":"a"}`
	if string(data) != want {
		t.Fatalf("marshal = %s, want %s", data, want)
	}

	var restored SpeakerMap
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(restored.Speakers(), []string{"SPEAKER_01", "SPEAKER_00"}) {
		t.Fatalf("restored order = %v", restored.Speakers())
	}
}
