// Package segments defines the timed interval types shared by the
// transcription and diarization stages, and the overlap rule used to align
// transcript segments with speaker turns.
package segments
