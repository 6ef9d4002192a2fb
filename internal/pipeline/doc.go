// Package pipeline orchestrates the end-to-end episode run: acquisition,
// transcription, diarization, speaker attribution, entity extraction,
// summarization, and report composition. Each stage persists its artifact
// before the next stage starts, records progress in the run ledger, and a
// failure stops the run so no later artifacts are produced.
package pipeline
