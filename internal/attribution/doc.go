// Package attribution fuses a transcript timeline with a diarization
// timeline into per-speaker text blocks and guesses the host speaker.
//
// Attribution is per-utterance: each transcript segment is assigned to the
// first diarization turn it overlaps, and segments overlapping no turn are
// dropped. Speaker blocks preserve first-insertion order so the host guess
// tie-break is deterministic.
package attribution
