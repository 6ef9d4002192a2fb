// Package pyannote wraps an external pyannote-audio diarization command.
// The command receives the audio path and model name, authenticates against
// HuggingFace with the configured token, and prints the speaker turns as a
// JSON array on stdout.
package pyannote
