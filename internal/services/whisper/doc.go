// Package whisper wraps the faster-whisper CLI (whisper-ctranslate2, run
// through uvx) for Arabic speech-to-text. The service shells out, reads the
// JSON the tool writes beside the audio, and exposes the segment timeline
// plus a flat text rendering.
package whisper
