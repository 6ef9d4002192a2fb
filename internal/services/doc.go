// Package services holds the shared plumbing for external collaborator
// clients: the error taxonomy stages report failures through, and the
// context keys that carry episode/stage identity into logs.
//
// Concrete clients live in subpackages (ytdlp, whisper, pyannote, ner,
// summarize, llm). Each wraps one external tool or API behind a narrow
// interface so the pipeline can be exercised with fakes in tests.
package services
