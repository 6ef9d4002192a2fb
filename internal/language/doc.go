// Package language normalizes language identifiers between the forms used by
// transcription tooling (ISO 639-1/639-2 codes, full names) and the forms
// shown to users.
package language
