// Package ner extracts named entities from Arabic transcript text.
//
// Two interchangeable backends implement the Extractor interface: an
// LLM-backed extractor and an external CAMeL Tools tagger whose BIO output
// is folded into entity spans. The backend is selected once at startup from
// configuration, never swapped at runtime.
package ner
