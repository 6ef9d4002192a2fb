package attribution

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SpeakerMap accumulates text per speaker label while preserving the order
// in which speakers were first seen. JSON marshaling emits keys in that
// insertion order.
type SpeakerMap struct {
	order  []string
	blocks map[string]string
}

// NewSpeakerMap returns an empty speaker map.
func NewSpeakerMap() *SpeakerMap {
	return &SpeakerMap{blocks: make(map[string]string)}
}

// Append adds text to the speaker's block, separating accumulated chunks
// with a single space. Empty text still registers the speaker.
func (m *SpeakerMap) Append(speaker, text string) {
	existing, ok := m.blocks[speaker]
	if !ok {
		m.order = append(m.order, speaker)
		m.blocks[speaker] = text
		return
	}
	if text == "" {
		return
	}
	if existing == "" {
		m.blocks[speaker] = text
		return
	}
	m.blocks[speaker] = existing + " " + text
}

// Get returns the accumulated block for a speaker.
func (m *SpeakerMap) Get(speaker string) (string, bool) {
	text, ok := m.blocks[speaker]
	return text, ok
}

// Speakers returns the speaker labels in first-insertion order.
func (m *SpeakerMap) Speakers() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of distinct speakers.
func (m *SpeakerMap) Len() int {
	return len(m.order)
}

// MarshalJSON emits a JSON object with keys in insertion order.
func (m *SpeakerMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, speaker := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(speaker)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.blocks[speaker])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a speaker map, preserving the key order of the
// source document.
func (m *SpeakerMap) UnmarshalJSON(data []byte) error {
	m.order = nil
	m.blocks = make(map[string]string)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("speaker map: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("speaker map: expected string key, got %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("speaker map: value for %q: %w", key, err)
		}
		m.Append(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
