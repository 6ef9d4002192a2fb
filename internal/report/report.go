// Package report renders the composite episode report and its sections.
// The layout and Arabic section labels are fixed; Compose must reproduce
// them byte-for-byte for identical inputs.
package report

import (
	"strings"

	"tafrigh/internal/attribution"
	"tafrigh/internal/services/ner"
)

const (
	labelTitle    = "العنوان: "
	labelFullText = "النص الكامل:"
	labelSpeakers = "النص حسب المتحدث:"
	labelEntities = "الكيانات المستخرجة:"
	labelSummary  = "الملخص:"
)

// Compose assembles the final episode report from the stage artifacts.
func Compose(title, transcript string, speakers *attribution.SpeakerMap, entities []ner.Entity, summary string) string {
	var b strings.Builder

	b.WriteString(labelTitle)
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(labelFullText)
	b.WriteString("\n")
	b.WriteString(transcript)
	b.WriteString("\n\n")

	b.WriteString(labelSpeakers)
	b.WriteString("\n")
	b.WriteString(RenderSpeakers(speakers))
	b.WriteString("\n\n")

	b.WriteString(labelEntities)
	b.WriteString("\n")
	b.WriteString(RenderEntities(entities))

	b.WriteString("\n")
	b.WriteString(labelSummary)
	b.WriteString("\n")
	b.WriteString(summary)

	return b.String()
}

// RenderSpeakers renders per-speaker blocks in insertion order, separated by
// blank lines.
func RenderSpeakers(speakers *attribution.SpeakerMap) string {
	if speakers == nil {
		return ""
	}
	blocks := make([]string, 0, speakers.Len())
	for _, speaker := range speakers.Speakers() {
		text, _ := speakers.Get(speaker)
		blocks = append(blocks, speaker+":\n"+text)
	}
	return strings.Join(blocks, "\n\n")
}

// RenderEntities renders one "type : value" line per entity, each newline
// terminated.
func RenderEntities(entities []ner.Entity) string {
	var b strings.Builder
	for _, entity := range entities {
		b.WriteString(entity.Type)
		b.WriteString(" : ")
		b.WriteString(entity.Value)
		b.WriteString("\n")
	}
	return b.String()
}
