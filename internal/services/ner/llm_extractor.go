package ner

import (
	"context"
	"strings"

	"tafrigh/internal/services"
	"tafrigh/internal/services/llm"
)

const extractionPrompt = `You are a named entity recognizer for Arabic text.
Extract every person, location, and organization mentioned in the user's text.
Respond with JSON only, in the form:
{"entities":[{"value":"<entity text>","type":"<PERS|LOC|ORG|MISC>"}]}
Keep entity values exactly as written in the source text. Do not translate.`

type llmExtractor struct {
	client *llm.Client
}

func (e *llmExtractor) Name() string { return "llm" }

func (e *llmExtractor) Extract(ctx context.Context, text string) ([]Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	content, err := e.client.CompleteJSON(ctx, extractionPrompt, text)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "", "extract entities", "llm request failed", err)
	}
	var payload struct {
		Entities []Entity `json:"entities"`
	}
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "", "extract entities", "parse llm payload", err)
	}
	entities := payload.Entities[:0]
	for _, entity := range payload.Entities {
		entity.Value = strings.TrimSpace(entity.Value)
		entity.Type = strings.ToUpper(strings.TrimSpace(entity.Type))
		if entity.Value == "" || entity.Type == "" {
			continue
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
