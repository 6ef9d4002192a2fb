package ner

import (
	"context"
	"fmt"

	"tafrigh/internal/config"
	"tafrigh/internal/services"
	"tafrigh/internal/services/llm"
)

// Entity is a single extracted named entity.
type Entity struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Extractor extracts named entities from text.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]Entity, error)
	Name() string
}

// NewExtractor selects an extraction backend from configuration.
func NewExtractor(cfg config.Entities, client *llm.Client) (Extractor, error) {
	switch cfg.Backend {
	case "llm":
		if client == nil {
			return nil, services.Wrap(services.ErrConfiguration, "", "entity extractor", "llm backend requires a client", nil)
		}
		return &llmExtractor{client: client}, nil
	case "camel":
		return newCamelExtractor(cfg.CamelCommand), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "", "entity extractor", fmt.Sprintf("unknown backend %q", cfg.Backend), nil)
	}
}
