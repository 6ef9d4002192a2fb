package ner

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"tafrigh/internal/services"
)

// camelExtractor shells out to a CAMeL Tools tagger. The command reads text
// on stdin and emits one "word<TAB>tag" line per token using BIO tags.
type camelExtractor struct {
	command string
	runner  func(ctx context.Context, command, text string) ([]byte, error)
}

func newCamelExtractor(command string) *camelExtractor {
	return &camelExtractor{command: command, runner: runCamelCommand}
}

// WithRunner sets a custom command runner (for testing).
func (e *camelExtractor) WithRunner(runner func(ctx context.Context, command, text string) ([]byte, error)) {
	e.runner = runner
}

func (e *camelExtractor) Name() string { return "camel" }

func (e *camelExtractor) Extract(ctx context.Context, text string) ([]Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	output, err := e.runner(ctx, e.command, text)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "", "extract entities", e.command, err)
	}
	return FoldBIO(parseTaggedLines(string(output))), nil
}

func runCamelCommand(ctx context.Context, command, text string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, command)
	cmd.Stdin = strings.NewReader(text)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", command, err, strings.TrimSpace(string(output)))
	}
	return output, nil
}

// TaggedWord is one token with its BIO tag.
type TaggedWord struct {
	Word string
	Tag  string
}

func parseTaggedLines(output string) []TaggedWord {
	var tagged []TaggedWord
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		tagged = append(tagged, TaggedWord{Word: fields[0], Tag: fields[len(fields)-1]})
	}
	return tagged
}

// FoldBIO collapses a BIO-tagged token sequence into entity spans. A B- tag
// opens a span, following I- tags of any type extend it, and O closes it.
func FoldBIO(tokens []TaggedWord) []Entity {
	var entities []Entity
	var current strings.Builder
	currentType := ""

	flush := func() {
		if value := strings.TrimSpace(current.String()); value != "" {
			entities = append(entities, Entity{Value: value, Type: currentType})
		}
		current.Reset()
		currentType = ""
	}

	for _, token := range tokens {
		switch {
		case strings.HasPrefix(token.Tag, "B-"):
			flush()
			current.WriteString(token.Word)
			currentType = token.Tag[2:]
		case strings.HasPrefix(token.Tag, "I-") && currentType != "":
			current.WriteString(" ")
			current.WriteString(token.Word)
		default:
			flush()
		}
	}
	flush()
	return entities
}
