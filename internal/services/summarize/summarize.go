// Package summarize produces the Arabic bullet-point summary of a
// transcript. Long transcripts are split into fixed-size rune chunks, each
// chunk is summarized independently, and the per-chunk summaries become one
// bullet list under a fixed header.
package summarize

import (
	"context"
	"strings"

	"tafrigh/internal/services"
	"tafrigh/internal/services/llm"
)

const summaryHeader = "🔹 أهم النقاط:"

const summaryPrompt = `You summarize Arabic podcast transcript excerpts.
Respond with a single concise Arabic sentence capturing the excerpt's main
point. Respond with the sentence only, no preamble and no bullet marker.`

// Completer is the LLM capability the summarizer needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

var _ Completer = (*llm.Client)(nil)

// Service turns transcript text into a bullet-point summary.
type Service struct {
	completer  Completer
	chunkChars int
}

// NewService constructs a summarizer. chunkChars bounds the rune length of
// each excerpt sent to the model.
func NewService(completer Completer, chunkChars int) *Service {
	if chunkChars <= 0 {
		chunkChars = 1000
	}
	return &Service{completer: completer, chunkChars: chunkChars}
}

// Summarize produces the formatted summary for the transcript text.
func (s *Service) Summarize(ctx context.Context, text string) (string, error) {
	chunks := ChunkText(text, s.chunkChars)
	lines := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		line, err := s.completer.Complete(ctx, summaryPrompt, chunk)
		if err != nil {
			return "", services.Wrap(services.ErrExternalTool, "", "summarize chunk", "llm request failed", err)
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return Format(lines), nil
}

// ChunkText splits text into consecutive rune chunks of at most size runes.
// Empty or whitespace-only text yields no chunks.
func ChunkText(text string, size int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Format renders summary lines as the fixed bullet list.
func Format(lines []string) string {
	bullets := make([]string, 0, len(lines))
	for _, line := range lines {
		bullets = append(bullets, "• "+strings.TrimSpace(line))
	}
	return summaryHeader + "\n" + strings.Join(bullets, "\n")
}
