package ner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"tafrigh/internal/config"
	"tafrigh/internal/services/llm"
)

func TestFoldBIO(t *testing.T) {
	tests := []struct {
		name   string
		tokens []TaggedWord
		want   []Entity
	}{
		{
			name: "single entity",
			tokens: []TaggedWord{
				{"محمد", "B-PERS"},
				{"قال", "O"},
			},
			want: []Entity{{Value: "محمد", Type: "PERS"}},
		},
		{
			name: "multiword entity",
			tokens: []TaggedWord{
				{"جامعة", "B-ORG"},
				{"القاهرة", "I-ORG"},
				{"في", "O"},
				{"مصر", "B-LOC"},
			},
			want: []Entity{
				{Value: "جامعة القاهرة", Type: "ORG"},
				{Value: "مصر", Type: "LOC"},
			},
		},
		{
			name: "adjacent entities",
			tokens: []TaggedWord{
				{"محمد", "B-PERS"},
				{"علي", "B-PERS"},
			},
			want: []Entity{
				{Value: "محمد", Type: "PERS"},
				{Value: "علي", Type: "PERS"},
			},
		},
		{
			name: "dangling I tag ignored",
			tokens: []TaggedWord{
				{"في", "O"},
				{"القاهرة", "I-LOC"},
			},
			want: nil,
		},
		{
			name: "trailing entity flushed",
			tokens: []TaggedWord{
				{"قال", "O"},
				{"بيروت", "B-LOC"},
			},
			want: []Entity{{Value: "بيروت", Type: "LOC"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FoldBIO(tt.tokens)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FoldBIO = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTaggedLines(t *testing.T) {
	output := "محمد\tB-PERS\n\nقال O\nbadline\n"
	got := parseTaggedLines(output)
	want := []TaggedWord{{"محمد", "B-PERS"}, {"قال", "O"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseTaggedLines = %v, want %v", got, want)
	}
}

func TestCamelExtractor(t *testing.T) {
	extractor := newCamelExtractor("camel_arclean")
	extractor.WithRunner(func(ctx context.Context, command, text string) ([]byte, error) {
		if command != "camel_arclean" {
			t.Errorf("command = %q", command)
		}
		return []byte("جامعة\tB-ORG\nالقاهرة\tI-ORG\n"), nil
	})

	entities, err := extractor.Extract(context.Background(), "نص")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []Entity{{Value: "جامعة القاهرة", Type: "ORG"}}
	if !reflect.DeepEqual(entities, want) {
		t.Fatalf("entities = %v, want %v", entities, want)
	}
}

func TestCamelExtractorEmptyText(t *testing.T) {
	extractor := newCamelExtractor("camel_arclean")
	extractor.WithRunner(func(ctx context.Context, command, text string) ([]byte, error) {
		t.Fatal("runner should not be called for empty text")
		return nil, nil
	})
	entities, err := extractor.Extract(context.Background(), "   ")
	if err != nil || entities != nil {
		t.Fatalf("Extract = %v, %v", entities, err)
	}
}

func TestLLMExtractor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"entities\":[{\"value\":\"بيروت\",\"type\":\"loc\"},{\"value\":\"\",\"type\":\"ORG\"}]}"}}]}`))
	}))
	defer server.Close()

	client := llm.NewClient(llm.Config{APIKey: "k", BaseURL: server.URL, Model: "m"})
	extractor, err := NewExtractor(config.Entities{Backend: "llm"}, client)
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}

	entities, err := extractor.Extract(context.Background(), "نص")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []Entity{{Value: "بيروت", Type: "LOC"}}
	if !reflect.DeepEqual(entities, want) {
		t.Fatalf("entities = %v, want %v", entities, want)
	}
}

func TestNewExtractorRejectsUnknownBackend(t *testing.T) {
	if _, err := NewExtractor(config.Entities{Backend: "regex"}, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := NewExtractor(config.Entities{Backend: "llm"}, nil); err == nil {
		t.Fatal("expected error for llm backend without client")
	}
}
