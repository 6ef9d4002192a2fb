package services

import (
	"context"
	"testing"
)

func TestContextCarriers(t *testing.T) {
	ctx := context.Background()

	if _, ok := EpisodeIDFromContext(ctx); ok {
		t.Fatal("empty context should not carry an episode id")
	}

	ctx = WithEpisodeID(ctx, "abc123")
	ctx = WithStage(ctx, "Diarizing")
	ctx = WithRequestID(ctx, "req-1")

	if id, ok := EpisodeIDFromContext(ctx); !ok || id != "abc123" {
		t.Fatalf("episode id = %q, %v", id, ok)
	}
	if stage, ok := StageFromContext(ctx); !ok || stage != "Diarizing" {
		t.Fatalf("stage = %q, %v", stage, ok)
	}
	if rid, ok := RequestIDFromContext(ctx); !ok || rid != "req-1" {
		t.Fatalf("request id = %q, %v", rid, ok)
	}
}

func TestContextEmptyValuesIgnored(t *testing.T) {
	ctx := WithEpisodeID(context.Background(), "")
	if _, ok := EpisodeIDFromContext(ctx); ok {
		t.Fatal("empty episode id should not be stored")
	}
}
