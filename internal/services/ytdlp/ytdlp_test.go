package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"tafrigh/internal/config"
	"tafrigh/internal/services"
)

const probeJSON = `{"id":"abc123","title":"حلقة عن التقنية","channel":"قناة","duration":1800,"upload_date":"20260815","webpage_url":"https://example.com/watch?v=abc123"}`

func newService() *Service {
	return NewService(config.Acquisition{
		YtdlpBinary:  "yt-dlp",
		AudioFormat:  "wav",
		SkipExisting: true,
	})
}

func TestAcquireDownloadsAndWritesMetadata(t *testing.T) {
	outputDir := t.TempDir()
	svc := newService()

	var downloads int
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if slices.Contains(args, "--skip-download") {
			return []byte(probeJSON), nil
		}
		downloads++
		if !slices.Contains(args, "--no-playlist") || !slices.Contains(args, "wav") {
			t.Errorf("download args = %v", args)
		}
		return nil, nil
	})

	episode, err := svc.Acquire(context.Background(), "https://example.com/watch?v=abc123", outputDir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if episode.Skipped {
		t.Fatal("fresh episode should not be skipped")
	}
	if episode.ID != "abc123" || episode.Channel != "قناة" {
		t.Fatalf("episode = %+v", episode)
	}
	if downloads != 1 {
		t.Fatalf("downloads = %d, want 1", downloads)
	}

	slug := episode.Slug()
	if strings.ContainsAny(slug, " -") {
		t.Errorf("slug not normalized: %q", slug)
	}
	metadataPath := filepath.Join(outputDir, slug+".metadata.json")
	data, err := os.ReadFile(metadataPath)
	if err != nil {
		t.Fatalf("metadata missing: %v", err)
	}
	for _, key := range []string{`"id"`, `"title"`, `"channel"`, `"duration"`, `"upload_date"`, `"webpage_url"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("metadata missing %s", key)
		}
	}
}

func TestAcquireSkipsExistingAudio(t *testing.T) {
	outputDir := t.TempDir()
	svc := newService()

	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if slices.Contains(args, "--skip-download") {
			return []byte(probeJSON), nil
		}
		t.Fatal("download should not run when audio exists")
		return nil, nil
	})

	// Pre-create the audio file at the slug-derived path.
	probeEpisode, err := svc.probe(context.Background(), "u")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	audioPath := filepath.Join(outputDir, probeEpisode.Slug()+".wav")
	if err := os.WriteFile(audioPath, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	episode, err := svc.Acquire(context.Background(), "https://example.com/watch?v=abc123", outputDir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !episode.Skipped {
		t.Fatal("expected skip outcome")
	}
	if episode.AudioPath != audioPath {
		t.Fatalf("audio path = %q, want %q", episode.AudioPath, audioPath)
	}

	// The existing audio must be untouched.
	data, err := os.ReadFile(audioPath)
	if err != nil || string(data) != "audio" {
		t.Fatalf("audio file modified: %q, %v", data, err)
	}
}

func TestAcquireProbeFailure(t *testing.T) {
	svc := newService()
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	})
	_, err := svc.Acquire(context.Background(), "https://example.com/x", t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestAcquireRejectsEmptyURL(t *testing.T) {
	svc := newService()
	_, err := svc.Acquire(context.Background(), "  ", t.TempDir())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
