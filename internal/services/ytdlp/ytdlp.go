package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"tafrigh/internal/config"
	"tafrigh/internal/services"
	"tafrigh/internal/textutil"
)

// Episode describes an acquired episode.
type Episode struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Channel    string  `json:"channel"`
	Duration   float64 `json:"duration"`
	UploadDate string  `json:"upload_date"`
	WebpageURL string  `json:"webpage_url"`
	AudioPath  string  `json:"-"`
	// Skipped reports that the audio already existed and was reused.
	Skipped bool `json:"-"`
}

// Slug returns the filesystem-safe episode name derived from the title.
func (e Episode) Slug() string {
	return textutil.Slugify(e.Title)
}

// Service downloads episode audio via yt-dlp.
type Service struct {
	cfg           config.Acquisition
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewService creates an acquisition service with the given configuration.
func NewService(cfg config.Acquisition) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	s.commandRunner = runner
}

// Acquire probes the URL for metadata, then downloads and extracts the
// audio into outputDir unless a file for this episode already exists. The
// trimmed metadata is written beside the audio either way.
func (s *Service) Acquire(ctx context.Context, url, outputDir string) (Episode, error) {
	var episode Episode
	if strings.TrimSpace(url) == "" {
		return episode, services.Wrap(services.ErrValidation, "", "acquire", "url required", nil)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return episode, services.Wrap(services.ErrExternalTool, "", "acquire", "ensure audio dir", err)
	}

	episode, err := s.probe(ctx, url)
	if err != nil {
		return episode, err
	}

	slug := episode.Slug()
	episode.AudioPath = filepath.Join(outputDir, slug+"."+s.cfg.AudioFormat)

	if s.cfg.SkipExisting {
		if _, err := os.Stat(episode.AudioPath); err == nil {
			episode.Skipped = true
			return episode, nil
		}
	}

	args := []string{
		"-f", "bestaudio[ext=m4a]/bestaudio",
		"-x", "--audio-format", s.cfg.AudioFormat,
		"--output", filepath.Join(outputDir, slug+".%(ext)s"),
		"--no-playlist",
		url,
	}
	if _, err := s.run(ctx, s.cfg.YtdlpBinary, args...); err != nil {
		return episode, services.Wrap(services.ErrExternalTool, "", "acquire", "download audio", err)
	}

	metadataPath := filepath.Join(outputDir, slug+".metadata.json")
	if err := writeMetadata(metadataPath, episode); err != nil {
		return episode, services.Wrap(services.ErrPersistence, "", "acquire", "write metadata", err)
	}
	return episode, nil
}

func (s *Service) probe(ctx context.Context, url string) (Episode, error) {
	var episode Episode
	output, err := s.run(ctx, s.cfg.YtdlpBinary, "--skip-download", "--print-json", "--no-playlist", url)
	if err != nil {
		return episode, services.Wrap(services.ErrExternalTool, "", "acquire", "probe metadata", err)
	}
	if err := json.Unmarshal(output, &episode); err != nil {
		return episode, services.Wrap(services.ErrExternalTool, "", "acquire", "parse metadata", err)
	}
	if episode.ID == "" {
		return episode, services.Wrap(services.ErrExternalTool, "", "acquire", "metadata missing id", nil)
	}
	return episode, nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}

func writeMetadata(path string, episode Episode) error {
	data, err := json.MarshalIndent(episode, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
