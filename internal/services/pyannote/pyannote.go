package pyannote

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"tafrigh/internal/config"
	"tafrigh/internal/segments"
	"tafrigh/internal/services"
)

// Service runs speaker diarization over audio files.
type Service struct {
	cfg           config.Diarization
	commandRunner func(ctx context.Context, env []string, name string, args ...string) ([]byte, error)
}

// NewService creates a diarization service with the given configuration.
func NewService(cfg config.Diarization) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, env []string, name string, args ...string) ([]byte, error)) {
	s.commandRunner = runner
}

// Model returns the configured diarization model for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Diarize runs the diarization command over the audio file and returns the
// speaker turns in command output order.
func (s *Service) Diarize(ctx context.Context, audioPath string) ([]segments.DiarizationSegment, error) {
	if audioPath == "" {
		return nil, services.Wrap(services.ErrValidation, "", "diarize", "audio path required", nil)
	}
	if s.cfg.HFToken == "" {
		return nil, services.Wrap(services.ErrConfiguration, "", "diarize", "huggingface token required", nil)
	}

	env := append(os.Environ(), "HUGGINGFACE_TOKEN="+s.cfg.HFToken)
	args := []string{"--model", s.cfg.Model, audioPath}

	output, err := s.run(ctx, env, s.cfg.Command, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "", "diarize", s.cfg.Command, err)
	}

	var turns []segments.DiarizationSegment
	if err := json.Unmarshal(output, &turns); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "", "diarize", "parse diarization output", err)
	}
	return turns, nil
}

func (s *Service) run(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, env, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}

// RenderRTTM renders speaker turns in RTTM format, one SPEAKER line per
// turn, keyed by the recording base name.
func RenderRTTM(baseName string, turns []segments.DiarizationSegment) string {
	var b strings.Builder
	for _, turn := range turns {
		fmt.Fprintf(&b, "SPEAKER %s 1 %.3f %.3f <NA> <NA> %s <NA> <NA>\n",
			baseName, turn.Start, turn.End-turn.Start, turn.Speaker)
	}
	return b.String()
}
