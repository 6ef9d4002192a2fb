package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"tafrigh/internal/config"
	"tafrigh/internal/language"
	"tafrigh/internal/segments"
	"tafrigh/internal/services"
)

// UVXCommand is the launcher used to run the transcription tool.
const UVXCommand = "uvx"

// Transcript is the output of the transcription stage.
type Transcript struct {
	Language string                       `json:"language"`
	Duration float64                      `json:"duration"`
	Segments []segments.TranscriptSegment `json:"segments"`
}

// FlatText renders the transcript as one timed line per segment.
func (t Transcript) FlatText() string {
	var b strings.Builder
	for _, seg := range t.Segments {
		fmt.Fprintf(&b, "[%.2f - %.2f] %s\n", seg.Start, seg.End, seg.Text)
	}
	return b.String()
}

// PlainText joins the segment texts with single spaces.
func (t Transcript) PlainText() string {
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Service runs whisper transcription over audio files.
type Service struct {
	cfg           config.Transcription
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a transcription service with the given configuration.
func NewService(cfg config.Transcription) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Transcribe runs the transcription tool over the audio file, writing its
// raw output into outputDir, and returns the parsed transcript.
func (s *Service) Transcribe(ctx context.Context, audioPath, outputDir string) (Transcript, error) {
	var transcript Transcript
	if audioPath == "" {
		return transcript, services.Wrap(services.ErrValidation, "", "transcribe", "audio path required", nil)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return transcript, services.Wrap(services.ErrExternalTool, "", "transcribe", "ensure output dir", err)
	}

	args := s.buildArgs(audioPath, outputDir)
	if err := s.run(ctx, UVXCommand, args...); err != nil {
		return transcript, services.Wrap(services.ErrExternalTool, "", "transcribe", "run whisper", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	transcript, err := LoadTranscript(jsonPath)
	if err != nil {
		return transcript, services.Wrap(services.ErrExternalTool, "", "transcribe", "load whisper output", err)
	}
	return transcript, nil
}

func (s *Service) buildArgs(audioPath, outputDir string) []string {
	args := []string{
		"whisper-ctranslate2",
		audioPath,
		"--model", s.cfg.Model,
		"--output_dir", outputDir,
		"--output_format", "json",
	}
	if lang := language.ToISO2(s.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	if s.cfg.Device != "" && s.cfg.Device != "auto" {
		args = append(args, "--device", s.cfg.Device)
	}
	if s.cfg.ComputeType != "" && s.cfg.ComputeType != "default" {
		args = append(args, "--compute_type", s.cfg.ComputeType)
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// LoadTranscript parses the JSON file written by the transcription tool.
// Segment texts are trimmed.
func LoadTranscript(jsonPath string) (Transcript, error) {
	var transcript Transcript
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return transcript, err
	}
	if err := json.Unmarshal(data, &transcript); err != nil {
		return transcript, fmt.Errorf("parse whisper json: %w", err)
	}
	for i := range transcript.Segments {
		transcript.Segments[i].Text = strings.TrimSpace(transcript.Segments[i].Text)
	}
	return transcript, nil
}
