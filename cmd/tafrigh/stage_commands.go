package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tafrigh/internal/attribution"
	"tafrigh/internal/config"
	"tafrigh/internal/language"
	"tafrigh/internal/report"
	"tafrigh/internal/segments"
	"tafrigh/internal/services/llm"
	"tafrigh/internal/services/ner"
	"tafrigh/internal/services/pyannote"
	"tafrigh/internal/services/summarize"
	"tafrigh/internal/services/whisper"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "transcribe <audio>",
		Short: "Transcribe an audio file with whisper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := resolveOutputDir(outputDir)
			if err != nil {
				return err
			}

			svc := whisper.NewService(cfg.Transcription)
			transcript, err := svc.Transcribe(cmd.Context(), args[0], dir)
			if err != nil {
				return err
			}

			if err := writeJSONFile(filepath.Join(dir, "transcript.json"), transcript); err != nil {
				return err
			}
			if err := writeTextFile(filepath.Join(dir, "transcript.txt"), transcript.FlatText()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Language: %s\n", language.Display(transcript.Language))
			fmt.Fprintf(out, "Segments: %d\n", len(transcript.Segments))
			fmt.Fprintf(out, "Wrote %s\n", filepath.Join(dir, "transcript.json"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory for transcript files")
	return cmd
}

func newDiarizeCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "diarize <audio>",
		Short: "Diarize an audio file with pyannote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := resolveOutputDir(outputDir)
			if err != nil {
				return err
			}

			svc := pyannote.NewService(cfg.Diarization)
			turns, err := svc.Diarize(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err := writeJSONFile(filepath.Join(dir, "diarization.json"), turns); err != nil {
				return err
			}
			base := filepath.Base(args[0])
			base = base[:len(base)-len(filepath.Ext(base))]
			if err := writeTextFile(filepath.Join(dir, "diarization.rttm"), pyannote.RenderRTTM(base, turns)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Speaker turns: %d\nWrote %s\n",
				len(turns), filepath.Join(dir, "diarization.json"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory for diarization files")
	return cmd
}

func newAttributeCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "attribute <transcript.json> <diarization.json>",
		Short: "Assign transcript segments to diarized speakers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveOutputDir(outputDir)
			if err != nil {
				return err
			}

			var transcript whisper.Transcript
			if err := readJSONFile(args[0], &transcript); err != nil {
				return err
			}
			var turns []segments.DiarizationSegment
			if err := readJSONFile(args[1], &turns); err != nil {
				return err
			}

			result, err := attribution.Attribute(transcript.Segments, turns)
			if err != nil {
				return err
			}

			if err := writeJSONFile(filepath.Join(dir, "attribution.json"), result); err != nil {
				return err
			}
			if err := writeTextFile(filepath.Join(dir, "speakers.txt"), report.RenderSpeakers(result.Speakers)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Speakers: %d\n", result.Speakers.Len())
			if result.HostGuess != "" {
				fmt.Fprintf(out, "Host guess: %s\n", result.HostGuess)
			}
			if result.Dropped > 0 {
				fmt.Fprintf(out, "Dropped segments: %d\n", result.Dropped)
			}
			fmt.Fprintf(out, "Wrote %s\n", filepath.Join(dir, "attribution.json"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory for the attribution file")
	return cmd
}

func newEntitiesCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "entities <text-file>",
		Short: "Extract named entities from a transcript text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := resolveOutputDir(outputDir)
			if err != nil {
				return err
			}

			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read text file: %w", err)
			}

			extractor, err := ner.NewExtractor(cfg.Entities, newLLMClient(cfg))
			if err != nil {
				return err
			}
			entities, err := extractor.Extract(cmd.Context(), string(text))
			if err != nil {
				return err
			}
			if entities == nil {
				entities = []ner.Entity{}
			}

			if err := writeJSONFile(filepath.Join(dir, "entities.json"), entities); err != nil {
				return err
			}
			if err := writeTextFile(filepath.Join(dir, "entities.txt"), report.RenderEntities(entities)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend: %s\nEntities: %d\n", extractor.Name(), len(entities))
			fmt.Fprint(out, report.RenderEntities(entities))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory for the entities file")
	return cmd
}

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "summarize <text-file>",
		Short: "Summarize a transcript text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := resolveOutputDir(outputDir)
			if err != nil {
				return err
			}

			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read text file: %w", err)
			}

			svc := summarize.NewService(newLLMClient(cfg), cfg.Summarizer.ChunkChars)
			summary, err := svc.Summarize(cmd.Context(), string(text))
			if err != nil {
				return err
			}

			if err := writeTextFile(filepath.Join(dir, "summary.txt"), summary); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, summary)
			fmt.Fprintf(out, "Wrote %s\n", filepath.Join(dir, "summary.txt"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory for the summary file")
	return cmd
}

func newLLMClient(cfg *config.Config) *llm.Client {
	return llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		MaxRetries:     cfg.LLM.MaxRetries,
	})
}

func resolveOutputDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	absolute, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	if err := os.MkdirAll(absolute, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return absolute, nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeTextFile(path, contents string) error {
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
