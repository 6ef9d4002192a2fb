package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tafrigh/internal/artifacts"
	"tafrigh/internal/fileutil"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var destDir string
	var all bool

	cmd := &cobra.Command{
		Use:   "export <episodeID>",
		Short: "Copy an episode's report (or all artifacts) out of the artifact store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			episodeID := args[0]
			store := artifacts.NewStore(cfg.Paths.ArtifactsDir)

			dest, err := resolveOutputDir(destDir)
			if err != nil {
				return err
			}

			names := []string{artifacts.FileReport}
			if all {
				names = []string{
					artifacts.FileMetadata,
					artifacts.FileTranscript,
					artifacts.FileTranscriptText,
					artifacts.FileDiarization,
					artifacts.FileDiarizationRTTM,
					artifacts.FileAttribution,
					artifacts.FileEntities,
					artifacts.FileSummary,
					artifacts.FileReport,
				}
			}

			out := cmd.OutOrStdout()
			var copied int
			for _, name := range names {
				src := store.Path(episodeID, name)
				if _, err := os.Stat(src); err != nil {
					if all && os.IsNotExist(err) {
						continue
					}
					return fmt.Errorf("artifact %s: %w", name, err)
				}
				target := filepath.Join(dest, name)
				if err := fileutil.CopyFileVerified(src, target); err != nil {
					return fmt.Errorf("export %s: %w", name, err)
				}
				fmt.Fprintf(out, "Exported %s\n", target)
				copied++
			}
			if copied == 0 {
				return fmt.Errorf("no artifacts found for episode %s", episodeID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&destDir, "output", "o", ".", "Destination directory")
	cmd.Flags().BoolVar(&all, "all", false, "Export every artifact, not just the report")
	return cmd
}
