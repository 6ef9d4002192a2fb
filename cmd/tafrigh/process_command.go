package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tafrigh/internal/queue"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "process [url...]",
		Short: "Run the full pipeline for one or more episode URLs",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := append([]string(nil), args...)
			if fromFile != "" {
				fileURLs, err := readURLsFromFile(fromFile)
				if err != nil {
					return err
				}
				urls = append(urls, fileURLs...)
			}
			if len(urls) == 0 {
				return errors.New("no URLs given; pass them as arguments or with --from-file")
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return ctx.withStore(func(store *queue.Store) error {
				runner, err := ctx.newRunner(store)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				var failures int
				for _, sourceURL := range urls {
					if runCtx.Err() != nil {
						return runCtx.Err()
					}
					result, err := runner.Run(runCtx, sourceURL)
					if err != nil {
						return err
					}
					if result.Err != nil {
						failures++
						fmt.Fprintf(out, "FAILED  %s (%s: %v)\n", sourceURL, result.FailedStage, result.Err)
						continue
					}
					fmt.Fprintf(out, "OK      %s -> %s\n", sourceURL, result.ReportPath)
				}
				if failures > 0 {
					return fmt.Errorf("%d of %d runs failed", failures, len(urls))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "Read episode URLs from a file, one per line")
	return cmd
}

func readURLsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url file: %w", err)
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url file: %w", err)
	}
	return urls, nil
}
