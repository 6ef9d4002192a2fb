package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tafrigh/internal/queue"
	"tafrigh/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the inbox directory for .url submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return ctx.withStore(func(store *queue.Store) error {
				runner, err := ctx.newRunner(store)
				if err != nil {
					return err
				}
				handler := func(handlerCtx context.Context, sourceURL string) error {
					result, err := runner.Run(handlerCtx, sourceURL)
					if err != nil {
						return err
					}
					return result.Err
				}

				watcher, err := watch.New(cfg.Paths.InboxDir, handler, logger, cfg.Workflow.MaxConcurrent)
				if err != nil {
					return err
				}
				defer watcher.Close()

				if err := watcher.Start(runCtx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		},
	}
}
