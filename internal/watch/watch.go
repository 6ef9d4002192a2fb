// Package watch monitors the inbox directory for episode submissions. A
// submission is a .url file containing one source URL per line; each URL is
// dispatched to the configured handler with bounded concurrency, and the
// file is renamed with a .done suffix once every URL has been handled.
package watch

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tafrigh/internal/logging"
)

const urlFileExt = ".url"

// settleDelay gives the writer time to finish before the file is read.
const settleDelay = 500 * time.Millisecond

// Handler processes one submitted source URL.
type Handler func(ctx context.Context, sourceURL string) error

// Watcher dispatches inbox submissions to a Handler.
type Watcher struct {
	inboxDir  string
	handler   Handler
	logger    *slog.Logger
	watcher   *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// New creates a Watcher over the given inbox directory.
func New(inboxDir string, handler Handler, logger *slog.Logger, maxConcurrent int) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watch: handler must not be nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(inboxDir, 0o755); err != nil {
		return nil, fmt.Errorf("create inbox directory: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsWatcher.Add(inboxDir); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &Watcher{
		inboxDir:  inboxDir,
		handler:   handler,
		logger:    logger,
		watcher:   fsWatcher,
		semaphore: make(chan struct{}, maxConcurrent),
	}, nil
}

// Start processes existing submissions, then blocks dispatching new ones
// until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("inbox watcher started",
		logging.String("inbox", w.inboxDir),
		logging.Int("max_concurrent", cap(w.semaphore)),
	)

	if err := w.processExisting(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("waiting for in-flight submissions")
			w.wg.Wait()
			w.logger.Info("inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isURLFile(event.Name) {
				continue
			}
			w.logger.Info("submission detected", logging.String("file", event.Name))
			time.Sleep(settleDelay)
			if err := w.dispatchFile(ctx, event.Name); err != nil {
				if ctx.Err() != nil {
					w.wg.Wait()
					return ctx.Err()
				}
				w.logger.Error("submission dispatch failed",
					logging.String("file", event.Name),
					logging.Error(err),
				)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", logging.Error(err))
		}
	}
}

// Close stops filesystem monitoring.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) processExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		return fmt.Errorf("scan inbox: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !isURLFile(entry.Name()) {
			continue
		}
		path := filepath.Join(w.inboxDir, entry.Name())
		if err := w.dispatchFile(ctx, path); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Error("submission dispatch failed",
				logging.String("file", path),
				logging.Error(err),
			)
		}
	}
	return nil
}

func (w *Watcher) dispatchFile(ctx context.Context, path string) error {
	urls, err := readURLFile(path)
	if err != nil {
		return err
	}
	for _, sourceURL := range urls {
		select {
		case w.semaphore <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		w.wg.Add(1)
		go func(sourceURL string) {
			defer w.wg.Done()
			defer func() { <-w.semaphore }()
			if err := w.handler(ctx, sourceURL); err != nil {
				w.logger.Error("submission failed",
					logging.String("source_url", sourceURL),
					logging.Error(err),
				)
			}
		}(sourceURL)
	}
	if err := os.Rename(path, path+".done"); err != nil {
		return fmt.Errorf("mark submission done: %w", err)
	}
	return nil
}

// Wait blocks until all in-flight submissions finish.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func readURLFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open submission: %w", err)
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
		return nil, fmt.Errorf("read submission: %w", err)
	}
	return urls, nil
}

func isURLFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), urlFileExt)
}
