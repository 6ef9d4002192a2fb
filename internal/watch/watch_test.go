package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"
)

func collectHandler() (Handler, func() []string) {
	var mu sync.Mutex
	var urls []string
	handler := func(ctx context.Context, sourceURL string) error {
		mu.Lock()
		urls = append(urls, sourceURL)
		mu.Unlock()
		return nil
	}
	return handler, func() []string {
		mu.Lock()
		defer mu.Unlock()
		out := append([]string(nil), urls...)
		sort.Strings(out)
		return out
	}
}

func TestProcessExistingSubmissions(t *testing.T) {
	inbox := t.TempDir()
	content := "https://example.com/a\n\n# comment\nhttps://example.com/b\n"
	if err := os.WriteFile(filepath.Join(inbox, "batch.url"), []byte(content), 0o644); err != nil {
		t.Fatalf("write submission: %v", err)
	}

	handler, collected := collectHandler()
	watcher, err := New(inbox, handler, nil, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer watcher.Close()

	if err := watcher.processExisting(context.Background()); err != nil {
		t.Fatalf("processExisting: %v", err)
	}
	watcher.Wait()

	got := collected()
	want := []string{"https://example.com/a", "https://example.com/b"}
	if len(got) != len(want) {
		t.Fatalf("handled %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("handled %v, want %v", got, want)
		}
	}

	if _, err := os.Stat(filepath.Join(inbox, "batch.url.done")); err != nil {
		t.Fatalf("submission not marked done: %v", err)
	}
	if _, err := os.Stat(filepath.Join(inbox, "batch.url")); !os.IsNotExist(err) {
		t.Fatal("original submission file should be renamed")
	}
}

func TestStartDispatchesNewSubmission(t *testing.T) {
	inbox := t.TempDir()
	handler, collected := collectHandler()
	watcher, err := New(inbox, handler, nil, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Start(ctx) }()

	// Give the watcher a moment to begin receiving events.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(inbox, "new.url"), []byte("https://example.com/c\n"), 0o644); err != nil {
		t.Fatalf("write submission: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for len(collected()) == 0 {
		select {
		case <-deadline:
			t.Fatal("handler never invoked")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not stop after cancel")
	}

	got := collected()
	if len(got) != 1 || got[0] != "https://example.com/c" {
		t.Fatalf("handled %v", got)
	}
}

func TestIgnoresNonURLFiles(t *testing.T) {
	inbox := t.TempDir()
	if err := os.WriteFile(filepath.Join(inbox, "notes.txt"), []byte("https://example.com/x\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	handler, collected := collectHandler()
	watcher, err := New(inbox, handler, nil, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer watcher.Close()

	if err := watcher.processExisting(context.Background()); err != nil {
		t.Fatalf("processExisting: %v", err)
	}
	watcher.Wait()

	if got := collected(); len(got) != 0 {
		t.Fatalf("handled %v, want none", got)
	}
}

func TestNewRequiresHandler(t *testing.T) {
	if _, err := New(t.TempDir(), nil, nil, 1); err == nil {
		t.Fatal("expected error for nil handler")
	}
}
