package notifications

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"tafrigh/internal/config"
)

type recordedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func newRecordingServer(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func newNtfyConfig(endpoint string) *config.Config {
	cfgVal := config.Default()
	cfg := &cfgVal
	cfg.Notifications.NtfyTopic = endpoint
	cfg.Notifications.RunStarted = true
	cfg.Notifications.RunCompleted = true
	cfg.Notifications.Errors = true
	return cfg
}

func TestNewServiceReturnsNoopWithoutTopic(t *testing.T) {
	cfgVal := config.Default()
	cfg := &cfgVal
	cfg.Notifications.NtfyTopic = ""
	svc := NewService(cfg)
	if _, ok := svc.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", svc)
	}
	if err := svc.NotifyRunStarted(context.Background(), "x"); err != nil {
		t.Fatalf("noop NotifyRunStarted: %v", err)
	}
}

func TestNotifyRunLifecycle(t *testing.T) {
	server, recorded := newRecordingServer(t)
	svc := NewService(newNtfyConfig(server.URL))
	ctx := context.Background()

	if err := svc.NotifyRunStarted(ctx, "حلقة عن التاريخ"); err != nil {
		t.Fatalf("NotifyRunStarted: %v", err)
	}
	if err := svc.NotifyRunCompleted(ctx, "حلقة عن التاريخ", 95*time.Second); err != nil {
		t.Fatalf("NotifyRunCompleted: %v", err)
	}
	if err := svc.NotifyRunFailed(ctx, "حلقة عن التاريخ", "Transcribing", errors.New("whisper exited 1")); err != nil {
		t.Fatalf("NotifyRunFailed: %v", err)
	}

	reqs := recorded()
	if len(reqs) != 3 {
		t.Fatalf("got %d requests, want 3", len(reqs))
	}
	if reqs[0].title != "Tafrigh - Run Started" {
		t.Fatalf("start title = %q", reqs[0].title)
	}
	if !strings.Contains(reqs[1].body, "1m35s") {
		t.Fatalf("completed body = %q, want duration", reqs[1].body)
	}
	if reqs[1].priority != "high" {
		t.Fatalf("completed priority = %q", reqs[1].priority)
	}
	if !strings.Contains(reqs[2].body, "Transcribing") || !strings.Contains(reqs[2].body, "whisper exited 1") {
		t.Fatalf("failure body = %q", reqs[2].body)
	}
}

func TestCategoryTogglesSuppressSends(t *testing.T) {
	server, recorded := newRecordingServer(t)
	cfg := newNtfyConfig(server.URL)
	cfg.Notifications.RunStarted = false
	cfg.Notifications.RunCompleted = false
	cfg.Notifications.Errors = false
	svc := NewService(cfg)
	ctx := context.Background()

	if err := svc.NotifyRunStarted(ctx, "x"); err != nil {
		t.Fatalf("NotifyRunStarted: %v", err)
	}
	if err := svc.NotifyRunCompleted(ctx, "x", time.Minute); err != nil {
		t.Fatalf("NotifyRunCompleted: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "queue"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}

	if got := recorded(); len(got) != 0 {
		t.Fatalf("expected no requests, got %d", len(got))
	}
}

func TestSendSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewService(newNtfyConfig(server.URL))
	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error from 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("err = %v, want status code", err)
	}
}
