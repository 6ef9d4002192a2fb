package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tafrigh/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[llm]
api_key = "test-key"
`)
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected existing config, got exists=%v path=%q", exists, resolved)
	}
	if cfg.Acquisition.YtdlpBinary != "yt-dlp" {
		t.Errorf("ytdlp binary = %q", cfg.Acquisition.YtdlpBinary)
	}
	if cfg.Transcription.Language != "ar" {
		t.Errorf("language = %q", cfg.Transcription.Language)
	}
	if cfg.Summarizer.ChunkChars != 1000 {
		t.Errorf("chunk chars = %d", cfg.Summarizer.ChunkChars)
	}
	if cfg.Entities.Backend != "llm" {
		t.Errorf("entities backend = %q", cfg.Entities.Backend)
	}
	if !cfg.Acquisition.SkipExisting {
		t.Error("skip_existing should default to true")
	}
}

func TestLoadMissingAPIKeyRejected(t *testing.T) {
	t.Setenv("TAFRIGH_LLM_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	path := writeConfig(t, "")
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "llm.api_key") {
		t.Fatalf("expected llm.api_key error, got %v", err)
	}
}

func TestLoadAPIKeyFromEnv(t *testing.T) {
	t.Setenv("TAFRIGH_LLM_API_KEY", "env-key")
	path := writeConfig(t, "")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Fatalf("api key = %q", cfg.LLM.APIKey)
	}
}

func TestLoadRejectsUnknownEntitiesBackend(t *testing.T) {
	path := writeConfig(t, `
[llm]
api_key = "k"

[entities]
backend = "regex"
`)
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "entities.backend") {
		t.Fatalf("expected entities.backend error, got %v", err)
	}
}

func TestLoadRejectsBadAudioFormat(t *testing.T) {
	path := writeConfig(t, `
[llm]
api_key = "k"

[acquisition]
audio_format = "ogg-vorbis"
`)
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "audio_format") {
		t.Fatalf("expected audio_format error, got %v", err)
	}
}

func TestLoadExpandsPaths(t *testing.T) {
	path := writeConfig(t, `
[llm]
api_key = "k"

[paths]
data_dir = "~/tafrigh-data"
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.HasPrefix(cfg.Paths.DataDir, "~") {
		t.Fatalf("data dir not expanded: %q", cfg.Paths.DataDir)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("data dir not absolute: %q", cfg.Paths.DataDir)
	}
	if got := cfg.QueueDatabasePath(); filepath.Dir(got) != cfg.Paths.DataDir {
		t.Fatalf("queue db path = %q", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[llm]
api_key = "k"

[paths]
data_dir = "`+filepath.Join(base, "data")+`"
audio_dir = "`+filepath.Join(base, "audio")+`"
artifacts_dir = "`+filepath.Join(base, "artifacts")+`"
log_dir = "`+filepath.Join(base, "logs")+`"
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.AudioDir, cfg.Paths.ArtifactsDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("directory %q missing: %v", dir, err)
		}
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[transcription]") {
		t.Fatalf("sample missing sections: %q", string(data[:80]))
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TAFRIGH_LLM_API_KEY", "env-key")
	missing := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("config should not exist")
	}
	if resolved == "" {
		t.Fatal("resolved path should be reported")
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("format = %q", cfg.Logging.Format)
	}
}
