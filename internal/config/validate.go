package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAcquisition(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateEntities(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.AudioDir == "" {
		return errors.New("paths.audio_dir must be set")
	}
	if c.Paths.ArtifactsDir == "" {
		return errors.New("paths.artifacts_dir must be set")
	}
	return nil
}

func (c *Config) validateAcquisition() error {
	switch c.Acquisition.AudioFormat {
	case "wav", "mp3", "m4a", "opus", "flac":
		return nil
	default:
		return fmt.Errorf("acquisition.audio_format: unsupported value %q", c.Acquisition.AudioFormat)
	}
}

func (c *Config) validateTranscription() error {
	if len(c.Transcription.Language) != 2 {
		return fmt.Errorf("transcription.language must be a two-letter code, got %q", c.Transcription.Language)
	}
	return nil
}

func (c *Config) validateEntities() error {
	switch c.Entities.Backend {
	case "llm", "camel":
	default:
		return fmt.Errorf("entities.backend must be \"llm\" or \"camel\", got %q", c.Entities.Backend)
	}
	if c.Entities.Backend == "camel" && c.Entities.CamelCommand == "" {
		return errors.New("entities.camel_command must be set when entities.backend is \"camel\"")
	}
	return nil
}

func (c *Config) validateLLM() error {
	// Summarization always needs the LLM, so the key is required regardless
	// of the entities backend.
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/tafrigh/config.toml"
		}
		return fmt.Errorf("llm.api_key is required for summarization. Set TAFRIGH_LLM_API_KEY env var or edit %s (create with 'tafrigh config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if err := ensurePositiveMap(map[string]int{
		"acquisition.timeout_seconds":   c.Acquisition.TimeoutSeconds,
		"transcription.timeout_seconds": c.Transcription.TimeoutSeconds,
		"diarization.timeout_seconds":   c.Diarization.TimeoutSeconds,
		"summarizer.chunk_chars":        c.Summarizer.ChunkChars,
		"llm.timeout_seconds":           c.LLM.TimeoutSeconds,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
		"workflow.max_concurrent":       c.Workflow.MaxConcurrent,
	}); err != nil {
		return err
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
