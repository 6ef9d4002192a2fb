package config

const (
	defaultDataDir                 = "~/.local/share/tafrigh"
	defaultAudioDir                = "~/.local/share/tafrigh/audio"
	defaultArtifactsDir            = "~/.local/share/tafrigh/artifacts"
	defaultLogDir                  = "~/.local/share/tafrigh/logs"
	defaultYtdlpBinary             = "yt-dlp"
	defaultAudioFormat             = "wav"
	defaultAcquisitionTimeout      = 1800
	defaultTranscriptionModel      = "large-v3"
	defaultTranscriptionLanguage   = "ar"
	defaultTranscriptionDevice     = "auto"
	defaultTranscriptionCompute    = "default"
	defaultTranscriptionTimeout    = 3600
	defaultDiarizationCommand      = "tafrigh-diarize"
	defaultDiarizationModel        = "pyannote/speaker-diarization-3.1"
	defaultDiarizationTimeout      = 3600
	defaultEntitiesBackend         = "llm"
	defaultCamelCommand            = "camel_arclean"
	defaultSummaryChunkChars       = 1000
	defaultLLMBaseURL              = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel                = "google/gemini-2.5-flash"
	defaultLLMTimeoutSeconds       = 120
	defaultLLMMaxRetries           = 3
	defaultNotifyRequestTimeout    = 10
	defaultWorkflowMaxConcurrent   = 2
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			AudioDir:     defaultAudioDir,
			ArtifactsDir: defaultArtifactsDir,
			LogDir:       defaultLogDir,
		},
		Acquisition: Acquisition{
			YtdlpBinary:    defaultYtdlpBinary,
			AudioFormat:    defaultAudioFormat,
			TimeoutSeconds: defaultAcquisitionTimeout,
			SkipExisting:   true,
		},
		Transcription: Transcription{
			Model:          defaultTranscriptionModel,
			Language:       defaultTranscriptionLanguage,
			Device:         defaultTranscriptionDevice,
			ComputeType:    defaultTranscriptionCompute,
			TimeoutSeconds: defaultTranscriptionTimeout,
		},
		Diarization: Diarization{
			Command:        defaultDiarizationCommand,
			Model:          defaultDiarizationModel,
			TimeoutSeconds: defaultDiarizationTimeout,
		},
		Entities: Entities{
			Backend:      defaultEntitiesBackend,
			CamelCommand: defaultCamelCommand,
		},
		Summarizer: Summarizer{
			ChunkChars: defaultSummaryChunkChars,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			MaxRetries:     defaultLLMMaxRetries,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			RunStarted:     true,
			RunCompleted:   true,
			Errors:         true,
		},
		Workflow: Workflow{
			MaxConcurrent: defaultWorkflowMaxConcurrent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
