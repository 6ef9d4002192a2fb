package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"tafrigh/internal/artifacts"
	"tafrigh/internal/attribution"
	"tafrigh/internal/config"
	"tafrigh/internal/logging"
	"tafrigh/internal/notifications"
	"tafrigh/internal/queue"
	"tafrigh/internal/report"
	"tafrigh/internal/segments"
	"tafrigh/internal/services"
	"tafrigh/internal/services/llm"
	"tafrigh/internal/services/ner"
	"tafrigh/internal/services/pyannote"
	"tafrigh/internal/services/summarize"
	"tafrigh/internal/services/whisper"
	"tafrigh/internal/services/ytdlp"
)

// Stage labels recorded in the run ledger progress fields.
const (
	StageAcquiring    = "Acquiring"
	StageTranscribing = "Transcribing"
	StageDiarizing    = "Diarizing"
	StageAttributing  = "Attributing"
	StageExtracting   = "Extracting_Entities"
	StageSummarizing  = "Summarizing"
	StageComposing    = "Composing"
)

// Acquirer fetches episode audio and metadata for a source URL.
type Acquirer interface {
	Acquire(ctx context.Context, url, outputDir string) (ytdlp.Episode, error)
}

// Transcriber converts audio into timestamped transcript segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, outputDir string) (whisper.Transcript, error)
}

// Diarizer splits audio into per-speaker turns.
type Diarizer interface {
	Diarize(ctx context.Context, audioPath string) ([]segments.DiarizationSegment, error)
}

// Summarizer produces the bullet summary for a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Deps bundles the stage services a Runner drives.
type Deps struct {
	Acquirer    Acquirer
	Transcriber Transcriber
	Diarizer    Diarizer
	Extractor   ner.Extractor
	Summarizer  Summarizer
	Notifier    notifications.Service
}

// DefaultDeps wires the production services from configuration.
func DefaultDeps(cfg *config.Config) (Deps, error) {
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		MaxRetries:     cfg.LLM.MaxRetries,
	})
	extractor, err := ner.NewExtractor(cfg.Entities, client)
	if err != nil {
		return Deps{}, err
	}
	return Deps{
		Acquirer:    ytdlp.NewService(cfg.Acquisition),
		Transcriber: whisper.NewService(cfg.Transcription),
		Diarizer:    pyannote.NewService(cfg.Diarization),
		Extractor:   extractor,
		Summarizer:  summarize.NewService(client, cfg.Summarizer.ChunkChars),
		Notifier:    notifications.NewService(cfg),
	}, nil
}

// Result describes the outcome of one pipeline run.
type Result struct {
	Status      queue.Status
	EpisodeID   string
	Title       string
	ReportPath  string
	FailedStage string
	Err         error
}

// Runner executes the full pipeline for one source URL at a time.
type Runner struct {
	cfg       *config.Config
	store     *queue.Store
	artifacts *artifacts.Store
	deps      Deps
	logger    *slog.Logger
}

// NewRunner builds a Runner over the given ledger and artifact stores.
func NewRunner(cfg *config.Config, store *queue.Store, artifactStore *artifacts.Store, deps Deps, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(cfg)
	}
	return &Runner{
		cfg:       cfg,
		store:     store,
		artifacts: artifactStore,
		deps:      deps,
		logger:    logger,
	}
}

type stageStep struct {
	name       string
	processing queue.Status
	done       queue.Status
	fraction   float64
}

var stageSteps = map[string]stageStep{
	StageAcquiring:    {StageAcquiring, queue.StatusAcquiring, queue.StatusAcquired, 0.10},
	StageTranscribing: {StageTranscribing, queue.StatusTranscribing, queue.StatusTranscribed, 0.30},
	StageDiarizing:    {StageDiarizing, queue.StatusDiarizing, queue.StatusDiarized, 0.50},
	StageAttributing:  {StageAttributing, queue.StatusAttributing, queue.StatusAttributed, 0.70},
	StageExtracting:   {StageExtracting, queue.StatusExtracting, queue.StatusExtracted, 0.85},
	StageSummarizing:  {StageSummarizing, queue.StatusSummarizing, queue.StatusSummarized, 0.95},
	StageComposing:    {StageComposing, queue.StatusComposing, queue.StatusCompleted, 1.0},
}

// Run processes one source URL end to end and returns the run outcome. The
// returned Result carries any stage failure; the error return is reserved
// for ledger and lock problems that prevent the run from being tracked.
func (r *Runner) Run(ctx context.Context, sourceURL string) (Result, error) {
	item, err := r.store.NewRun(context.WithoutCancel(ctx), sourceURL)
	if err != nil {
		return Result{}, fmt.Errorf("create run: %w", err)
	}

	correlationID := uuid.NewString()
	ctx = services.WithRequestID(ctx, correlationID)
	runLogger := r.logger.With(logging.String(logging.FieldCorrelationID, correlationID))

	started := time.Now()
	runLogger.Info("run started", logging.String("source_url", sourceURL), logging.Int64("run_id", item.ID))

	result := r.execute(ctx, runLogger, item, sourceURL)
	if result.Err != nil {
		item.SetFailed(result.Err.Error())
		item.ProgressMessage = fmt.Sprintf("%s failed", result.FailedStage)
		if updateErr := r.store.Update(context.WithoutCancel(ctx), item); updateErr != nil {
			runLogger.Error("failed to persist run failure", logging.Error(updateErr))
		}
		runLogger.Error("run failed",
			logging.String(logging.FieldStage, result.FailedStage),
			logging.Error(result.Err),
		)
		r.notify(runLogger, func() error {
			return r.deps.Notifier.NotifyRunFailed(context.WithoutCancel(ctx), result.Title, result.FailedStage, result.Err)
		})
		return result, nil
	}

	runLogger.Info("run completed",
		logging.String(logging.FieldEpisodeID, result.EpisodeID),
		logging.String("report", result.ReportPath),
		logging.Duration("elapsed", time.Since(started)),
	)
	r.notify(runLogger, func() error {
		return r.deps.Notifier.NotifyRunCompleted(context.WithoutCancel(ctx), result.Title, time.Since(started))
	})
	return result, nil
}

func (r *Runner) execute(ctx context.Context, runLogger *slog.Logger, item *queue.Item, sourceURL string) Result {
	result := Result{Status: queue.StatusFailed}

	// Acquisition resolves the episode identity, so the per-episode lock
	// can only be taken after it finishes.
	if err := r.beginStage(ctx, item, StageAcquiring); err != nil {
		return failed(result, StageAcquiring, err)
	}
	episode, err := r.deps.Acquirer.Acquire(ctx, sourceURL, r.cfg.Paths.AudioDir)
	if err != nil {
		return failed(result, StageAcquiring, err)
	}
	result.EpisodeID = episode.ID
	result.Title = episode.Title

	ctx = services.WithEpisodeID(ctx, episode.ID)
	runLogger = runLogger.With(logging.String(logging.FieldEpisodeID, episode.ID))

	lock, err := r.acquireLock(episode.ID)
	if err != nil {
		return failed(result, StageAcquiring, err)
	}
	defer func() { _ = lock.Unlock() }()

	if err := r.store.AssignEpisode(ctx, item.ID, episode.ID, episode.Title, episode.AudioPath); err != nil {
		return failed(result, StageAcquiring, err)
	}
	item.EpisodeID = episode.ID
	item.Title = episode.Title
	item.AudioPath = episode.AudioPath
	if err := r.artifacts.PutJSON(episode.ID, artifacts.FileMetadata, episode); err != nil {
		return failed(result, StageAcquiring, err)
	}
	if err := r.finishStage(ctx, item, StageAcquiring); err != nil {
		return failed(result, StageAcquiring, err)
	}
	r.notify(runLogger, func() error {
		return r.deps.Notifier.NotifyRunStarted(context.WithoutCancel(ctx), episode.Title)
	})

	if err := r.beginStage(ctx, item, StageTranscribing); err != nil {
		return failed(result, StageTranscribing, err)
	}
	transcript, err := r.deps.Transcriber.Transcribe(ctx, episode.AudioPath, r.episodeDir(episode.ID))
	if err != nil {
		return failed(result, StageTranscribing, err)
	}
	if err := r.artifacts.PutJSON(episode.ID, artifacts.FileTranscript, transcript); err != nil {
		return failed(result, StageTranscribing, err)
	}
	if err := r.artifacts.PutText(episode.ID, artifacts.FileTranscriptText, transcript.FlatText()); err != nil {
		return failed(result, StageTranscribing, err)
	}
	if err := r.finishStage(ctx, item, StageTranscribing); err != nil {
		return failed(result, StageTranscribing, err)
	}

	if err := r.beginStage(ctx, item, StageDiarizing); err != nil {
		return failed(result, StageDiarizing, err)
	}
	turns, err := r.deps.Diarizer.Diarize(ctx, episode.AudioPath)
	if err != nil {
		return failed(result, StageDiarizing, err)
	}
	if err := r.artifacts.PutJSON(episode.ID, artifacts.FileDiarization, turns); err != nil {
		return failed(result, StageDiarizing, err)
	}
	rttm := pyannote.RenderRTTM(audioBaseName(episode.AudioPath), turns)
	if err := r.artifacts.PutText(episode.ID, artifacts.FileDiarizationRTTM, rttm); err != nil {
		return failed(result, StageDiarizing, err)
	}
	if err := r.finishStage(ctx, item, StageDiarizing); err != nil {
		return failed(result, StageDiarizing, err)
	}

	if err := r.beginStage(ctx, item, StageAttributing); err != nil {
		return failed(result, StageAttributing, err)
	}
	attributed, err := attribution.Attribute(transcript.Segments, turns)
	if err != nil {
		return failed(result, StageAttributing, err)
	}
	if attributed.Dropped > 0 {
		runLogger.Warn("transcript segments without speaker turn",
			logging.Int("dropped", attributed.Dropped))
	}
	if err := r.artifacts.PutJSON(episode.ID, artifacts.FileAttribution, attributed); err != nil {
		return failed(result, StageAttributing, err)
	}
	if err := r.finishStage(ctx, item, StageAttributing); err != nil {
		return failed(result, StageAttributing, err)
	}

	if err := r.beginStage(ctx, item, StageExtracting); err != nil {
		return failed(result, StageExtracting, err)
	}
	entities, err := r.deps.Extractor.Extract(ctx, transcript.PlainText())
	if err != nil {
		return failed(result, StageExtracting, err)
	}
	if entities == nil {
		entities = []ner.Entity{}
	}
	if err := r.artifacts.PutJSON(episode.ID, artifacts.FileEntities, entities); err != nil {
		return failed(result, StageExtracting, err)
	}
	if err := r.finishStage(ctx, item, StageExtracting); err != nil {
		return failed(result, StageExtracting, err)
	}

	if err := r.beginStage(ctx, item, StageSummarizing); err != nil {
		return failed(result, StageSummarizing, err)
	}
	summary, err := r.deps.Summarizer.Summarize(ctx, transcript.PlainText())
	if err != nil {
		return failed(result, StageSummarizing, err)
	}
	if err := r.artifacts.PutText(episode.ID, artifacts.FileSummary, summary); err != nil {
		return failed(result, StageSummarizing, err)
	}
	if err := r.finishStage(ctx, item, StageSummarizing); err != nil {
		return failed(result, StageSummarizing, err)
	}

	if err := r.beginStage(ctx, item, StageComposing); err != nil {
		return failed(result, StageComposing, err)
	}
	composed := report.Compose(episode.Title, transcript.FlatText(), attributed.Speakers, entities, summary)
	if err := r.artifacts.PutText(episode.ID, artifacts.FileReport, composed); err != nil {
		return failed(result, StageComposing, err)
	}
	if err := r.finishStage(ctx, item, StageComposing); err != nil {
		return failed(result, StageComposing, err)
	}

	result.Status = queue.StatusCompleted
	result.ReportPath = r.artifacts.Path(episode.ID, artifacts.FileReport)
	return result
}

func failed(result Result, stage string, err error) Result {
	result.Status = queue.StatusFailed
	result.FailedStage = stage
	result.Err = err
	return result
}

func (r *Runner) beginStage(ctx context.Context, item *queue.Item, stage string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	step := stageSteps[stage]
	item.Status = step.processing
	item.InitProgress(step.name, fmt.Sprintf("%s started", step.name))
	return r.store.Update(context.WithoutCancel(ctx), item)
}

func (r *Runner) finishStage(ctx context.Context, item *queue.Item, stage string) error {
	step := stageSteps[stage]
	item.Status = step.done
	item.ProgressPercent = step.fraction
	item.ProgressMessage = fmt.Sprintf("%s finished", step.name)
	return r.store.Update(context.WithoutCancel(ctx), item)
}

func (r *Runner) acquireLock(episodeID string) (*flock.Flock, error) {
	if err := os.MkdirAll(r.cfg.LockDir(), 0o755); err != nil {
		return nil, services.Wrap(services.ErrPersistence, StageAcquiring, "lock", "create lock directory", err)
	}
	lockPath := filepath.Join(r.cfg.LockDir(), episodeID+".lock")
	lock := flock.New(lockPath)
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, StageAcquiring, "lock", "acquire episode lock", err)
	}
	if !acquired {
		return nil, services.Wrap(services.ErrValidation, StageAcquiring, "lock",
			fmt.Sprintf("episode %s is already being processed", episodeID), nil)
	}
	return lock, nil
}

// notify runs a notification call without letting a panic or error break
// the pipeline.
func (r *Runner) notify(logger *slog.Logger, fn func() error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Warn("notification panicked", logging.Any("panic", recovered))
		}
	}()
	if err := fn(); err != nil {
		logger.Warn("notification failed", logging.Error(err))
	}
}

func (r *Runner) episodeDir(episodeID string) string {
	return filepath.Dir(r.artifacts.Path(episodeID, artifacts.FileTranscript))
}

func audioBaseName(audioPath string) string {
	base := filepath.Base(audioPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
