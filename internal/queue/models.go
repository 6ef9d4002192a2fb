package queue

import "time"

// Status represents the lifecycle of a pipeline run.
type Status string

const (
	StatusPending      Status = "pending"
	StatusAcquiring    Status = "acquiring"
	StatusAcquired     Status = "acquired"
	StatusTranscribing Status = "transcribing"
	StatusTranscribed  Status = "transcribed"
	StatusDiarizing    Status = "diarizing"
	StatusDiarized     Status = "diarized"
	StatusAttributing  Status = "attributing"
	StatusAttributed   Status = "attributed"
	StatusExtracting   Status = "extracting"
	StatusExtracted    Status = "extracted"
	StatusSummarizing  Status = "summarizing"
	StatusSummarized   Status = "summarized"
	StatusComposing    Status = "composing"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusAcquiring,
	StatusAcquired,
	StatusTranscribing,
	StatusTranscribed,
	StatusDiarizing,
	StatusDiarized,
	StatusAttributing,
	StatusAttributed,
	StatusExtracting,
	StatusExtracted,
	StatusSummarizing,
	StatusSummarized,
	StatusComposing,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Valid reports whether the status is one of the known lifecycle values.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

// Terminal reports whether the run has finished, successfully or not.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Item represents one pipeline run persisted in SQLite.
type Item struct {
	ID              int64
	SourceURL       string
	EpisodeID       string
	Title           string
	Status          Status
	AudioPath       string
	ErrorMessage    string
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SetFailed marks the item failed with the given message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
}

// InitProgress resets progress tracking for a new stage.
func (i *Item) InitProgress(stage, message string) {
	i.ProgressStage = stage
	i.ProgressPercent = 0
	i.ProgressMessage = message
}
