package domain

import (
	"time"

	"github.com/google/uuid"
)

// DownloadID uniquely identifies a relay attempt.
type DownloadID string

// NewDownloadID generates a new unique download ID.
func NewDownloadID() DownloadID {
	return DownloadID(uuid.New().String())
}

// String returns the string representation of the ID.
func (id DownloadID) String() string {
	return string(id)
}

// DownloadState tracks a relay attempt through its lifecycle.
// Transitions: Received -> ProcessSpawned -> Streaming -> Completed|Aborted.
// Aborted is reachable from any earlier state.
type DownloadState string

const (
	// StateReceived means the request has been accepted but no process exists yet.
	StateReceived DownloadState = "received"

	// StateProcessSpawned means the extraction process started successfully.
	StateProcessSpawned DownloadState = "process_spawned"

	// StateStreaming means at least one byte has been forwarded to the client.
	StateStreaming DownloadState = "streaming"

	// StateCompleted means the process output closed normally.
	StateCompleted DownloadState = "completed"

	// StateAborted means the process failed to launch, died mid-stream,
	// or the client disconnected.
	StateAborted DownloadState = "aborted"
)

// IsTerminal reports whether the state is final.
func (s DownloadState) IsTerminal() bool {
	return s == StateCompleted || s == StateAborted
}

// Download is the record of one relay attempt. It exists for the duration
// of the request and afterwards only as a history entry; no media bytes
// are ever retained.
type Download struct {
	ID         DownloadID
	URL        string
	State      DownloadState
	BytesSent  int64
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// NewDownload creates a download record in the Received state.
func NewDownload(url string) *Download {
	return &Download{
		ID:        NewDownloadID(),
		URL:       url,
		State:     StateReceived,
		StartedAt: time.Now().UTC(),
	}
}

// Finish marks the download terminal with the given state.
func (d *Download) Finish(state DownloadState, errMsg string) {
	now := time.Now().UTC()
	d.State = state
	d.Error = errMsg
	d.FinishedAt = &now
}

// Duration returns how long the relay ran, or time since start if still running.
func (d *Download) Duration() time.Duration {
	if d.FinishedAt != nil {
		return d.FinishedAt.Sub(d.StartedAt)
	}
	return time.Since(d.StartedAt)
}
