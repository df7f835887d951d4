package domain

import "errors"

// Domain errors.
var (
	// ErrMissingURL is returned when the request carries no URL.
	ErrMissingURL = errors.New("url is required")

	// ErrLaunchFailed is returned when the extraction process cannot be started.
	ErrLaunchFailed = errors.New("failed to launch extraction process")

	// ErrStreamAborted is returned when the relay terminated after bytes
	// were already flushed to the client.
	ErrStreamAborted = errors.New("stream aborted mid-transfer")

	// ErrExtractorNotFound is returned when the extractor binary is not in PATH.
	ErrExtractorNotFound = errors.New("extractor binary not found")

	// ErrDownloadNotFound is returned when a history record cannot be found.
	ErrDownloadNotFound = errors.New("download not found")
)

// DownloadError wraps an error with download context.
type DownloadError struct {
	DownloadID DownloadID
	Op         string
	Err        error
}

func (e *DownloadError) Error() string {
	if e.DownloadID != "" {
		return e.Op + " [" + e.DownloadID.String() + "]: " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// NewDownloadError creates a new DownloadError.
func NewDownloadError(id DownloadID, op string, err error) *DownloadError {
	return &DownloadError{
		DownloadID: id,
		Op:         op,
		Err:        err,
	}
}
