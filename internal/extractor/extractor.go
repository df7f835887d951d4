package extractor

import (
	"context"
	"io"
)

// Extractor launches an extraction process for a media URL and exposes its
// output as a stream. Implementations own the child process; cancelling the
// context terminates it.
type Extractor interface {
	// Extract starts extraction for the given URL. The returned stream's
	// Output carries the raw media bytes as the tool produces them.
	// A non-nil error means the process never started.
	Extract(ctx context.Context, url string) (*Stream, error)
}

// Stream is a live extraction in progress.
type Stream struct {
	// Output is the process standard output. The caller must drain it
	// fully before calling Wait.
	Output io.ReadCloser

	wait func() error
}

// NewStream builds a stream from an output reader and a completion function.
// Exposed so tests can fake a running extraction.
func NewStream(output io.ReadCloser, wait func() error) *Stream {
	return &Stream{Output: output, wait: wait}
}

// Wait blocks until the process exits and returns its exit error, if any.
func (s *Stream) Wait() error {
	if s.wait == nil {
		return nil
	}
	return s.wait()
}
