package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/vidrelay/vidrelay/internal/config"
	"github.com/vidrelay/vidrelay/internal/domain"
	"github.com/vidrelay/vidrelay/internal/extractor"
	"github.com/vidrelay/vidrelay/internal/history"
)

// RelayService runs one extraction process per request and forwards its
// output to the caller's writer as bytes arrive. It owns the per-request
// state machine (Received -> ProcessSpawned -> Streaming -> Completed or
// Aborted) and records every attempt in the history store.
type RelayService struct {
	ext              extractor.Extractor
	hist             *history.Store
	killOnDisconnect bool
	logger           *slog.Logger
}

// NewRelayService creates a new relay service.
func NewRelayService(ext extractor.Extractor, hist *history.Store, cfg config.ExtractorConfig, logger *slog.Logger) *RelayService {
	return &RelayService{
		ext:              ext,
		hist:             hist,
		killOnDisconnect: !cfg.DetachOnDisconnect,
		logger:           logger,
	}
}

// Relay streams one download to w. The returned record is always non-nil
// and terminal. The error is non-nil only when nothing could have been
// written to w: a missing URL or a process that never started. Once the
// process is running, failures are reflected in the record alone, because
// the response may already be partially flushed.
func (s *RelayService) Relay(ctx context.Context, url string, w io.Writer) (*domain.Download, error) {
	d := domain.NewDownload(url)

	if url == "" {
		d.Finish(domain.StateAborted, domain.ErrMissingURL.Error())
		s.record(ctx, d)
		return d, domain.ErrMissingURL
	}

	// The child process lives in its own context so the disconnect policy
	// is explicit: by default a client disconnect kills it, otherwise it
	// runs to completion unattended.
	procCtx := ctx
	if !s.killOnDisconnect {
		procCtx = context.WithoutCancel(ctx)
	}

	stream, err := s.ext.Extract(procCtx, url)
	if err != nil {
		d.Finish(domain.StateAborted, err.Error())
		s.record(ctx, d)
		s.logger.Error("extraction launch failed", "download_id", d.ID, "url", url, "error", err)
		return d, domain.NewDownloadError(d.ID, "spawn", err)
	}
	d.State = domain.StateProcessSpawned

	n, copyErr := io.Copy(&stateTrackingWriter{w: w, d: d}, stream.Output)
	d.BytesSent = n

	if copyErr != nil {
		// The client or pipe went away; release the child's stdout so a
		// still-writing process hits EPIPE instead of blocking forever.
		stream.Output.Close()
	}

	waitErr := stream.Wait()

	switch {
	case copyErr != nil:
		d.Finish(domain.StateAborted, domain.ErrStreamAborted.Error()+": "+copyErr.Error())
	case waitErr != nil:
		d.Finish(domain.StateAborted, "process exited: "+waitErr.Error())
	default:
		d.Finish(domain.StateCompleted, "")
	}

	s.record(ctx, d)
	s.logger.Info("relay finished",
		"download_id", d.ID,
		"url", url,
		"state", d.State,
		"bytes", d.BytesSent,
		"duration", d.Duration(),
		"error", d.Error,
	)

	return d, nil
}

// History returns the underlying history store.
func (s *RelayService) History() *history.Store {
	return s.hist
}

func (s *RelayService) record(ctx context.Context, d *domain.Download) {
	if s.hist == nil {
		return
	}
	// Recording must survive a cancelled request context.
	s.hist.Record(context.WithoutCancel(ctx), d)
}

// stateTrackingWriter flips the record to Streaming on the first byte out.
type stateTrackingWriter struct {
	w io.Writer
	d *domain.Download
}

func (t *stateTrackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if n > 0 && t.d.State == domain.StateProcessSpawned {
		t.d.State = domain.StateStreaming
	}
	return n, err
}
