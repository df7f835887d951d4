package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/vidrelay/vidrelay/internal/config"
	"github.com/vidrelay/vidrelay/internal/extractor"
	"github.com/vidrelay/vidrelay/internal/history"
	"github.com/vidrelay/vidrelay/internal/service"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeExtractor is a scriptable extractor for handler tests.
type fakeExtractor struct {
	data      []byte
	launchErr error
	waitErr   error

	extracted    bool
	extractedURL string
}

func (f *fakeExtractor) Extract(ctx context.Context, url string) (*extractor.Stream, error) {
	if f.launchErr != nil {
		return nil, f.launchErr
	}
	f.extracted = true
	f.extractedURL = url
	return extractor.NewStream(
		io.NopCloser(bytes.NewReader(f.data)),
		func() error { return f.waitErr },
	), nil
}

// newTestHistory creates an in-memory history store.
func newTestHistory(t *testing.T) *history.Store {
	t.Helper()
	hist, err := history.NewStore(config.HistoryConfig{RingSize: 10}, testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { hist.Close() })
	return hist
}

// newTestRelay wires a relay service around the given extractor.
func newTestRelay(t *testing.T, ext extractor.Extractor, hist *history.Store) *service.RelayService {
	t.Helper()
	return service.NewRelayService(ext, hist, config.ExtractorConfig{}, testLogger())
}
