package extractor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/vidrelay/vidrelay/internal/config"
	"github.com/vidrelay/vidrelay/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeScript creates an executable shell script standing in for yt-dlp.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a unix shell")
	}
	path := filepath.Join(t.TempDir(), "fake-ytdlp")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestNewYTDLP_BinaryNotFound(t *testing.T) {
	_, err := NewYTDLP(config.ExtractorConfig{
		Binary: "definitely-not-a-real-binary-4a1b",
		Format: "mp4",
	}, testLogger())

	if !errors.Is(err, domain.ErrExtractorNotFound) {
		t.Errorf("err = %v, want ErrExtractorNotFound", err)
	}
}

func TestYTDLP_Extract_StreamsStdout(t *testing.T) {
	bin := writeScript(t, `printf 'media-bytes'`)

	y, err := NewYTDLP(config.ExtractorConfig{Binary: bin, Format: "mp4"}, testLogger())
	if err != nil {
		t.Fatalf("NewYTDLP: %v", err)
	}

	stream, err := y.Extract(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	data, err := io.ReadAll(stream.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "media-bytes" {
		t.Errorf("output = %q, want %q", data, "media-bytes")
	}

	if err := stream.Wait(); err != nil {
		t.Errorf("Wait() = %v, want nil", err)
	}
}

func TestYTDLP_Extract_NonZeroExit(t *testing.T) {
	bin := writeScript(t, `echo 'boom' >&2; exit 3`)

	y, err := NewYTDLP(config.ExtractorConfig{Binary: bin, Format: "mp4"}, testLogger())
	if err != nil {
		t.Fatalf("NewYTDLP: %v", err)
	}

	stream, err := y.Extract(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if _, err := io.ReadAll(stream.Output); err != nil {
		t.Fatalf("read output: %v", err)
	}
	if err := stream.Wait(); err == nil {
		t.Error("Wait() should return the non-zero exit error")
	}
}

func TestYTDLP_Extract_ContextCancelKillsProcess(t *testing.T) {
	bin := writeScript(t, `sleep 60`)

	y, err := NewYTDLP(config.ExtractorConfig{Binary: bin, Format: "mp4"}, testLogger())
	if err != nil {
		t.Fatalf("NewYTDLP: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := y.Extract(ctx, "https://example.com/v")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	cancel()

	done := make(chan error, 1)
	go func() {
		io.Copy(io.Discard, stream.Output)
		done <- stream.Wait()
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Error("Wait() should report the killed process")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("process was not killed after context cancellation")
	}
}

func TestLineLogger_BuffersPartialLines(t *testing.T) {
	lw := &lineLogger{logger: testLogger(), url: "u"}

	// Split one logical line across two writes; neither should error.
	if _, err := lw.Write([]byte("[download] 50")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := lw.Write([]byte(".0%\nsecond line\r\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if lw.buf.Len() != 0 {
		t.Errorf("buffer should be drained after complete lines, has %q", lw.buf.String())
	}
}
