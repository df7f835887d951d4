package extractor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/vidrelay/vidrelay/internal/config"
	"github.com/vidrelay/vidrelay/internal/domain"
)

// YTDLP runs the yt-dlp binary (or any compatible tool) and streams the
// selected format to stdout via the tool's `-o -` convention.
type YTDLP struct {
	binaryPath string
	format     string
	extraArgs  []string
	logger     *slog.Logger
}

// NewYTDLP resolves the extractor binary and returns a ready extractor.
func NewYTDLP(cfg config.ExtractorConfig, logger *slog.Logger) (*YTDLP, error) {
	path, err := exec.LookPath(cfg.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrExtractorNotFound, cfg.Binary, err)
	}

	return &YTDLP{
		binaryPath: path,
		format:     cfg.Format,
		extraArgs:  cfg.ExtraArgs,
		logger:     logger,
	}, nil
}

// Extract spawns `<binary> -f <format> -o - [extra args] <url>`.
// Stderr never reaches the caller; it is logged line by line.
// Cancelling ctx kills the child process.
func (y *YTDLP) Extract(ctx context.Context, url string) (*Stream, error) {
	args := []string{"-f", y.format, "-o", "-"}
	args = append(args, y.extraArgs...)
	args = append(args, url)

	cmd := exec.CommandContext(ctx, y.binaryPath, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	// Writing stderr through a logging writer (instead of a pipe) avoids
	// the read-before-Wait ordering requirement of StderrPipe.
	cmd.Stderr = &lineLogger{logger: y.logger, url: url}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLaunchFailed, err)
	}

	y.logger.Info("extraction process started",
		"binary", y.binaryPath,
		"format", y.format,
		"url", url,
		"pid", cmd.Process.Pid,
	)

	return NewStream(stdout, cmd.Wait), nil
}

// lineLogger forwards process stderr to slog, one line per record.
// Partial lines are buffered across writes.
type lineLogger struct {
	logger *slog.Logger
	url    string

	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf.Write(p)
	for {
		line, err := l.buf.ReadString('\n')
		if err != nil {
			// Incomplete line, keep it buffered for the next write.
			l.buf.WriteString(line)
			break
		}
		if trimmed := trimEOL(line); trimmed != "" {
			l.logger.Debug("extractor stderr", "url", l.url, "line", trimmed)
		}
	}
	return len(p), nil
}

func trimEOL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
