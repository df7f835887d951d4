package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vidrelay/vidrelay/internal/service"
)

// DownloadHandler bridges POST /download to the relay service.
type DownloadHandler struct {
	relay  *service.RelayService
	logger *slog.Logger
}

// NewDownloadHandler creates a new download handler.
func NewDownloadHandler(relay *service.RelayService, logger *slog.Logger) *DownloadHandler {
	return &DownloadHandler{
		relay:  relay,
		logger: logger,
	}
}

// DownloadRequest is the JSON request body for a download.
type DownloadRequest struct {
	URL string `json:"url"`
}

// Download handles POST /download. It streams the extraction tool's stdout
// straight into the response body. URL syntax is not re-validated here; the
// browser validates before sending and the tool is the final authority.
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		http.Error(w, "URL is required", http.StatusBadRequest)
		return
	}

	// Headers go up front; they are not committed until the first body
	// byte, so a launch failure can still replace them with an error.
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", `attachment; filename="video.mp4"`)

	fw := &flushWriter{w: w}
	d, err := h.relay.Relay(r.Context(), req.URL, fw)
	if err != nil {
		if fw.wrote {
			// Response already committed; nothing to report in-band.
			h.logger.Error("relay failed mid-stream", "download_id", d.ID, "error", err)
			return
		}
		w.Header().Del("Content-Disposition")
		http.Error(w, "Download failed", http.StatusInternalServerError)
		return
	}
}

// flushWriter flushes after every write so the browser receives bytes as
// the extraction produces them instead of at buffer boundaries.
type flushWriter struct {
	w     http.ResponseWriter
	wrote bool
}

func (f *flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if n > 0 {
		f.wrote = true
		if fl, ok := f.w.(http.Flusher); ok {
			fl.Flush()
		}
	}
	return n, err
}
