package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vidrelay/vidrelay/internal/domain"
	"github.com/vidrelay/vidrelay/internal/history"
)

// HistoryHandler serves the download-history ledger.
type HistoryHandler struct {
	hist   *history.Store
	logger *slog.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(hist *history.Store, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		hist:   hist,
		logger: logger,
	}
}

// DownloadRecord represents one relay attempt in list responses.
type DownloadRecord struct {
	ID         string     `json:"id"`
	URL        string     `json:"url"`
	State      string     `json:"state"`
	BytesSent  int64      `json:"bytes_sent"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// HistoryResponse contains recent downloads, newest first.
type HistoryResponse struct {
	Downloads []DownloadRecord `json:"downloads"`
	Counts    history.Counts   `json:"counts"`
}

// List handles GET /api/v1/history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	recent := h.hist.Recent(limit)

	resp := HistoryResponse{
		Downloads: make([]DownloadRecord, 0, len(recent)),
		Counts:    h.hist.Counts(),
	}
	for _, d := range recent {
		resp.Downloads = append(resp.Downloads, toRecord(d))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func toRecord(d domain.Download) DownloadRecord {
	return DownloadRecord{
		ID:         d.ID.String(),
		URL:        d.URL,
		State:      string(d.State),
		BytesSent:  d.BytesSent,
		Error:      d.Error,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
	}
}
