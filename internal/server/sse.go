package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/talent-match/internal/types"
)

// RunSummary is the payload of the final "complete" event of a streamed run
type RunSummary struct {
	RunID           string  `json:"run_id"`
	Status          string  `json:"status"`
	JobID           int64   `json:"job_vacancy_id,omitempty"`
	Rows            int     `json:"rows"`
	TopEmployee     string  `json:"top_employee,omitempty"`
	TopMatchRate    float64 `json:"top_match_rate,omitempty"`
	Warning         string  `json:"warning,omitempty"`
	NarrativeFailed bool    `json:"narrative_failed,omitempty"`
}

// summarize condenses a (possibly partial) report into the completion payload
func summarize(runID, status string, report *types.Report) RunSummary {
	summary := RunSummary{RunID: runID, Status: status}
	if report == nil {
		return summary
	}
	summary.JobID = report.JobID
	summary.Rows = len(report.Ranked)
	summary.Warning = report.Warning
	summary.NarrativeFailed = report.Narrative.Failed()
	if len(report.Ranked) > 0 && report.Ranked[0].HasRate {
		summary.TopEmployee = report.Ranked[0].EmployeeName
		summary.TopMatchRate = report.Ranked[0].MatchRate
	}
	return summary
}

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(message string, status int) {
	s.WriteEvent("error", map[string]any{"error": message, "status": status}) //nolint:errcheck
}

// WriteComplete closes the stream with the run's job id and outcome
func (s *SSEWriter) WriteComplete(runID, status string, report *types.Report) {
	s.WriteEvent("complete", summarize(runID, status, report)) //nolint:errcheck
}
