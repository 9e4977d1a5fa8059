package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/jonathan/talent-match/internal/ingestion"
	"github.com/jonathan/talent-match/internal/pipeline"
	"github.com/jonathan/talent-match/internal/schemas"
	"github.com/jonathan/talent-match/internal/server/views"
	"github.com/jonathan/talent-match/internal/types"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// RunErrorResponse is returned by /api/run when a run fails. Report holds
// whatever was produced before the failure.
type RunErrorResponse struct {
	Error  string        `json:"error"`
	Report *types.Report `json:"report,omitempty"`
}

// handleIndex serves the empty dashboard form
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, views.Dashboard(ingestion.DefaultForm(), nil, ""))
}

// handleFormRun runs the pipeline for a submitted dashboard form and renders the result
func (s *Server) handleFormRun(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, views.Dashboard(ingestion.DefaultForm(), nil, err.Error()))
		return
	}

	form := ingestion.FormFromValues(r.PostForm)
	req, err := form.Collect()
	if err != nil {
		s.renderPage(w, r, HTTPStatus(err), views.Dashboard(form, nil, err.Error()))
		return
	}

	report, err := s.runner.RunWithProgress(r.Context(), req, nil)
	if err != nil {
		s.logger.Errorw("Run failed", "error", err, "request_id", requestID(r.Context()))
		s.renderPage(w, r, HTTPStatus(err), views.Dashboard(form, report, userMessage(err)))
		return
	}

	s.renderPage(w, r, http.StatusOK, views.Dashboard(form, report, ""))
}

// handleRun runs the pipeline for a JSON form and returns the report
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRunRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	report, err := s.runner.RunWithProgress(r.Context(), req, nil)
	if err != nil {
		s.logger.Errorw("Run failed", "error", err, "request_id", requestID(r.Context()))
		s.jsonResponse(w, HTTPStatus(err), RunErrorResponse{Error: userMessage(err), Report: report})
		return
	}

	if s.config.ValidateReports {
		s.checkReport(r.Context(), report)
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// checkReport logs where a report drifts from the published report schema
func (s *Server) checkReport(ctx context.Context, report *types.Report) {
	document, err := json.Marshal(report)
	if err != nil {
		s.logger.Warnw("Report is not encodable", "error", err, "request_id", requestID(ctx))
		return
	}
	if err := schemas.Validate(schemas.Report, document); err != nil {
		s.logger.Warnw("Report does not match schema", "error", err, "request_id", requestID(ctx))
	}
}

// handleRunStream runs the pipeline and streams progress via SSE
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRunRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	var runID string
	report, err := s.runner.RunWithProgress(r.Context(), req, func(event pipeline.ProgressEvent) {
		runID = event.RunID
		if err := sse.WriteEvent("step", event); err != nil {
			s.logger.Warnw("Error writing SSE event", "error", err)
		}
	})
	if err != nil {
		s.logger.Errorw("Streaming run failed", "error", err, "request_id", requestID(r.Context()))
		sse.WriteError(userMessage(err), HTTPStatus(err))
		sse.WriteComplete(runID, "failed", report)
		return
	}

	sse.WriteComplete(runID, "completed", report)
}

// handleHealth reports whether the database answers a ping
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRunRequest reads a JSON form; absent fields take the dashboard defaults
func decodeRunRequest(r *http.Request) (*types.JobRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrInvalidBody{Err: err}
	}

	form := ingestion.DefaultForm()
	if len(bytes.TrimSpace(body)) > 0 {
		if err := schemas.Validate(schemas.RunRequest, body); err != nil {
			return nil, &ErrInvalidBody{Err: err}
		}
		if err := json.Unmarshal(body, &form); err != nil {
			return nil, &ErrInvalidBody{Err: err}
		}
	}
	return form.Collect()
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	templ.Handler(page, templ.WithStatus(status)).ServeHTTP(w, r)
}
