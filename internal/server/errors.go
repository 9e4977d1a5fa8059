// Package server provides the HTTP dashboard and JSON API for talent matching.
package server

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/ingestion"
	"github.com/jonathan/talent-match/internal/pipeline"
)

// ErrInvalidBody indicates a request body that could not be decoded
type ErrInvalidBody struct {
	Err error
}

func (e *ErrInvalidBody) Error() string {
	return fmt.Sprintf("invalid request body: %v", e.Err)
}

func (e *ErrInvalidBody) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ingestion.ValidationError
	var body *ErrInvalidBody
	switch {
	case errors.As(err, &validation), errors.As(err, &body):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the text shown to the analyst for a failed run
func userMessage(err error) string {
	if errors.Is(err, db.ErrNoJobID) {
		return "Failed to insert or retrieve job_vacancy_id from database."
	}
	return err.Error()
}
