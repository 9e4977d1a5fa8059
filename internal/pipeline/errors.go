package pipeline

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrBusy is returned when a run is already in progress on the pipeline
var ErrBusy = errors.New("a talent match run is already in progress")

// StageError reports which stage halted a run
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
