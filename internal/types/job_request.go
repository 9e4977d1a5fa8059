// Package types provides type definitions for structured data used throughout the talent-match system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// JobLevel is the seniority of the role being matched
type JobLevel string

// Job levels offered by the dashboard form
const (
	LevelJunior JobLevel = "Junior"
	LevelMid    JobLevel = "Mid"
	LevelSenior JobLevel = "Senior"
)

// JobLevels returns the selectable job levels in display order
func JobLevels() []JobLevel {
	return []JobLevel{LevelJunior, LevelMid, LevelSenior}
}

// Valid reports whether l is one of the known job levels
func (l JobLevel) Valid() bool {
	for _, level := range JobLevels() {
		if l == level {
			return true
		}
	}
	return false
}

// JobRequest is one talent-match run request as collected from the form.
// BenchmarkIDs may be empty; malformed ids are dropped before they get here.
type JobRequest struct {
	RoleName     string   `json:"role_name"`
	JobLevel     JobLevel `json:"job_level" validate:"required,oneof=Junior Mid Senior"`
	RolePurpose  string   `json:"role_purpose"`
	BenchmarkIDs []int64  `json:"benchmark_ids"`
}

// Validate validates the JobRequest using the validator.
func (r *JobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
