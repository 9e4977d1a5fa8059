package ingestion

import (
	"net/url"
	"strings"

	"github.com/jonathan/talent-match/internal/types"
)

// Form field names shared by the dashboard, the JSON API and the CLI
const (
	FieldRoleName     = "role_name"
	FieldJobLevel     = "job_level"
	FieldRolePurpose  = "role_purpose"
	FieldBenchmarkIDs = "benchmark_ids"
)

// Form holds the raw values of the input form before parsing
type Form struct {
	RoleName     string `json:"role_name"`
	JobLevel     string `json:"job_level"`
	RolePurpose  string `json:"role_purpose"`
	BenchmarkIDs string `json:"benchmark_ids"`
}

// DefaultForm returns the values the dashboard form is pre-filled with
func DefaultForm() Form {
	return Form{
		RoleName:     "Data Analyst",
		JobLevel:     string(types.LevelJunior),
		RolePurpose:  "Analyze business and operational data.",
		BenchmarkIDs: "1001,1002,1003",
	}
}

// FormFromValues reads a submitted form. Absent fields fall back to DefaultForm;
// fields that are present but empty stay empty.
func FormFromValues(values url.Values) Form {
	form := DefaultForm()
	if _, ok := values[FieldRoleName]; ok {
		form.RoleName = values.Get(FieldRoleName)
	}
	if _, ok := values[FieldJobLevel]; ok {
		form.JobLevel = values.Get(FieldJobLevel)
	}
	if _, ok := values[FieldRolePurpose]; ok {
		form.RolePurpose = values.Get(FieldRolePurpose)
	}
	if _, ok := values[FieldBenchmarkIDs]; ok {
		form.BenchmarkIDs = values.Get(FieldBenchmarkIDs)
	}
	return form
}

// Collect turns the raw form into a JobRequest.
// Only the job level is checked; malformed benchmark ids are dropped silently
// and an empty id list is passed through.
func (f Form) Collect() (*types.JobRequest, error) {
	level := types.JobLevel(strings.TrimSpace(f.JobLevel))
	if !level.Valid() {
		return nil, &ValidationError{
			Field:   FieldJobLevel,
			Message: "must be one of Junior, Mid, Senior",
		}
	}

	req := &types.JobRequest{
		RoleName:     strings.TrimSpace(f.RoleName),
		JobLevel:     level,
		RolePurpose:  CleanText(f.RolePurpose),
		BenchmarkIDs: ParseBenchmarkIDs(f.BenchmarkIDs),
	}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Field: FieldJobLevel, Message: err.Error()}
	}
	return req, nil
}

// CollectForm reads and collects a submitted form in one step
func CollectForm(values url.Values) (*types.JobRequest, error) {
	return FormFromValues(values).Collect()
}
