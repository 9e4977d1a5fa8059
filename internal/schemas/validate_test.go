package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_RunRequest(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "full", doc: `{"role_name":"Analyst","job_level":"Mid","role_purpose":"x","benchmark_ids":"1,2"}`},
		{name: "empty object", doc: `{}`},
		{name: "bad level", doc: `{"job_level":"Principal"}`, wantErr: "job_level"},
		{name: "ids as array", doc: `{"benchmark_ids":[1,2]}`, wantErr: "benchmark_ids"},
		{name: "unknown field", doc: `{"weights":{}}`, wantErr: "weights"},
		{name: "not json", doc: `{"role_name":`, wantErr: "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(RunRequest, []byte(tt.doc))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Contains(t, ve.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Report(t *testing.T) {
	valid := `{
		"job_vacancy_id": 4,
		"request": {"role_name":"A","job_level":"Junior","role_purpose":"p","benchmark_ids":[1001]},
		"ranked": [{"employee_name":"Dewi","final_match_rate":91.5}],
		"histogram": [{"lower":91.5,"upper":91.5,"count":1}],
		"narrative": {"text":"ok"}
	}`
	assert.NoError(t, Validate(Report, []byte(valid)))

	err := Validate(Report, []byte(`{"job_vacancy_id":"4","request":{},"ranked":[]}`))
	assert.Error(t, err)
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", []byte(`{}`))
	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))
}
