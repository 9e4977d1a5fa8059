package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-match/internal/llm"
	"github.com/jonathan/talent-match/internal/types"
)

type fakeClient struct {
	resp *llm.ChatResponse
	err  error
	got  []llm.ChatRequest
}

func (f *fakeClient) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.got = append(f.got, req)
	return f.resp, f.err
}

func (f *fakeClient) Model() string { return "fake/model" }
func (f *fakeClient) Close() error  { return nil }

func sampleRequest() *types.JobRequest {
	return &types.JobRequest{RoleName: "Data Analyst", JobLevel: types.LevelMid, RolePurpose: "Analyze data."}
}

func sampleRanked(n int) []types.MatchResult {
	out := make([]types.MatchResult, n)
	for i := range out {
		out[i] = types.MatchResult{EmployeeName: "emp" + string(rune('A'+i)), MatchRate: float64(100 - i), HasRate: true}
	}
	return out
}

func TestBuildPrompt(t *testing.T) {
	ranked := sampleRanked(12)
	ranked[1].HasRate = false

	req, err := BuildPrompt(sampleRequest(), ranked, DefaultTopN)
	require.NoError(t, err)

	assert.Equal(t, "You are an expert HR data analyst writing a short insight summary.", req.SystemPrompt)
	assert.Contains(t, req.UserPrompt, "Role: Data Analyst")
	assert.Contains(t, req.UserPrompt, "Purpose: Analyze data.")
	assert.Contains(t, req.UserPrompt, "150-word summary")

	start := strings.Index(req.UserPrompt, "[")
	end := strings.LastIndex(req.UserPrompt, "]")
	require.True(t, start >= 0 && end > start)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.UserPrompt[start:end+1]), &records))
	require.Len(t, records, DefaultTopN)
	assert.Equal(t, "empA", records[0]["employee_name"])
	assert.Equal(t, 100.0, records[0]["final_match_rate"])
	assert.Nil(t, records[1]["final_match_rate"])
}

func TestGenerate_Success(t *testing.T) {
	client := &fakeClient{resp: &llm.ChatResponse{Content: "Top talent excels at SQL."}}
	gen := NewGenerator(client, 3, nil)

	n := gen.Generate(context.Background(), sampleRequest(), sampleRanked(5))

	assert.Equal(t, "Top talent excels at SQL.", n.Text)
	assert.False(t, n.Failed())
	require.Len(t, client.got, 1)
	assert.Contains(t, client.got[0].UserPrompt, "empC")
	assert.NotContains(t, client.got[0].UserPrompt, "empD")
}

func TestGenerate_APIError(t *testing.T) {
	client := &fakeClient{err: &llm.APIError{StatusCode: 402, Body: `{"error":"insufficient credits"}`}}

	n := NewGenerator(client, 0, nil).Generate(context.Background(), sampleRequest(), sampleRanked(2))

	assert.True(t, n.Failed())
	assert.Empty(t, n.Text)
	assert.Equal(t, `AI Summary failed (402): {"error":"insufficient credits"}`, n.Err)
}

func TestGenerate_TransportError(t *testing.T) {
	client := &fakeClient{err: errors.New("dial tcp: connection refused")}

	n := NewGenerator(client, 0, nil).Generate(context.Background(), sampleRequest(), sampleRanked(2))

	assert.Equal(t, "AI Summary failed: dial tcp: connection refused", n.Err)
}

func TestGenerate_NoClient(t *testing.T) {
	n := NewGenerator(nil, 0, nil).Generate(context.Background(), sampleRequest(), sampleRanked(1))
	assert.True(t, n.Failed())
}

// End to end against a simulated chat-completions endpoint
func TestGenerate_OpenRouterRoundTrip(t *testing.T) {
	status := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Strong analytical profiles."}}]}`))
			return
		}
		_, _ = w.Write([]byte(`upstream unavailable`))
	}))
	defer server.Close()

	client, err := llm.NewOpenRouterClient(llm.Config{APIKey: "k", BaseURL: server.URL}, nil)
	require.NoError(t, err)
	gen := NewGenerator(client, 0, nil)

	n := gen.Generate(context.Background(), sampleRequest(), sampleRanked(3))
	assert.Equal(t, "Strong analytical profiles.", n.Text)

	status = http.StatusServiceUnavailable
	n = gen.Generate(context.Background(), sampleRequest(), sampleRanked(3))
	assert.Contains(t, n.Err, "503")
	assert.Contains(t, n.Err, "upstream unavailable")
}

func TestCheckPrompts(t *testing.T) {
	assert.NoError(t, CheckPrompts())
}
