// Package narrative writes the AI summary of a finished ranking.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/llm"
	"github.com/jonathan/talent-match/internal/prompts"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/types"
)

const (
	// DefaultTopN is how many ranked rows are shown to the model
	DefaultTopN = 10
	// WordCount is the requested summary length
	WordCount = 150

	promptFile = "narrative.json"
)

// record is the serialized form of one ranked row inside the prompt
type record struct {
	EmployeeName   string   `json:"employee_name"`
	FinalMatchRate *float64 `json:"final_match_rate"`
}

// Generator produces a narrative summary with a single best-effort LLM call
type Generator struct {
	client llm.Client
	topN   int
	logger *zap.SugaredLogger
}

// NewGenerator creates a generator. topN <= 0 selects DefaultTopN.
func NewGenerator(client llm.Client, topN int, logger *zap.SugaredLogger) *Generator {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Generator{client: client, topN: topN, logger: logger}
}

// BuildPrompt serializes the top ranked rows into the system and user messages
func BuildPrompt(req *types.JobRequest, ranked []types.MatchResult, topN int) (llm.ChatRequest, error) {
	top := ranking.Top(ranked, topN)
	records := make([]record, len(top))
	for i, r := range top {
		records[i] = record{EmployeeName: r.EmployeeName}
		if r.HasRate {
			rate := r.MatchRate
			records[i].FinalMatchRate = &rate
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return llm.ChatRequest{}, errors.Wrap(err, "failed to serialize ranking data")
	}

	system, err := prompts.Get(promptFile, "system")
	if err != nil {
		return llm.ChatRequest{}, err
	}
	template, err := prompts.Get(promptFile, "summary")
	if err != nil {
		return llm.ChatRequest{}, err
	}

	return llm.ChatRequest{
		SystemPrompt: system,
		UserPrompt: prompts.Format(template, map[string]string{
			"RoleName":    req.RoleName,
			"RolePurpose": req.RolePurpose,
			"RankingData": string(data),
			"WordCount":   strconv.Itoa(WordCount),
		}),
	}, nil
}

// Generate asks the model for a summary. It never returns an error: any
// failure is reported in Narrative.Err so the caller can show it next to the
// results it already has.
func (g *Generator) Generate(ctx context.Context, req *types.JobRequest, ranked []types.MatchResult) *types.Narrative {
	if g.client == nil {
		return &types.Narrative{Err: "AI Summary failed: LLM client not configured"}
	}

	chatReq, err := BuildPrompt(req, ranked, g.topN)
	if err != nil {
		return Failure(err)
	}

	resp, err := g.client.Chat(ctx, chatReq)
	if err != nil {
		g.logger.Warnw("AI Summary failed", "model", g.client.Model(), "error", err)
		return Failure(err)
	}

	g.logger.Infow("AI Summary generated", "model", g.client.Model(), "chars", len(resp.Content))
	return &types.Narrative{Text: resp.Content}
}

// Failure renders err as the message shown in place of the summary.
// Non-200 answers carry their status code and body.
func Failure(err error) *types.Narrative {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return &types.Narrative{Err: fmt.Sprintf("AI Summary failed (%d): %s", apiErr.StatusCode, apiErr.Body)}
	}
	return &types.Narrative{Err: fmt.Sprintf("AI Summary failed: %v", err)}
}

// CheckPrompts verifies the embedded prompt file carries every key BuildPrompt needs
func CheckPrompts() error {
	keys, err := prompts.List(promptFile)
	if err != nil {
		return err
	}
	for _, want := range []string{"system", "summary"} {
		if !slices.Contains(keys, want) {
			return errors.Newf("prompt %q missing from %s", want, promptFile)
		}
	}
	return nil
}
