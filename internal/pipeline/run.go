// Package pipeline orchestrates one talent-match run from the submitted
// role profile to the ranked report.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/sqltemplate"
	"github.com/jonathan/talent-match/internal/types"
)

// Stage names, also used as progress event steps
const (
	StageRegistered    = "registered"
	StageQueryRendered = "query_rendered"
	StageResults       = "results"
	StageHistogram     = "histogram"
	StageNarrative     = "narrative"
	StageComplete      = "complete"
)

// EmptyResultWarning is shown when the match query returns no rows
const EmptyResultWarning = "No results returned. Check SQL logic or parameters."

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Registrar records the job and hands back its generated id
type Registrar interface {
	RegisterJob(ctx context.Context, req *types.JobRequest) (int64, error)
}

// Executor runs the rendered match query
type Executor interface {
	RunQuery(ctx context.Context, query string, args ...any) (*types.Table, error)
}

// Narrator writes the summary. Failures are carried in the returned Narrative.
type Narrator interface {
	Generate(ctx context.Context, req *types.JobRequest, ranked []types.MatchResult) *types.Narrative
}

// Config holds the run settings that do not change between requests
type Config struct {
	SQLAssetPath  string
	HistogramBins int
	NameColumn    string
	RateColumn    string
}

// Pipeline runs the stages in order. Only one run may be active at a time.
type Pipeline struct {
	registrar Registrar
	executor  Executor
	narrator  Narrator
	config    Config
	gate      *semaphore.Weighted
	logger    *zap.SugaredLogger
}

// New creates a pipeline. A nil narrator disables the summary stage.
func New(registrar Registrar, executor Executor, narrator Narrator, config Config, logger *zap.SugaredLogger) *Pipeline {
	if config.HistogramBins <= 0 {
		config.HistogramBins = ranking.DefaultBins
	}
	if config.NameColumn == "" {
		config.NameColumn = ranking.NameColumn
	}
	if config.RateColumn == "" {
		config.RateColumn = ranking.RateColumn
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Pipeline{
		registrar: registrar,
		executor:  executor,
		narrator:  narrator,
		config:    config,
		gate:      semaphore.NewWeighted(1),
		logger:    logger,
	}
}

// Run executes a run without progress reporting
func (p *Pipeline) Run(ctx context.Context, req *types.JobRequest) (*types.Report, error) {
	return p.RunWithProgress(ctx, req, nil)
}

// RunWithProgress executes register, render, query, rank, histogram and
// narrative in order, reporting each finished stage to onProgress.
//
// On a fatal error the report built so far is returned alongside the error
// (nil if registration never produced an id). An empty result set is not an
// error: the report carries EmptyResultWarning and the histogram and
// narrative stages are skipped.
func (p *Pipeline) RunWithProgress(ctx context.Context, req *types.JobRequest, onProgress ProgressCallback) (*types.Report, error) {
	if !p.gate.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer p.gate.Release(1)

	r := &run{id: uuid.NewString(), onProgress: onProgress}
	log := p.logger.With("run_id", r.id)
	start := time.Now()

	jobID, err := p.registrar.RegisterJob(ctx, req)
	if err != nil {
		log.Errorw("Job registration failed", "error", err)
		return nil, &StageError{Stage: StageRegistered, Err: err}
	}
	report := &types.Report{JobID: jobID, Request: *req}
	log = log.With("job_id", jobID)
	r.emit(StageRegistered, fmt.Sprintf("Created Job Vacancy ID: %d", jobID), jobID)

	tmpl, err := sqltemplate.Load(p.config.SQLAssetPath)
	if err != nil {
		return report, &StageError{Stage: StageQueryRendered, Err: err}
	}
	query, args, err := sqltemplate.Render(tmpl, sqltemplate.Params{
		JobID:        jobID,
		RoleName:     req.RoleName,
		RoleLevel:    string(req.JobLevel),
		RolePurpose:  req.RolePurpose,
		BenchmarkIDs: req.BenchmarkIDs,
	})
	if err != nil {
		return report, &StageError{Stage: StageQueryRendered, Err: err}
	}
	r.emit(StageQueryRendered, fmt.Sprintf("Rendered match query with %d parameters", len(args)), nil)

	table, err := p.executor.RunQuery(ctx, query, args...)
	if err != nil {
		log.Errorw("Match query failed", "error", err)
		return report, &StageError{Stage: StageResults, Err: fmt.Errorf("failed to run match query: %w", err)}
	}
	if table.Empty() {
		log.Warnw("Match query returned no rows")
		report.Warning = EmptyResultWarning
		r.emit(StageResults, EmptyResultWarning, nil)
		r.emit(StageComplete, "Run finished without results", report)
		return report, nil
	}

	results, err := ranking.FromTable(table, p.config.NameColumn, p.config.RateColumn)
	if err != nil {
		return report, &StageError{Stage: StageResults, Err: err}
	}
	report.Ranked = ranking.Rank(results)
	log.Infow("Match query returned results", "rows", len(report.Ranked))
	r.emit(StageResults, fmt.Sprintf("Ranked %d employees", len(report.Ranked)), report.Ranked)

	report.Histogram = ranking.Histogram(report.Ranked, p.config.HistogramBins)
	r.emit(StageHistogram, fmt.Sprintf("Bucketed match rates into %d bins", len(report.Histogram)), report.Histogram)

	if p.narrator != nil {
		report.Narrative = p.narrator.Generate(ctx, req, report.Ranked)
		msg := "AI Summary generated"
		if report.Narrative.Failed() {
			msg = report.Narrative.Err
		}
		r.emit(StageNarrative, msg, report.Narrative)
	}

	log.Infow("Run complete", "duration_ms", time.Since(start).Milliseconds())
	r.emit(StageComplete, "Run complete", report)
	return report, nil
}

// run carries per-invocation progress state
type run struct {
	id         string
	onProgress ProgressCallback
}

// emit calls the progress callback if configured
func (r *run) emit(step, message string, content any) {
	if r.onProgress != nil {
		r.onProgress(ProgressEvent{Step: step, Message: message, RunID: r.id, Content: content})
	}
}
