package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/llm"
	"github.com/jonathan/talent-match/internal/logger"
	"github.com/jonathan/talent-match/internal/narrative"
	"github.com/jonathan/talent-match/internal/pipeline"
	"github.com/jonathan/talent-match/internal/types"
)

// app holds the process-wide resources shared by every command
type app struct {
	cfg      *config.Config
	logger   *zap.SugaredLogger
	db       *db.DB
	llm      llm.Client
	pipeline *pipeline.Pipeline
}

// loadConfig resolves configuration and builds the logger. Flags win over
// the file and the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, *zap.SugaredLogger, error) {
	v, err := config.NewViper()
	if err != nil {
		return nil, nil, err
	}
	if err := v.BindPFlag("log.debug", cmd.Flags().Lookup("debug")); err != nil {
		return nil, nil, err
	}
	if err := v.BindPFlag("log.json", cmd.Flags().Lookup("json")); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, nil, err
	}

	base, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, base.Sugar(), nil
}

// newApp connects to the database and wires the pipeline
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: log, db: database}

	var narrator pipeline.Narrator
	client, err := llm.NewClient(ctx, &llm.Config{
		Provider: llm.Provider(cfg.LLM.Provider),
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Referer:  cfg.LLM.Referer,
		Timeout:  cfg.LLM.Timeout,
	}, log)
	if err != nil {
		// Runs still work; every narrative reports why it is missing.
		log.Warnw("LLM client unavailable", "provider", cfg.LLM.Provider, "error", err)
		narrator = unavailableNarrator{err: err}
	} else {
		a.llm = client
		narrator = narrative.NewGenerator(client, cfg.TopN, log)
	}

	a.pipeline = pipeline.New(database, database, narrator, pipeline.Config{
		SQLAssetPath:  cfg.SQLAsset,
		HistogramBins: cfg.HistogramBins,
	}, log)

	return a, nil
}

// Close releases the LLM client and the database pool
func (a *app) Close() {
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			a.logger.Warnw("Failed to close LLM client", "error", err)
		}
	}
	a.db.Close()
	_ = a.logger.Sync()
}

// unavailableNarrator reports a client construction error as the narrative
type unavailableNarrator struct {
	err error
}

func (u unavailableNarrator) Generate(context.Context, *types.JobRequest, []types.MatchResult) *types.Narrative {
	return narrative.Failure(u.err)
}
