package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bububa/medagent/agents"
	"github.com/bububa/medagent/components/imaging"
	"github.com/bububa/medagent/config"
	"github.com/bububa/medagent/internal/logger"
	"github.com/bububa/medagent/pipeline"
	"github.com/bububa/medagent/tools"
	"github.com/bububa/medagent/tools/searxng"
	"github.com/bububa/medagent/tools/tavily"
	"github.com/bububa/medagent/tools/webscraper"
)

// app is the process wide runtime, built once per command
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	client   *agents.Client
	runtime  *pipeline.Runtime
	pipeline *pipeline.Pipeline
	registry *prometheus.Registry
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath, opts.envFiles...)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("reveal-reasoning") {
		cfg.Output.RevealReasoning = opts.revealReasoning
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	client, err := agents.NewClient(ctx, agents.ClientConfig{
		Provider: agents.Provider(cfg.LLM.Provider),
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.LLM.Provider, err)
	}
	searchTool, err := newSearchTool(cfg.Search, log)
	if err != nil {
		client.Close()
		return nil, err
	}
	rtOpts := []pipeline.RuntimeOption{
		pipeline.WithModels(cfg.LLM.Models...),
		pipeline.WithDefaultModel(cfg.LLM.DefaultModel),
		pipeline.WithTemperature(cfg.LLM.Temperature),
		pipeline.WithMaxTokens(cfg.LLM.MaxTokens),
		pipeline.WithMaxToolRounds(cfg.Research.MaxToolRounds),
		pipeline.WithLanguage(cfg.Output.Language),
		pipeline.WithSearchTool(searchTool),
		pipeline.WithRuntimeLogger(log),
	}
	if cfg.Research.FetchPages {
		fetchTool, err := tools.NewFunction[webscraper.Input, webscraper.Output](
			webscraper.New(webscraper.WithToolOptions(tools.WithLogger(log))),
		)
		if err != nil {
			client.Close()
			return nil, err
		}
		rtOpts = append(rtOpts, pipeline.WithFetchTool(fetchTool))
	}
	rt := pipeline.NewRuntime(client, rtOpts...)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	preparer := imaging.New(
		imaging.WithTargetWidth(cfg.Image.TargetWidth),
		imaging.WithMaxPixels(cfg.Image.MaxPixels),
		imaging.WithTempDir(cfg.Image.TempDir),
		imaging.WithLogger(log),
	)
	p := pipeline.New(preparer, pipeline.NewAnalyst(rt), pipeline.NewResearcher(rt),
		pipeline.WithReasoning(cfg.Output.RevealReasoning),
		pipeline.WithTimeout(cfg.Request.Timeout),
		pipeline.WithMetrics(pipeline.NewMetrics(registry)),
		pipeline.WithLogger(log),
	)
	log.Debug("runtime ready",
		zap.String("provider", cfg.LLM.Provider),
		zap.Strings("models", cfg.LLM.Models),
		zap.String("search", cfg.Search.Provider),
		zap.Bool("fetch_pages", cfg.Research.FetchPages))
	return &app{
		cfg:      cfg,
		log:      log,
		client:   client,
		runtime:  rt,
		pipeline: p,
		registry: registry,
	}, nil
}

func (a *app) Close() {
	if err := a.client.Close(); err != nil {
		a.log.Warn("close client", zap.Error(err))
	}
	_ = a.log.Sync()
}

func newSearchTool(cfg config.SearchConfig, log *zap.Logger) (tools.Callable, error) {
	switch cfg.Provider {
	case "searxng":
		fn, err := tools.NewFunction[searxng.Input, searxng.Output](searxng.New(
			searxng.WithBaseURL(cfg.BaseURL),
			searxng.WithMaxResults(cfg.MaxResults),
			searxng.WithEngines(cfg.Engines...),
			searxng.WithToolOptions(tools.WithLogger(log)),
		))
		if err != nil {
			return nil, err
		}
		return fn, nil
	default:
		opts := []tavily.Option{
			tavily.WithAPIKey(cfg.APIKey),
			tavily.WithMaxResults(cfg.MaxResults),
			tavily.WithToolOptions(tools.WithLogger(log)),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, tavily.WithBaseURL(cfg.BaseURL))
		}
		fn, err := tools.NewFunction[tavily.Input, tavily.Output](tavily.New(opts...))
		if err != nil {
			return nil, err
		}
		return fn, nil
	}
}
