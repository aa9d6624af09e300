package pipeline

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bububa/medagent/components"
	"github.com/bububa/medagent/components/formatter"
	"github.com/bububa/medagent/components/imaging"
)

const (
	AnalysisHeader = "### 🩻 Image Analysis Result"
	ResearchHeader = "### 📚 Supplementary Research"
)

// Result is the outcome of one invocation
type Result struct {
	// Document is the markdown document shown to the user
	Document     string
	Analysis     string
	Research     string
	Model        ModelSelection
	InvocationID string
	Usage        *components.LLMUsage
}

// Pipeline sequences image preparation, analysis, research and formatting.
// It holds no capability specific logic.
type Pipeline struct {
	preparer      *imaging.Preparer
	analyst       AnalysisCapability
	researcher    ResearchCapability
	formatOptions []formatter.Option
	timeout       time.Duration
	metrics       *Metrics
	logger        *zap.Logger
}

type Option func(p *Pipeline)

// WithReasoning reveals reasoning spans of the model answers in the document
func WithReasoning(reveal bool) Option {
	return func(p *Pipeline) {
		p.formatOptions = append(p.formatOptions, formatter.WithReasoning(reveal))
	}
}

// WithTimeout bounds one invocation, zero means no limit
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.timeout = d
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New returns a new Pipeline
func New(preparer *imaging.Preparer, analyst AnalysisCapability, researcher ResearchCapability, opts ...Option) *Pipeline {
	ret := &Pipeline{
		preparer:   preparer,
		analyst:    analyst,
		researcher: researcher,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	return ret
}

// Run prepares the uploaded image then runs the two agents
func (p *Pipeline) Run(ctx context.Context, raw *imaging.RawImage, model ModelSelection) (*Result, error) {
	return p.run(ctx, model, func(ctx context.Context) (*imaging.PreparedImage, error) {
		return p.preparer.Prepare(ctx, raw)
	})
}

// RunImage is Run for an already decoded image
func (p *Pipeline) RunImage(ctx context.Context, img image.Image, model ModelSelection) (*Result, error) {
	return p.run(ctx, model, func(ctx context.Context) (*imaging.PreparedImage, error) {
		return p.preparer.PrepareImage(ctx, img)
	})
}

func (p *Pipeline) run(ctx context.Context, model ModelSelection, prepare func(context.Context) (*imaging.PreparedImage, error)) (result *Result, err error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	usage := new(components.LLMUsage)
	ctx = withUsage(ctx, usage)
	logger := p.logger.With(zap.String("model", string(model)))
	start := time.Now()
	defer func() {
		p.metrics.observeRun(result, model, err)
		if err != nil {
			logger.Error("pipeline failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		}
	}()

	stageStart := time.Now()
	prepared, err := prepare(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare image: %w", err)
	}
	defer func() {
		if closeErr := prepared.Close(); closeErr != nil {
			logger.Warn("remove prepared image", zap.String("path", prepared.Path), zap.Error(closeErr))
		}
	}()
	p.metrics.observeStage(StagePrepare, model, time.Since(stageStart))
	logger = logger.With(zap.String("invocation", prepared.ID))
	logger.Info("image prepared", zap.Int("width", prepared.Width), zap.Int("height", prepared.Height))

	stageStart = time.Now()
	analysis, err := p.analyst.Analyze(ctx, prepared, model)
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}
	if strings.TrimSpace(analysis) == "" {
		return nil, fmt.Errorf("analyze image: %w", ErrEmptyAnalysis)
	}
	p.metrics.observeStage(StageAnalyze, model, time.Since(stageStart))
	if missing := MissingSections(analysis); len(missing) > 0 {
		logger.Warn("analysis is missing requested sections", zap.Strings("sections", missing))
	}
	logger.Info("image analyzed", zap.Int("length", len(analysis)))

	stageStart = time.Now()
	research, err := p.researcher.Research(ctx, analysis, model)
	if err != nil {
		return nil, fmt.Errorf("research: %w", err)
	}
	p.metrics.observeStage(StageResearch, model, time.Since(stageStart))
	logger.Info("research done", zap.Int("length", len(research)))

	stageStart = time.Now()
	result = &Result{
		Analysis:     formatter.Format(analysis, p.formatOptions...),
		Research:     formatter.Format(research, p.formatOptions...),
		Model:        model,
		InvocationID: prepared.ID,
		Usage:        usage,
	}
	result.Document = Document(result.Analysis, result.Research)
	p.metrics.observeStage(StageFormat, model, time.Since(stageStart))
	logger.Info("pipeline done", zap.Duration("elapsed", time.Since(start)), zap.Int("tokens", usage.Total()))
	return result, nil
}

// Document joins formatted analysis and research under the fixed headers
func Document(analysis string, research string) string {
	return fmt.Sprintf("%s\n%s\n\n---\n\n%s\n%s", AnalysisHeader, analysis, ResearchHeader, research)
}
