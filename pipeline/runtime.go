package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/bububa/medagent/agents"
	"github.com/bububa/medagent/tools"
)

var (
	// ErrEmptyAnalysis is returned when research is requested without analysis text
	ErrEmptyAnalysis = errors.New("analysis text is empty")
	// ErrUnknownModel is returned for a model outside the configured set
	ErrUnknownModel = errors.New("unknown model")
)

// ModelSelection is a model id from the configured set, used by both agents of one invocation
type ModelSelection string

// Runtime holds the read-only dependencies shared by every invocation.
// Build it once at start and pass it to the agents.
type Runtime struct {
	client        *agents.Client
	models        []string
	defaultModel  string
	temperature   float32
	maxTokens     int
	maxToolRounds int
	language      string
	searchTool    tools.Callable
	fetchTool     tools.Callable
	logger        *zap.Logger
	now           func() time.Time
}

type RuntimeOption func(r *Runtime)

// WithModels set the selectable models, the first one is the default unless WithDefaultModel is given
func WithModels(models ...string) RuntimeOption {
	return func(r *Runtime) {
		r.models = models
	}
}

func WithDefaultModel(model string) RuntimeOption {
	return func(r *Runtime) {
		r.defaultModel = model
	}
}

func WithTemperature(temperature float32) RuntimeOption {
	return func(r *Runtime) {
		r.temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) RuntimeOption {
	return func(r *Runtime) {
		r.maxTokens = maxTokens
	}
}

func WithMaxToolRounds(n int) RuntimeOption {
	return func(r *Runtime) {
		r.maxToolRounds = n
	}
}

// WithLanguage set the language answers are written in
func WithLanguage(language string) RuntimeOption {
	return func(r *Runtime) {
		r.language = language
	}
}

// WithSearchTool set the web search tool of the research agent
func WithSearchTool(tool tools.Callable) RuntimeOption {
	return func(r *Runtime) {
		r.searchTool = tool
	}
}

// WithFetchTool set the optional page fetch tool of the research agent
func WithFetchTool(tool tools.Callable) RuntimeOption {
	return func(r *Runtime) {
		r.fetchTool = tool
	}
}

func WithRuntimeLogger(l *zap.Logger) RuntimeOption {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithClock overrides time.Now, the research agent is told the current date
func WithClock(now func() time.Time) RuntimeOption {
	return func(r *Runtime) {
		r.now = now
	}
}

// NewRuntime returns a new Runtime
func NewRuntime(clt *agents.Client, opts ...RuntimeOption) *Runtime {
	ret := &Runtime{
		client:   clt,
		language: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.defaultModel == "" && len(ret.models) > 0 {
		ret.defaultModel = ret.models[0]
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	if ret.now == nil {
		ret.now = time.Now
	}
	return ret
}

// Models returns the selectable models
func (r *Runtime) Models() []string {
	return slices.Clone(r.models)
}

// DefaultModel returns the model used when none is selected
func (r *Runtime) DefaultModel() string {
	return r.defaultModel
}

// Language returns the answer language
func (r *Runtime) Language() string {
	return r.language
}

// SelectModel validates id against the configured models, empty id selects the default
func (r *Runtime) SelectModel(id string) (ModelSelection, error) {
	if id == "" {
		id = r.defaultModel
	}
	if id == "" || !slices.Contains(r.models, id) {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return ModelSelection(id), nil
}

func (r *Runtime) agentOptions(name string, model ModelSelection) []agents.Option {
	return []agents.Option{
		agents.WithClient(r.client),
		agents.WithName(name),
		agents.WithModel(string(model)),
		agents.WithTemperature(r.temperature),
		agents.WithMaxTokens(r.maxTokens),
		agents.WithLogger(r.logger),
	}
}
