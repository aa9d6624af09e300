package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bububa/medagent/components"
	"github.com/bububa/medagent/components/systemprompt"
	"github.com/bububa/medagent/components/systemprompt/cot"
	"github.com/bububa/medagent/schema"
	"github.com/bububa/medagent/tools"
)

// DefaultMaxToolRounds is the default bound of the function calling loop
const DefaultMaxToolRounds = 5

// Config represents general agents configuration
type Config struct {
	// client Client for interacting with the language model
	client *Client
	// systemPromptGenerator Component for generating system prompts.
	systemPromptGenerator systemprompt.Generator
	// model llm model
	model string
	// temperature Temperature for response generation, typically ranging from 0 to 1.
	temperature float32
	// maxTokens Maximum number of tokens allowed in the response
	maxTokens int
	// name is Agent name presentation
	name string
	// tools callable by the model
	tools []tools.Callable
	// maxToolRounds bounds tool calling rounds, the last round forbids tool calls
	maxToolRounds int
	logger        *zap.Logger
}

// request is the provider agnostic chat request
type request struct {
	model          string
	temperature    float32
	maxTokens      int
	system         string
	messages       []components.Message
	tools          []tools.Definition
	toolChoiceNone bool
}

// reply is the provider agnostic assistant answer
type reply struct {
	content string
	calls   []components.ToolCall
}

// Agent class for chat agents.
// This class provides the core functionality for handling chat interactions, including managing memory,
// generating system prompts, calling tools, and obtaining responses from a language model.
// An Agent keeps no state between runs, one instance may serve concurrent runs.
type Agent[I schema.Schema, O schema.Schema] struct {
	Config
	startHook func(context.Context, *Agent[I, O], *I)
	endHook   func(context.Context, *Agent[I, O], *I, *O, *components.LLMResponse)
	errorHook func(context.Context, *Agent[I, O], *I, *components.LLMResponse, error)
}

// NewAgent initializes the Agent
func NewAgent[I schema.Schema, O schema.Schema](options ...Option) *Agent[I, O] {
	ret := new(Agent[I, O])
	for _, opt := range options {
		opt(&ret.Config)
	}
	if ret.systemPromptGenerator == nil {
		ret.systemPromptGenerator = cot.New()
	}
	if ret.maxToolRounds <= 0 {
		ret.maxToolRounds = DefaultMaxToolRounds
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	return ret
}

func (a *Agent[I, O]) SetStartHook(fn func(context.Context, *Agent[I, O], *I)) {
	a.startHook = fn
}

func (a *Agent[I, O]) SetEndHook(fn func(context.Context, *Agent[I, O], *I, *O, *components.LLMResponse)) {
	a.endHook = fn
}

func (a *Agent[I, O]) SetErrorHook(fn func(context.Context, *Agent[I, O], *I, *components.LLMResponse, error)) {
	a.errorHook = fn
}

// Run runs the chat agent with the given user input synchronously.
// llmResp is optional, it receives the last provider response with usage summed over the run.
func (a *Agent[I, O]) Run(ctx context.Context, userInput *I, output *O, llmResp *components.LLMResponse) error {
	if fn := a.startHook; fn != nil {
		fn(ctx, a, userInput)
	}
	if err := a.run(ctx, userInput, output, llmResp); err != nil {
		if fn := a.errorHook; fn != nil {
			fn(ctx, a, userInput, llmResp, err)
		}
		return err
	}
	if fn := a.endHook; fn != nil {
		fn(ctx, a, userInput, output, llmResp)
	}
	return nil
}

func (a *Agent[I, O]) run(ctx context.Context, userInput *I, output *O, llmResp *components.LLMResponse) error {
	if a.client == nil {
		return ErrNoClient
	}
	callables := make(map[string]tools.Callable, len(a.tools))
	definitions := make([]tools.Definition, 0, len(a.tools))
	for _, tool := range a.tools {
		if err := tools.Ready(tool); err != nil {
			return err
		}
		def := tool.Definition()
		callables[def.Name] = tool
		definitions = append(definitions, def)
	}
	memory := components.NewMemory().NewTurn()
	if userInput != nil {
		memory.NewMessage(components.UserRole, *userInput)
	}
	req := &request{
		model:       a.model,
		temperature: a.temperature,
		maxTokens:   a.maxTokens,
		system:      a.systemPromptGenerator.Generate(),
		tools:       definitions,
	}
	if llmResp == nil {
		llmResp = new(components.LLMResponse)
	}
	logger := a.logger.With(zap.String("agent", a.name), zap.String("model", a.model), zap.String("turn", memory.TurnID()))
	for round := 0; ; round++ {
		req.messages = memory.History()
		req.toolChoiceNone = round >= a.maxToolRounds
		rep, err := a.client.chat(ctx, req, llmResp)
		if err != nil {
			return err
		}
		if len(rep.calls) == 0 || req.toolChoiceNone {
			if strings.TrimSpace(rep.content) == "" {
				return fmt.Errorf("%s: %w", a.name, ErrEmptyResponse)
			}
			memory.NewMessage(components.AssistantRole, schema.String(rep.content))
			return decodeOutput(rep.content, output)
		}
		memory.Append(components.NewToolCallsMessage(schema.String(rep.content), rep.calls))
		callbacks := make([]components.ToolCallback, 0, len(rep.calls))
		for _, call := range rep.calls {
			callbacks = append(callbacks, a.callTool(ctx, logger, callables, call))
		}
		memory.Append(components.NewToolCallbacksMessage(callbacks))
	}
}

// callTool runs one tool call, failures are reported back to the model
func (a *Agent[I, O]) callTool(ctx context.Context, logger *zap.Logger, callables map[string]tools.Callable, call components.ToolCall) components.ToolCallback {
	ret := components.ToolCallback{ID: call.ID, Name: call.Name}
	tool, ok := callables[call.Name]
	if !ok {
		logger.Warn("unknown tool requested", zap.String("tool", call.Name))
		ret.Content = fmt.Sprintf("unknown tool: %s", call.Name)
		ret.IsError = true
		return ret
	}
	logger.Debug("tool call", zap.String("tool", call.Name), zap.String("arguments", call.Arguments))
	content, err := tool.Call(ctx, call.Arguments)
	if err != nil {
		logger.Warn("tool call failed", zap.String("tool", call.Name), zap.Error(err))
		ret.Content = err.Error()
		ret.IsError = true
		return ret
	}
	ret.Content = content
	return ret
}

func decodeOutput[O any](content string, output *O) error {
	if v, ok := any(output).(schema.Unmarshaler); ok {
		return v.Unmarshal([]byte(content))
	}
	return json.Unmarshal([]byte(content), output)
}

// RegisterSystemPromptContextProvider registers a new context provider
func (a *Agent[I, O]) RegisterSystemPromptContextProvider(provider systemprompt.ContextProvider) {
	a.systemPromptGenerator.AddContextProviders(provider)
}
