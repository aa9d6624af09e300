package agents

import (
	"go.uber.org/zap"

	"github.com/bububa/medagent/components/systemprompt"
	"github.com/bububa/medagent/tools"
)

type Option func(a *Config)

func WithClient(clt *Client) Option {
	return func(c *Config) {
		c.client = clt
	}
}

func WithSystemPromptGenerator(g systemprompt.Generator) Option {
	return func(c *Config) {
		c.systemPromptGenerator = g
	}
}

func WithModel(model string) Option {
	return func(c *Config) {
		c.model = model
	}
}

func WithTemperature(temperature float32) Option {
	return func(c *Config) {
		c.temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(c *Config) {
		c.maxTokens = maxTokens
	}
}

func WithName(name string) Option {
	return func(c *Config) {
		c.name = name
	}
}

// WithTools exposes tools to the model through function calling
func WithTools(list ...tools.Callable) Option {
	return func(c *Config) {
		c.tools = append(c.tools, list...)
	}
}

// WithMaxToolRounds bounds the function calling loop of one run
func WithMaxToolRounds(n int) Option {
	return func(c *Config) {
		c.maxToolRounds = n
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}
