package tools

import (
	"context"

	"go.uber.org/zap"
)

type Option func(c *Config)

// WithTitle set the function name the model calls the tool by
func WithTitle(title string) Option {
	return func(c *Config) {
		c.SetTitle(title)
	}
}

func WithDescription(desc string) Option {
	return func(c *Config) {
		c.SetDescription(desc)
	}
}

func WithStartHook(fn func(context.Context, ITool, any)) Option {
	return func(c *Config) {
		c.SetStartHook(fn)
	}
}

func WithEndHook(fn func(context.Context, ITool, any, any)) Option {
	return func(c *Config) {
		c.SetEndHook(fn)
	}
}

func WithErrorHook(fn func(context.Context, ITool, any, error)) Option {
	return func(c *Config) {
		c.SetErrorHook(fn)
	}
}

// WithLogger installs hooks logging every call, its arguments and failures
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		c.SetStartHook(func(_ context.Context, t ITool, input any) {
			l.Info("tool call", zap.String("tool", t.Title()), zap.Any("input", input))
		})
		c.SetEndHook(func(_ context.Context, t ITool, _ any, _ any) {
			l.Debug("tool done", zap.String("tool", t.Title()))
		})
		c.SetErrorHook(func(_ context.Context, t ITool, _ any, err error) {
			l.Warn("tool failed", zap.String("tool", t.Title()), zap.Error(err))
		})
	}
}
