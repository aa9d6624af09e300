package tools

import "context"

// Config holds the name, description and hooks shared by every tool
type Config struct {
	// title the default title of the tool, used as function name when exposed to a model
	title string
	// description the default description of the tool
	description string
	startHook   func(context.Context, ITool, any)
	endHook     func(context.Context, ITool, any, any)
	errorHook   func(context.Context, ITool, any, error)
}

func (c *Config) SetTitle(v string) {
	c.title = v
}

func (c Config) Title() string {
	return c.title
}

func (c *Config) SetDescription(v string) {
	c.description = v
}

func (c Config) Description() string {
	return c.description
}

func (c *Config) SetStartHook(fn func(context.Context, ITool, any)) {
	c.startHook = fn
}

func (c *Config) SetEndHook(fn func(context.Context, ITool, any, any)) {
	c.endHook = fn
}

func (c *Config) SetErrorHook(fn func(context.Context, ITool, any, error)) {
	c.errorHook = fn
}

func (c Config) StartHook() func(context.Context, ITool, any) {
	return c.startHook
}

func (c Config) EndHook() func(context.Context, ITool, any, any) {
	return c.endHook
}

func (c Config) ErrorHook() func(context.Context, ITool, any, error) {
	return c.errorHook
}
