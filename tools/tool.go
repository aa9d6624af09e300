package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/bububa/medagent/schema"
)

// ErrUnavailable is returned when a tool can not be used, e.g. missing credential
var ErrUnavailable = errors.New("tool unavailable")

type ITool interface {
	SetTitle(string)
	Title() string
	SetDescription(string)
	Description() string
	SetStartHook(fn func(context.Context, ITool, any))
	SetEndHook(fn func(context.Context, ITool, any, any))
	SetErrorHook(fn func(context.Context, ITool, any, error))
	StartHook() func(context.Context, ITool, any)
	EndHook() func(context.Context, ITool, any, any)
	ErrorHook() func(context.Context, ITool, any, error)
}

type Tool[I schema.Schema, O schema.Schema] interface {
	ITool
	Run(context.Context, *I, *O) error
}

// Checker is implemented by tools which need setup before use
type Checker interface {
	Ready() error
}

// Ready reports whether tool is usable. Tools without a Checker are always ready.
func Ready(tool any) error {
	if tool == nil {
		return fmt.Errorf("%w: no tool configured", ErrUnavailable)
	}
	if c, ok := tool.(Checker); ok {
		return c.Ready()
	}
	return nil
}

// Callable is a tool exposed to a model through function calling
type Callable interface {
	Definition() Definition
	Call(ctx context.Context, arguments string) (string, error)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Function adapts a typed Tool into a Callable
type Function[I schema.Schema, O schema.Schema] struct {
	tool       Tool[I, O]
	definition Definition
}

var _ Callable = (*Function[schema.Input, schema.String])(nil)

// NewFunction returns a new Function, parameters schema is reflected from I
func NewFunction[I schema.Schema, O schema.Schema](tool Tool[I, O]) (*Function[I, O], error) {
	params, err := Parameters[I]()
	if err != nil {
		return nil, err
	}
	return &Function[I, O]{
		tool: tool,
		definition: Definition{
			Name:        tool.Title(),
			Description: tool.Description(),
			Parameters:  params,
		},
	}, nil
}

// Tool returns the wrapped tool
func (f *Function[I, O]) Tool() Tool[I, O] {
	return f.tool
}

func (f *Function[I, O]) Definition() Definition {
	return f.definition
}

// Ready delegates to the wrapped tool
func (f *Function[I, O]) Ready() error {
	return Ready(f.tool)
}

// Call decodes the model arguments, validates and runs the tool. Output is stringified for the model.
func (f *Function[I, O]) Call(ctx context.Context, arguments string) (string, error) {
	in := new(I)
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), in); err != nil {
			return "", fmt.Errorf("invalid %s arguments: %w", f.definition.Name, err)
		}
	}
	if err := validate.Struct(in); err != nil {
		return "", fmt.Errorf("invalid %s arguments: %w", f.definition.Name, err)
	}
	if fn := f.tool.StartHook(); fn != nil {
		fn(ctx, f.tool, in)
	}
	out := new(O)
	if err := f.tool.Run(ctx, in, out); err != nil {
		if fn := f.tool.ErrorHook(); fn != nil {
			fn(ctx, f.tool, in, err)
		}
		return "", err
	}
	if fn := f.tool.EndHook(); fn != nil {
		fn(ctx, f.tool, in, out)
	}
	return schema.Stringify(*out), nil
}
