package tools_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bububa/medagent/schema"
	"github.com/bububa/medagent/tools"
)

type lookupInput struct {
	schema.Base
	Term  string   `json:"term" jsonschema:"title=term,description=Term to look up" validate:"required"`
	Kind  string   `json:"kind,omitempty" jsonschema:"enum=disease,enum=drug"`
	Limit int      `json:"limit,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

type lookupOutput struct {
	schema.Base
	Definition string `json:"definition"`
}

type lookupTool struct {
	tools.Config
	err error
}

func (t *lookupTool) Run(_ context.Context, in *lookupInput, out *lookupOutput) error {
	if t.err != nil {
		return t.err
	}
	out.Definition = in.Term + " is a medical term"
	return nil
}

func newLookupTool(opts ...tools.Option) *lookupTool {
	ret := new(lookupTool)
	for _, opt := range append([]tools.Option{tools.WithTitle("lookup"), tools.WithDescription("look up a term")}, opts...) {
		opt(&ret.Config)
	}
	return ret
}

func TestFunctionDefinition(t *testing.T) {
	fn, err := tools.NewFunction[lookupInput, lookupOutput](newLookupTool())
	require.NoError(t, err)
	def := fn.Definition()
	assert.Equal(t, "lookup", def.Name)
	assert.Equal(t, "look up a term", def.Description)

	params, err := def.Schema()
	require.NoError(t, err)
	assert.Equal(t, "object", params.Type)
	assert.Equal(t, []string{"term"}, params.Required)
	require.Contains(t, params.Properties, "term")
	assert.Equal(t, "string", params.Properties["term"].Type)
	assert.Equal(t, "Term to look up", params.Properties["term"].Description)
	assert.Equal(t, []string{"disease", "drug"}, params.Properties["kind"].Enum)
	assert.Equal(t, "integer", params.Properties["limit"].Type)
	assert.Equal(t, "array", params.Properties["tags"].Type)
	assert.Equal(t, "string", params.Properties["tags"].Items.Type)
	assert.NotContains(t, string(def.Parameters), "$schema")
}

func TestFunctionCallHooks(t *testing.T) {
	var events []string
	tool := newLookupTool(
		tools.WithStartHook(func(_ context.Context, tool tools.ITool, in any) {
			events = append(events, "start:"+tool.Title()+":"+in.(*lookupInput).Term)
		}),
		tools.WithEndHook(func(_ context.Context, _ tools.ITool, _ any, out any) {
			events = append(events, "end:"+out.(*lookupOutput).Definition)
		}),
		tools.WithErrorHook(func(_ context.Context, _ tools.ITool, _ any, err error) {
			events = append(events, "error:"+err.Error())
		}),
	)
	fn, err := tools.NewFunction[lookupInput, lookupOutput](tool)
	require.NoError(t, err)

	ret, err := fn.Call(context.Background(), `{"term":"pneumonia"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"definition":"pneumonia is a medical term"}`, ret)
	assert.Equal(t, []string{"start:lookup:pneumonia", "end:pneumonia is a medical term"}, events)

	events = nil
	tool.err = errors.New("backend down")
	_, err = fn.Call(context.Background(), `{"term":"pneumonia"}`)
	assert.EqualError(t, err, "backend down")
	assert.Equal(t, []string{"start:lookup:pneumonia", "error:backend down"}, events)
}

func TestWithLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tool := newLookupTool(tools.WithLogger(zap.New(core)))
	fn, err := tools.NewFunction[lookupInput, lookupOutput](tool)
	require.NoError(t, err)

	_, err = fn.Call(context.Background(), `{"term":"edema"}`)
	require.NoError(t, err)
	tool.err = errors.New("timeout")
	_, err = fn.Call(context.Background(), `{"term":"edema"}`)
	require.Error(t, err)

	var messages []string
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
		assert.Equal(t, "lookup", entry.ContextMap()["tool"])
	}
	assert.Equal(t, []string{"tool call", "tool done", "tool call", "tool failed"}, messages)
}

func TestFunctionCallInvalidArguments(t *testing.T) {
	fn, err := tools.NewFunction[lookupInput, lookupOutput](newLookupTool())
	require.NoError(t, err)
	_, err = fn.Call(context.Background(), `{"term":`)
	assert.Error(t, err)
	_, err = fn.Call(context.Background(), ``)
	assert.Error(t, err)
	_, err = fn.Call(context.Background(), `{"term":""}`)
	assert.Error(t, err)
}

type unavailableTool struct {
	lookupTool
}

func (t *unavailableTool) Ready() error {
	return tools.ErrUnavailable
}

func TestReady(t *testing.T) {
	assert.ErrorIs(t, tools.Ready(nil), tools.ErrUnavailable)
	assert.NoError(t, tools.Ready(newLookupTool()))

	fn, err := tools.NewFunction[lookupInput, lookupOutput](&unavailableTool{})
	require.NoError(t, err)
	assert.ErrorIs(t, tools.Ready(fn), tools.ErrUnavailable)
}
