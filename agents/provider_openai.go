package agents

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/medagent/components"
	"github.com/bububa/medagent/schema"
)

func (c *Client) chatOpenAI(ctx context.Context, req *request, llmResp *components.LLMResponse) (*reply, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       req.model,
		Temperature: req.temperature,
		MaxTokens:   req.maxTokens,
	}
	messages := make([]components.Message, 0, len(req.messages)+1)
	if req.system != "" {
		messages = append(messages, *components.NewMessage(components.SystemRole, schema.String(req.system)))
	}
	messages = append(messages, req.messages...)
	for _, msg := range messages {
		if cbs := msg.ToolCallbacks(); len(cbs) > 0 {
			chatReq.Messages = append(chatReq.Messages, components.ToolCallbacksToOpenAI(cbs)...)
			continue
		}
		v := new(openai.ChatCompletionMessage)
		msg.ToOpenAI(v)
		chatReq.Messages = append(chatReq.Messages, *v)
	}
	for _, def := range req.tools {
		chatReq.Tools = append(chatReq.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	if req.toolChoiceNone && len(chatReq.Tools) > 0 {
		chatReq.ToolChoice = "none"
	}
	resp, err := c.openai.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, err
	}
	if llmResp != nil {
		llmResp.FromOpenAI(&resp)
	}
	ret := new(reply)
	if len(resp.Choices) == 0 {
		return ret, nil
	}
	msg := resp.Choices[0].Message
	ret.content = msg.Content
	for _, call := range msg.ToolCalls {
		ret.calls = append(ret.calls, components.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return ret, nil
}
