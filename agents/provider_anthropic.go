package agents

import (
	"context"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/bububa/medagent/components"
)

// anthropic requires max_tokens on every request
const defaultAnthropicMaxTokens = 4096

func (c *Client) chatAnthropic(ctx context.Context, req *request, llmResp *components.LLMResponse) (*reply, error) {
	temperature := req.temperature
	chatReq := anthropic.MessagesRequest{
		Model:       anthropic.Model(req.model),
		System:      req.system,
		Temperature: &temperature,
		MaxTokens:   req.maxTokens,
	}
	if chatReq.MaxTokens <= 0 {
		chatReq.MaxTokens = defaultAnthropicMaxTokens
	}
	for _, msg := range req.messages {
		if msg.Role() == components.SystemRole {
			continue
		}
		v := new(anthropic.Message)
		msg.ToAnthropic(v)
		chatReq.Messages = append(chatReq.Messages, *v)
	}
	for _, def := range req.tools {
		chatReq.Tools = append(chatReq.Tools, anthropic.ToolDefinition{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.Parameters,
		})
	}
	if req.toolChoiceNone && len(chatReq.Tools) > 0 {
		chatReq.ToolChoice = &anthropic.ToolChoice{Type: "none"}
	}
	resp, err := c.anthropic.CreateMessages(ctx, chatReq)
	if err != nil {
		return nil, err
	}
	if llmResp != nil {
		llmResp.FromAnthropic(&resp)
	}
	ret := new(reply)
	for _, content := range resp.Content {
		switch content.Type {
		case anthropic.MessagesContentTypeText:
			if content.Text != nil {
				ret.content += *content.Text
			}
		case anthropic.MessagesContentTypeToolUse:
			if content.MessageContentToolUse == nil {
				continue
			}
			ret.calls = append(ret.calls, components.ToolCall{
				ID:        content.MessageContentToolUse.ID,
				Name:      content.MessageContentToolUse.Name,
				Arguments: string(content.MessageContentToolUse.Input),
			})
		}
	}
	return ret, nil
}
