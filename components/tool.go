package components

import (
	"encoding/json"

	"github.com/google/generative-ai-go/genai"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
)

// ToolCall is a tool invocation requested by the model
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ToolCallback is the result of a ToolCall
type ToolCallback struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
}

func ToolCallsToOpenAI(src []ToolCall, dist *openai.ChatCompletionMessage) {
	list := make([]openai.ToolCall, 0, len(src))
	for _, v := range src {
		list = append(list, openai.ToolCall{
			ID:   v.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      v.Name,
				Arguments: v.Arguments,
			},
		})
	}
	dist.Role = openai.ChatMessageRoleAssistant
	dist.ToolCalls = list
}

func ToolCallsToAnthropic(src []ToolCall, dist *anthropic.Message) {
	list := make([]anthropic.MessageContent, 0, len(src))
	for _, v := range src {
		args := v.Arguments
		if args == "" {
			args = "{}"
		}
		list = append(list, anthropic.NewToolUseMessageContent(v.ID, v.Name, json.RawMessage(args)))
	}
	*dist = anthropic.Message{
		Role:    anthropic.RoleAssistant,
		Content: list,
	}
}

func ToolCallsToGemini(src []ToolCall, dist *genai.Content) {
	list := make([]genai.Part, 0, len(src))
	for _, v := range src {
		args := make(map[string]any)
		if err := json.Unmarshal([]byte(v.Arguments), &args); err == nil {
			list = append(list, genai.FunctionCall{Name: v.Name, Args: args})
		}
	}
	dist.Role = "model"
	dist.Parts = list
}

func ToolCallbacksToOpenAI(src []ToolCallback) []openai.ChatCompletionMessage {
	list := make([]openai.ChatCompletionMessage, 0, len(src))
	for _, v := range src {
		list = append(list, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    v.Content,
			Name:       v.Name,
			ToolCallID: v.ID,
		})
	}
	return list
}

func ToolCallbacksToAnthropic(src []ToolCallback, dist *anthropic.Message) {
	list := make([]anthropic.MessageContent, 0, len(src))
	for _, v := range src {
		list = append(list, anthropic.NewToolResultMessageContent(v.ID, v.Content, v.IsError))
	}
	dist.Role = anthropic.RoleUser
	dist.Content = list
}

// ToolCallbacksToGemini gemini expects an object response, plain text results are wrapped in {"content": ...}
func ToolCallbacksToGemini(src []ToolCallback, dist *genai.Content) {
	parts := make([]genai.Part, 0, len(src))
	for _, v := range src {
		resp := make(map[string]any)
		if err := json.Unmarshal([]byte(v.Content), &resp); err != nil {
			resp = map[string]any{"content": v.Content}
		}
		if v.IsError {
			resp = map[string]any{"error": v.Content}
		}
		parts = append(parts, genai.FunctionResponse{Name: v.Name, Response: resp})
	}
	dist.Role = "user"
	dist.Parts = parts
}
