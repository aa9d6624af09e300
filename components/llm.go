package components

import (
	"github.com/google/generative-ai-go/genai"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
)

// LLMResponse provider chat response
type LLMResponse struct {
	ID        string      `json:"id,omitempty"`
	Role      MessageRole `json:"role,omitempty"`
	Model     string      `json:"model,omitempty"`
	Usage     *LLMUsage   `json:"usage,omitempty"`
	Timestamp int64       `json:"ts,omitempty"`
	Details   any         `json:"content,omitempty"`
}

// FromOpenAI convnert response from openai
func (r *LLMResponse) FromOpenAI(v *openai.ChatCompletionResponse) {
	r.ID = v.ID
	r.Role = AssistantRole
	r.Model = v.Model
	r.Timestamp = v.Created
	r.mergeUsage(&LLMUsage{
		InputTokens:  v.Usage.PromptTokens,
		OutputTokens: v.Usage.CompletionTokens,
	})
	r.Details = v.Choices
}

// FromAnthropic convert response from anthropic
func (r *LLMResponse) FromAnthropic(v *anthropic.MessagesResponse) {
	r.ID = v.ID
	r.Role = AssistantRole
	r.Model = string(v.Model)
	r.mergeUsage(&LLMUsage{
		InputTokens:  v.Usage.InputTokens,
		OutputTokens: v.Usage.OutputTokens,
	})
	r.Details = v.Content
}

// FromGemini convert response from gemini
func (r *LLMResponse) FromGemini(model string, v *genai.GenerateContentResponse) {
	r.Role = AssistantRole
	r.Model = model
	if v.UsageMetadata != nil {
		r.mergeUsage(&LLMUsage{
			InputTokens:  int(v.UsageMetadata.PromptTokenCount),
			OutputTokens: int(v.UsageMetadata.CandidatesTokenCount),
		})
	}
	r.Details = v.Candidates
}

// mergeUsage accumulates usage over the tool calling rounds of one run
func (r *LLMResponse) mergeUsage(u *LLMUsage) {
	if r.Usage == nil {
		r.Usage = new(LLMUsage)
	}
	r.Usage.Merge(u)
}

type LLMUsage struct {
	InputTokens  int `json:"input_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`
}

func (u *LLMUsage) Merge(v *LLMUsage) {
	if v == nil {
		return
	}
	u.InputTokens += v.InputTokens
	u.OutputTokens += v.OutputTokens
}

// Total returns input plus output tokens
func (u *LLMUsage) Total() int {
	if u == nil {
		return 0
	}
	return u.InputTokens + u.OutputTokens
}
