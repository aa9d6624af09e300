package components

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/medagent/schema"
)

func imageInput() *schema.Input {
	input := schema.NewInput("describe the image")
	input.SetAttachement(&schema.Attachement{
		Images: []schema.Image{{MimeType: "image/png", Data: []byte("png-bytes")}},
	})
	return input
}

func TestMessageToOpenAIWithImage(t *testing.T) {
	msg := NewMessage(UserRole, imageInput())
	dist := new(openai.ChatCompletionMessage)
	msg.ToOpenAI(dist)
	assert.Equal(t, UserRole, dist.Role)
	assert.Empty(t, dist.Content)
	require.Len(t, dist.MultiContent, 2)
	assert.Equal(t, "describe the image", dist.MultiContent[0].Text)
	url := dist.MultiContent[1].ImageURL.URL
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	assert.True(t, strings.HasSuffix(url, base64.StdEncoding.EncodeToString([]byte("png-bytes"))))
}

func TestMessageToOpenAIText(t *testing.T) {
	msg := NewMessage(AssistantRole, schema.String("hello"))
	dist := new(openai.ChatCompletionMessage)
	msg.ToOpenAI(dist)
	assert.Equal(t, "hello", dist.Content)
	assert.Nil(t, dist.MultiContent)
}

func TestMessageToOpenAIToolCalls(t *testing.T) {
	calls := []ToolCall{{ID: "call_1", Name: "web_search", Arguments: `{"queries":["x"]}`}}
	msg := NewToolCallsMessage(nil, calls)
	dist := new(openai.ChatCompletionMessage)
	msg.ToOpenAI(dist)
	assert.Equal(t, openai.ChatMessageRoleAssistant, dist.Role)
	require.Len(t, dist.ToolCalls, 1)
	assert.Equal(t, "web_search", dist.ToolCalls[0].Function.Name)

	cbs := ToolCallbacksToOpenAI([]ToolCallback{{ID: "call_1", Name: "web_search", Content: "[]"}})
	require.Len(t, cbs, 1)
	assert.Equal(t, openai.ChatMessageRoleTool, cbs[0].Role)
	assert.Equal(t, "call_1", cbs[0].ToolCallID)
}

func TestMessageToAnthropic(t *testing.T) {
	msg := NewMessage(UserRole, imageInput())
	dist := new(anthropic.Message)
	msg.ToAnthropic(dist)
	assert.Equal(t, anthropic.RoleUser, dist.Role)
	require.Len(t, dist.Content, 2)
	assert.Equal(t, "describe the image", dist.Content[1].GetText())
}

func TestMessageToGemini(t *testing.T) {
	msg := NewMessage(UserRole, imageInput())
	dist := new(genai.Content)
	msg.ToGemini(dist)
	assert.Equal(t, "user", dist.Role)
	require.Len(t, dist.Parts, 2)
	blob, ok := dist.Parts[0].(genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "image/png", blob.MIMEType)
	assert.Equal(t, genai.Text("describe the image"), dist.Parts[1])

	reply := NewMessage(AssistantRole, schema.String("ok"))
	reply.ToGemini(dist)
	assert.Equal(t, "model", dist.Role)
}

func TestToolCallbacksToGeminiWrapsText(t *testing.T) {
	dist := new(genai.Content)
	ToolCallbacksToGemini([]ToolCallback{
		{Name: "fetch_page", Content: "plain markdown"},
		{Name: "web_search", Content: `{"results":[]}`},
	}, dist)
	require.Len(t, dist.Parts, 2)
	first := dist.Parts[0].(genai.FunctionResponse)
	assert.Equal(t, "plain markdown", first.Response["content"])
	second := dist.Parts[1].(genai.FunctionResponse)
	assert.Contains(t, second.Response, "results")
}
