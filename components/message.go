package components

import (
	"encoding/base64"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	"github.com/rs/xid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/medagent/schema"
)

// NewTurnID returns a new turn ID.
func NewTurnID() string {
	return xid.New().String()
}

// MessageRole is the role of the message sender (e.g., 'user', 'system', 'tool')
type MessageRole = string

const (
	SystemRole    MessageRole = "system"
	UserRole      MessageRole = "user"
	AssistantRole MessageRole = "assistant"
	ToolRole      MessageRole = "tool"
)

// Message  Represents a message in the chat history.
type Message struct {
	content schema.Schema
	// role is the role of the message sender (e.g., 'user', 'system', 'tool')
	role MessageRole
	//	turnID is Unique identifier for the turn this message belongs to.
	turnID string
	// toolCalls tool invocations requested by the assistant
	toolCalls []ToolCall
	// toolCallbacks results of the tool invocations
	toolCallbacks []ToolCallback
}

// NewMessage returns a new Message
func NewMessage(role MessageRole, content schema.Schema) *Message {
	return &Message{
		role:    role,
		content: content,
	}
}

// NewToolCallsMessage returns an assistant message requesting tool calls
func NewToolCallsMessage(content schema.Schema, calls []ToolCall) *Message {
	return &Message{
		role:      AssistantRole,
		content:   content,
		toolCalls: calls,
	}
}

// NewToolCallbacksMessage returns a message carrying tool results
func NewToolCallbacksMessage(callbacks []ToolCallback) *Message {
	return &Message{
		role:          ToolRole,
		toolCallbacks: callbacks,
	}
}

// SetTurnID set message turnID
func (m *Message) SetTurnID(turnID string) *Message {
	m.turnID = turnID
	return m
}

// Role returns message role
func (m Message) Role() MessageRole {
	return m.role
}

// Content returns message content
func (m Message) Content() schema.Schema {
	return m.content
}

// StringifiedContent returns message content as text
func (m Message) StringifiedContent() string {
	if m.content == nil {
		return ""
	}
	return schema.Stringify(m.content)
}

// Attachement returns message attachement
func (m Message) Attachement() *schema.Attachement {
	if m.content == nil {
		return nil
	}
	return m.content.Attachement()
}

// TurnID returns message turnID
func (m Message) TurnID() string {
	return m.turnID
}

// ToolCalls returns tool calls requested in this message
func (m Message) ToolCalls() []ToolCall {
	return m.toolCalls
}

// ToolCallbacks returns tool results carried by this message
func (m Message) ToolCallbacks() []ToolCallback {
	return m.toolCallbacks
}

// ToOpenAI convert message to openai ChatCompletionMessage.
// Tool callbacks expand into several messages, use ToolCallbacksToOpenAI for them.
func (m Message) ToOpenAI(dist *openai.ChatCompletionMessage) {
	dist.Role = m.role
	if len(m.toolCalls) > 0 {
		ToolCallsToOpenAI(m.toolCalls, dist)
		dist.Content = m.StringifiedContent()
		return
	}
	attachement := m.Attachement()
	if !attachement.HasImages() {
		dist.Content = m.StringifiedContent()
		return
	}
	dist.MultiContent = make([]openai.ChatMessagePart, 0, len(attachement.ImageURLs)+len(attachement.Images)+1)
	dist.MultiContent = append(dist.MultiContent, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: m.StringifiedContent(),
	})
	for _, imageURL := range attachement.ImageURLs {
		dist.MultiContent = append(dist.MultiContent, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: imageURL,
			},
		})
	}
	for _, img := range attachement.Images {
		dist.MultiContent = append(dist.MultiContent, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    dataURL(img),
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}
}

// ToAnthropic convert message to anthropic Message
func (m Message) ToAnthropic(dist *anthropic.Message) {
	if len(m.toolCallbacks) > 0 {
		ToolCallbacksToAnthropic(m.toolCallbacks, dist)
		return
	}
	if len(m.toolCalls) > 0 {
		ToolCallsToAnthropic(m.toolCalls, dist)
		if txt := m.StringifiedContent(); txt != "" {
			dist.Content = append([]anthropic.MessageContent{anthropic.NewTextMessageContent(txt)}, dist.Content...)
		}
		return
	}
	dist.Role = anthropic.ChatRole(m.role)
	var images []schema.Image
	if attachement := m.Attachement(); attachement != nil {
		images = attachement.Images
	}
	dist.Content = make([]anthropic.MessageContent, 0, len(images)+1)
	for _, img := range images {
		dist.Content = append(dist.Content, anthropic.NewImageMessageContent(anthropic.MessageContentSource{
			Type:      "base64",
			MediaType: img.MimeType,
			Data:      base64.StdEncoding.EncodeToString(img.Data),
		}))
	}
	dist.Content = append(dist.Content, anthropic.NewTextMessageContent(m.StringifiedContent()))
}

// ToGemini convert message to gemini Content
func (m Message) ToGemini(dist *genai.Content) {
	if len(m.toolCallbacks) > 0 {
		ToolCallbacksToGemini(m.toolCallbacks, dist)
		return
	}
	if len(m.toolCalls) > 0 {
		ToolCallsToGemini(m.toolCalls, dist)
		return
	}
	dist.Role = "user"
	if m.role == AssistantRole {
		dist.Role = "model"
	}
	parts := make([]genai.Part, 0, 2)
	if attachement := m.Attachement(); attachement != nil {
		for _, img := range attachement.Images {
			parts = append(parts, genai.Blob{MIMEType: img.MimeType, Data: img.Data})
		}
	}
	parts = append(parts, genai.Text(m.StringifiedContent()))
	dist.Parts = parts
}

func dataURL(img schema.Image) string {
	return fmt.Sprintf("data:%s;base64,%s", img.MimeType, base64.StdEncoding.EncodeToString(img.Data))
}
