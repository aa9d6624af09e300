package agents

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/bububa/medagent/components"
	"github.com/bububa/medagent/tools"
)

func (c *Client) chatGemini(ctx context.Context, req *request, llmResp *components.LLMResponse) (*reply, error) {
	model := c.gemini.GenerativeModel(req.model)
	model.SetTemperature(req.temperature)
	if req.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.maxTokens))
	}
	if req.system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(req.system))
	}
	if len(req.tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.tools))
		for _, def := range req.tools {
			params, err := def.Schema()
			if err != nil {
				return nil, err
			}
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  toGeminiSchema(params),
			})
		}
		model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
		if req.toolChoiceNone {
			model.ToolConfig = &genai.ToolConfig{
				FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingNone},
			}
		}
	}
	contents := make([]*genai.Content, 0, len(req.messages))
	for _, msg := range req.messages {
		if msg.Role() == components.SystemRole {
			continue
		}
		v := new(genai.Content)
		msg.ToGemini(v)
		contents = append(contents, v)
	}
	if len(contents) == 0 {
		return new(reply), nil
	}
	session := model.StartChat()
	last := len(contents) - 1
	session.History = contents[:last]
	resp, err := session.SendMessage(ctx, contents[last].Parts...)
	if err != nil {
		return nil, err
	}
	if llmResp != nil {
		llmResp.FromGemini(req.model, resp)
	}
	ret := new(reply)
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ret, nil
	}
	var content strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			content.WriteString(string(v))
		case genai.FunctionCall:
			args, err := json.Marshal(v.Args)
			if err != nil {
				return nil, err
			}
			ret.calls = append(ret.calls, components.ToolCall{
				ID:        components.NewTurnID(),
				Name:      v.Name,
				Arguments: string(args),
			})
		}
	}
	ret.content = content.String()
	return ret, nil
}

func toGeminiSchema(s *tools.ParamSchema) *genai.Schema {
	if s == nil {
		return nil
	}
	ret := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toGeminiSchema(s.Items),
	}
	switch s.Type {
	case "string":
		ret.Type = genai.TypeString
		if len(s.Enum) > 0 {
			ret.Format = "enum"
		}
	case "number":
		ret.Type = genai.TypeNumber
	case "integer":
		ret.Type = genai.TypeInteger
	case "boolean":
		ret.Type = genai.TypeBoolean
	case "array":
		ret.Type = genai.TypeArray
	default:
		ret.Type = genai.TypeObject
	}
	if len(s.Properties) > 0 {
		ret.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			ret.Properties[k] = toGeminiSchema(v)
		}
	}
	return ret
}
