package pipeline

import (
	"context"

	"github.com/bububa/medagent/agents"
	"github.com/bububa/medagent/components"
	"github.com/bububa/medagent/components/imaging"
	"github.com/bububa/medagent/components/systemprompt/cot"
	"github.com/bububa/medagent/schema"
)

// AnalysisCapability produces a diagnostic style analysis of a prepared image
type AnalysisCapability interface {
	Analyze(ctx context.Context, img *imaging.PreparedImage, model ModelSelection) (string, error)
}

// Analyst is the vision agent of the pipeline
type Analyst struct {
	rt *Runtime
}

var _ AnalysisCapability = (*Analyst)(nil)

func NewAnalyst(rt *Runtime) *Analyst {
	return &Analyst{rt: rt}
}

// Analyze sends the diagnostic prompt with the image attached in one request
func (a *Analyst) Analyze(ctx context.Context, img *imaging.PreparedImage, model ModelSelection) (string, error) {
	agent := agents.NewAgent[schema.Input, schema.String](
		append(a.rt.agentOptions("Medical Image Agent", model),
			agents.WithSystemPromptGenerator(cot.New(
				cot.WithBackground(analystBackground...),
				cot.WithOutputInstructs("- Answer in markdown."),
				cot.WithLanguage(a.rt.language),
			)),
		)...,
	)
	in := schema.NewInput(AnalysisPrompt(a.rt.language))
	in.SetAttachement(img.Attachement())
	out := new(schema.String)
	llmResp := new(components.LLMResponse)
	err := agent.Run(ctx, in, out, llmResp)
	recordUsage(ctx, llmResp)
	if err != nil {
		return "", err
	}
	return string(*out), nil
}
