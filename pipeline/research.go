package pipeline

import (
	"context"
	"strings"

	"github.com/bububa/medagent/agents"
	"github.com/bububa/medagent/components"
	"github.com/bububa/medagent/components/systemprompt"
	"github.com/bububa/medagent/components/systemprompt/cot"
	"github.com/bububa/medagent/schema"
	"github.com/bububa/medagent/tools"
)

// ResearchCapability finds supplementary references for an analysis
type ResearchCapability interface {
	Research(ctx context.Context, analysis string, model ModelSelection) (string, error)
}

// Researcher is the web search agent of the pipeline
type Researcher struct {
	rt *Runtime
}

var _ ResearchCapability = (*Researcher)(nil)

func NewResearcher(rt *Runtime) *Researcher {
	return &Researcher{rt: rt}
}

// Research embeds analysis in the research template and lets the model search the web.
// The search tool is checked before any remote call.
func (r *Researcher) Research(ctx context.Context, analysis string, model ModelSelection) (string, error) {
	if strings.TrimSpace(analysis) == "" {
		return "", ErrEmptyAnalysis
	}
	if err := tools.Ready(r.rt.searchTool); err != nil {
		return "", err
	}
	toolset := []tools.Callable{r.rt.searchTool}
	if r.rt.fetchTool != nil {
		toolset = append(toolset, r.rt.fetchTool)
	}
	opts := append(r.rt.agentOptions("Researcher Agent", model),
		agents.WithSystemPromptGenerator(cot.New(
			cot.WithBackground(researcherBackground...),
			cot.WithSteps(researcherSteps...),
			cot.WithOutputInstructs("- Only cite sources returned by the tools, with their links."),
			cot.WithLanguage(r.rt.language),
		)),
		agents.WithTools(toolset...),
		agents.WithMaxToolRounds(r.rt.maxToolRounds),
	)
	agent := agents.NewAgent[schema.Input, schema.String](opts...)
	agent.RegisterSystemPromptContextProvider(systemprompt.NewStaticProvider("Current date", r.rt.now().Format("2006-01-02")))
	out := new(schema.String)
	llmResp := new(components.LLMResponse)
	err := agent.Run(ctx, schema.NewInput(ResearchPrompt(analysis, r.rt.language)), out, llmResp)
	recordUsage(ctx, llmResp)
	if err != nil {
		return "", err
	}
	return string(*out), nil
}
