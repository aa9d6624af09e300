package cot

import (
	"fmt"
	"strings"

	"github.com/bububa/medagent/components/systemprompt"
)

const (
	defaultBackground  = "- You are a careful assistant working for medical professionals."
	useContextInstruct = "- Always use the available additional information and context to enhance the response."
)

// Generator is a Chain-of-Thought system prompt generator
type Generator struct {
	systemprompt.BaseGenerator
	background      []string
	steps           []string
	outputInstructs []string
	language        string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new system prompt Generator
func New(options ...Option) *Generator {
	ret := new(Generator)
	for _, opt := range options {
		opt(ret)
	}
	if len(ret.background) == 0 {
		ret.background = []string{defaultBackground}
	}
	return ret
}

func (g *Generator) Generate() string {
	outputInstructs := g.outputInstructs
	if g.language != "" {
		outputInstructs = append(outputInstructs[:len(outputInstructs):len(outputInstructs)], fmt.Sprintf("- Write the whole answer in %s.", g.language))
	}
	if len(g.ContextProviders()) > 0 {
		outputInstructs = append(outputInstructs[:len(outputInstructs):len(outputInstructs)], useContextInstruct)
	}
	var sb strings.Builder
	for _, section := range []struct {
		title string
		lines []string
	}{
		{"IDENTITY and PURPOSE", g.background},
		{"INTERNAL ASSISTANT STEPS", g.steps},
		{"OUTPUT INSTRUCTIONS", outputInstructs},
	} {
		if len(section.lines) == 0 {
			continue
		}
		sb.WriteString("# ")
		sb.WriteString(section.title)
		sb.WriteByte('\n')
		for _, line := range section.lines {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	for _, line := range g.ExtraContext() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return strings.TrimSpace(sb.String())
}
