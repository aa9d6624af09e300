package cot

import "github.com/bububa/medagent/components/systemprompt"

type Option func(g *Generator)

// WithBackground set the identity and purpose lines
func WithBackground(lines ...string) Option {
	return func(g *Generator) {
		g.background = append(g.background, lines...)
	}
}

// WithSteps set the internal steps the model follows before answering
func WithSteps(lines ...string) Option {
	return func(g *Generator) {
		g.steps = append(g.steps, lines...)
	}
}

func WithOutputInstructs(lines ...string) Option {
	return func(g *Generator) {
		g.outputInstructs = append(g.outputInstructs, lines...)
	}
}

// WithLanguage asks for the whole answer in language
func WithLanguage(language string) Option {
	return func(g *Generator) {
		g.language = language
	}
}

func WithContextProviders(providers ...systemprompt.ContextProvider) Option {
	return func(g *Generator) {
		g.AddContextProviders(providers...)
	}
}
