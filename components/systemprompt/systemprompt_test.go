package systemprompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/medagent/components/systemprompt"
	"github.com/bububa/medagent/components/systemprompt/cot"
)

func TestCoTGenerate(t *testing.T) {
	g := cot.New(
		cot.WithBackground("- You are a medical researcher."),
		cot.WithSteps("- Extract the findings.", "- Search the web."),
		cot.WithOutputInstructs("- Organize the answer in markdown."),
		cot.WithLanguage("Portuguese"),
		cot.WithContextProviders(systemprompt.NewStaticProvider("Current date", "2025-06-01")),
	)
	expect := `# IDENTITY and PURPOSE
- You are a medical researcher.

# INTERNAL ASSISTANT STEPS
- Extract the findings.
- Search the web.

# OUTPUT INSTRUCTIONS
- Organize the answer in markdown.
- Write the whole answer in Portuguese.
- Always use the available additional information and context to enhance the response.

# EXTRA INFORMATION AND CONTEXT
## Current date
2025-06-01`
	assert.Equal(t, expect, g.Generate())
	assert.Equal(t, expect, g.Generate())
}

func TestCoTDefaults(t *testing.T) {
	g := cot.New()
	assert.Equal(t, "# IDENTITY and PURPOSE\n- You are a careful assistant working for medical professionals.", g.Generate())
}

func TestContextProviders(t *testing.T) {
	g := cot.New()
	g.AddContextProviders(
		systemprompt.NewStaticProvider("a", "1"),
		systemprompt.NewStaticProvider("b", "2"),
		systemprompt.NewStaticProvider("a", "dup"),
	)
	require.Len(t, g.ContextProviders(), 2)
	p, err := g.ContextProvider("a")
	require.NoError(t, err)
	assert.Equal(t, "1", p.Info())
	assert.Contains(t, g.Generate(), "## b\n2")

	g.RemoveContextProviders("a")
	_, err = g.ContextProvider("a")
	assert.Error(t, err)
	assert.Len(t, g.ContextProviders(), 1)
}
