package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCleanText(t *testing.T) {
	for _, text := range []string{
		"",
		"Normal chest radiograph.",
		"## Findings\n- no consolidation\n- heart size normal",
	} {
		assert.Equal(t, text, Format(text))
		assert.Equal(t, text, Format(text, WithReasoning(true)))
		assert.Equal(t, Format(text), Format(Format(text)))
	}
}

func TestFormatTrims(t *testing.T) {
	assert.Equal(t, "answer", Format("  \n answer \n\t"))
}

func TestFormatHideReasoning(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{"single span", "<think>looking at the lungs</think>\nOpacity in the right lower lobe.", "Opacity in the right lower lobe."},
		{"last span wins", "<think>a</think>first<think>b</think> second ", "second"},
		{"stray open marker", "<think>Findings are normal", "Findings are normal"},
		{"nothing after close", "<think>only reasoning</think>", ""},
		{"open marker split by marker", "<thi<think>nk>answer", "answer"},
		{"close marker split by marker", "</<think>think>answer", "answer"},
		{"marker split by fence", "<th```ink>reasoning</th```ink>answer", "answer"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Format(c.in)
			assert.Equal(t, c.out, got)
			assert.NotContains(t, got, OpenMarker)
			assert.NotContains(t, got, CloseMarker)
			assert.Equal(t, got, Format(got))
		})
	}
}

func TestFormatRevealReasoning(t *testing.T) {
	got := Format("<think>looking at the lungs</think>Opacity.", WithReasoning(true))
	assert.Equal(t, "[thinking...] looking at the lungs\n---\nOpacity.", got)

	got = Format("<think>x</think>y", WithReasoning(true), WithReasoningLabel("Reasoning: "))
	assert.Equal(t, "Reasoning: x\n---\ny", got)

	for _, in := range []string{"<thi<think>nk>x</<think>think>y", "<th```ink>x</think>y"} {
		got = Format(in, WithReasoning(true))
		assert.NotContains(t, got, OpenMarker)
		assert.NotContains(t, got, CloseMarker)
	}

	got = Format("<think>x</think>y", WithReasoning(true), WithReasoningLabel("<think>"))
	assert.NotContains(t, got, OpenMarker)
	assert.NotContains(t, got, CloseMarker)
}

func TestFormatRemovesFences(t *testing.T) {
	assert.Equal(t, "markdown\n# Title\n", Format("```markdown\n# Title\n```"))
	assert.Equal(t, "code", Format("<think>r</think>```code```"))
}
