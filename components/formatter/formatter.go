// Package formatter cleans model answers before they are shown
package formatter

import "strings"

const (
	// OpenMarker starts a reasoning span in model output
	OpenMarker = "<think>"
	// CloseMarker ends a reasoning span in model output
	CloseMarker = "</think>"
	// DefaultReasoningLabel replaces OpenMarker when reasoning is revealed
	DefaultReasoningLabel = "[thinking...] "
	// ReasoningSeparator replaces CloseMarker when reasoning is revealed
	ReasoningSeparator = "\n---\n"

	codeFence = "```"
)

type options struct {
	reveal bool
	label  string
}

type Option func(o *options)

// WithReasoning keeps reasoning spans in the output, replacing markers with readable labels
func WithReasoning(reveal bool) Option {
	return func(o *options) {
		o.reveal = reveal
	}
}

// WithReasoningLabel set the label shown in place of the opening marker
func WithReasoningLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// Format trims text, resolves reasoning markers and strips code fences.
// Text without markers or fences is returned trimmed and otherwise unchanged.
// Removals are repeated until stable so the pieces around a removed marker
// never join into a new one.
func Format(text string, opts ...Option) string {
	o := &options{label: DefaultReasoningLabel}
	for _, opt := range opts {
		opt(o)
	}
	text = strings.TrimSpace(text)
	// every pass removes a '<' or a backtick unless the label brings its own
	for limit := strings.Count(text, "<") + strings.Count(text, "`") + 1; limit > 0; limit-- {
		prev := text
		if o.reveal {
			text = strings.ReplaceAll(text, OpenMarker, o.label)
			text = strings.ReplaceAll(text, CloseMarker, ReasoningSeparator)
		} else {
			if idx := strings.LastIndex(text, CloseMarker); idx >= 0 {
				text = strings.TrimSpace(text[idx+len(CloseMarker):])
			}
			text = strings.ReplaceAll(text, OpenMarker, "")
		}
		text = strings.ReplaceAll(text, codeFence, "")
		if text == prev {
			break
		}
	}
	// only a label carrying a marker leaves one behind
	return removeAll(text, OpenMarker, CloseMarker, codeFence)
}

// removeAll deletes every old until none is left, each pass shrinks text
func removeAll(text string, olds ...string) string {
	for {
		prev := text
		for _, old := range olds {
			text = strings.ReplaceAll(text, old, "")
		}
		if text == prev {
			return text
		}
	}
}
