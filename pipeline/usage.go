package pipeline

import (
	"context"

	"github.com/bububa/medagent/components"
)

type usageKey struct{}

// withUsage attaches a usage accumulator to ctx, agents merge their token usage into it
func withUsage(ctx context.Context, usage *components.LLMUsage) context.Context {
	return context.WithValue(ctx, usageKey{}, usage)
}

func recordUsage(ctx context.Context, llmResp *components.LLMResponse) {
	usage, ok := ctx.Value(usageKey{}).(*components.LLMUsage)
	if !ok || usage == nil || llmResp == nil {
		return
	}
	usage.Merge(llmResp.Usage)
}
