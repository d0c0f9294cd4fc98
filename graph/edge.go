package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentcore/runtime/hooks"
	"github.com/agentcore/runtime/llm"
)

// evaluateEdge tests whether edge should traverse given the upstream
// node's output. Keyword conditions are a
// case-insensitive substring test; analysis conditions invoke an LLM and
// treat the response as affirmative iff it contains "yes", "true", or
// "satisfied". Analysis errors are non-fatal: the edge simply does not
// traverse.
func (a *Agent) evaluateEdge(ctx context.Context, edge Edge, output string) bool {
	switch edge.Condition.Type {
	case ConditionAnalysis:
		return a.evaluateAnalysisEdge(ctx, edge, output)
	case ConditionKeyword:
		fallthrough
	default:
		if edge.Condition.Keyword == "" {
			return true
		}
		return strings.Contains(strings.ToLower(output), strings.ToLower(edge.Condition.Keyword))
	}
}

func (a *Agent) evaluateAnalysisEdge(ctx context.Context, edge Edge, output string) bool {
	if a.collab.LLM == nil || edge.Condition.AnalysisProvider == nil {
		return false
	}
	ref := edge.Condition.AnalysisProvider
	prompt := fmt.Sprintf("%s\n\nText to analyze: %s", edge.Condition.Prompt, output)

	resp, err := a.collab.LLM.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, llm.Options{
		Provider: ref.Provider, Model: ref.Model, TokenLimit: ref.TokenLimit,
	})
	if err != nil {
		a.logger().Warn(ctx, "graph agent: edge analysis condition failed", "edge", edge.ID, "error", err)
		a.emit(hooks.NewEdgeAnalysisErrorEvent("", "", edge.ID, edge.From, edge.To, err))
		return false
	}

	lower := strings.ToLower(resp.Text)
	return strings.Contains(lower, "yes") || strings.Contains(lower, "true") || strings.Contains(lower, "satisfied")
}
