package react

import (
	"context"
	"strings"

	"github.com/agentcore/runtime/llm"
)

// invokeSelfConsistent runs Samples independent rollouts and aggregates
// their final answers by majority of a normalized key. The returned Outcome carries the Steps of whichever rollout's
// answer won the vote.
func (a *Agent) invokeSelfConsistent(ctx context.Context, input string, history []llm.Message) (Outcome, error) {
	samples := a.config.SelfConsistency.Samples

	outcomes := make([]Outcome, 0, samples)
	for i := 0; i < samples; i++ {
		outcome, err := a.runOnce(ctx, input, history, nil)
		if err != nil {
			return Outcome{}, err
		}
		outcomes = append(outcomes, outcome)
	}

	votes := make(map[string]int)
	bestKey := ""
	bestCount := -1
	for _, o := range outcomes {
		key := normalizeAnswer(o.FinalAnswer)
		votes[key]++
		if votes[key] > bestCount {
			bestCount = votes[key]
			bestKey = key
		}
	}

	for _, o := range outcomes {
		if normalizeAnswer(o.FinalAnswer) == bestKey {
			return o, nil
		}
	}
	return outcomes[0], nil
}

func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
