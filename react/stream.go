package react

import (
	"context"

	"github.com/agentcore/runtime/llm"
)

// Chunk is one element of a Stream: either an incremental piece of LLM
// text (during thought generation) or the terminal Outcome/error.
type Chunk struct {
	Text  string
	Final *Outcome
	Err   error
}

// Stream runs the loop exactly as Invoke does, but forwards LLM text
// chunks as they arrive during thought generation and emits a final
// Chunk carrying the terminal Outcome. The returned channel is closed after the final
// Chunk is sent.
func (a *Agent) Stream(ctx context.Context, input string, history []llm.Message) <-chan Chunk {
	out := make(chan Chunk)
	go func() {
		defer close(out)
		onChunk := func(text string) {
			select {
			case out <- Chunk{Text: text}:
			case <-ctx.Done():
			}
		}

		var outcome Outcome
		var err error
		if a.config.SelfConsistency.Enabled && a.config.SelfConsistency.Samples > 1 {
			// Self-consistency requires complete rollouts before voting;
			// intermediate chunks aren't meaningful across samples, so
			// only the final aggregated outcome is streamed.
			outcome, err = a.invokeSelfConsistent(ctx, input, history)
		} else {
			outcome, err = a.runOnce(ctx, input, history, onChunk)
		}

		if err != nil {
			select {
			case out <- Chunk{Err: err}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case out <- Chunk{Final: &outcome}:
		case <-ctx.Done():
		}
	}()
	return out
}
