package react

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentcore/runtime/ids"
	"github.com/agentcore/runtime/llm"
	"github.com/agentcore/runtime/tool"
)

// runOnce executes the thought/action/observation loop once. onChunk, if non-nil, receives LLM text as it
// streams in during thought generation (used by Stream).
func (a *Agent) runOnce(ctx context.Context, input string, history []llm.Message, onChunk llm.ChunkFunc) (Outcome, error) {
	running, err := seedPrompt(a.config, input, history)
	if err != nil {
		return Outcome{}, fmt.Errorf("react: seed prompt: %w", err)
	}

	var steps []StepRecord
	parseRetried := false

	for step := 1; step <= a.config.MaxSteps; step++ {
		messages := append(append([]llm.Message{}, history...), llm.Message{Role: "user", Content: running})

		var resp llm.Response
		if onChunk != nil {
			resp, err = a.client.ChatStream(ctx, messages, a.llmOpts, onChunk)
		} else {
			resp, err = a.client.Chat(ctx, messages, a.llmOpts)
		}
		if err != nil {
			return Outcome{}, fmt.Errorf("react: llm call: %w", err)
		}

		if hit, truncated := hitStopSequence(resp.Text, a.config.StopSequences); hit {
			return Outcome{FinalAnswer: truncated, Steps: steps, StepCount: step}, nil
		}

		parsed, perr := a.parser.Parse(resp.Text)
		if perr != nil {
			if !parseRetried {
				// Retry a parse failure once before giving up on the step.
				parseRetried = true
				step--
				continue
			}
			return Outcome{}, fmt.Errorf("react: unknown error after parse retry: %w", perr)
		}
		parseRetried = false

		if parsed.FinalAnswer != nil {
			return Outcome{FinalAnswer: *parsed.FinalAnswer, Steps: steps, StepCount: step}, nil
		}

		observation := a.dispatchAction(ctx, parsed.Action, parsed.ActionInput)
		record := StepRecord{
			Thought:     parsed.Thought,
			Action:      parsed.Action,
			ActionInput: parsed.ActionInput,
			Observation: observation,
		}
		steps = append(steps, record)
		running = appendStep(running, record)
	}

	return Outcome{Steps: steps, StepCount: a.config.MaxSteps, MaxStepsExceeded: true}, nil
}

// dispatchAction resolves action against the bound Toolkit and returns the
// observation string. Tool errors become observations and never terminate
// the loop.
func (a *Agent) dispatchAction(ctx context.Context, action string, args map[string]any) string {
	if a.toolkit == nil {
		return fmt.Sprintf("error: no toolkit bound to resolve action %q", action)
	}
	results := a.toolkit.ExecuteCalls(ctx, []tool.Call{{Name: ids.ToolId(action), Args: args}})
	if len(results) == 0 {
		return "error: tool dispatch returned no result"
	}
	result := results[0]
	if result.Ok {
		out, err := json.Marshal(result.Output)
		if err != nil {
			return fmt.Sprintf("%v", result.Output)
		}
		return string(out)
	}
	if result.Err == nil {
		return "error: unknown tool failure"
	}
	if result.Err.Guidance != "" {
		return fmt.Sprintf("error (%s): %s. %s", result.Err.Name, result.Err.Message, result.Err.Guidance)
	}
	return fmt.Sprintf("error (%s): %s", result.Err.Name, result.Err.Message)
}
