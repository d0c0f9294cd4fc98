// Package react implements the single-loop ReAct agent: thought/action/
// observation steps bound to a Toolkit, self-consistency majority voting,
// streaming, and stop-sequence/parse-error handling, with templated
// prompt construction via text/template.
package react

import (
	"context"

	"github.com/agentcore/runtime/llm"
	"github.com/agentcore/runtime/toolkit"
)

type (
	// SelfConsistencyConfig enables running several independent rollouts
	// and aggregating by majority vote.
	SelfConsistencyConfig struct {
		Enabled bool
		Samples int
	}

	// Config is the chain-of-thought configuration bound to an Agent
	//.
	Config struct {
		// Enabled false forces MaxSteps to 1.
		Enabled bool
		// MaxSteps bounds the thought/action/observation loop.
		MaxSteps int
		// PromptTemplate is a text/template source bound with {{.Input}}
		// and {{.History}} to seed the running prompt.
		PromptTemplate string
		// StopSequences terminate the loop early with the partial final
		// answer accumulated so far.
		StopSequences []string
		// SelfConsistency, if Enabled, runs Samples independent rollouts
		// and aggregates by majority.
		SelfConsistency SelfConsistencyConfig
	}

	// StepRecord is one thought/action/observation entry appended to the
	// running prompt.
	StepRecord struct {
		Thought     string
		Action      string
		ActionInput map[string]any
		Observation string
	}

	// Outcome is the terminal result of Invoke/Stream.
	Outcome struct {
		FinalAnswer      string
		Steps            []StepRecord
		StepCount        int
		MaxStepsExceeded bool
	}

	// Agent runs the thought/action/observation loop,
	// bound to one LLM client and one Toolkit.
	Agent struct {
		client  llm.Client
		toolkit *toolkit.Toolkit
		config  Config
		llmOpts llm.Options
		parser  Parser
	}
)

// New builds a ReAct Agent bound to an LLM client, a Toolkit for action
// resolution, a Config, and the LLM options (provider/model/token
// limit/stop sequences) to use for every call.
func New(client llm.Client, tk *toolkit.Toolkit, cfg Config, llmOpts llm.Options) *Agent {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 1
	}
	if !cfg.Enabled {
		cfg.MaxSteps = 1
	}
	llmOpts.StopSequences = append(llmOpts.StopSequences, cfg.StopSequences...)
	return &Agent{
		client:  client,
		toolkit: tk,
		config:  cfg,
		llmOpts: llmOpts,
		parser:  DefaultParser{},
	}
}

// WithParser overrides the default thought/action/observation text parser.
func (a *Agent) WithParser(p Parser) *Agent {
	a.parser = p
	return a
}

// Invoke runs the loop to completion. If
// SelfConsistency is enabled, it runs Samples independent rollouts and
// returns the majority-aggregated outcome.
func (a *Agent) Invoke(ctx context.Context, input string, history []llm.Message) (Outcome, error) {
	if a.config.SelfConsistency.Enabled && a.config.SelfConsistency.Samples > 1 {
		return a.invokeSelfConsistent(ctx, input, history)
	}
	return a.runOnce(ctx, input, history, nil)
}
