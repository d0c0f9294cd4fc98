// Package factory wires validated node/edge/config definitions into
// ready-to-run graph.Agent and react.Agent instances, the way the
// teacher's runtime.New()/RegisterAgent construction step binds a
// planner and activities to a runnable client (cmd/demo/main.go) — here
// without Temporal, since this core replaces workflow replay with the
// owner-goroutine model.
package factory

import (
	"fmt"
	"text/template"

	"github.com/agentcore/runtime/checkpoint"
	"github.com/agentcore/runtime/conversation"
	"github.com/agentcore/runtime/graph"
	"github.com/agentcore/runtime/hooks"
	"github.com/agentcore/runtime/llm"
	"github.com/agentcore/runtime/memory"
	"github.com/agentcore/runtime/react"
	"github.com/agentcore/runtime/telemetry"
	"github.com/agentcore/runtime/toolkit"
)

// Deps bundles every collaborator a Build* call may need. Fields left
// nil get graph/react's own defaulting (e.g. a nil Bus means events are
// simply not published).
type Deps struct {
	LLM          llm.Client
	Toolkit      *toolkit.Toolkit
	Checkpoints  checkpoint.Store
	Memory       memory.Service
	Conversation conversation.Repository
	Bus          hooks.Bus
	Logger       telemetry.Logger
}

// BuildGraphAgent validates nodes/edges via the Graph Validator,
// coerces maxSteps for ReAct-disabled nodes, and returns a ready
// graph.Agent.
func BuildGraphAgent(nodes []graph.Node, edges []graph.Edge, deps Deps) (*graph.Agent, error) {
	return graph.Build(nodes, edges, graph.Collaborators{
		LLM:          deps.LLM,
		Toolkit:      deps.Toolkit,
		Checkpoints:  deps.Checkpoints,
		Memory:       deps.Memory,
		Conversation: deps.Conversation,
		Bus:          deps.Bus,
		Logger:       deps.Logger,
	})
}

// BuildReActAgent validates cfg.PromptTemplate compiles and that deps.Toolkit
// is non-nil whenever the configuration could ever dispatch a tool action
// (MaxSteps > 1, since a single-step agent that never loops never needs
// one), then returns a ready react.Agent.
func BuildReActAgent(cfg react.Config, llmOpts llm.Options, deps Deps) (*react.Agent, error) {
	tmpl := cfg.PromptTemplate
	if tmpl == "" {
		tmpl = "{{.Input}}"
	}
	if _, err := template.New("prompt").Parse(tmpl); err != nil {
		return nil, fmt.Errorf("factory: prompt template does not compile: %w", err)
	}
	if cfg.Enabled && cfg.MaxSteps > 1 && deps.Toolkit == nil {
		return nil, fmt.Errorf("factory: reactConfig allows multiple steps but no toolkit was provided")
	}
	return react.New(deps.LLM, deps.Toolkit, cfg, llmOpts), nil
}
