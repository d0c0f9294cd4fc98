package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentcore/runtime/checkpoint"
	"github.com/agentcore/runtime/conversation"
	"github.com/agentcore/runtime/hooks"
	"github.com/agentcore/runtime/ids"
	"github.com/agentcore/runtime/llm"
	"github.com/agentcore/runtime/memory"
	"github.com/agentcore/runtime/telemetry"
	"github.com/agentcore/runtime/toolerrors"
	"github.com/agentcore/runtime/toolkit"
)

// Collaborators bundles the external services a GraphAgent calls out to.
// Any field may be nil; Agent falls back to a no-op
// behavior (e.g. a nil CheckpointStore makes restoreFromCheckpoint always
// return CheckpointRestoreError).
type Collaborators struct {
	LLM          llm.Client
	Toolkit      *toolkit.Toolkit
	Checkpoints  checkpoint.Store
	Memory       memory.Service
	Conversation conversation.Repository
	Bus          hooks.Bus
	Logger       telemetry.Logger
}

// Agent is the Graph Agent runtime core.
// Execution state is owned by exactly one goroutine (the "owner") which
// drains cmdCh serially; every public method sends a command and blocks
// on its reply channel, so callers never touch shared state directly.
type Agent struct {
	nodes            map[ids.NodeId]Node
	edges            []Edge
	incomingByTarget map[ids.NodeId][]Edge
	outgoingBySource map[ids.NodeId][]Edge

	collab Collaborators

	conversationID string

	state       *executionState
	agentState  AgentState
	validation  ValidationResult

	interactionWaiters map[ids.NodeId]chan interactionResponse
	gate               *pauseGate

	cmdCh   chan ownerCommand
	stopCh  chan struct{}
	ownerWG sync.WaitGroup
	nodeWG  sync.WaitGroup

	runCtx    context.Context
	runCancel context.CancelFunc
}

// interactionResponse is what a Provide* call delivers to a node
// goroutine blocked waiting for user input/approval/chat action.
type interactionResponse struct {
	input    string
	approved bool
	action   string
	timedOut bool
}

// Build constructs a GraphAgent from a node/edge set, validates it,
// coerces disabled-ReAct nodes to MaxSteps=1, builds
// exclusiveEdgeGroups and joinTracker, and transitions to ready. Fatal
// validation errors are returned as a GraphValidationError.
func Build(nodes []Node, edges []Edge, collab Collaborators) (*Agent, error) {
	nodes = CoerceDisabledReact(nodes)
	result := Validate(nodes, edges)
	if !result.Valid {
		return nil, toolerrors.Errorf(toolerrors.NameGraphValidationError, "graph validation failed: %v", result.Errors)
	}

	a := &Agent{
		nodes:              make(map[ids.NodeId]Node, len(nodes)),
		edges:              edges,
		incomingByTarget:   make(map[ids.NodeId][]Edge),
		outgoingBySource:   make(map[ids.NodeId][]Edge),
		collab:             collab,
		state:              newExecutionState(),
		agentState:         StateInitializing,
		validation:         result,
		interactionWaiters: make(map[ids.NodeId]chan interactionResponse),
		gate:               newPauseGate(),
		cmdCh:              make(chan ownerCommand, 64),
		stopCh:             make(chan struct{}),
	}
	for _, n := range nodes {
		a.nodes[n.ID] = n
	}
	for _, e := range edges {
		a.incomingByTarget[e.To] = append(a.incomingByTarget[e.To], e)
		a.outgoingBySource[e.From] = append(a.outgoingBySource[e.From], e)

		group := e.ExclusiveGroup
		if group == "" {
			group = defaultExclusiveGroup
		}
		a.state.exclusiveEdgeGroups[group] = append(a.state.exclusiveEdgeGroups[group], e.ID)

		if e.IsJoin {
			if _, ok := a.state.joinTracker[e.To]; !ok {
				a.state.joinTracker[e.To] = newJoinState(e.JoinPredecessors)
			}
		}
	}

	a.agentState = StateReady
	a.emit(hooks.NewAgentLifecycleEvent(hooks.GraphAgentReady, "", "", nil))

	a.ownerWG.Add(1)
	go a.ownerLoop()

	return a, nil
}

func (a *Agent) emit(ev hooks.Event) {
	if a.collab.Bus == nil {
		return
	}
	_ = a.collab.Bus.Publish(context.Background(), ev)
}

func (a *Agent) logger() telemetry.Logger {
	if a.collab.Logger != nil {
		return a.collab.Logger
	}
	return telemetry.NoopLogger{}
}

// State returns the agent's current lifecycle state.
func (a *Agent) State() AgentState {
	reply := make(chan AgentState, 1)
	a.cmdCh <- funcCommand(func(ag *Agent) { reply <- ag.agentState })
	return <-reply
}

// Close stops the owner goroutine. In-flight node goroutines are
// canceled via the run context if one is active.
func (a *Agent) Close() {
	if a.runCancel != nil {
		a.runCancel()
	}
	close(a.stopCh)
	a.ownerWG.Wait()
}

func (a *Agent) ownerLoop() {
	defer a.ownerWG.Done()
	for {
		select {
		case cmd := <-a.cmdCh:
			cmd.apply(a)
		case <-a.stopCh:
			return
		}
	}
}

// ownerCommand is one unit of work the owner goroutine executes with
// exclusive access to Agent's state fields.
type ownerCommand interface {
	apply(a *Agent)
}

// funcCommand adapts a plain function to ownerCommand for simple reads.
type funcCommand func(a *Agent)

func (f funcCommand) apply(a *Agent) { f(a) }

// send submits cmd to the owner's command channel. It blocks only while
// that channel is full; callers that need a result wait on a reply channel
// of their own that cmd writes to.
func (a *Agent) send(cmd ownerCommand) {
	a.cmdCh <- cmd
}

var errNotRunning = fmt.Errorf("graph agent: no run in progress")
