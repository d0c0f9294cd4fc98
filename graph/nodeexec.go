package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/agentcore/runtime/hooks"
	"github.com/agentcore/runtime/ids"
	"github.com/agentcore/runtime/llm"
	"github.com/agentcore/runtime/react"
)

// startNode spawns the per-node goroutine. Graph
// structure (a.nodes, a.edges) is immutable for the run's duration, so the
// goroutine reads it directly without going through the owner; only
// executionState fields are routed through owner commands.
//
// startNode's nodeWG count spans a node's full lifecycle, including the
// asynchronous fan-out completeNode triggers — not just runNode's return
// — so Invoke's Wait() never observes a false "nothing left running" gap
// between a node finishing and its successors being spawned. Each
// terminal path (failNode, or the goroutine completeNode hands fan-out
// to) calls nodeWG.Done() itself exactly once.
func (a *Agent) startNode(ctx context.Context, node ids.NodeId, input string, history []llm.Message) {
	a.nodeWG.Add(1)
	go a.runNode(ctx, node, input, history)
}

func (a *Agent) runNode(ctx context.Context, node ids.NodeId, input string, history []llm.Message) {
	def := a.nodes[node]

	registered := make(chan bool, 1)
	a.send(funcCommand(func(ag *Agent) {
		ag.writeCheckpoint(node)
		ag.state.currentNodes[node] = &nodeExecutionContext{
			NodeID: node, NodeName: def.Name, Status: nodeRunning,
			Input: input, StartedAt: time.Now(),
		}
		ag.emit(hooks.NewNodeExecutionEvent(hooks.GraphNodeExecutionStart, "", "", node, def.Name, 0, "", nil))
		mustWait := ag.state.pause.Before || ag.state.pausedBranches[node]
		registered <- mustWait
	}))
	if <-registered {
		a.emit(hooks.NewNodePausedEvent("", "", node, "before"))
		if err := a.gate.wait(ctx); err != nil {
			a.failNode(node, def.Name, input, err)
			return
		}
	}

	if err := ctx.Err(); err != nil {
		a.failNode(node, def.Name, input, err)
		return
	}

	contextMsgs := a.gatherContextMessages(ctx, node, history)

	reactAgent := react.New(a.collab.LLM, a.collab.Toolkit, def.ReactConfig, llm.Options{
		Provider: def.LLM.Provider, Model: def.LLM.Model, TokenLimit: def.LLM.TokenLimit,
	})

	output, err := a.runInteraction(ctx, node, def, reactAgent, input, contextMsgs)
	if err != nil {
		a.failNode(node, def.Name, input, err)
		return
	}

	if def.UserInteraction != nil && def.UserInteraction.RequireApproval {
		approved := a.waitForApproval(ctx, node)
		if !approved {
			a.failNode(node, def.Name, input, fmt.Errorf("graph agent: node %q output rejected on approval", node))
			return
		}
	}

	a.completeNode(ctx, node, def, input, output)
}

// gatherContextMessages assembles contextMessages = history ∪
// collectContext(N), applying any incoming edge's memoryOverride for this
// node only.
func (a *Agent) gatherContextMessages(ctx context.Context, node ids.NodeId, history []llm.Message) []llm.Message {
	msgs := append([]llm.Message{}, history...)

	extraCh := make(chan *llm.Message, 1)
	a.send(funcCommand(func(ag *Agent) { extraCh <- ag.collectContext(node) }))
	if extra := <-extraCh; extra != nil {
		msgs = append(msgs, *extra)
	}

	if a.collab.Memory != nil {
		for _, e := range a.incomingByTarget[node] {
			if e.MemoryOverride == nil {
				continue
			}
			entries, err := a.collab.Memory.Load(ctx, *e.MemoryOverride)
			if err != nil {
				continue
			}
			assembled, err := a.collab.Memory.Assemble(ctx, entries, 0)
			if err == nil && assembled != "" {
				msgs = append(msgs, llm.Message{Role: "system", Content: assembled})
			}
		}
	}
	return msgs
}

// runInteraction executes per userInteraction.mode. A nil UserInteraction behaves as the single_react_cycle
// default with no confidence threshold.
func (a *Agent) runInteraction(ctx context.Context, node ids.NodeId, def Node, agent *react.Agent, input string, history []llm.Message) (string, error) {
	ui := def.UserInteraction
	if ui != nil && ui.Mode == InteractionContinuousChat {
		return a.runContinuousChat(ctx, node, agent, input, history, ui)
	}
	return a.runSingleCycle(ctx, node, agent, input, history, ui)
}

func (a *Agent) runSingleCycle(ctx context.Context, node ids.NodeId, agent *react.Agent, input string, history []llm.Message, ui *UserInteraction) (string, error) {
	outcome, err := agent.Invoke(ctx, input, history)
	if err != nil {
		return "", err
	}
	output := outcome.FinalAnswer

	if ui == nil || ui.ConfidenceThreshold == nil {
		return output, nil
	}

	confidence := estimateConfidence(output)
	threshold := *ui.ConfidenceThreshold
	if confidence >= threshold {
		return output, nil
	}

	a.emit(hooks.NewNodeLowConfidenceEvent("", "", node, confidence, threshold))
	reply, timedOut := a.waitForUserInput(ctx, node)
	if timedOut || reply == "" {
		return output, nil // timeout/empty reply accepts current output
	}
	switch reply {
	case "accept":
		return output, nil
	case "retry":
		nudge := append(append([]llm.Message{}, history...), llm.Message{Role: "user", Content: "try again"})
		outcome, err = agent.Invoke(ctx, input, nudge)
		if err != nil {
			return "", err
		}
		return outcome.FinalAnswer, nil
	default:
		if ui.AllowUserPrompting {
			guided := append(append([]llm.Message{}, history...), llm.Message{Role: "user", Content: reply})
			outcome, err = agent.Invoke(ctx, input, guided)
			if err != nil {
				return "", err
			}
			return outcome.FinalAnswer, nil
		}
		return output, nil
	}
}

func (a *Agent) runContinuousChat(ctx context.Context, node ids.NodeId, agent *react.Agent, input string, history []llm.Message, ui *UserInteraction) (string, error) {
	conversation := append([]llm.Message{}, history...)
	currentInput := input
	var lastOutput string

	for {
		outcome, err := agent.Invoke(ctx, currentInput, conversation)
		if err != nil {
			return "", err
		}
		lastOutput = outcome.FinalAnswer
		conversation = append(conversation, llm.Message{Role: "user", Content: currentInput}, llm.Message{Role: "assistant", Content: lastOutput})

		a.emit(hooks.NewNodeInteractionEvent("", "", node, "chat"))
		action, nextInput, ok := a.waitForChatAction(ctx, node)
		if !ok || action == "end" {
			return lastOutput, nil
		}
		currentInput = nextInput
		if ctx.Err() != nil {
			return lastOutput, ctx.Err()
		}
	}
}

// failNode marks node failed without aborting siblings.
func (a *Agent) failNode(node ids.NodeId, name, input string, err error) {
	defer a.nodeWG.Done()
	a.send(funcCommand(func(ag *Agent) {
		ctx := ag.state.currentNodes[node]
		if ctx == nil {
			ctx = &nodeExecutionContext{NodeID: node, NodeName: name, Input: input, StartedAt: time.Now()}
			ag.state.currentNodes[node] = ctx
		}
		ctx.Status = nodeFailed
		ctx.Err = err
		ag.emit(hooks.NewNodeExecutionEvent(hooks.GraphNodeExecutionError, "", "", node, name, time.Since(ctx.StartedAt).Milliseconds(), "", err))
	}))
}

// completeNode records completion and triggers fan-out.
func (a *Agent) completeNode(ctx context.Context, node ids.NodeId, def Node, input, output string) {
	a.send(funcCommand(func(ag *Agent) {
		nctx := ag.state.currentNodes[node]
		if nctx == nil {
			nctx = &nodeExecutionContext{NodeID: node, NodeName: def.Name, Input: input, StartedAt: time.Now()}
		}
		nctx.Status = nodeCompleted
		nctx.Output = output
		durationMs := time.Since(nctx.StartedAt).Milliseconds()

		ag.state.completedQueue = append(ag.state.completedQueue, nctx)
		ag.state.executionHistory = append(ag.state.executionHistory, historyEntry{
			NodeID: node, NodeName: def.Name, Input: input, Output: output,
			StartedAt: nctx.StartedAt, DurationMs: durationMs,
		})
		ag.emit(hooks.NewNodeExecutionEvent(hooks.GraphNodeExecutionComplete, "", "", node, def.Name, durationMs, output, nil))

		mustWaitAfter := ag.state.pause.After
		go func() {
			defer a.nodeWG.Done()
			if mustWaitAfter {
				a.emit(hooks.NewNodePausedEvent("", "", node, "after"))
				_ = a.gate.wait(ctx)
			}
			a.processNodeCompletion(ctx, node, output)
		}()
	}))
}
