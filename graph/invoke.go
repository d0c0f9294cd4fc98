package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/agentcore/runtime/hooks"
	"github.com/agentcore/runtime/ids"
)

// StreamChunk is one increment emitted by Stream: either a just-completed
// node's output, or the terminal error/result.
type StreamChunk struct {
	NodeID ids.NodeId
	Output string
	Final  bool
	Err    error
}

// Invoke runs the graph to completion for one turn of input: selects entry nodes, spawns them, and blocks until
// every reachable node this turn has finished, returning the output of
// the last leaf node (no outgoing edges) to complete, or of the last node
// to complete when no leaf node ran.
func (a *Agent) Invoke(ctx context.Context, input string) (string, error) {
	if err := a.beginRun(ctx); err != nil {
		return "", err
	}

	command, processed, entries, err := a.selectEntry(input)
	if err != nil {
		a.endRun(StateReady)
		return "", err
	}
	a.emit(hooks.NewEntryNodesDeterminedEvent("", "", command, entries, processed))

	for _, e := range entries {
		a.startNode(a.runCtx, e, processed, nil)
	}

	waited := make(chan struct{})
	go func() {
		a.nodeWG.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-a.runCtx.Done():
		a.nodeWG.Wait()
	}

	output, ok := a.lastLeafOutput()
	a.endRun(StateReady)
	if !ok {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("graph agent: run produced no output")
	}
	return output, nil
}

// Stream runs like Invoke but returns a channel of StreamChunk, one per
// newly completed node, polling completedQueue every 50ms and skipping
// nodes already reported via emittedIds.
func (a *Agent) Stream(ctx context.Context, input string) (<-chan StreamChunk, error) {
	if err := a.beginRun(ctx); err != nil {
		return nil, err
	}

	command, processed, entries, err := a.selectEntry(input)
	if err != nil {
		a.endRun(StateReady)
		return nil, err
	}
	a.emit(hooks.NewEntryNodesDeterminedEvent("", "", command, entries, processed))

	for _, e := range entries {
		a.startNode(a.runCtx, e, processed, nil)
	}

	out := make(chan StreamChunk, 16)
	go func() {
		defer close(out)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()

		waited := make(chan struct{})
		go func() {
			a.nodeWG.Wait()
			close(waited)
		}()

		for {
			select {
			case <-ticker.C:
				a.drainNewlyCompleted(out)
			case <-waited:
				a.drainNewlyCompleted(out)
				output, ok := a.lastLeafOutput()
				a.endRun(StateReady)
				if ok {
					out <- StreamChunk{Output: output, Final: true}
				}
				return
			case <-a.runCtx.Done():
				a.drainNewlyCompleted(out)
				a.endRun(StateReady)
				out <- StreamChunk{Final: true, Err: a.runCtx.Err()}
				return
			}
		}
	}()
	return out, nil
}

func (a *Agent) beginRun(ctx context.Context) error {
	reply := make(chan error, 1)
	a.send(funcCommand(func(ag *Agent) {
		if ag.agentState == StateRunning {
			reply <- fmt.Errorf("graph agent: a run is already in progress")
			return
		}
		runCtx, cancel := context.WithCancel(ctx)
		ag.runCtx = runCtx
		ag.runCancel = cancel
		ag.agentState = StateRunning
		reply <- nil
	}))
	return <-reply
}

func (a *Agent) endRun(next AgentState) {
	reply := make(chan struct{})
	a.send(funcCommand(func(ag *Agent) {
		if ag.agentState == StateRunning {
			ag.agentState = next
		}
		reply <- struct{}{}
	}))
	<-reply
}

// lastLeafOutput scans executionHistory in reverse for the most recent
// entry whose node has no outgoing edges, falling back to the last entry overall.
func (a *Agent) lastLeafOutput() (string, bool) {
	reply := make(chan struct {
		output string
		ok     bool
	}, 1)
	a.send(funcCommand(func(ag *Agent) {
		h := ag.state.executionHistory
		for i := len(h) - 1; i >= 0; i-- {
			if len(ag.outgoingBySource[h[i].NodeID]) == 0 {
				reply <- struct {
					output string
					ok     bool
				}{h[i].Output, true}
				return
			}
		}
		if len(h) > 0 {
			reply <- struct {
				output string
				ok     bool
			}{h[len(h)-1].Output, true}
			return
		}
		reply <- struct {
			output string
			ok     bool
		}{"", false}
	}))
	r := <-reply
	return r.output, r.ok
}

// drainNewlyCompleted emits one StreamChunk per completedQueue entry not
// yet in emittedIds, marking each as emitted.
func (a *Agent) drainNewlyCompleted(out chan<- StreamChunk) {
	type pending struct {
		node   ids.NodeId
		output string
		err    error
	}
	reply := make(chan []pending, 1)
	a.send(funcCommand(func(ag *Agent) {
		var fresh []pending
		for _, nc := range ag.state.completedQueue {
			if ag.state.emittedIds[nc.NodeID] {
				continue
			}
			ag.state.emittedIds[nc.NodeID] = true
			fresh = append(fresh, pending{node: nc.NodeID, output: nc.Output, err: nc.Err})
		}
		reply <- fresh
	}))
	for _, p := range <-reply {
		out <- StreamChunk{NodeID: p.node, Output: p.output, Err: p.err}
	}
}
