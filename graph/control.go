package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/agentcore/runtime/checkpoint"
	"github.com/agentcore/runtime/hooks"
	"github.com/agentcore/runtime/ids"
	"github.com/agentcore/runtime/toolerrors"
)

// Pause sets pause flags and optionally adds branch ids to
// pausedBranches.
func (a *Agent) Pause(opts PauseOptions) {
	reply := make(chan struct{})
	a.send(funcCommand(func(ag *Agent) {
		ag.state.pause = pauseSettings{
			Before:         opts.Before,
			After:          opts.After,
			Between:        opts.Between,
			AutoCheckpoint: opts.AutoCheckpoint,
		}
		for _, id := range opts.Branches {
			ag.state.pausedBranches[id] = true
		}
		ag.gate.pause()
		ag.agentState = StatePaused
		close(reply)
	}))
	<-reply
}

// Resume clears the pause flag and pausedBranches; every waitForResume
// task proceeds.
func (a *Agent) Resume() {
	reply := make(chan struct{})
	a.send(funcCommand(func(ag *Agent) {
		ag.state.pause = pauseSettings{}
		ag.state.pausedBranches = make(map[ids.NodeId]bool)
		ag.gate.resume()
		if ag.agentState == StatePaused {
			ag.agentState = StateRunning
		}
		close(reply)
	}))
	<-reply
}

// Abort signals the current run's cancellation token, sets state paused,
// and emits execution-aborted.
func (a *Agent) Abort() {
	reply := make(chan struct{})
	a.send(funcCommand(func(ag *Agent) {
		if ag.runCancel != nil {
			ag.runCancel()
		}
		ag.agentState = StatePaused
		ag.emit(hooks.NewExecutionEvent(hooks.GraphExecutionAborted, "", "", "", "", nil))
		close(reply)
	}))
	<-reply
}

// Rollback is permitted only while not running. It snaps
// executionHistory/currentNodes/joinTracker back to the checkpoint steps
// before the tail and truncates the checkpoint ring accordingly.
func (a *Agent) Rollback(steps int) error {
	if steps < 1 {
		steps = 1
	}
	reply := make(chan error, 1)
	a.send(funcCommand(func(ag *Agent) {
		if ag.agentState == StateRunning {
			reply <- fmt.Errorf("graph agent: rollback is not permitted while running")
			return
		}
		ring := ag.state.rollbackCheckpoints
		if len(ring) < steps {
			reply <- fmt.Errorf("graph agent: only %d checkpoint(s) available, cannot rollback %d steps", len(ring), steps)
			return
		}
		idx := len(ring) - steps
		cp := ring[idx]

		ag.state.executionHistory = append([]historyEntry{}, cp.ExecutionHistorySnapshot...)
		ag.state.currentNodes = make(map[ids.NodeId]*nodeExecutionContext, len(cp.CurrentNodesSnapshot))
		for id, ctx := range cp.CurrentNodesSnapshot {
			c := ctx
			ag.state.currentNodes[id] = &c
		}
		ag.state.joinTracker = make(map[ids.NodeId]*joinState, len(cp.JoinTrackerSnapshot))
		for id, j := range cp.JoinTrackerSnapshot {
			js := j
			ag.state.joinTracker[id] = &js
		}
		ag.state.rollbackCheckpoints = ring[:idx]

		ag.emit(hooks.NewExecutionRolledBackEvent("", "", steps, len(ag.state.executionHistory)))
		reply <- nil
	}))
	return <-reply
}

// RestoreResult is returned by RestoreFromCheckpoint; once
// ContinuationReady is true, callers pass their next input to
// ContinueWithInput.
type RestoreResult struct {
	ContinuationReady bool
}

// RestoreFromCheckpoint fetches checkpointID from the external checkpoint
// store, passes it to applyExternalCheckpoint, sets paused, and returns a
// continuation primed for ContinueWithInput. applyExternalCheckpoint does
// not decode the payload, so no execution state (active edges, current
// input, paused branches) is restored from it; only the pause is applied.
func (a *Agent) RestoreFromCheckpoint(ctx context.Context, checkpointID string) (RestoreResult, error) {
	if a.collab.Checkpoints == nil {
		return RestoreResult{}, toolerrors.New(toolerrors.NameCheckpointRestore, "no checkpoint store configured")
	}
	cp, ok, err := a.collab.Checkpoints.Get(ctx, a.conversationID, checkpointID)
	if err != nil {
		return RestoreResult{}, toolerrors.Wrap(toolerrors.NameCheckpointRestore, err)
	}
	if !ok {
		return RestoreResult{}, toolerrors.New(toolerrors.NameCheckpointRestore, "checkpoint not found")
	}

	reply := make(chan error, 1)
	a.send(funcCommand(func(ag *Agent) {
		if err := ag.applyExternalCheckpoint(cp); err != nil {
			reply <- err
			return
		}
		ag.gate.pause()
		ag.agentState = StatePaused
		reply <- nil
	}))
	if err := <-reply; err != nil {
		return RestoreResult{}, err
	}
	return RestoreResult{ContinuationReady: true}, nil
}

// applyExternalCheckpoint is a placeholder hook for decoding cp.Payload
// into activeEdges/currentInput/pausedBranches. The payload format is an
// external-store concern; this core only requires
// that, once decoded, state lands in the fields rollback already knows
// how to restore.
func (a *Agent) applyExternalCheckpoint(cp checkpoint.Checkpoint) error {
	return nil
}

// ContinueWithInput clears the pause and runs Invoke with input. Invoke
// selects entry nodes afresh, so the run starts from the graph's entry
// nodes; it is not limited to the subgraph reachable from the restored
// point.
func (a *Agent) ContinueWithInput(ctx context.Context, input string) error {
	if a.State() != StatePaused {
		return fmt.Errorf("graph agent: continueWithInput requires a paused run")
	}
	a.clearPauseForContinuation()
	_, err := a.Invoke(ctx, input)
	return err
}

// clearPauseForContinuation releases the pause gate and clears pause
// settings without transitioning agentState to StateRunning — that
// transition belongs to the Invoke call's own beginRun, which only
// rejects a call already in StateRunning. Resume() cannot be reused here:
// it flips agentState straight to StateRunning, which would make the
// following Invoke's beginRun see a run already in progress and reject.
func (a *Agent) clearPauseForContinuation() {
	reply := make(chan struct{})
	a.send(funcCommand(func(ag *Agent) {
		ag.state.pause = pauseSettings{}
		ag.state.pausedBranches = make(map[ids.NodeId]bool)
		ag.gate.resume()
		close(reply)
	}))
	<-reply
}

// nodeExecutionSnapshot is the exported-safe view of a currentNodes entry
// returned by GetExecutionState.
type nodeExecutionSnapshot struct {
	NodeID    ids.NodeId
	NodeName  string
	Status    nodeStatus
	Input     string
	Output    string
	StartedAt time.Time
}

// ExecutionStateSnapshot is a point-in-time copy of a run's observable
// state, returned by GetExecutionState.
type ExecutionStateSnapshot struct {
	AgentState              AgentState
	CurrentNodes            []nodeExecutionSnapshot
	ExecutionHistory        []historyEntry
	PendingUserInteractions map[ids.NodeId]pendingInteraction
}

// GetExecutionState returns a snapshot of the run's current state:
// agentState, every node's currentNodes record, the append-only
// executionHistory, and any pendingUserInteractions. Safe to call at any
// time, running or not.
func (a *Agent) GetExecutionState() ExecutionStateSnapshot {
	reply := make(chan ExecutionStateSnapshot, 1)
	a.send(funcCommand(func(ag *Agent) {
		nodes := make([]nodeExecutionSnapshot, 0, len(ag.state.currentNodes))
		for _, nc := range ag.state.currentNodes {
			nodes = append(nodes, nodeExecutionSnapshot{
				NodeID:    nc.NodeID,
				NodeName:  nc.NodeName,
				Status:    nc.Status,
				Input:     nc.Input,
				Output:    nc.Output,
				StartedAt: nc.StartedAt,
			})
		}
		history := append([]historyEntry{}, ag.state.executionHistory...)
		interactions := make(map[ids.NodeId]pendingInteraction, len(ag.state.pendingUserInteractions))
		for k, v := range ag.state.pendingUserInteractions {
			interactions[k] = v
		}
		reply <- ExecutionStateSnapshot{
			AgentState:              ag.agentState,
			CurrentNodes:            nodes,
			ExecutionHistory:        history,
			PendingUserInteractions: interactions,
		}
	}))
	return <-reply
}

// GetPendingUserInteractions returns a snapshot of pendingUserInteractions.
func (a *Agent) GetPendingUserInteractions() map[ids.NodeId]pendingInteraction {
	reply := make(chan map[ids.NodeId]pendingInteraction, 1)
	a.send(funcCommand(func(ag *Agent) {
		out := make(map[ids.NodeId]pendingInteraction, len(ag.state.pendingUserInteractions))
		for k, v := range ag.state.pendingUserInteractions {
			out[k] = v
		}
		reply <- out
	}))
	return <-reply
}

// GetRollbackCheckpoints returns a snapshot of the checkpoint ring.
func (a *Agent) GetRollbackCheckpoints() []checkpointSummary {
	reply := make(chan []checkpointSummary, 1)
	a.send(funcCommand(func(ag *Agent) {
		out := make([]checkpointSummary, len(ag.state.rollbackCheckpoints))
		for i, cp := range ag.state.rollbackCheckpoints {
			out[i] = checkpointSummary{NodeID: cp.NodeID, NodeName: cp.NodeName, At: cp.At}
		}
		reply <- out
	}))
	return <-reply
}

type checkpointSummary struct {
	NodeID   ids.NodeId
	NodeName string
	At       time.Time
}

// ClearRollbackCheckpoints empties the checkpoint ring.
func (a *Agent) ClearRollbackCheckpoints() {
	reply := make(chan struct{})
	a.send(funcCommand(func(ag *Agent) {
		cleared := len(ag.state.rollbackCheckpoints)
		ag.state.rollbackCheckpoints = nil
		ag.emit(hooks.NewRollbackCheckpointsClearedEvent("", "", cleared))
		close(reply)
	}))
	<-reply
}

// GraphPatch upserts nodes/edges by id. Empty fields are left unchanged; to remove
// a node or edge, use RemoveNodes/RemoveEdges.
type GraphPatch struct {
	UpsertNodes []Node
	UpsertEdges []Edge
	RemoveNodes []ids.NodeId
	RemoveEdges []ids.EdgeId
}

// UpdateGraphConfiguration is permitted only while paused; upserts
// nodes/edges by id.
func (a *Agent) UpdateGraphConfiguration(patch GraphPatch) error {
	reply := make(chan error, 1)
	a.send(funcCommand(func(ag *Agent) {
		if ag.agentState != StatePaused {
			reply <- fmt.Errorf("graph agent: updateGraphConfiguration is only permitted while paused")
			return
		}
		for _, id := range patch.RemoveNodes {
			delete(ag.nodes, id)
		}
		for _, n := range patch.UpsertNodes {
			ag.nodes[n.ID] = n
		}
		removeEdge := make(map[ids.EdgeId]bool, len(patch.RemoveEdges))
		for _, id := range patch.RemoveEdges {
			removeEdge[id] = true
		}
		for _, e := range patch.UpsertEdges {
			removeEdge[e.ID] = true
		}
		var kept []Edge
		for _, e := range ag.edges {
			if !removeEdge[e.ID] {
				kept = append(kept, e)
			}
		}
		kept = append(kept, patch.UpsertEdges...)
		ag.edges = kept
		ag.rebuildEdgeIndexes()
		reply <- nil
	}))
	return <-reply
}

// rebuildEdgeIndexes recomputes incomingByTarget/outgoingBySource/
// exclusiveEdgeGroups/joinTracker after UpdateGraphConfiguration.
func (a *Agent) rebuildEdgeIndexes() {
	a.incomingByTarget = make(map[ids.NodeId][]Edge)
	a.outgoingBySource = make(map[ids.NodeId][]Edge)
	a.state.exclusiveEdgeGroups = make(map[string][]ids.EdgeId)
	existingJoins := a.state.joinTracker
	a.state.joinTracker = make(map[ids.NodeId]*joinState)

	for _, e := range a.edges {
		a.incomingByTarget[e.To] = append(a.incomingByTarget[e.To], e)
		a.outgoingBySource[e.From] = append(a.outgoingBySource[e.From], e)

		group := e.ExclusiveGroup
		if group == "" {
			group = defaultExclusiveGroup
		}
		a.state.exclusiveEdgeGroups[group] = append(a.state.exclusiveEdgeGroups[group], e.ID)

		if e.IsJoin {
			if existing, ok := existingJoins[e.To]; ok {
				a.state.joinTracker[e.To] = existing
			} else {
				a.state.joinTracker[e.To] = newJoinState(e.JoinPredecessors)
			}
		}
	}
}
