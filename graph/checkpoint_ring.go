package graph

import (
	"time"

	"github.com/agentcore/runtime/hooks"
	"github.com/agentcore/runtime/ids"
)

// writeCheckpoint deep-copies
// executionHistory/currentNodes/joinTracker into a new ring entry,
// discarding the oldest once the ring exceeds rollbackRingCapacity. Must
// run on the owner goroutine.
func (a *Agent) writeCheckpoint(node ids.NodeId) {
	history, nodes, joins := a.state.snapshotForCheckpoint()
	a.state.pushCheckpoint(checkpoint{
		NodeID:                   node,
		NodeName:                 a.nodes[node].Name,
		At:                       time.Now(),
		ExecutionHistorySnapshot: history,
		CurrentNodesSnapshot:     nodes,
		JoinTrackerSnapshot:      joins,
	})
	a.emit(hooks.NewRollbackCheckpointCreatedEvent("", "", node, len(a.state.rollbackCheckpoints)))
}
