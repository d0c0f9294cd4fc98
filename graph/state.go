package graph

import (
	"time"

	"github.com/agentcore/runtime/ids"
	"github.com/agentcore/runtime/llm"
)

// nodeStatus is the lifecycle of one running NodeExecutionContext.
type nodeStatus string

const (
	nodeRunning          nodeStatus = "running"
	nodeAwaitingInput    nodeStatus = "awaiting_user_input"
	nodeAwaitingApproval nodeStatus = "awaiting_approval"
	nodeChatWaiting      nodeStatus = "chat_waiting"
	nodeCompleted        nodeStatus = "completed"
	nodeFailed           nodeStatus = "failed"
)

// nodeExecutionContext is the per-node runtime record tracked in
// currentNodes.
type nodeExecutionContext struct {
	NodeID              ids.NodeId
	NodeName            string
	Status              nodeStatus
	Input               string
	Output              string
	Err                 error
	StartedAt           time.Time
	ConversationHistory []llm.Message
}

// joinState is the per-join-node bookkeeping in joinTracker.
type joinState struct {
	Required  map[ids.NodeId]struct{}
	Completed map[ids.NodeId]struct{}
	Ready     bool
}

func newJoinState(required []ids.NodeId) *joinState {
	req := make(map[ids.NodeId]struct{}, len(required))
	for _, id := range required {
		req[id] = struct{}{}
	}
	return &joinState{Required: req, Completed: make(map[ids.NodeId]struct{})}
}

// historyEntry is one append-only executionHistory record.
type historyEntry struct {
	NodeID     ids.NodeId
	NodeName   string
	Input      string
	Output     string
	StartedAt  time.Time
	DurationMs int64
}

// pauseSettings governs before/after/between barriers.
type pauseSettings struct {
	Before         bool
	After          bool
	Between        bool
	AutoCheckpoint bool
}

// pendingInteraction records what a paused node is waiting on.
type pendingInteraction struct {
	Kind  string // "approval", "input", or "chat"
	Since time.Time
}

// checkpoint is one rollback-ring entry.
type checkpoint struct {
	NodeID                  ids.NodeId
	NodeName                string
	At                      time.Time
	ExecutionHistorySnapshot []historyEntry
	CurrentNodesSnapshot     map[ids.NodeId]nodeExecutionContext
	JoinTrackerSnapshot      map[ids.NodeId]joinState
}

// executionState bundles every mutable field of a run into one struct so
// the owner goroutine can pass it around and snapshot it for checkpoints
// without reaching into the GraphAgent's other fields.
type executionState struct {
	currentNodes            map[ids.NodeId]*nodeExecutionContext
	completedQueue          []*nodeExecutionContext
	emittedIds              map[ids.NodeId]bool
	executionHistory        []historyEntry
	joinTracker             map[ids.NodeId]*joinState
	exclusiveEdgeGroups     map[string][]ids.EdgeId
	pausedBranches          map[ids.NodeId]bool
	pause                   pauseSettings
	pendingUserInteractions map[ids.NodeId]pendingInteraction
	rollbackCheckpoints     []checkpoint
}

func newExecutionState() *executionState {
	return &executionState{
		currentNodes:            make(map[ids.NodeId]*nodeExecutionContext),
		emittedIds:              make(map[ids.NodeId]bool),
		joinTracker:             make(map[ids.NodeId]*joinState),
		exclusiveEdgeGroups:     make(map[string][]ids.EdgeId),
		pausedBranches:          make(map[ids.NodeId]bool),
		pendingUserInteractions: make(map[ids.NodeId]pendingInteraction),
	}
}

// pushCheckpoint appends a deep-copied snapshot, discarding the oldest
// entry once the ring exceeds rollbackRingCapacity.
func (s *executionState) pushCheckpoint(cp checkpoint) {
	s.rollbackCheckpoints = append(s.rollbackCheckpoints, cp)
	if len(s.rollbackCheckpoints) > rollbackRingCapacity {
		s.rollbackCheckpoints = s.rollbackCheckpoints[len(s.rollbackCheckpoints)-rollbackRingCapacity:]
	}
}

// snapshotForCheckpoint deep-copies the three fields a rollback
// checkpoint restores.
func (s *executionState) snapshotForCheckpoint() ([]historyEntry, map[ids.NodeId]nodeExecutionContext, map[ids.NodeId]joinState) {
	history := append([]historyEntry{}, s.executionHistory...)

	nodes := make(map[ids.NodeId]nodeExecutionContext, len(s.currentNodes))
	for id, ctx := range s.currentNodes {
		nodes[id] = *ctx
	}

	joins := make(map[ids.NodeId]joinState, len(s.joinTracker))
	for id, j := range s.joinTracker {
		required := make(map[ids.NodeId]struct{}, len(j.Required))
		for k := range j.Required {
			required[k] = struct{}{}
		}
		completed := make(map[ids.NodeId]struct{}, len(j.Completed))
		for k := range j.Completed {
			completed[k] = struct{}{}
		}
		joins[id] = joinState{Required: required, Completed: completed, Ready: j.Ready}
	}

	return history, nodes, joins
}
