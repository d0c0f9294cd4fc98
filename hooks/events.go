package hooks

import (
	"time"

	"github.com/agentcore/runtime/ids"
	"github.com/agentcore/runtime/toolerrors"
)

// EventType enumerates the closed set of runtime events the core emits.
// There is deliberately no open-ended custom(name, payload) escape hatch:
// every topic a producer can publish is named here.
type EventType string

const (
	// Lifecycle
	GraphAgentInitializing EventType = "graph-agent-initializing"
	GraphAgentReady        EventType = "graph-agent-ready"
	GraphAgentError        EventType = "graph-agent-error"
	AgentStateChanged      EventType = "agent-state-changed"

	// Execution
	GraphExecutionStart        EventType = "graph-execution-start"
	GraphExecutionComplete     EventType = "graph-execution-complete"
	GraphExecutionError        EventType = "graph-execution-error"
	GraphExecutionAborted      EventType = "graph-execution-aborted"
	GraphEntryNodesDetermined  EventType = "graph-entry-nodes-determined"
	GraphEvaluatingEdges       EventType = "graph-evaluating-edges"
	GraphEdgeTraversed         EventType = "graph-edge-traversed"
	GraphEdgeNotTraversed      EventType = "graph-edge-not-traversed"
	GraphExclusiveGroupNoMatch EventType = "graph-exclusive-group-no-match"
	GraphJoinNodeWaiting       EventType = "graph-join-node-waiting"
	GraphJoinNodeReady         EventType = "graph-join-node-ready"
	GraphEdgeAnalysisError     EventType = "graph-edge-analysis-error"

	// Node
	GraphNodeExecutionStart    EventType = "graph-node-execution-start"
	GraphNodeExecutionComplete EventType = "graph-node-execution-complete"
	GraphNodeExecutionError    EventType = "graph-node-execution-error"
	GraphNodePaused            EventType = "graph-node-paused"
	GraphNodeAwaitingInput     EventType = "graph-node-awaiting-input"
	GraphNodeAwaitingApproval  EventType = "graph-node-awaiting-approval"
	GraphNodeLowConfidence     EventType = "graph-node-low-confidence"
	GraphNodeChatWaiting       EventType = "graph-node-chat-waiting"

	// Rollback
	RollbackCheckpointCreated  EventType = "rollback-checkpoint-created"
	GraphExecutionRolledBack   EventType = "graph-execution-rolled-back"
	RollbackCheckpointsCleared EventType = "rollback-checkpoints-cleared"

	// Tooling
	ToolValidationFailed EventType = "tool-validation-failed"
	ToolRetry            EventType = "tool-retry"
	ToolPausedForApproval EventType = "tool-paused-for-approval"

	// LLM
	LLMInvocationStart    EventType = "llm-invocation-start"
	LLMInvocationComplete EventType = "llm-invocation-complete"
	LLMStreamingChunk     EventType = "llm-streaming-chunk"
)

type (
	// Event is the interface every hook event implements. Concrete event
	// types carry typed payloads for each lifecycle phase; subscribers use
	// a type switch to access event-specific fields.
	Event interface {
		Type() EventType
		RunID() string
		AgentID() string
		Timestamp() int64
	}

	baseEvent struct {
		eventType EventType
		runID     string
		agentID   string
		timestamp int64
	}
)

func newBase(t EventType, runID, agentID string) baseEvent {
	return baseEvent{eventType: t, runID: runID, agentID: agentID, timestamp: time.Now().UnixMilli()}
}

func (e baseEvent) Type() EventType   { return e.eventType }
func (e baseEvent) RunID() string     { return e.runID }
func (e baseEvent) AgentID() string   { return e.agentID }
func (e baseEvent) Timestamp() int64  { return e.timestamp }

type (
	// AgentLifecycleEvent covers graph-agent-initializing/ready/error and
	// agent-state-changed. Error is nil except for GraphAgentError.
	AgentLifecycleEvent struct {
		baseEvent
		State ids.AgentId
		Error error
	}

	// ExecutionEvent covers graph-execution-start/complete/error/aborted.
	// Error is nil except for the error/aborted variants.
	ExecutionEvent struct {
		baseEvent
		Input  string
		Output string
		Error  error
	}

	// EntryNodesDeterminedEvent fires once per invoke() after entry
	// selection.
	EntryNodesDeterminedEvent struct {
		baseEvent
		Command        string
		EntryNodes     []ids.NodeId
		ProcessedInput string
	}

	// EdgeEvent covers graph-evaluating-edges, graph-edge-traversed,
	// graph-edge-not-traversed, and graph-exclusive-group-no-match.
	EdgeEvent struct {
		baseEvent
		Edge          ids.EdgeId
		From          ids.NodeId
		To            ids.NodeId
		ExclusiveGroup string
		Matched       bool
	}

	// JoinEvent covers graph-join-node-waiting/ready.
	JoinEvent struct {
		baseEvent
		Join      ids.NodeId
		Completed []ids.NodeId
		Required  []ids.NodeId
		Ready     bool
	}

	// EdgeAnalysisErrorEvent fires when an analysis-condition edge's LLM
	// call fails; the edge evaluates to false but this is non-fatal to the
	// run.
	EdgeAnalysisErrorEvent struct {
		baseEvent
		Edge ids.EdgeId
		From ids.NodeId
		To   ids.NodeId
		Err  error
	}

	// NodeExecutionEvent covers graph-node-execution-start/complete/error.
	NodeExecutionEvent struct {
		baseEvent
		Node       ids.NodeId
		NodeName   string
		DurationMs int64
		Output     string
		Error      error
	}

	// NodePausedEvent fires for graph-node-paused, at the "before",
	// "after", or "between" pause point named by Phase.
	NodePausedEvent struct {
		baseEvent
		Node  ids.NodeId
		Phase string // "before" | "after" | "between"
	}

	// NodeInteractionEvent covers graph-node-awaiting-input,
	// graph-node-awaiting-approval, and graph-node-chat-waiting.
	NodeInteractionEvent struct {
		baseEvent
		Node ids.NodeId
		Kind string // "input" | "approval" | "chat"
	}

	// NodeLowConfidenceEvent fires for graph-node-low-confidence
	//.
	NodeLowConfidenceEvent struct {
		baseEvent
		Node       ids.NodeId
		Confidence float64
		Threshold  float64
	}

	// RollbackCheckpointCreatedEvent fires on every checkpoint write.
	RollbackCheckpointCreatedEvent struct {
		baseEvent
		Node       ids.NodeId
		RingLength int
	}

	// ExecutionRolledBackEvent fires after a successful rollback(steps).
	ExecutionRolledBackEvent struct {
		baseEvent
		Steps              int
		HistoryLengthAfter int
	}

	// RollbackCheckpointsClearedEvent fires after clearRollbackCheckpoints().
	RollbackCheckpointsClearedEvent struct {
		baseEvent
		Cleared int
	}

	// ToolValidationFailedEvent is the tool-validation-failed payload for a
	// call that fails schema validation. Neither toolkit nor tool publishes
	// it.
	ToolValidationFailedEvent struct {
		baseEvent
		Tool ids.ToolId
		Err  *toolerrors.ToolError
	}

	// ToolRetryEvent is the tool-retry payload for one retry attempt.
	// Neither toolkit nor tool.Policy publishes it.
	ToolRetryEvent struct {
		baseEvent
		Tool      ids.ToolId
		Attempt   int
		ErrorName string
	}

	// ToolPausedForApprovalEvent is the tool-paused-for-approval payload for
	// a pauseBeforeUse pause or a re-approval once failureCount reaches
	// pauseThreshold. Neither toolkit nor tool publishes it.
	ToolPausedForApprovalEvent struct {
		baseEvent
		Tool         ids.ToolId
		FailureCount uint
	}

	// LLMInvocationEvent covers llm-invocation-start/complete.
	LLMInvocationEvent struct {
		baseEvent
		Provider   string
		Model      string
		DurationMs int64
		Err        error
	}

	// LLMStreamingChunkEvent is the llm-streaming-chunk payload for one
	// streamed text chunk. react.Agent.Stream delivers chunks on its own
	// channel and does not publish this event.
	LLMStreamingChunkEvent struct {
		baseEvent
		Chunk string
	}
)

// NewAgentLifecycleEvent constructs a lifecycle event. t must be one of
// GraphAgentInitializing, GraphAgentReady, GraphAgentError, or
// AgentStateChanged.
func NewAgentLifecycleEvent(t EventType, runID, agentID string, err error) *AgentLifecycleEvent {
	return &AgentLifecycleEvent{baseEvent: newBase(t, runID, agentID), Error: err}
}

// NewExecutionEvent constructs an execution-phase event.
func NewExecutionEvent(t EventType, runID, agentID, input, output string, err error) *ExecutionEvent {
	return &ExecutionEvent{baseEvent: newBase(t, runID, agentID), Input: input, Output: output, Error: err}
}

// NewEntryNodesDeterminedEvent constructs a graph-entry-nodes-determined event.
func NewEntryNodesDeterminedEvent(runID, agentID, command string, entries []ids.NodeId, processed string) *EntryNodesDeterminedEvent {
	return &EntryNodesDeterminedEvent{
		baseEvent:      newBase(GraphEntryNodesDetermined, runID, agentID),
		Command:        command,
		EntryNodes:     entries,
		ProcessedInput: processed,
	}
}

// NewEdgeEvent constructs an edge-evaluation event. t must be one of
// GraphEvaluatingEdges, GraphEdgeTraversed, GraphEdgeNotTraversed, or
// GraphExclusiveGroupNoMatch.
func NewEdgeEvent(t EventType, runID, agentID string, edge ids.EdgeId, from, to ids.NodeId, group string, matched bool) *EdgeEvent {
	return &EdgeEvent{
		baseEvent:      newBase(t, runID, agentID),
		Edge:           edge,
		From:           from,
		To:             to,
		ExclusiveGroup: group,
		Matched:        matched,
	}
}

// NewJoinEvent constructs a join-barrier event. t must be one of
// GraphJoinNodeWaiting or GraphJoinNodeReady.
func NewJoinEvent(t EventType, runID, agentID string, join ids.NodeId, completed, required []ids.NodeId, ready bool) *JoinEvent {
	return &JoinEvent{
		baseEvent: newBase(t, runID, agentID),
		Join:      join,
		Completed: completed,
		Required:  required,
		Ready:     ready,
	}
}

// NewEdgeAnalysisErrorEvent constructs a graph-edge-analysis-error event.
func NewEdgeAnalysisErrorEvent(runID, agentID string, edge ids.EdgeId, from, to ids.NodeId, err error) *EdgeAnalysisErrorEvent {
	return &EdgeAnalysisErrorEvent{
		baseEvent: newBase(GraphEdgeAnalysisError, runID, agentID),
		Edge:      edge,
		From:      from,
		To:        to,
		Err:       err,
	}
}

// NewNodeExecutionEvent constructs a node-execution-phase event.
func NewNodeExecutionEvent(t EventType, runID, agentID string, node ids.NodeId, name string, durationMs int64, output string, err error) *NodeExecutionEvent {
	return &NodeExecutionEvent{
		baseEvent:  newBase(t, runID, agentID),
		Node:       node,
		NodeName:   name,
		DurationMs: durationMs,
		Output:     output,
		Error:      err,
	}
}

// NewNodePausedEvent constructs a graph-node-paused event.
func NewNodePausedEvent(runID, agentID string, node ids.NodeId, phase string) *NodePausedEvent {
	return &NodePausedEvent{baseEvent: newBase(GraphNodePaused, runID, agentID), Node: node, Phase: phase}
}

// NewNodeInteractionEvent constructs a node-interaction event. kind must be
// "input", "approval", or "chat".
func NewNodeInteractionEvent(runID, agentID string, node ids.NodeId, kind string) *NodeInteractionEvent {
	t := GraphNodeChatWaiting
	switch kind {
	case "input":
		t = GraphNodeAwaitingInput
	case "approval":
		t = GraphNodeAwaitingApproval
	}
	return &NodeInteractionEvent{baseEvent: newBase(t, runID, agentID), Node: node, Kind: kind}
}

// NewNodeLowConfidenceEvent constructs a graph-node-low-confidence event.
func NewNodeLowConfidenceEvent(runID, agentID string, node ids.NodeId, confidence, threshold float64) *NodeLowConfidenceEvent {
	return &NodeLowConfidenceEvent{
		baseEvent:  newBase(GraphNodeLowConfidence, runID, agentID),
		Node:       node,
		Confidence: confidence,
		Threshold:  threshold,
	}
}

// NewRollbackCheckpointCreatedEvent constructs a rollback-checkpoint-created event.
func NewRollbackCheckpointCreatedEvent(runID, agentID string, node ids.NodeId, ringLen int) *RollbackCheckpointCreatedEvent {
	return &RollbackCheckpointCreatedEvent{
		baseEvent:  newBase(RollbackCheckpointCreated, runID, agentID),
		Node:       node,
		RingLength: ringLen,
	}
}

// NewExecutionRolledBackEvent constructs a graph-execution-rolled-back event.
func NewExecutionRolledBackEvent(runID, agentID string, steps, historyAfter int) *ExecutionRolledBackEvent {
	return &ExecutionRolledBackEvent{
		baseEvent:          newBase(GraphExecutionRolledBack, runID, agentID),
		Steps:              steps,
		HistoryLengthAfter: historyAfter,
	}
}

// NewRollbackCheckpointsClearedEvent constructs a rollback-checkpoints-cleared event.
func NewRollbackCheckpointsClearedEvent(runID, agentID string, cleared int) *RollbackCheckpointsClearedEvent {
	return &RollbackCheckpointsClearedEvent{baseEvent: newBase(RollbackCheckpointsCleared, runID, agentID), Cleared: cleared}
}

// NewToolValidationFailedEvent constructs a tool-validation-failed event.
func NewToolValidationFailedEvent(runID, agentID string, tool ids.ToolId, err *toolerrors.ToolError) *ToolValidationFailedEvent {
	return &ToolValidationFailedEvent{baseEvent: newBase(ToolValidationFailed, runID, agentID), Tool: tool, Err: err}
}

// NewToolRetryEvent constructs a tool-retry event.
func NewToolRetryEvent(runID, agentID string, tool ids.ToolId, attempt int, errName string) *ToolRetryEvent {
	return &ToolRetryEvent{baseEvent: newBase(ToolRetry, runID, agentID), Tool: tool, Attempt: attempt, ErrorName: errName}
}

// NewToolPausedForApprovalEvent constructs a tool-paused-for-approval event.
func NewToolPausedForApprovalEvent(runID, agentID string, tool ids.ToolId, failureCount uint) *ToolPausedForApprovalEvent {
	return &ToolPausedForApprovalEvent{baseEvent: newBase(ToolPausedForApproval, runID, agentID), Tool: tool, FailureCount: failureCount}
}

// NewLLMInvocationEvent constructs an llm-invocation-start/complete event.
func NewLLMInvocationEvent(t EventType, runID, agentID, provider, model string, durationMs int64, err error) *LLMInvocationEvent {
	return &LLMInvocationEvent{
		baseEvent:  newBase(t, runID, agentID),
		Provider:   provider,
		Model:      model,
		DurationMs: durationMs,
		Err:        err,
	}
}

// NewLLMStreamingChunkEvent constructs an llm-streaming-chunk event.
func NewLLMStreamingChunkEvent(runID, agentID, chunk string) *LLMStreamingChunkEvent {
	return &LLMStreamingChunkEvent{baseEvent: newBase(LLMStreamingChunk, runID, agentID), Chunk: chunk}
}
