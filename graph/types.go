// Package graph implements the Graph Agent: a directed graph whose nodes
// are themselves ReAct agents, connected by conditional edges, with joins, exclusive-edge
// groups, pause/resume, rollback, and pluggable user-interaction modes.
//
// Execution state is owned by a single GraphAgent instance and mutated
// only by one owner goroutine per run: every public
// operation — invoke, pause, resume, provideUserInput, and so on — is a
// command sent over a bounded channel and drained serially by that
// goroutine, so joinTracker/currentNodes/completedQueue/emittedIds never
// need a mutex. Node execution itself (LLM calls, tool dispatch) runs in
// per-node goroutines that report completion back to the owner.
package graph

import (
	"time"

	"github.com/agentcore/runtime/ids"
	"github.com/agentcore/runtime/memory"
	"github.com/agentcore/runtime/react"
)

type (
	// AgentState is the lifecycle state of a GraphAgent.
	AgentState string

	// ConditionType distinguishes a keyword-substring edge condition from
	// an LLM-analysis one.
	ConditionType string

	// InteractionMode governs how a node's ReAct cycle interacts with a
	// human during execution.
	InteractionMode string

	// LLMRef identifies the provider/model/token-limit a node or an
	// analysis condition invokes.
	LLMRef struct {
		Provider   string
		Model      string
		TokenLimit int
	}

	// Condition is one edge's traversal predicate.
	Condition struct {
		Type ConditionType
		// Keyword is used when Type == ConditionKeyword: a case-
		// insensitive substring test against the upstream output.
		Keyword string
		// Prompt and AnalysisProvider are used when Type ==
		// ConditionAnalysis.
		Prompt           string
		AnalysisProvider *LLMRef
	}

	// UserInteraction configures how a node pauses for human input or
	// approval.
	UserInteraction struct {
		Mode                InteractionMode
		RequireApproval     bool
		ConfidenceThreshold *float64
		ApprovalPrompt      string
		AllowUserPrompting  bool
		ShowEndChatButton   bool
	}

	// Node is one vertex of the graph.
	Node struct {
		ID              ids.NodeId
		Command         string
		Name            string
		Description     string
		LLM             LLMRef
		ReactConfig     react.Config
		UserInteraction *UserInteraction
	}

	// Edge is one directed connection between two nodes.
	Edge struct {
		ID               ids.EdgeId
		From             ids.NodeId
		To               ids.NodeId
		Condition        Condition
		MemoryOverride   *memory.Record
		ContextFrom      []ids.NodeId
		ExclusiveGroup   string
		Priority         int
		IsJoin           bool
		JoinPredecessors []ids.NodeId
	}
)

const (
	StateInitializing AgentState = "initializing"
	StateReady        AgentState = "ready"
	StateRunning      AgentState = "running"
	StatePaused       AgentState = "paused"
	StateStopped      AgentState = "stopped"
	StateErrored      AgentState = "errored"

	ConditionKeyword  ConditionType = "keyword"
	ConditionAnalysis ConditionType = "analysis"

	InteractionContinuousChat   InteractionMode = "continuous_chat"
	InteractionSingleReactCycle InteractionMode = "single_react_cycle"
)

// defaultExclusiveGroup names the implicit group edges without an
// ExclusiveGroup belong to.
const defaultExclusiveGroup = "default"

// newMessageCommand is the entry command matched when input carries no
// explicit "/command" prefix.
const newMessageCommand = "_newmessage"

// Default timeouts for interaction waits.
const (
	userInputTimeout    = 5 * time.Minute
	userApprovalTimeout = 10 * time.Minute
	chatEndTimeout      = 10 * time.Minute
)

// rollbackRingCapacity bounds the checkpoint ring.
const rollbackRingCapacity = 10
