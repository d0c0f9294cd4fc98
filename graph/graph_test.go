package graph_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore/runtime/graph"
	"github.com/agentcore/runtime/ids"
	"github.com/agentcore/runtime/llm"
	"github.com/agentcore/runtime/react"
)

// scriptedClient always answers with a fixed final answer, ignoring the
// prompt; enough to drive node execution through one ReAct cycle.
type scriptedClient struct {
	answer string
}

func (c *scriptedClient) Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (llm.Response, error) {
	return llm.Response{Text: "Thought: done\nFinal Answer: " + c.answer}, nil
}

func (c *scriptedClient) ChatStream(ctx context.Context, messages []llm.Message, opts llm.Options, onChunk llm.ChunkFunc) (llm.Response, error) {
	return c.Chat(ctx, messages, opts)
}

func simpleReactConfig() react.Config {
	return react.Config{Enabled: true, MaxSteps: 1}
}

func newTestAgent(t *testing.T, client llm.Client, nodes []graph.Node, edges []graph.Edge) *graph.Agent {
	t.Helper()
	a, err := graph.Build(nodes, edges, graph.Collaborators{LLM: client})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestAgent_Invoke_ChainOfTwoNodes(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a", Name: "A", ReactConfig: simpleReactConfig()},
		{ID: "b", Name: "B", ReactConfig: simpleReactConfig()},
	}
	edges := []graph.Edge{
		{ID: "e1", From: "a", To: "b"},
	}
	client := &scriptedClient{answer: "done"}
	a := newTestAgent(t, client, nodes, edges)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	output, err := a.Invoke(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "done", output)
}

func TestAgent_Invoke_KeywordEdgeGatesTraversal(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a", Name: "A", ReactConfig: simpleReactConfig()},
		{ID: "b", Name: "B", ReactConfig: simpleReactConfig()},
	}
	edges := []graph.Edge{
		{ID: "e1", From: "a", To: "b", Condition: graph.Condition{Type: graph.ConditionKeyword, Keyword: "never-matches"}},
	}
	client := &scriptedClient{answer: "done"}
	a := newTestAgent(t, client, nodes, edges)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	output, err := a.Invoke(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "done", output, "B never runs, so A's own output is the terminal result")
}

func TestAgent_Invoke_JoinWaitsForAllPredecessors(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a", Name: "A", ReactConfig: simpleReactConfig()},
		{ID: "b", Name: "B", ReactConfig: simpleReactConfig()},
		{ID: "c", Name: "C", ReactConfig: simpleReactConfig()},
	}
	edges := []graph.Edge{
		{ID: "e1", From: "a", To: "c", IsJoin: true, JoinPredecessors: []ids.NodeId{"a", "b"}},
		{ID: "e2", From: "b", To: "c", IsJoin: true, JoinPredecessors: []ids.NodeId{"a", "b"}},
	}
	client := &scriptedClient{answer: "joined"}
	a := newTestAgent(t, client, nodes, edges)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	output, err := a.Invoke(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "joined", output)
}

func TestAgent_PauseBlocksNodeUntilResume(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a", Name: "A", ReactConfig: simpleReactConfig()},
	}
	client := &scriptedClient{answer: "done"}
	a := newTestAgent(t, client, nodes, nil)

	a.Pause(graph.PauseOptions{Before: true})

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = a.Invoke(ctx, "hello")
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("invoke completed while paused")
	case <-time.After(100 * time.Millisecond):
	}

	a.Resume()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("invoke never completed after resume")
	}
}

func TestAgent_Rollback_RestoresExecutionHistory(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a", Name: "A", ReactConfig: simpleReactConfig()},
		{ID: "b", Name: "B", ReactConfig: simpleReactConfig()},
	}
	edges := []graph.Edge{{ID: "e1", From: "a", To: "b"}}
	client := &scriptedClient{answer: "done"}
	a := newTestAgent(t, client, nodes, edges)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := a.Invoke(ctx, "hello")
	require.NoError(t, err)

	checkpoints := a.GetRollbackCheckpoints()
	require.NotEmpty(t, checkpoints)

	err = a.Rollback(len(checkpoints))
	require.NoError(t, err)
	assert.Empty(t, a.GetExecutionState().ExecutionHistory, "rolling back every checkpoint restores the history captured before A ran")
}

func TestAgent_Build_AllowsCyclesAsWarningOnly(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a", Name: "A", ReactConfig: simpleReactConfig()},
		{ID: "b", Name: "B", ReactConfig: simpleReactConfig()},
	}
	edges := []graph.Edge{
		{ID: "e1", From: "a", To: "b"},
		{ID: "e2", From: "b", To: "a"},
	}
	result := graph.Validate(nodes, edges)
	assert.True(t, result.Valid, "cycles are warnings, not fatal errors")
	assert.True(t, result.HasCycles)
	assert.NotEmpty(t, result.Cycles)
}

func TestAgent_Build_RejectsMalformedEdge(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a", Name: "A", ReactConfig: simpleReactConfig()},
	}
	edges := []graph.Edge{
		{ID: "e1", From: "a", To: "nonexistent"},
	}
	_, err := graph.Build(nodes, edges, graph.Collaborators{})
	require.Error(t, err)
}

func TestAgent_Invoke_LowConfidenceAwaitsUserInput(t *testing.T) {
	threshold := 0.99
	nodes := []graph.Node{
		{
			ID: "a", Name: "A", ReactConfig: simpleReactConfig(),
			UserInteraction: &graph.UserInteraction{Mode: graph.InteractionSingleReactCycle, ConfidenceThreshold: &threshold},
		},
	}
	client := &scriptedClient{answer: "i think this might be correct"}
	a := newTestAgent(t, client, nodes, nil)

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = a.ProvideUserInput("a", "accept")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	output, err := a.Invoke(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "i think this might be correct", output)
}
