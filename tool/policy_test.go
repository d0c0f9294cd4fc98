package tool_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore/runtime/tool"
)

func adderSchema() []byte {
	return []byte(`{
		"type": "object",
		"required": ["a", "b"],
		"properties": {
			"a": {"type": "number"},
			"b": {"type": "number"}
		}
	}`)
}

// S1 — Toolkit validation.
func TestPolicy_ValidationFailure(t *testing.T) {
	p := tool.NewPolicy(tool.Metadata{
		Name:        "adder",
		InputSchema: adderSchema(),
	}, func(ctx context.Context, call tool.Call, rag *tool.RetrievalConfig) (any, error) {
		t.Fatal("body must not be called on validation failure")
		return nil, nil
	}, nil)

	result := p.Execute(context.Background(), tool.Call{Name: "adder", Args: map[string]any{"a": float64(1)}})
	require.False(t, result.Ok)
	assert.Equal(t, "ValidationError", result.Err.Name)
}

// S2 — Toolkit retry and recovery.
func TestPolicy_RetryThenSucceed(t *testing.T) {
	attempt := 0
	p := tool.NewPolicy(tool.Metadata{
		Name:    "flaky",
		Retries: 2,
		ErrorPolicy: map[string]tool.ErrorPolicyEntry{
			"Transient": {Retryable: true},
		},
	}, func(ctx context.Context, call tool.Call, rag *tool.RetrievalConfig) (any, error) {
		attempt++
		if attempt < 3 {
			return nil, &tool.BodyError{Name: "Transient", Message: "try again"}
		}
		return 42, nil
	}, nil)

	result := p.Execute(context.Background(), tool.Call{Name: "flaky"})
	require.True(t, result.Ok)
	assert.Equal(t, 42, result.Output)
	assert.Equal(t, 3, result.Attempts)
}

func TestPolicy_NonRetryableFailsImmediately(t *testing.T) {
	calls := 0
	p := tool.NewPolicy(tool.Metadata{
		Name:    "brittle",
		Retries: 3,
	}, func(ctx context.Context, call tool.Call, rag *tool.RetrievalConfig) (any, error) {
		calls++
		return nil, &tool.BodyError{Name: "Fatal", Message: "nope"}
	}, nil)

	result := p.Execute(context.Background(), tool.Call{Name: "brittle"})
	require.False(t, result.Ok)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, result.Attempts)
	assert.False(t, result.Err.Retryable)
}

func TestPolicy_PauseBeforeUse(t *testing.T) {
	paused := false
	p := tool.NewPolicy(tool.Metadata{
		Name:           "gated",
		PauseBeforeUse: true,
	}, func(ctx context.Context, call tool.Call, rag *tool.RetrievalConfig) (any, error) {
		require.True(t, paused, "pause hook must run before the body")
		return "ok", nil
	}, func(ctx context.Context, call tool.Call) error {
		paused = true
		return nil
	})

	result := p.Execute(context.Background(), tool.Call{Name: "gated"})
	require.True(t, result.Ok)
}

func TestRetrieverPolicy_MergesConfig(t *testing.T) {
	var seen *tool.RetrievalConfig
	rp := tool.NewRetrieverPolicy(tool.Metadata{
		Name: "search",
		Kind: tool.KindRetriever,
		DefaultRetrieval: &tool.RetrievalConfig{
			Similarity: 0.5,
			TopK:       10,
		},
	}, func(ctx context.Context, call tool.Call, rag *tool.RetrievalConfig) (any, error) {
		seen = rag
		return "docs", nil
	}, nil)

	result := rp.Execute(context.Background(), tool.Call{
		Name: "search",
		Args: map[string]any{
			"retrievalConfig": map[string]any{"topK": float64(3)},
		},
	})

	require.True(t, result.Ok)
	require.NotNil(t, seen)
	assert.Equal(t, 0.5, seen.Similarity)
	assert.Equal(t, 3, seen.TopK)
}

func TestUpdateField_NoAliasing(t *testing.T) {
	base := tool.RetrievalConfig{Similarity: 0.1, TopK: 5}
	updated := tool.UpdateField(base, "topK", 9)

	assert.Equal(t, 5, base.TopK, "original must be untouched")
	assert.Equal(t, 9, updated.TopK)
}
