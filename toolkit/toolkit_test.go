package toolkit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore/runtime/tool"
	"github.com/agentcore/runtime/toolkit"
)

func newAdder(t *testing.T) tool.Tool {
	t.Helper()
	schema := []byte(`{
		"type": "object",
		"required": ["a", "b"],
		"properties": {"a": {"type": "number"}, "b": {"type": "number"}}
	}`)
	return tool.NewPolicy(tool.Metadata{
		Name:        "adder",
		InputSchema: schema,
	}, func(ctx context.Context, call tool.Call, rag *tool.RetrievalConfig) (any, error) {
		a, _ := call.Args["a"].(float64)
		b, _ := call.Args["b"].(float64)
		return a + b, nil
	}, nil)
}

// S1 — Toolkit validation.
func TestToolkit_ExecuteCalls_ValidationFailure(t *testing.T) {
	tk := toolkit.New()
	require.NoError(t, tk.Register(newAdder(t)))

	results := tk.ExecuteCalls(context.Background(), []tool.Call{
		{Name: "adder", Args: map[string]any{"a": float64(1)}},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Ok)
	assert.Equal(t, "ValidationError", results[0].Err.Name)
}

// S2 — Toolkit retry and recovery.
func TestToolkit_ExecuteCalls_RetryAndRecover(t *testing.T) {
	attempt := 0
	flaky := tool.NewPolicy(tool.Metadata{
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

	tk := toolkit.New()
	require.NoError(t, tk.Register(flaky))

	results := tk.ExecuteCalls(context.Background(), []tool.Call{{Name: "flaky"}})

	require.Len(t, results, 1)
	require.True(t, results[0].Ok)
	assert.Equal(t, 42, results[0].Output)
	assert.Equal(t, 3, results[0].Attempts)
	assert.Equal(t, uint(0), tk.FailureCount("flaky"))
}

// S3 — Parallel grouping.
func TestToolkit_ExecuteCalls_ParallelGrouping(t *testing.T) {
	invocations := 0
	var seenArgs map[string]any

	sum := tool.NewPolicy(tool.Metadata{
		Name:     "sum",
		Parallel: true,
		Concatenate: func(rs []tool.Result) tool.Result {
			var values []any
			for _, r := range rs {
				if args, ok := r.Output.(map[string]any); ok {
					if v, ok := args["values"].([]any); ok {
						values = append(values, v...)
					}
				}
			}
			return tool.Result{Ok: true, Output: map[string]any{"values": values}}
		},
	}, func(ctx context.Context, call tool.Call, rag *tool.RetrievalConfig) (any, error) {
		invocations++
		seenArgs = call.Args
		return call.Args["values"], nil
	}, nil)

	tk := toolkit.New()
	require.NoError(t, tk.Register(sum))

	results := tk.ExecuteCalls(context.Background(), []tool.Call{
		{Name: "sum", Args: map[string]any{"values": []any{1}}},
		{Name: "sum", Args: map[string]any{"values": []any{2, 3}}},
	})

	require.Len(t, results, 1)
	assert.Equal(t, 1, invocations)
	assert.Equal(t, []any{1, 2, 3}, seenArgs["values"])
}

func TestToolkit_Register_DuplicateNameFails(t *testing.T) {
	tk := toolkit.New()
	require.NoError(t, tk.Register(newAdder(t)))
	err := tk.Register(newAdder(t))
	require.Error(t, err)
}

func TestToolkit_ExecuteCalls_UnregisteredToolFailsBatch(t *testing.T) {
	tk := toolkit.New()
	results := tk.ExecuteCalls(context.Background(), []tool.Call{{Name: "missing"}})
	require.Len(t, results, 1)
	assert.Equal(t, "UnregisteredTool", results[0].Err.Name)
}

func TestToolkit_PreparePromptPayload_EmptyWhenNoTools(t *testing.T) {
	tk := toolkit.New()
	assert.Equal(t, "", tk.PreparePromptPayload())
}

func TestToolkit_PreparePromptPayload_IncludesRegisteredTools(t *testing.T) {
	tk := toolkit.New()
	require.NoError(t, tk.Register(newAdder(t)))
	payload := tk.PreparePromptPayload()
	assert.Contains(t, payload, "adder")
}
