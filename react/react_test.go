package react_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore/runtime/llm"
	"github.com/agentcore/runtime/react"
	"github.com/agentcore/runtime/tool"
	"github.com/agentcore/runtime/toolkit"
)

type scriptedClient struct {
	responses []string
	call      int
}

func (c *scriptedClient) Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (llm.Response, error) {
	text := c.responses[c.call]
	if c.call < len(c.responses)-1 {
		c.call++
	}
	return llm.Response{Text: text}, nil
}

func (c *scriptedClient) ChatStream(ctx context.Context, messages []llm.Message, opts llm.Options, onChunk llm.ChunkFunc) (llm.Response, error) {
	onChunk("partial")
	return c.Chat(ctx, messages, opts)
}

func newEchoTool(t *testing.T) tool.Tool {
	t.Helper()
	return tool.NewPolicy(tool.Metadata{Name: "echo"}, func(ctx context.Context, call tool.Call, rag *tool.RetrievalConfig) (any, error) {
		return call.Args["text"], nil
	}, nil)
}

func TestAgent_Invoke_FinalAnswer(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"Thought: I know the answer\nFinal Answer: 42",
	}}
	agent := react.New(client, nil, react.Config{Enabled: true, MaxSteps: 3}, llm.Options{})

	outcome, err := agent.Invoke(context.Background(), "what is the answer?", nil)
	require.NoError(t, err)
	assert.Equal(t, "42", outcome.FinalAnswer)
	assert.False(t, outcome.MaxStepsExceeded)
}

func TestAgent_Invoke_ToolActionThenFinalAnswer(t *testing.T) {
	tk := toolkit.New()
	require.NoError(t, tk.Register(newEchoTool(t)))

	client := &scriptedClient{responses: []string{
		"Thought: let's echo\nAction: echo\nAction Input: {\"text\": \"hi\"}",
		"Thought: got it\nFinal Answer: hi",
	}}
	agent := react.New(client, tk, react.Config{Enabled: true, MaxSteps: 3}, llm.Options{})

	outcome, err := agent.Invoke(context.Background(), "echo hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", outcome.FinalAnswer)
	require.Len(t, outcome.Steps, 1)
	assert.Equal(t, "echo", outcome.Steps[0].Action)
}

func TestAgent_Invoke_MaxStepsExceeded(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"Thought: thinking\nAction: echo\nAction Input: {}",
	}}
	tk := toolkit.New()
	require.NoError(t, tk.Register(newEchoTool(t)))
	agent := react.New(client, tk, react.Config{Enabled: true, MaxSteps: 2}, llm.Options{})

	outcome, err := agent.Invoke(context.Background(), "loop forever", nil)
	require.NoError(t, err)
	assert.True(t, outcome.MaxStepsExceeded)
	assert.Len(t, outcome.Steps, 2)
}

func TestAgent_DisabledForcesSingleStep(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"Thought: thinking\nAction: echo\nAction Input: {}",
	}}
	tk := toolkit.New()
	require.NoError(t, tk.Register(newEchoTool(t)))
	agent := react.New(client, tk, react.Config{Enabled: false, MaxSteps: 10}, llm.Options{})

	outcome, err := agent.Invoke(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.StepCount)
}

func TestAgent_Stream_ForwardsChunksThenFinal(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"Thought: done\nFinal Answer: streamed",
	}}
	agent := react.New(client, nil, react.Config{Enabled: true, MaxSteps: 1}, llm.Options{})

	var texts []string
	var final *react.Outcome
	for chunk := range agent.Stream(context.Background(), "go", nil) {
		if chunk.Final != nil {
			final = chunk.Final
			continue
		}
		require.NoError(t, chunk.Err)
		texts = append(texts, chunk.Text)
	}

	require.NotNil(t, final)
	assert.Equal(t, "streamed", final.FinalAnswer)
	assert.NotEmpty(t, texts)
}
