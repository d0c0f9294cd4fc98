// Command agentdemo wires a Toolkit, a ReAct agent, and a two-node Graph
// Agent together against a stub LLM client, in the spirit of the
// teacher's cmd/demo (runtime.New + RegisterAgent + client.Run), adapted
// to this core's owner-goroutine GraphAgent instead of a Temporal
// workflow client.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentcore/runtime/factory"
	"github.com/agentcore/runtime/graph"
	"github.com/agentcore/runtime/hooks"
	"github.com/agentcore/runtime/ids"
	"github.com/agentcore/runtime/llm"
	"github.com/agentcore/runtime/react"
	"github.com/agentcore/runtime/tool"
	"github.com/agentcore/runtime/toolkit"
)

// echoClient is a minimal llm.Client that answers every call with a
// canned final answer, enough to drive the ReAct loop without a live
// provider.
type echoClient struct{}

func (echoClient) Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (llm.Response, error) {
	return llm.Response{Text: "Thought: greeting the user\nFinal Answer: Hello from the graph agent!"}, nil
}

func (c echoClient) ChatStream(ctx context.Context, messages []llm.Message, opts llm.Options, onChunk llm.ChunkFunc) (llm.Response, error) {
	onChunk("Hello")
	return c.Chat(ctx, messages, opts)
}

func newWordCountTool() tool.Tool {
	schema, _ := json.Marshal(map[string]any{
		"type":       "object",
		"properties": map[string]any{"text": map[string]any{"type": "string"}},
		"required":   []string{"text"},
	})
	meta := tool.Metadata{
		ID:          "wordcount",
		Name:        "wordcount",
		Description: "counts words in the given text",
		Kind:        tool.KindActor,
		InputSchema: schema,
	}
	return tool.NewPolicy(meta, func(ctx context.Context, call tool.Call, rag *tool.RetrievalConfig) (any, error) {
		text, _ := call.Args["text"].(string)
		count := len(strings.Fields(text))
		return map[string]any{"length": count}, nil
	}, nil)
}

func main() {
	ctx := context.Background()
	client := echoClient{}

	tk := toolkit.New()
	if err := tk.Register(newWordCountTool()); err != nil {
		panic(err)
	}

	bus := hooks.NewBus()
	sub, err := bus.Register(hooks.SubscriberFunc(func(ctx context.Context, ev hooks.Event) error {
		fmt.Printf("[event] %s\n", ev.Type())
		return nil
	}))
	if err != nil {
		panic(err)
	}
	defer sub.Close()

	deps := factory.Deps{LLM: client, Toolkit: tk, Bus: bus}

	reactAgent, err := factory.BuildReActAgent(react.Config{Enabled: true, MaxSteps: 2}, llm.Options{}, deps)
	if err != nil {
		panic(err)
	}
	outcome, err := reactAgent.Invoke(ctx, "say hello", nil)
	if err != nil {
		panic(err)
	}
	fmt.Println("ReAct final answer:", outcome.FinalAnswer)

	nodes := []graph.Node{
		{ID: ids.NodeId("greeter"), Name: "Greeter", ReactConfig: react.Config{Enabled: true, MaxSteps: 1}},
		{ID: ids.NodeId("counter"), Name: "WordCounter", ReactConfig: react.Config{Enabled: true, MaxSteps: 1}},
	}
	edges := []graph.Edge{
		{ID: ids.EdgeId("greeter-to-counter"), From: "greeter", To: "counter"},
	}

	agent, err := factory.BuildGraphAgent(nodes, edges, deps)
	if err != nil {
		panic(err)
	}
	defer agent.Close()

	output, err := agent.Invoke(ctx, "hi there")
	if err != nil {
		panic(err)
	}
	fmt.Println("Graph agent output:", output)
}
