// Package config loads graph definitions (nodes and edges) from YAML: a
// plain struct tree with `yaml:"..."` tags, parsed by gopkg.in/yaml.v3.
// Toolkit registrations are not loaded from configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agentcore/runtime/graph"
	"github.com/agentcore/runtime/ids"
	"github.com/agentcore/runtime/react"
)

// GraphDocument is the on-disk shape of a graph definition.
type GraphDocument struct {
	Nodes []NodeDocument `yaml:"nodes"`
	Edges []EdgeDocument `yaml:"edges"`
}

// NodeDocument mirrors graph.Node with YAML tags.
type NodeDocument struct {
	ID          string              `yaml:"id"`
	Command     string              `yaml:"command"`
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	LLM         LLMDocument         `yaml:"llm"`
	React       ReactDocument       `yaml:"react"`
	Interaction *InteractionDocument `yaml:"userInteraction"`
}

// LLMDocument mirrors graph.LLMRef.
type LLMDocument struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	TokenLimit int    `yaml:"tokenLimit"`
}

// ReactDocument mirrors react.Config.
type ReactDocument struct {
	Enabled        bool     `yaml:"enabled"`
	MaxSteps       int      `yaml:"maxSteps"`
	PromptTemplate string   `yaml:"promptTemplate"`
	StopSequences  []string `yaml:"stopSequences"`
	SelfConsistency *struct {
		Enabled bool `yaml:"enabled"`
		Samples int  `yaml:"samples"`
	} `yaml:"selfConsistency"`
}

// InteractionDocument mirrors graph.UserInteraction.
type InteractionDocument struct {
	Mode                string   `yaml:"mode"`
	RequireApproval     bool     `yaml:"requireApproval"`
	ConfidenceThreshold *float64 `yaml:"confidenceThreshold"`
	ApprovalPrompt      string   `yaml:"approvalPrompt"`
	AllowUserPrompting  bool     `yaml:"allowUserPrompting"`
	ShowEndChatButton   bool     `yaml:"showEndChatButton"`
}

// EdgeDocument mirrors graph.Edge.
type EdgeDocument struct {
	ID               string           `yaml:"id"`
	From             string           `yaml:"from"`
	To               string           `yaml:"to"`
	Condition        ConditionDocument `yaml:"condition"`
	ContextFrom      []string         `yaml:"contextFrom"`
	ExclusiveGroup   string           `yaml:"exclusiveGroup"`
	Priority         int              `yaml:"priority"`
	IsJoin           bool             `yaml:"isJoin"`
	JoinPredecessors []string         `yaml:"joinPredecessors"`
}

// ConditionDocument mirrors graph.Condition.
type ConditionDocument struct {
	Type    string `yaml:"type"`
	Keyword string `yaml:"keyword"`
	Prompt  string `yaml:"prompt"`
	LLM     *LLMDocument `yaml:"llm"`
}

// LoadGraphFile reads and parses a graph definition from path.
func LoadGraphFile(path string) (GraphDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return GraphDocument{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var doc GraphDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return GraphDocument{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return doc, nil
}

// ToNodesAndEdges converts the document into the graph package's runtime
// types, ready for graph.Build.
func (d GraphDocument) ToNodesAndEdges() ([]graph.Node, []graph.Edge) {
	nodes := make([]graph.Node, len(d.Nodes))
	for i, n := range d.Nodes {
		nodes[i] = graph.Node{
			ID:          ids.NodeId(n.ID),
			Command:     n.Command,
			Name:        n.Name,
			Description: n.Description,
			LLM:         graph.LLMRef{Provider: n.LLM.Provider, Model: n.LLM.Model, TokenLimit: n.LLM.TokenLimit},
			ReactConfig: n.React.toRuntime(),
			UserInteraction: n.Interaction.toRuntime(),
		}
	}

	edges := make([]graph.Edge, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = graph.Edge{
			ID:               ids.EdgeId(e.ID),
			From:             ids.NodeId(e.From),
			To:               ids.NodeId(e.To),
			Condition:        e.Condition.toRuntime(),
			ContextFrom:      toNodeIds(e.ContextFrom),
			ExclusiveGroup:   e.ExclusiveGroup,
			Priority:         e.Priority,
			IsJoin:           e.IsJoin,
			JoinPredecessors: toNodeIds(e.JoinPredecessors),
		}
	}
	return nodes, edges
}

func (r ReactDocument) toRuntime() react.Config {
	cfg := react.Config{
		Enabled:        r.Enabled,
		MaxSteps:       r.MaxSteps,
		PromptTemplate: r.PromptTemplate,
		StopSequences:  r.StopSequences,
	}
	if r.SelfConsistency != nil {
		cfg.SelfConsistency = react.SelfConsistencyConfig{
			Enabled: r.SelfConsistency.Enabled,
			Samples: r.SelfConsistency.Samples,
		}
	}
	return cfg
}

func (i *InteractionDocument) toRuntime() *graph.UserInteraction {
	if i == nil {
		return nil
	}
	return &graph.UserInteraction{
		Mode:                graph.InteractionMode(i.Mode),
		RequireApproval:     i.RequireApproval,
		ConfidenceThreshold: i.ConfidenceThreshold,
		ApprovalPrompt:      i.ApprovalPrompt,
		AllowUserPrompting:  i.AllowUserPrompting,
		ShowEndChatButton:   i.ShowEndChatButton,
	}
}

func (c ConditionDocument) toRuntime() graph.Condition {
	cond := graph.Condition{
		Type:    graph.ConditionType(c.Type),
		Keyword: c.Keyword,
		Prompt:  c.Prompt,
	}
	if c.LLM != nil {
		cond.AnalysisProvider = &graph.LLMRef{Provider: c.LLM.Provider, Model: c.LLM.Model, TokenLimit: c.LLM.TokenLimit}
	}
	return cond
}

func toNodeIds(raw []string) []ids.NodeId {
	if len(raw) == 0 {
		return nil
	}
	out := make([]ids.NodeId, len(raw))
	for i, s := range raw {
		out[i] = ids.NodeId(s)
	}
	return out
}
