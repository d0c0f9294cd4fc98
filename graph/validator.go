package graph

import (
	"fmt"

	"github.com/agentcore/runtime/ids"
)

// ValidationResult is the pure function result of Validate.
type ValidationResult struct {
	Valid     bool
	Errors    []string
	Warnings  []string
	HasCycles bool
	Cycles    [][]ids.NodeId
}

// Validate checks a candidate (nodes, edges) graph:
// every edge endpoint must exist in nodes; nodes with ReAct disabled and
// MaxSteps other than 1 get a warning; cycles are detected (warning,
// not fatal) via DFS grey-vertex detection; unreachable nodes warn.
// Validate never mutates nodes; callers apply the MaxSteps coercion
// themselves using the returned warnings as a guide, or call
// CoerceDisabledReact for the mutating variant.
func Validate(nodes []Node, edges []Edge) ValidationResult {
	result := ValidationResult{Valid: true}

	byID := make(map[ids.NodeId]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	adjacency := make(map[ids.NodeId][]ids.NodeId)
	for _, e := range edges {
		if _, ok := byID[e.From]; !ok {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("edge %q: source node %q does not exist", e.ID, e.From))
		}
		if _, ok := byID[e.To]; !ok {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("edge %q: target node %q does not exist", e.ID, e.To))
		}
		if e.IsJoin && len(e.JoinPredecessors) == 0 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("edge %q: isJoin set but joinPredecessors is empty", e.ID))
		}
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}

	for _, n := range nodes {
		if !n.ReactConfig.Enabled && n.ReactConfig.MaxSteps != 1 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("node %q: reactConfig.enabled=false coerces maxSteps to 1 (was %d)", n.ID, n.ReactConfig.MaxSteps))
		}
	}

	cycles := detectCycles(nodes, adjacency)
	if len(cycles) > 0 {
		result.HasCycles = true
		result.Cycles = cycles
		result.Warnings = append(result.Warnings, fmt.Sprintf("graph contains %d cycle(s); joins and rollback are relied on to prevent infinite fan-out", len(cycles)))
	}

	for _, id := range unreachableNodes(nodes, edges) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("node %q is unreachable from every potential entry node (nodes with a command or with no incoming edge)", id))
	}

	return result
}

// CoerceDisabledReact returns a copy of nodes with MaxSteps forced to 1
// for every node whose ReactConfig.Enabled is false.
func CoerceDisabledReact(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if !n.ReactConfig.Enabled {
			n.ReactConfig.MaxSteps = 1
		}
		out[i] = n
	}
	return out
}

type vertexColor int

const (
	white vertexColor = iota
	grey
	black
)

// detectCycles performs a DFS over adjacency, recording a cycle whenever
// it encounters an edge back to a grey (on-stack) vertex.
func detectCycles(nodes []Node, adjacency map[ids.NodeId][]ids.NodeId) [][]ids.NodeId {
	color := make(map[ids.NodeId]vertexColor, len(nodes))
	var cycles [][]ids.NodeId
	var stack []ids.NodeId

	var visit func(id ids.NodeId)
	visit = func(id ids.NodeId) {
		color[id] = grey
		stack = append(stack, id)
		for _, next := range adjacency[id] {
			switch color[next] {
			case white:
				visit(next)
			case grey:
				cycles = append(cycles, cyclePath(stack, next))
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, n := range nodes {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	return cycles
}

func cyclePath(stack []ids.NodeId, back ids.NodeId) []ids.NodeId {
	for i, id := range stack {
		if id == back {
			path := append([]ids.NodeId{}, stack[i:]...)
			return append(path, back)
		}
	}
	return []ids.NodeId{back}
}

// unreachableNodes returns nodes that no entry selection
// could ever reach: every node with a command, or with no incoming edge,
// is a potential entry and seeds a BFS over the edge set; anything not
// visited is unreachable.
func unreachableNodes(nodes []Node, edges []Edge) []ids.NodeId {
	hasIncoming := make(map[ids.NodeId]bool, len(nodes))
	adjacency := make(map[ids.NodeId][]ids.NodeId)
	for _, e := range edges {
		hasIncoming[e.To] = true
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}

	visited := make(map[ids.NodeId]bool, len(nodes))
	var queue []ids.NodeId
	for _, n := range nodes {
		if n.Command != "" || !hasIncoming[n.ID] {
			if !visited[n.ID] {
				visited[n.ID] = true
				queue = append(queue, n.ID)
			}
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[id] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	var out []ids.NodeId
	for _, n := range nodes {
		if !visited[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}
