package graph

import (
	"context"

	"github.com/agentcore/runtime/hooks"
	"github.com/agentcore/runtime/ids"
	"github.com/agentcore/runtime/llm"
)

// processNodeCompletion updates join trackers,
// honors the between-nodes pause barrier, evaluates outgoing edges
// (grouped by exclusiveGroup, first-match-by-priority within a named
// group, all-matching for the default group), and spawn the next node
// goroutines for every edge that traverses.
func (a *Agent) processNodeCompletion(ctx context.Context, from ids.NodeId, output string) {
	type spawn struct {
		node  ids.NodeId
		input string
	}
	var toSpawn []spawn

	betweenCh := make(chan bool, 1)
	a.send(funcCommand(func(ag *Agent) { betweenCh <- ag.state.pause.Between }))
	if <-betweenCh {
		a.emit(hooks.NewNodePausedEvent("", "", from, "between"))
		_ = a.gate.wait(ctx)
	}

	done := make(chan struct{})
	a.send(funcCommand(func(ag *Agent) {
		defer close(done)

		groups := map[string][]Edge{}
		for _, e := range ag.outgoingBySource[from] {
			g := e.ExclusiveGroup
			if g == "" {
				g = defaultExclusiveGroup
			}
			groups[g] = append(groups[g], e)
		}

		for group, edges := range groups {
			if group == defaultExclusiveGroup {
				for _, e := range edges {
					if !ag.evaluateEdge(ctx, e, output) {
						ag.emit(hooks.NewEdgeEvent(hooks.GraphEdgeNotTraversed, "", "", e.ID, e.From, e.To, group, false))
						continue
					}
					ag.emit(hooks.NewEdgeEvent(hooks.GraphEdgeTraversed, "", "", e.ID, e.From, e.To, group, true))
					if ag.admitEdge(e) {
						toSpawn = append(toSpawn, spawn{node: e.To, input: output})
					}
				}
				continue
			}

			matched := false
			sorted := append([]Edge{}, edges...)
			sortEdgesByPriority(sorted)
			for _, e := range sorted {
				if !ag.evaluateEdge(ctx, e, output) {
					continue
				}
				ag.emit(hooks.NewEdgeEvent(hooks.GraphEdgeTraversed, "", "", e.ID, e.From, e.To, group, true))
				if ag.admitEdge(e) {
					toSpawn = append(toSpawn, spawn{node: e.To, input: output})
				}
				matched = true
				break
			}
			if !matched {
				ag.emit(hooks.NewEdgeEvent(hooks.GraphExclusiveGroupNoMatch, "", "", "", from, "", group, false))
			}
		}
	}))
	<-done

	for _, s := range toSpawn {
		a.startNode(ctx, s.node, s.input, []llm.Message{})
	}
}

// admitEdge applies join-gating: an edge into a join target only spawns
// once every predecessor has completed. Gating is keyed on whether the
// edge's target is a join target (present in joinTracker), not on the
// traversing edge's own IsJoin flag — a join target can have predecessor
// edges that aren't themselves marked IsJoin (only one incoming edge needs
// to declare JoinPredecessors to populate joinTracker[target].Required).
// Must run on the owner goroutine.
func (a *Agent) admitEdge(e Edge) bool {
	js, ok := a.state.joinTracker[e.To]
	if !ok {
		return true
	}
	js.Completed[e.From] = struct{}{}
	ready := true
	for id := range js.Required {
		if _, ok := js.Completed[id]; !ok {
			ready = false
			break
		}
	}
	if ready && !js.Ready {
		js.Ready = true
		a.emit(hooks.NewJoinEvent(hooks.GraphJoinNodeReady, "", "", e.To, setToSlice(js.Completed), setToSlice(js.Required), true))
		return true
	}
	if !ready {
		a.emit(hooks.NewJoinEvent(hooks.GraphJoinNodeWaiting, "", "", e.To, setToSlice(js.Completed), setToSlice(js.Required), false))
	}
	return false
}

func setToSlice(s map[ids.NodeId]struct{}) []ids.NodeId {
	out := make([]ids.NodeId, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// sortEdgesByPriority orders ascending by Priority (lower fires first),
// stable on ties.
func sortEdgesByPriority(edges []Edge) {
	for i := 1; i < len(edges); i++ {
		for j := i; j > 0 && edges[j].Priority < edges[j-1].Priority; j-- {
			edges[j], edges[j-1] = edges[j-1], edges[j]
		}
	}
}
