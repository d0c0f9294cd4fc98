package graph

import (
	"strings"

	"github.com/agentcore/runtime/ids"
	"github.com/agentcore/runtime/llm"
)

// collectContext walks all incoming edges of node N whose ContextFrom is
// non-empty, takes up to the last 5 executionHistory entries of each
// referenced node, and concatenates them as a single context message.
// Returns nil if no incoming edge carries
// context. Must be called with exclusive access to a.state (owner
// goroutine only).
func (a *Agent) collectContext(node ids.NodeId) *llm.Message {
	var refs []ids.NodeId
	for _, e := range a.incomingByTarget[node] {
		refs = append(refs, e.ContextFrom...)
	}
	if len(refs) == 0 {
		return nil
	}

	var b strings.Builder
	for _, ref := range refs {
		entries := lastNForNode(a.state.executionHistory, ref, 5)
		if len(entries) == 0 {
			continue
		}
		for _, entry := range entries {
			b.WriteString(entry.NodeName)
			b.WriteString(": ")
			b.WriteString(entry.Output)
			b.WriteString("\n")
		}
	}
	if b.Len() == 0 {
		return nil
	}
	return &llm.Message{Role: "system", Content: b.String()}
}

func lastNForNode(history []historyEntry, node ids.NodeId, n int) []historyEntry {
	var matches []historyEntry
	for _, e := range history {
		if e.NodeID == node {
			matches = append(matches, e)
		}
	}
	if len(matches) > n {
		matches = matches[len(matches)-n:]
	}
	return matches
}

// applyMemoryOverride reports whether any incoming edge of node carries a
// MemoryOverride. It does not load or return the override record itself.
func (a *Agent) applyMemoryOverride(node ids.NodeId) (override bool) {
	for _, e := range a.incomingByTarget[node] {
		if e.MemoryOverride != nil {
			return true
		}
	}
	return false
}
