package graph

import (
	"strings"

	"github.com/agentcore/runtime/ids"
	"github.com/agentcore/runtime/toolerrors"
)

// selectEntry routes command-prefixed input to
// nodes whose Command matches; otherwise "_newmessage"-tagged nodes are
// entry; otherwise nodes with no incoming edge are entry. Returns the
// matched command token (empty if none) and the processedInput with any
// command prefix stripped.
func (a *Agent) selectEntry(input string) (command string, processedInput string, entries []ids.NodeId, err error) {
	processedInput = input

	if strings.HasPrefix(input, "/") {
		fields := strings.Fields(input)
		if len(fields) > 0 {
			command = fields[0]
			processedInput = strings.TrimSpace(strings.TrimPrefix(input, command))
		}
		for _, n := range a.nodes {
			if n.Command == command {
				entries = append(entries, n.ID)
			}
		}
		if len(entries) > 0 {
			return command, processedInput, entries, nil
		}
	}

	for _, n := range a.nodes {
		if n.Command == newMessageCommand {
			entries = append(entries, n.ID)
		}
	}
	if len(entries) > 0 {
		return "", processedInput, entries, nil
	}

	for _, n := range a.nodes {
		if len(a.incomingByTarget[n.ID]) == 0 {
			entries = append(entries, n.ID)
		}
	}
	if len(entries) > 0 {
		return "", processedInput, entries, nil
	}

	return "", processedInput, nil, toolerrors.New(toolerrors.NameNoEntryNodes, "no entry nodes found for input")
}
