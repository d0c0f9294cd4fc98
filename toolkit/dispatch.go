package toolkit

import (
	"context"

	"github.com/agentcore/runtime/tool"
	"github.com/agentcore/runtime/toolerrors"
)

// ExecuteCalls runs a batch of calls: serial tools run
// one-by-one in submission order; calls to the same parallel tool are
// grouped and concatenated into a single invocation via that tool's
// Concatenate function. Results are returned in the order: every serial
// call result (in submission order), followed by one result per parallel
// group (in first-seen order).
func (tk *Toolkit) ExecuteCalls(ctx context.Context, calls []tool.Call) []tool.Result {
	type parallelGroup struct {
		toolName string
		calls    []tool.Call
	}

	var serial []tool.Call
	var groupOrder []string
	groups := make(map[string]*parallelGroup)

	for _, call := range calls {
		reg, ok := tk.lookup(string(call.Name))
		if !ok {
			// Unknown tool name fails the whole batch.
			return []tool.Result{{
				Call: call,
				Ok:   false,
				Err: &tool.ResultError{
					Name:    toolerrors.NameUnregisteredTool,
					Message: "tool \"" + string(call.Name) + "\" is not registered",
				},
			}}
		}
		if reg.meta.Parallel {
			g, exists := groups[reg.meta.Name]
			if !exists {
				g = &parallelGroup{toolName: reg.meta.Name}
				groups[reg.meta.Name] = g
				groupOrder = append(groupOrder, reg.meta.Name)
			}
			g.calls = append(g.calls, call)
			continue
		}
		serial = append(serial, call)
	}

	results := make([]tool.Result, 0, len(serial)+len(groupOrder))

	for _, call := range serial {
		results = append(results, tk.dispatchOne(ctx, call))
	}

	for _, name := range groupOrder {
		g := groups[name]
		reg, _ := tk.lookup(name)

		combinedCall := tool.Call{Name: g.calls[0].Name, Args: combineArgs(reg, g.calls)}
		result := tk.dispatchOne(ctx, combinedCall)
		results = append(results, result)
	}

	return results
}

// combineArgs concatenates a parallel group's individual call args via the
// tool's own Concatenate function to produce a single combined args map,
// so the group dispatches as one flow invocation rather than one per call.
// Since Concatenate operates over Results (not raw args), each call's args
// are wrapped as a provisional Result carrying Output=args so Concatenate
// can merge them uniformly, then unwrapped back into a single args map.
func combineArgs(reg *registration, calls []tool.Call) map[string]any {
	if reg.meta.Concatenate == nil || len(calls) == 1 {
		return calls[0].Args
	}
	provisional := make([]tool.Result, len(calls))
	for i, c := range calls {
		provisional[i] = tool.Result{Call: c, Ok: true, Output: c.Args}
	}
	combined := reg.meta.Concatenate(provisional)
	if args, ok := combined.Output.(map[string]any); ok {
		return args
	}
	return calls[0].Args
}
