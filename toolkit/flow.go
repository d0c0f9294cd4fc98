package toolkit

import (
	"context"

	"github.com/agentcore/runtime/tool"
	"github.com/agentcore/runtime/toolerrors"
)

// dispatchOne runs the single-call flow: validate,
// request approval, substitute modified args, then dispatch through the
// tool's own Policy/RetrieverPolicy (which owns the attempt/retry loop
// and schema revalidation). Toolkit additionally tracks failureCount and
// re-prompts for approval once the pauseThreshold is reached.
func (tk *Toolkit) dispatchOne(ctx context.Context, call tool.Call) tool.Result {
	reg, ok := tk.lookup(string(call.Name))
	if !ok {
		return tool.Result{
			Call: call,
			Ok:   false,
			Err: &tool.ResultError{
				Name:    toolerrors.NameUnregisteredTool,
				Message: "tool \"" + string(call.Name) + "\" is not registered",
			},
		}
	}

	if err := reg.validator.Validate(call.Args); err != nil {
		return tool.Result{
			Call: call,
			Ok:   false,
			Err: &tool.ResultError{
				Name:      toolerrors.NameValidationError,
				Message:   err.Error(),
				Retryable: false,
			},
		}
	}

	decision, err := tk.approvalCallback(ctx, ApprovalRequest{
		Call:         call,
		FailureCount: tk.FailureCount(reg.meta.Name),
	})
	if err != nil {
		return tool.Result{
			Call: call,
			Ok:   false,
			Err: &tool.ResultError{
				Name:    toolerrors.NameUserRejected,
				Message: err.Error(),
			},
		}
	}
	if !decision.Approved {
		return tool.Result{
			Call: call,
			Ok:   false,
			Err: &tool.ResultError{
				Name:    toolerrors.NameUserRejected,
				Message: "approval was rejected",
			},
		}
	}
	if decision.ModifiedArgs != nil {
		call.Args = decision.ModifiedArgs
	}

	if tk.limiter != nil {
		if err := tk.limiter.Wait(ctx); err != nil {
			return tool.Result{
				Call: call,
				Ok:   false,
				Err: &tool.ResultError{
					Name:      toolerrors.NameCanceled,
					Message:   err.Error(),
					Retryable: false,
				},
			}
		}
	}

	result := reg.tool.Execute(ctx, call)

	tk.mu.Lock()
	if result.Ok {
		tk.failureCount[reg.meta.Name] = 0
	} else {
		tk.failureCount[reg.meta.Name]++
	}
	count := tk.failureCount[reg.meta.Name]
	tk.mu.Unlock()

	if !result.Ok && count >= tk.pauseThreshold {
		// Pause for re-approval: the user may acknowledge the repeated
		// failure. The decision itself doesn't retry the call — the
		// caller (ReAct loop / graph node) decides whether to try again.
		_, _ = tk.approvalCallback(ctx, ApprovalRequest{
			Call:         call,
			FailureCount: count,
		})
	}

	return result
}
