// Package toolkit implements the tool registry and dispatcher:
// unique-name registration, schema validation, approval
// gating, per-tool failure counting with a pause-for-re-approval threshold,
// and serial/parallel batch dispatch, with toolerrors threaded through
// every failure path.
package toolkit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/agentcore/runtime/tool"
	"github.com/agentcore/runtime/toolerrors"
)

// ApprovalRequest carries the information the approval callback needs to
// decide whether a call may proceed.
type ApprovalRequest struct {
	Call         tool.Call
	FailureCount uint
}

// ApprovalDecision is the callback's verdict.
type ApprovalDecision struct {
	Approved     bool
	ModifiedArgs map[string]any
}

// ApprovalCallback is consulted before every dispatch, and again once a
// tool's failure count reaches PauseThreshold.
type ApprovalCallback func(ctx context.Context, req ApprovalRequest) (ApprovalDecision, error)

// defaultApprovalCallback approves everything unconditionally; used when a
// Toolkit is built without an explicit callback.
func defaultApprovalCallback(context.Context, ApprovalRequest) (ApprovalDecision, error) {
	return ApprovalDecision{Approved: true}, nil
}

// registration is the state kept per registered tool. validator is built
// from meta.InputSchema once at Register time so dispatchOne can reject a
// malformed call before ever invoking the approval callback or the tool
// itself.
type registration struct {
	tool      tool.Tool
	meta      tool.Metadata
	validator *tool.SchemaValidator
}

// Toolkit is the registry and dispatcher for every tool a ReAct or Graph
// Agent can call.
type Toolkit struct {
	mu               sync.Mutex
	tools            map[string]*registration
	failureCount     map[string]uint
	approvalCallback ApprovalCallback
	pauseThreshold   uint
	limiter          *rate.Limiter
}

// Option configures a Toolkit at construction.
type Option func(*Toolkit)

// WithApprovalCallback overrides the default always-approve callback.
func WithApprovalCallback(cb ApprovalCallback) Option {
	return func(tk *Toolkit) { tk.approvalCallback = cb }
}

// WithPauseThreshold overrides the default pauseThreshold of 2.
func WithPauseThreshold(n uint) Option {
	return func(tk *Toolkit) { tk.pauseThreshold = n }
}

// WithRateLimit caps the rate at which dispatchOne admits calls to the
// underlying tool, across every registered tool, using
// golang.org/x/time/rate. Useful when the bound Toolkit fronts a
// rate-limited external API; a nil limiter (the default) imposes no cap.
func WithRateLimit(rps float64, burst int) Option {
	return func(tk *Toolkit) { tk.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// New builds an empty Toolkit.
func New(opts ...Option) *Toolkit {
	tk := &Toolkit{
		tools:            make(map[string]*registration),
		failureCount:     make(map[string]uint),
		approvalCallback: defaultApprovalCallback,
		pauseThreshold:   2,
	}
	for _, opt := range opts {
		opt(tk)
	}
	return tk
}

// Register adds t to the registry. Name must be unique; a second
// registration under the same name fails with AlreadyRegistered. For non-retriever tools, any retrieval-config
// fields on the metadata are dropped.
func (tk *Toolkit) Register(t tool.Tool) error {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	meta := t.Metadata()
	if _, exists := tk.tools[meta.Name]; exists {
		return toolerrors.New(toolerrors.NameAlreadyRegistered, fmt.Sprintf("tool %q already registered", meta.Name))
	}
	if meta.Kind != tool.KindRetriever {
		meta.DefaultRetrieval = nil
	}

	tk.tools[meta.Name] = &registration{
		tool:      t,
		meta:      meta,
		validator: tool.NewSchemaValidator(meta.InputSchema),
	}
	tk.failureCount[meta.Name] = 0
	return nil
}

// Unregister removes a tool and its associated state, returning the
// Toolkit to the state it would have had if the tool had never been
// registered.
func (tk *Toolkit) Unregister(name string) {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	delete(tk.tools, name)
	delete(tk.failureCount, name)
}

// FailureCount returns the current failure count for a registered tool
// name (0 for unknown names).
func (tk *Toolkit) FailureCount(name string) uint {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	return tk.failureCount[name]
}

func (tk *Toolkit) lookup(name string) (*registration, bool) {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	reg, ok := tk.tools[name]
	return reg, ok
}
