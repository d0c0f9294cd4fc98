package tool

import "context"

// RetrieverPolicy wraps a Policy to inject the merged retrieval config
// before every attempt: effectiveConfig = defaults union callerOverrides,
// passed to the tool body as its ragConfig parameter. It reuses Policy's
// validation/pause/retry loop rather than duplicating it.
type RetrieverPolicy struct {
	*Policy
	defaults RetrievalConfig
}

// NewRetrieverPolicy builds a RetrieverPolicy. meta.Kind must be
// KindRetriever and meta.DefaultRetrieval should be set; a nil
// DefaultRetrieval is treated as the zero RetrievalConfig.
func NewRetrieverPolicy(meta Metadata, body Body, pauseHook PauseHook) *RetrieverPolicy {
	defaults := RetrievalConfig{}
	if meta.DefaultRetrieval != nil {
		defaults = *meta.DefaultRetrieval
	}
	return &RetrieverPolicy{
		Policy:   NewPolicy(meta, body, pauseHook),
		defaults: defaults,
	}
}

// Execute overrides Policy.Execute to merge call.Args["retrievalConfig"]
// (a map[string]any of caller overrides, if present) over the tool's
// defaults before dispatch.
func (r *RetrieverPolicy) Execute(ctx context.Context, call Call) Result {
	overrides, _ := call.Args["retrievalConfig"].(map[string]any)
	effective := MergeRetrievalConfig(r.defaults, overrides)
	return r.Policy.execute(ctx, call, &effective)
}
