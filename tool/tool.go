// Package tool implements the Tool/Retriever base behavior shared by every
// tool in the system. Rather than a deep inheritance chain
// (BaseTool -> BaseRetriever -> ConcreteTool), it
// favors composition: a single Tool interface plus a reusable Policy
// wrapper that turns a plain Body function into a schema-validating,
// retrying Tool, with a RetrieverPolicy wrapper layered on top to inject a
// merged retrieval config.
package tool

import (
	"context"
	"time"

	"github.com/agentcore/runtime/ids"
)

type (
	// Kind distinguishes actor tools (side-effecting/computational, no
	// retrieval config) from retriever tools (return content under a
	// retrieval configuration).
	Kind string

	// Call is one invocation request: the tool name plus its JSON
	// arguments.
	Call struct {
		Name ids.ToolId
		Args map[string]any
	}

	// Result is the tagged-union outcome of Execute: exactly one of a
	// Success or Failure shape, represented as
	// a single struct with an Ok discriminant so callers don't need a type
	// switch to read common fields (Call, timing, Attempts).
	Result struct {
		Call       Call
		Ok         bool
		Output     any
		Err        *ResultError
		StartTime  time.Time
		EndTime    time.Time
		DurationMs int64
		Attempts   int
	}

	// ResultError is the shape of a failed Result's error detail.
	ResultError struct {
		Name      string
		Message   string
		Guidance  string
		Retryable bool
	}

	// ErrorPolicyEntry configures how a named error is treated on retry.
	ErrorPolicyEntry struct {
		Guidance  string
		Retryable bool
	}

	// RetrievalConfig is the retrieval-tuning shape merged between a
	// retriever's defaults and a caller's overrides.
	RetrievalConfig struct {
		Similarity           float64
		SimilarityModifiable bool
		TopK                 int
		TopKModifiable       bool
		Optimize             bool
	}

	// Metadata is the immutable tool record every registered tool carries.
	Metadata struct {
		ID                  ids.ToolId
		Name                string
		Description         string
		UseCase             string
		Kind                Kind
		InputSchema         []byte
		OutputSchema        []byte
		InvocationExamples  []string
		Retries             uint
		ErrorPolicy         map[string]ErrorPolicyEntry
		Parallel            bool
		Concatenate         func(results []Result) Result
		MaxIterations       uint
		PauseBeforeUse      bool
		UserModifyQuery     bool
		DefaultRetrieval    *RetrievalConfig
	}

	// Tool is the contract every actor and retriever tool implements.
	Tool interface {
		Metadata() Metadata
		Execute(ctx context.Context, call Call) Result
	}
)

const (
	KindActor     Kind = "actor"
	KindRetriever Kind = "retriever"
)

// IsSuccess reports whether the result completed successfully.
func (r Result) IsSuccess() bool { return r.Ok }

// UpdateField returns a copy of cfg with key set to value. It never
// mutates cfg, so callers composing the retriever merge (defaults then
// overrides) don't risk aliasing the defaults.
func UpdateField(cfg RetrievalConfig, key string, value any) RetrievalConfig {
	out := cfg
	switch key {
	case "similarity":
		if v, ok := value.(float64); ok {
			out.Similarity = v
		}
	case "similarityModifiable":
		if v, ok := value.(bool); ok {
			out.SimilarityModifiable = v
		}
	case "topK":
		switch v := value.(type) {
		case int:
			out.TopK = v
		case float64:
			out.TopK = int(v)
		}
	case "topKModifiable":
		if v, ok := value.(bool); ok {
			out.TopKModifiable = v
		}
	case "optimize":
		if v, ok := value.(bool); ok {
			out.Optimize = v
		}
	}
	return out
}

// MergeRetrievalConfig merges caller overrides over tool defaults,
// field-wise: any field explicitly present in overrides replaces the
// default; all other fields fall back to defaults. Both inputs are left untouched.
func MergeRetrievalConfig(defaults RetrievalConfig, overrides map[string]any) RetrievalConfig {
	out := defaults
	for k, v := range overrides {
		out = UpdateField(out, k, v)
	}
	return out
}
