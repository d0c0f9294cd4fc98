package tool

import (
	"context"
	"errors"
	"time"
)

// Body is the concrete behavior a tool wraps in a Policy. For actor tools
// ragConfig is always nil; for retriever tools it carries the merged
// effective retrieval config.
type Body func(ctx context.Context, call Call, ragConfig *RetrievalConfig) (output any, err error)

// PauseHook is invoked before the first attempt when Metadata.PauseBeforeUse
// is set. The default is a no-op.
type PauseHook func(ctx context.Context, call Call) error

// BodyError is the error shape a Body returns to participate in the retry
// loop's errorPolicy lookup. A body that returns a
// plain error is treated as an unnamed, non-retryable failure.
type BodyError struct {
	Name    string
	Message string
}

func (e *BodyError) Error() string { return e.Message }

// Policy is the reusable base-tool policy wrapper:
// it turns a plain Body function into a Tool by adding schema validation,
// the pause-before-use hook, and the attempt/retry loop, without requiring
// a class-inheritance chain. Retrievers layer RetrieverPolicy on top of
// this instead of duplicating the loop.
type Policy struct {
	meta      Metadata
	body      Body
	pauseHook PauseHook
	validator *SchemaValidator
}

// NewPolicy builds a Policy for an actor tool. pauseHook may be nil, which
// installs the default no-op hook.
func NewPolicy(meta Metadata, body Body, pauseHook PauseHook) *Policy {
	if pauseHook == nil {
		pauseHook = func(context.Context, Call) error { return nil }
	}
	return &Policy{
		meta:      meta,
		body:      body,
		pauseHook: pauseHook,
		validator: NewSchemaValidator(meta.InputSchema),
	}
}

// Metadata implements Tool.
func (p *Policy) Metadata() Metadata { return p.meta }

// Execute implements Tool.
func (p *Policy) Execute(ctx context.Context, call Call) Result {
	return p.execute(ctx, call, nil)
}

func (p *Policy) execute(ctx context.Context, call Call, ragConfig *RetrievalConfig) Result {
	if err := p.validator.Validate(call.Args); err != nil {
		return Result{
			Call: call,
			Ok:   false,
			Err: &ResultError{
				Name:      "ValidationError",
				Message:   "Input does not match schema",
				Retryable: false,
			},
		}
	}

	if p.meta.PauseBeforeUse {
		if err := p.pauseHook(ctx, call); err != nil {
			return Result{
				Call: call,
				Ok:   false,
				Err: &ResultError{
					Name:      "PauseHookError",
					Message:   err.Error(),
					Retryable: false,
				},
			}
		}
	}

	start := time.Now()
	attempts := 0
	for i := 0; i <= int(p.meta.Retries); i++ {
		attempts = i + 1
		output, err := p.body(ctx, call, ragConfig)
		if err == nil {
			end := time.Now()
			return Result{
				Call:       call,
				Ok:         true,
				Output:     output,
				StartTime:  start,
				EndTime:    end,
				DurationMs: end.Sub(start).Milliseconds(),
				Attempts:   attempts,
			}
		}

		name, message := errorNameAndMessage(err)
		policy, known := p.meta.ErrorPolicy[name]
		if !known || !policy.Retryable || attempts > int(p.meta.Retries) {
			end := time.Now()
			return Result{
				Call:       call,
				Ok:         false,
				StartTime:  start,
				EndTime:    end,
				DurationMs: end.Sub(start).Milliseconds(),
				Attempts:   attempts,
				Err: &ResultError{
					Name:      name,
					Message:   message,
					Guidance:  policy.Guidance,
					Retryable: false,
				},
			}
		}
		// retryable and attempts within budget: loop again.
	}

	end := time.Now()
	return Result{
		Call:       call,
		Ok:         false,
		StartTime:  start,
		EndTime:    end,
		DurationMs: end.Sub(start).Milliseconds(),
		Attempts:   attempts,
		Err: &ResultError{
			Name:      "UnknownError",
			Message:   "Exceeded retry limit",
			Retryable: false,
		},
	}
}

func errorNameAndMessage(err error) (name, message string) {
	var be *BodyError
	if errors.As(err, &be) {
		return be.Name, be.Message
	}
	return "", err.Error()
}
