// Package llm declares the LLM provider contract consumed by the runtime.
// Concrete providers (Anthropic, OpenAI, Bedrock, ...) are
// out of scope for this core — only the interface the ReAct loop and edge
// "analysis" conditions call against is specified here: a text-only
// chat/stream contract, without multimodal content parts.
package llm

import "context"

type (
	// Message is one turn in a conversation passed to a model.
	Message struct {
		// Role is "system", "user", or "assistant".
		Role string
		// Content is the plain-text content of the message.
		Content string
	}

	// Options configures a single Chat/ChatStream invocation.
	Options struct {
		// Provider names the backing provider (e.g. "anthropic", "openai").
		Provider string
		// Model identifies the concrete model (e.g. "claude-sonnet-4-5").
		Model string
		// TokenLimit caps the number of output tokens the model may produce.
		// Zero means provider default.
		TokenLimit int
		// StopSequences requests the provider to truncate generation as
		// soon as any of these sequences appears.
		StopSequences []string
	}

	// Usage reports token accounting for a completed call.
	Usage struct {
		PromptTokens     int
		CompletionTokens int
	}

	// Response is the result of a completed Chat/ChatStream call.
	Response struct {
		Text  string
		Usage *Usage
	}

	// ChunkFunc receives incremental text during a streamed call.
	ChunkFunc func(chunk string)

	// Client is the provider-agnostic contract the runtime calls against.
	// Implementations MUST honor ctx cancellation promptly.
	Client interface {
		// Chat performs a single, non-streaming completion.
		Chat(ctx context.Context, messages []Message, opts Options) (Response, error)
		// ChatStream performs a completion, invoking onChunk for every
		// incremental piece of text as it arrives. The final Response
		// carries the fully assembled text.
		ChatStream(ctx context.Context, messages []Message, opts Options, onChunk ChunkFunc) (Response, error)
	}
)
