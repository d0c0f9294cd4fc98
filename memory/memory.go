// Package memory declares the external memory/context-assembly contract
// consumed by node prompt construction. Concrete
// storage (vector stores, transcript databases) is out of scope for the
// core.
package memory

import "context"

// Record identifies what to load from a conversation's memory (e.g. a
// window size, a topic filter) in a backend-defined shape.
type Record struct {
	ConversationID string
	Query          string
	Limit          int
}

// Service loads and assembles memory content for prompt construction.
type Service interface {
	// Load retrieves raw memory entries matching record.
	Load(ctx context.Context, record Record) ([]string, error)
	// Assemble combines loaded entries (and any additional fragments) into
	// a single prompt-ready string, applying backend-defined ranking and
	// truncation.
	Assemble(ctx context.Context, entries []string, tokenBudget int) (string, error)
}
