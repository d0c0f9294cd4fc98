// Package checkpoint declares the external checkpoint persistence contract
// consumed by GraphAgent.restoreFromCheckpoint. The
// persistence format and backend are explicitly out of scope for the core;
// only the interface is specified here.
package checkpoint

import "context"

// Checkpoint is an opaque, backend-defined payload capturing enough state
// for GraphAgent.restoreFromCheckpoint to rehydrate activeEdges,
// currentInput, and pausedBranches.
type Checkpoint struct {
	ID      string
	Payload []byte
}

// Store persists and retrieves checkpoints keyed by conversation and id.
type Store interface {
	// Save persists payload under conversationID and returns the assigned
	// checkpoint id.
	Save(ctx context.Context, conversationID string, payload []byte) (id string, err error)
	// Get retrieves a previously saved checkpoint. Returns ok=false if the
	// id is unknown; the caller turns this into a non-fatal
	// CheckpointRestoreError rather than treating it as a hard failure.
	Get(ctx context.Context, conversationID, id string) (cp Checkpoint, ok bool, err error)
}
