// Package conversation declares the external conversation storage contract.
// The core only needs to signal a conversation switch; all
// persistence is an external collaborator's responsibility.
package conversation

import "context"

// Repository is the opaque collaborator the core calls to mark that
// subsequent activity belongs to a different conversation.
type Repository interface {
	// SwitchConversation notifies the repository that the active
	// conversation changed to id.
	SwitchConversation(ctx context.Context, id string) error
}
