// Package ids defines the opaque string identifier types shared across the
// runtime. Each type tags a distinct identifier space so that values cannot
// be accidentally mixed (a NodeId passed where an EdgeId is expected, etc.).
// Uniqueness is enforced by the owning registry (ToolId within a Toolkit,
// NodeId/EdgeId within a GraphAgent), not by this package.
package ids

import "github.com/google/uuid"

type (
	// ToolId identifies a registered tool within a Toolkit.
	ToolId string
	// NodeId identifies a node within a graph agent's node set.
	NodeId string
	// EdgeId identifies an edge within a graph agent's edge set.
	EdgeId string
	// UserId identifies the human or service principal driving a run.
	UserId string
	// ConversationId identifies a conversation/session spanning runs.
	ConversationId string
	// AgentId identifies a ReAct or graph agent instance definition.
	AgentId string
)

// New generates a fresh random identifier suitable for any of the typed ID
// spaces above. Callers cast the returned string to the appropriate type.
func New() string {
	return uuid.NewString()
}
