package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/agentcore/runtime/hooks"
	"github.com/agentcore/runtime/ids"
)

// registerInteraction marks node as pending the given kind ("input",
// "approval", or "chat"), emits the corresponding event, and returns a
// fresh channel the node goroutine should wait on. Must run on the owner
// goroutine.
func (a *Agent) registerInteraction(node ids.NodeId, kind string) chan interactionResponse {
	ch := make(chan interactionResponse, 1)
	a.interactionWaiters[node] = ch
	a.state.pendingUserInteractions[node] = pendingInteraction{Kind: kind, Since: time.Now()}
	a.emit(hooks.NewNodeInteractionEvent("", "", node, kind))
	return ch
}

// unregisterInteraction clears the pending state once a node goroutine
// stops waiting (resolved or timed out). Must run on the owner goroutine.
func (a *Agent) unregisterInteraction(node ids.NodeId) {
	delete(a.interactionWaiters, node)
	delete(a.state.pendingUserInteractions, node)
}

// waitForUserInput blocks the calling node goroutine for up to
// userInputTimeout, returning the user's text (or "" on timeout, treated
// as accept).
func (a *Agent) waitForUserInput(ctx context.Context, node ids.NodeId) (string, bool) {
	replyReg := make(chan chan interactionResponse, 1)
	a.send(funcCommand(func(ag *Agent) { replyReg <- ag.registerInteraction(node, "input") }))
	ch := <-replyReg
	defer a.send(funcCommand(func(ag *Agent) { ag.unregisterInteraction(node) }))

	select {
	case resp := <-ch:
		return resp.input, resp.timedOut
	case <-time.After(userInputTimeout):
		return "", true
	case <-ctx.Done():
		return "", true
	}
}

// waitForApproval blocks for up to userApprovalTimeout; timeout means
// rejection.
func (a *Agent) waitForApproval(ctx context.Context, node ids.NodeId) bool {
	replyReg := make(chan chan interactionResponse, 1)
	a.send(funcCommand(func(ag *Agent) { replyReg <- ag.registerInteraction(node, "approval") }))
	ch := <-replyReg
	defer a.send(funcCommand(func(ag *Agent) { ag.unregisterInteraction(node) }))

	select {
	case resp := <-ch:
		return resp.approved
	case <-time.After(userApprovalTimeout):
		return false
	case <-ctx.Done():
		return false
	}
}

// waitForChatAction blocks for up to chatEndTimeout; timeout ends the
// chat.
func (a *Agent) waitForChatAction(ctx context.Context, node ids.NodeId) (action, input string, ok bool) {
	replyReg := make(chan chan interactionResponse, 1)
	a.send(funcCommand(func(ag *Agent) { replyReg <- ag.registerInteraction(node, "chat") }))
	ch := <-replyReg
	defer a.send(funcCommand(func(ag *Agent) { ag.unregisterInteraction(node) }))

	select {
	case resp := <-ch:
		return resp.action, resp.input, true
	case <-time.After(chatEndTimeout):
		return "end", "", false
	case <-ctx.Done():
		return "end", "", false
	}
}

// ProvideUserInput answers a node's awaiting_user_input wait.
func (a *Agent) ProvideUserInput(node ids.NodeId, input string) error {
	return a.deliverInteraction(node, interactionResponse{input: input})
}

// ProvideUserApproval answers a node's awaiting_approval wait.
func (a *Agent) ProvideUserApproval(node ids.NodeId, approved bool) error {
	return a.deliverInteraction(node, interactionResponse{approved: approved})
}

// ProvideChatAction answers a continuous_chat wait; action is "continue"
// or "end".
func (a *Agent) ProvideChatAction(node ids.NodeId, action string, input *string) error {
	resp := interactionResponse{action: action}
	if input != nil {
		resp.input = *input
	}
	return a.deliverInteraction(node, resp)
}

// ProvideUserChoice answers an exclusive-group edge selection prompt.
// choice must name one of the group's edge ids; delivery
// is modeled as a chat-style response keyed by a synthetic node id equal
// to the edge's source, since the wait point is the node that produced
// the exclusive-group fan-out.
func (a *Agent) ProvideUserChoice(edge ids.EdgeId, choice string) error {
	reply := make(chan error, 1)
	a.send(funcCommand(func(ag *Agent) {
		for _, e := range ag.edges {
			if e.ID == edge {
				if ch, ok := ag.interactionWaiters[e.From]; ok {
					ch <- interactionResponse{action: choice}
					reply <- nil
					return
				}
			}
		}
		reply <- fmt.Errorf("graph agent: no pending choice for edge %q", edge)
	}))
	return <-reply
}

func (a *Agent) deliverInteraction(node ids.NodeId, resp interactionResponse) error {
	reply := make(chan error, 1)
	a.send(funcCommand(func(ag *Agent) {
		ch, ok := ag.interactionWaiters[node]
		if !ok {
			reply <- fmt.Errorf("graph agent: no pending interaction for node %q", node)
			return
		}
		ch <- resp
		reply <- nil
	}))
	return <-reply
}
