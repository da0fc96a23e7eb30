// Package dialog implements multi-step conversations as data-driven state
// machines. A Definition declares the steps of one command flow; the Engine
// drives a user's session through them, re-prompting on invalid input and
// finalizing on the terminal state. The package is transport-agnostic: replies
// go through an injected Sender.
package dialog

import "context"

// State identifies a step inside a dialog definition.
type State string

// End is the terminal state. A step that transitions to End closes the
// session after the reply (or the definition's Finalize result) is sent.
const End State = "end"

// Reply is an outgoing message. A non-empty Options slice renders a one-time
// reply keyboard; an empty one removes any previous keyboard.
type Reply struct {
	Text    string
	Options []string
	// Columns controls keyboard row width; 0 means the transport default.
	Columns     int
	Placeholder string
	Markdown    bool
}

// Sender delivers a reply to the user. Implementations bind the dialog engine
// to a concrete transport.
type Sender func(ctx context.Context, userID int64, reply Reply) error

// Transition is the outcome of handling one input.
type Transition struct {
	Next State
	// Reply overrides the next step's prompt when set. Steps ending the
	// dialog use it to deliver their closing message directly.
	Reply *Reply
}

// To advances to the next step, sending that step's own prompt.
func To(next State) Transition {
	return Transition{Next: next}
}

// Say advances to the next step with an explicit reply instead of its prompt.
func Say(next State, reply Reply) Transition {
	return Transition{Next: next, Reply: &reply}
}

// Finish closes the dialog with the given reply.
func Finish(reply Reply) Transition {
	return Transition{Next: End, Reply: &reply}
}

// Step is one state of a dialog: the prompt shown on entry and the handler
// applied to the user's answer.
type Step struct {
	Prompt func(ctx context.Context, s *Session) Reply
	Handle func(ctx context.Context, s *Session, input string) (Transition, error)
}

// Definition declares a complete dialog flow for one command.
type Definition struct {
	// Kind names the flow in sessions and logs, e.g. "add_expense".
	Kind  string
	Start State
	Steps map[State]Step
	// Finalize runs when a step transitions to End without its own reply.
	Finalize func(ctx context.Context, s *Session) (Reply, error)
	// FailText is sent when a handler or Finalize fails with a non-validation
	// error. The session always ends in that case.
	FailText string
}
