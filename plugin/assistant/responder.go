package assistant

import (
	"context"

	"github.com/akuaasantewaa/fitta/store"
)

// Reply is a generated assistant turn.
type Reply struct {
	Content string
	Urgent  bool
}

// Turn is one prior transcript entry handed to a responder as context.
type Turn struct {
	Sender  store.MessageSender
	Content string
}

// Responder produces a reply to a user turn given the recent transcript.
type Responder interface {
	Respond(ctx context.Context, role store.Role, history []Turn, input string) (Reply, error)
}

// CannedResponder is the rule-based fallback. It never fails and never
// performs I/O.
type CannedResponder struct{}

// NewCannedResponder creates the rule-based responder.
func NewCannedResponder() *CannedResponder {
	return &CannedResponder{}
}

// Respond classifies the input and returns the matching template.
func (r *CannedResponder) Respond(_ context.Context, role store.Role, _ []Turn, input string) (Reply, error) {
	c := Classify(role, input)
	return Reply{
		Content: templateFor(role, c),
		Urgent:  c.Urgent,
	}, nil
}
