package dialog

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoAnswerer is returned by HandleUtterance when no document is bound to
// the controller. Nothing is mutated in that case; the caller is expected to
// tell the user to upload a document first.
var ErrNoAnswerer = errors.New("dialog: no answerer bound, upload a document first")

// genericAnswerFailure is the assistant reply substituted when the answering
// service fails mid-turn. The turn still advances so the user is not stuck.
const genericAnswerFailure = "Error processing your question."

// Fragment is a retrieved snippet of document text. Page is 1-indexed;
// 0 means the page is unknown.
type Fragment struct {
	Text string
	Page int
}

// Answer is the answering service's result for one query.
type Answer struct {
	Text      string
	Fragments []Fragment
}

// Answerer produces document-grounded answers. Implementations are bound to
// one document index; Answer fails if the index is gone.
type Answerer interface {
	Answer(ctx context.Context, query string) (*Answer, error)
}

// Knowledge supplies general-knowledge lookups, detached from any document.
// Both methods are best-effort: DetectPrerequisite returns "" for "nothing to
// explain" as well as on internal failure, and Explain always returns a
// printable string, substituting a short error text when the lookup fails.
type Knowledge interface {
	DetectPrerequisite(ctx context.Context, query string) (string, error)
	Explain(ctx context.Context, topic string) string
}

// Controller is the turn-by-turn dialog state machine for one conversation.
// It is single-actor by design: one instance per conversation, advanced by
// exactly one request at a time. All mutation happens inside
// HandleUtterance, SetPrereqToggle and Reset; transitions are atomic, so a
// failed collaborator call never leaves the prerequisite bookkeeping
// half-set.
type Controller struct {
	answerer  Answerer
	knowledge Knowledge

	state            State
	topic            string
	originalQuestion string
	offered          map[string]struct{}

	// lastFailure holds the answering-service error behind the most recent
	// degraded reply, so the caller can record the cause. Cleared on every
	// turn.
	lastFailure error

	// checkPrereqs is the effective detection flag for the current cycle.
	// toggleState tracks the checkbox value the user last set; flipping the
	// toggle while a prerequisite question is outstanding only takes effect
	// once that cycle completes.
	checkPrereqs bool
	toggleState  bool
}

// NewController returns an idle controller with prerequisite checking
// enabled. The answerer may be nil when no document has been uploaded yet.
func NewController(answerer Answerer, knowledge Knowledge) *Controller {
	return &Controller{
		answerer:     answerer,
		knowledge:    knowledge,
		state:        StateIdle,
		offered:      make(map[string]struct{}),
		checkPrereqs: true,
		toggleState:  true,
	}
}

// BindAnswerer attaches (or replaces) the document-bound answering service.
func (c *Controller) BindAnswerer(a Answerer) {
	c.answerer = a
}

func (c *Controller) State() State { return c.state }

// LastFailure returns the answering-service error the most recent turn
// degraded over, or nil when the turn succeeded. The reply already carries
// the user-facing substitute; this is the cause for diagnostics.
func (c *Controller) LastFailure() error { return c.lastFailure }

// PrereqEnabled reports the user-set toggle value, not the effective flag.
func (c *Controller) PrereqEnabled() bool { return c.toggleState }

// SetPrereqToggle records the checkbox value. It applies immediately while
// idle and is deferred until the current prerequisite cycle completes
// otherwise.
func (c *Controller) SetPrereqToggle(enabled bool) {
	c.toggleState = enabled
	if c.state == StateIdle {
		c.checkPrereqs = enabled
	}
}

// Reset clears all dialog bookkeeping for a freshly loaded document:
// offered-topic history, pending prerequisite state, and both prerequisite
// flags back to their enabled defaults.
func (c *Controller) Reset() {
	c.state = StateIdle
	c.topic = ""
	c.originalQuestion = ""
	c.offered = make(map[string]struct{})
	c.checkPrereqs = true
	c.toggleState = true
	c.lastFailure = nil
}

// HandleUtterance advances the state machine by one user turn and returns
// the messages to append to the conversation: the user's own message
// followed by the assistant's reply. The only error condition is an unbound
// answerer; every collaborator failure past that point degrades into an
// assistant reply instead of an error.
func (c *Controller) HandleUtterance(ctx context.Context, utterance string) ([]Message, error) {
	if c.answerer == nil {
		return nil, ErrNoAnswerer
	}
	c.lastFailure = nil

	userMsg := Message{Role: RoleUser, Content: utterance}

	var reply string
	var fragments []Fragment
	if c.state == StateAwaitingPrereq {
		reply, fragments = c.resolvePrereq(ctx, utterance)
	} else {
		var deferred bool
		reply, fragments, deferred = c.handleNewQuestion(ctx, utterance)
		if deferred {
			// The reply is the prerequisite prompt; the answer comes on the
			// next turn.
			return []Message{userMsg, {Role: RoleAssistant, Content: reply}}, nil
		}
	}

	return []Message{userMsg, {Role: RoleAssistant, Content: reply, Fragments: fragments}}, nil
}

// resolvePrereq handles the user's reply to an outstanding prerequisite
// question and returns to idle regardless of the branch taken.
func (c *Controller) resolvePrereq(ctx context.Context, utterance string) (string, []Fragment) {
	topic := c.topic
	question := c.originalQuestion

	var reply string
	var fragments []Fragment
	if IsAffirmative(utterance) {
		explanation := c.knowledge.Explain(ctx, topic)
		answer, frags := c.answerQuestion(ctx, question)
		reply = explanation + "\n\n" + answer
		fragments = frags
	} else {
		reply, fragments = c.answerQuestion(ctx, question)
	}

	c.state = StateIdle
	c.topic = ""
	c.originalQuestion = ""
	c.checkPrereqs = c.toggleState

	return reply, fragments
}

// handleNewQuestion processes a fresh question. The second return value is
// true when the turn ended with a prerequisite prompt instead of an answer.
func (c *Controller) handleNewQuestion(ctx context.Context, utterance string) (string, []Fragment, bool) {
	c.originalQuestion = utterance

	topic := ""
	if c.checkPrereqs {
		detected, err := c.knowledge.DetectPrerequisite(ctx, utterance)
		if err == nil {
			topic = detected
		}
		if topic != "" {
			if _, already := c.offered[topic]; already {
				topic = ""
			}
		}
	}

	if topic != "" {
		c.offered[topic] = struct{}{}
		c.topic = topic
		c.state = StateAwaitingPrereq
		return prereqPrompt(topic, utterance), nil, true
	}

	reply, fragments := c.answerQuestion(ctx, utterance)
	c.originalQuestion = ""
	return reply, fragments, false
}

// answerQuestion calls the answering service and applies the raw-text
// override. Failures degrade to a generic reply.
func (c *Controller) answerQuestion(ctx context.Context, question string) (string, []Fragment) {
	answer, err := c.answerer.Answer(ctx, question)
	if err != nil {
		c.lastFailure = err
		return genericAnswerFailure, nil
	}
	if IsRawTextRequest(question) {
		return FormatRawFragments(answer.Fragments), answer.Fragments
	}
	return answer.Text, answer.Fragments
}

// prereqPrompt composes the assistant message offering a prerequisite
// explanation. The echoed question is cut at 30 characters.
func prereqPrompt(topic, question string) string {
	echo := question
	if runes := []rune(echo); len(runes) > 30 {
		echo = string(runes[:30]) + "..."
	}
	return fmt.Sprintf(
		"Before answering your question about %s, I think you should understand the concept of **%s** first. Would you like me to explain this concept? (yes/skip)",
		echo, topic,
	)
}

// Snapshot extracts the serializable state so the controller can be parked
// between requests.
func (c *Controller) Snapshot() Snapshot {
	offered := make([]string, 0, len(c.offered))
	for t := range c.offered {
		offered = append(offered, t)
	}
	return Snapshot{
		State:            c.state,
		Topic:            c.topic,
		OriginalQuestion: c.originalQuestion,
		OfferedTopics:    offered,
		CheckPrereqs:     c.checkPrereqs,
		ToggleState:      c.toggleState,
	}
}

// Restore loads a previously taken snapshot.
func (c *Controller) Restore(s Snapshot) {
	c.state = s.State
	c.topic = s.Topic
	c.originalQuestion = s.OriginalQuestion
	c.offered = make(map[string]struct{}, len(s.OfferedTopics))
	for _, t := range s.OfferedTopics {
		c.offered[t] = struct{}{}
	}
	c.checkPrereqs = s.CheckPrereqs
	c.toggleState = s.ToggleState
}
