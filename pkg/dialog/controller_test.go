package dialog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnswerer struct {
	answer *Answer
	err    error
	calls  []string
}

func (f *fakeAnswerer) Answer(_ context.Context, query string) (*Answer, error) {
	f.calls = append(f.calls, query)
	if f.err != nil {
		return nil, f.err
	}
	if f.answer != nil {
		return f.answer, nil
	}
	return &Answer{Text: "answer to: " + query}, nil
}

type fakeKnowledge struct {
	topic        string
	detectErr    error
	explanation  string
	detectCalls  []string
	explainCalls []string
}

func (f *fakeKnowledge) DetectPrerequisite(_ context.Context, query string) (string, error) {
	f.detectCalls = append(f.detectCalls, query)
	return f.topic, f.detectErr
}

func (f *fakeKnowledge) Explain(_ context.Context, topic string) string {
	f.explainCalls = append(f.explainCalls, topic)
	if f.explanation != "" {
		return f.explanation
	}
	return "explained " + topic
}

func TestHandleUtterance_PrereqOffered(t *testing.T) {
	answerer := &fakeAnswerer{}
	knowledge := &fakeKnowledge{topic: "limits"}
	c := NewController(answerer, knowledge)

	msgs, err := c.HandleUtterance(context.Background(), "What is a derivative?")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "What is a derivative?", msgs[0].Content)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "**limits**")
	assert.True(t, strings.HasSuffix(msgs[1].Content, "(yes/skip)"))

	assert.Equal(t, StateAwaitingPrereq, c.State())
	assert.Empty(t, answerer.calls, "no answer before the prerequisite is resolved")
}

func TestHandleUtterance_AffirmativeGetsExplanationThenAnswer(t *testing.T) {
	answerer := &fakeAnswerer{}
	knowledge := &fakeKnowledge{topic: "limits"}
	c := NewController(answerer, knowledge)

	_, err := c.HandleUtterance(context.Background(), "What is a derivative?")
	require.NoError(t, err)

	msgs, err := c.HandleUtterance(context.Background(), "sure")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "explained limits\n\nanswer to: What is a derivative?", msgs[1].Content)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, []string{"limits"}, knowledge.explainCalls)
	assert.Equal(t, []string{"What is a derivative?"}, answerer.calls)
}

func TestHandleUtterance_SkipAnswersWithoutExplanation(t *testing.T) {
	answerer := &fakeAnswerer{}
	knowledge := &fakeKnowledge{topic: "limits"}
	c := NewController(answerer, knowledge)

	_, err := c.HandleUtterance(context.Background(), "What is a derivative?")
	require.NoError(t, err)

	msgs, err := c.HandleUtterance(context.Background(), "skip")
	require.NoError(t, err)

	assert.Equal(t, "answer to: What is a derivative?", msgs[1].Content)
	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, knowledge.explainCalls)
}

func TestHandleUtterance_RawTextRequest(t *testing.T) {
	answerer := &fakeAnswerer{answer: &Answer{
		Text: "should not be shown",
		Fragments: []Fragment{
			{Text: "first chunk", Page: 2},
			{Text: "second chunk", Page: 2},
			{Text: "third chunk", Page: 5},
		},
	}}
	c := NewController(answerer, &fakeKnowledge{})

	msgs, err := c.HandleUtterance(context.Background(), "show the exact text about limits")
	require.NoError(t, err)

	assert.Contains(t, msgs[1].Content, "first chunk")
	assert.Contains(t, msgs[1].Content, "Found on page(s): 2, 5")
	assert.NotContains(t, msgs[1].Content, "should not be shown")
}

func TestHandleUtterance_NoAnswererBound(t *testing.T) {
	c := NewController(nil, &fakeKnowledge{topic: "limits"})

	msgs, err := c.HandleUtterance(context.Background(), "What is a derivative?")
	assert.ErrorIs(t, err, ErrNoAnswerer)
	assert.Nil(t, msgs)
	assert.Equal(t, StateIdle, c.State())
}

func TestHandleUtterance_RepeatedTopicSuppressed(t *testing.T) {
	answerer := &fakeAnswerer{}
	knowledge := &fakeKnowledge{topic: "limits"}
	c := NewController(answerer, knowledge)

	_, err := c.HandleUtterance(context.Background(), "What is a derivative?")
	require.NoError(t, err)
	_, err = c.HandleUtterance(context.Background(), "skip")
	require.NoError(t, err)

	// Same topic detected again; the offer must not repeat.
	msgs, err := c.HandleUtterance(context.Background(), "What is an integral?")
	require.NoError(t, err)

	assert.Equal(t, "answer to: What is an integral?", msgs[1].Content)
	assert.Equal(t, StateIdle, c.State())
}

func TestHandleUtterance_ToggleOffSkipsDetection(t *testing.T) {
	answerer := &fakeAnswerer{}
	knowledge := &fakeKnowledge{topic: "limits"}
	c := NewController(answerer, knowledge)
	c.SetPrereqToggle(false)

	msgs, err := c.HandleUtterance(context.Background(), "What is a derivative?")
	require.NoError(t, err)

	assert.Equal(t, "answer to: What is a derivative?", msgs[1].Content)
	assert.Empty(t, knowledge.detectCalls)
}

func TestSetPrereqToggle_DeferredWhilePending(t *testing.T) {
	answerer := &fakeAnswerer{}
	knowledge := &fakeKnowledge{topic: "limits"}
	c := NewController(answerer, knowledge)

	_, err := c.HandleUtterance(context.Background(), "What is a derivative?")
	require.NoError(t, err)
	require.Equal(t, StateAwaitingPrereq, c.State())

	// Disabling mid-cycle must not change how the pending reply is handled.
	c.SetPrereqToggle(false)
	msgs, err := c.HandleUtterance(context.Background(), "yes")
	require.NoError(t, err)
	assert.Contains(t, msgs[1].Content, "explained limits")

	// The deferred value applies from the next question on.
	knowledge.topic = "chain rule"
	knowledge.detectCalls = nil
	msgs, err = c.HandleUtterance(context.Background(), "What is implicit differentiation?")
	require.NoError(t, err)
	assert.Equal(t, "answer to: What is implicit differentiation?", msgs[1].Content)
	assert.Empty(t, knowledge.detectCalls)
}

func TestHandleUtterance_DetectionFailureAnswersDirectly(t *testing.T) {
	answerer := &fakeAnswerer{}
	knowledge := &fakeKnowledge{detectErr: errors.New("llm unavailable")}
	c := NewController(answerer, knowledge)

	msgs, err := c.HandleUtterance(context.Background(), "What is a derivative?")
	require.NoError(t, err)

	assert.Equal(t, "answer to: What is a derivative?", msgs[1].Content)
	assert.Equal(t, StateIdle, c.State())
}

func TestHandleUtterance_AnswerFailureDegrades(t *testing.T) {
	answerer := &fakeAnswerer{err: errors.New("index gone")}
	c := NewController(answerer, &fakeKnowledge{})

	msgs, err := c.HandleUtterance(context.Background(), "What is a derivative?")
	require.NoError(t, err)

	assert.Equal(t, "Error processing your question.", msgs[1].Content)
	assert.Equal(t, StateIdle, c.State())
}

func TestHandleUtterance_DegradedTurnExposesCause(t *testing.T) {
	cause := errors.New("index gone")
	answerer := &fakeAnswerer{err: cause}
	c := NewController(answerer, &fakeKnowledge{})

	_, err := c.HandleUtterance(context.Background(), "What is a derivative?")
	require.NoError(t, err)
	assert.Equal(t, cause, c.LastFailure())

	// A successful turn clears the recorded cause.
	answerer.err = nil
	_, err = c.HandleUtterance(context.Background(), "And the chain rule?")
	require.NoError(t, err)
	assert.NoError(t, c.LastFailure())
}

func TestPrereqPrompt_TruncatesLongQuestions(t *testing.T) {
	long := "Can you walk me through how the chain rule interacts with implicit differentiation?"
	got := prereqPrompt("limits", long)

	assert.Contains(t, got, string([]rune(long)[:30])+"...")
	assert.NotContains(t, got, "implicit differentiation?")
	assert.True(t, strings.HasSuffix(got, "(yes/skip)"))

	short := "What is a derivative?"
	assert.Contains(t, prereqPrompt("limits", short), short)
	assert.NotContains(t, prereqPrompt("limits", short), short+"...")
}

func TestReset_ClearsOfferedHistoryAndFlags(t *testing.T) {
	answerer := &fakeAnswerer{}
	knowledge := &fakeKnowledge{topic: "limits"}
	c := NewController(answerer, knowledge)

	_, err := c.HandleUtterance(context.Background(), "What is a derivative?")
	require.NoError(t, err)
	c.SetPrereqToggle(false)

	c.Reset()

	assert.Equal(t, StateIdle, c.State())
	assert.True(t, c.PrereqEnabled())

	// After a reset the same topic may be offered again.
	msgs, err := c.HandleUtterance(context.Background(), "What is a derivative?")
	require.NoError(t, err)
	assert.Contains(t, msgs[1].Content, "**limits**")
	assert.Equal(t, StateAwaitingPrereq, c.State())
}

func TestSnapshotRestore_RoundTripsMidCycle(t *testing.T) {
	answerer := &fakeAnswerer{}
	knowledge := &fakeKnowledge{topic: "limits"}
	c := NewController(answerer, knowledge)

	_, err := c.HandleUtterance(context.Background(), "What is a derivative?")
	require.NoError(t, err)
	snap := c.Snapshot()

	restored := NewController(answerer, knowledge)
	restored.Restore(snap)

	msgs, err := restored.HandleUtterance(context.Background(), "yes")
	require.NoError(t, err)
	assert.Equal(t, "explained limits\n\nanswer to: What is a derivative?", msgs[1].Content)
	assert.Equal(t, StateIdle, restored.State())
}
