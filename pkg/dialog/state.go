package dialog

// State is the controller's dialog phase.
type State int

const (
	// StateIdle means no prerequisite question is outstanding.
	StateIdle State = iota
	// StateAwaitingPrereq means the last assistant turn asked the user
	// whether a prerequisite topic should be explained first.
	StateAwaitingPrereq
)

func (s State) String() string {
	switch s {
	case StateAwaitingPrereq:
		return "awaiting_prereq_response"
	default:
		return "idle"
	}
}

// Role identifies the author of a dialog message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn appended to the conversation.
type Message struct {
	Role    Role
	Content string
	// Fragments carries the retrieved citations on assistant messages that
	// answered from the document; empty otherwise.
	Fragments []Fragment
}

// Snapshot is the serializable controller state. It is what gets stored
// between stateless HTTP requests and restored on the next turn.
type Snapshot struct {
	State            State           `json:"state"`
	Topic            string          `json:"topic,omitempty"`
	OriginalQuestion string          `json:"original_question,omitempty"`
	OfferedTopics    []string        `json:"offered_topics,omitempty"`
	CheckPrereqs     bool            `json:"check_prereqs"`
	ToggleState      bool            `json:"toggle_state"`
}
