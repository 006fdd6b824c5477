package domain

import "fmt"

// Entry is one question/answer pair of the loaded corpus. Entries are
// immutable after startup and indexed 0..N-1 in source order.
type Entry struct {
	Index    int
	Question string
	Answer   string
}

// State is the conversation state of a single player.
type State int

const (
	// StateAnswered means the last question was resolved (or the player
	// has never started); the next expected action is asking for a question.
	StateAnswered State = iota
	// StateAwaitingAnswer means a question is open and a reply is expected.
	StateAwaitingAnswer
)

// stateTokens is the persisted encoding. Tokens are explicit so that new
// states can be added without shifting ordinals in stored data.
var stateTokens = map[State]string{
	StateAnswered:       "answered",
	StateAwaitingAnswer: "awaiting",
}

func (s State) String() string {
	if tok, ok := stateTokens[s]; ok {
		return tok
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Encode returns the store representation of the state.
func (s State) Encode() string { return s.String() }

// ParseState decodes a stored state token. The ordinal forms "0" and "1"
// are accepted as aliases for data written by the pre-token encoding.
func ParseState(raw string) (State, error) {
	switch raw {
	case "answered", "0":
		return StateAnswered, nil
	case "awaiting", "1":
		return StateAwaitingAnswer, nil
	}
	return StateAnswered, fmt.Errorf("unknown session state %q", raw)
}

// Session is the persisted progression record of one player.
type Session struct {
	// Index points into the corpus; only valid for sessions that exist.
	Index int
	State State
}

// EventKind classifies an inbound player action after the channel adapter
// has matched the raw text against known commands and button labels.
type EventKind int

const (
	// EventText is the fallthrough: the message is graded as an answer.
	EventText EventKind = iota
	EventStart
	EventNextQuestion
	EventRepeatQuestion
	EventGiveUp
)

// Event is one inbound player action. Player is the channel-namespaced id.
type Event struct {
	Player string
	Kind   EventKind
	Text   string
}

// Reply is what a channel adapter delivers back: message text plus the
// suggested replies to render (reply keyboard, buttons, plain list).
type Reply struct {
	Text    string
	Options []string
}
