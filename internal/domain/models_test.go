package domain

import "testing"

func TestStateEncodeParseRoundTrip(t *testing.T) {
	for _, state := range []State{StateAnswered, StateAwaitingAnswer} {
		parsed, err := ParseState(state.Encode())
		if err != nil {
			t.Fatalf("parse %q: %v", state.Encode(), err)
		}
		if parsed != state {
			t.Fatalf("round trip changed %v to %v", state, parsed)
		}
	}
}

func TestParseStateLegacyOrdinals(t *testing.T) {
	if s, err := ParseState("0"); err != nil || s != StateAnswered {
		t.Fatalf("expected answered for legacy 0, got %v err=%v", s, err)
	}
	if s, err := ParseState("1"); err != nil || s != StateAwaitingAnswer {
		t.Fatalf("expected awaiting for legacy 1, got %v err=%v", s, err)
	}
}

func TestParseStateRejectsUnknown(t *testing.T) {
	if _, err := ParseState("paused"); err == nil {
		t.Fatalf("expected error for unknown state token")
	}
}
