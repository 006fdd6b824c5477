package memory

import (
	"context"
	"testing"

	"quizbot/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	if _, ok, err := store.Load(ctx, "tg:1"); err != nil || ok {
		t.Fatalf("expected no session, got ok=%v err=%v", ok, err)
	}

	session, err := store.Advance(ctx, "tg:1", 3)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if session.Index != 0 || session.State != domain.StateAwaitingAnswer {
		t.Fatalf("unexpected session after first advance: %+v", session)
	}

	if err := store.SetState(ctx, "tg:1", domain.StateAnswered); err != nil {
		t.Fatalf("set state: %v", err)
	}
	session, ok, err := store.Load(ctx, "tg:1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if session.Index != 0 || session.State != domain.StateAnswered {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestSessionStoreWrapsModuloTotal(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	var last domain.Session
	for i := 0; i < 4; i++ {
		var err error
		last, err = store.Advance(ctx, "tg:1", 3)
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	if last.Index != 0 {
		t.Fatalf("expected wrap to 0 after 4 advances over 3, got %d", last.Index)
	}
}
