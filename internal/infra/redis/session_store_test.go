package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quizbot/internal/domain"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionStore(client, time.Second), mr
}

func TestAdvanceCreatesSessionAtZero(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	session, err := store.Advance(ctx, "tg:1", 5)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if session.Index != 0 || session.State != domain.StateAwaitingAnswer {
		t.Fatalf("unexpected session: %+v", session)
	}

	if got := mr.HGet("quiz:player:tg:1", "question_number"); got != "0" {
		t.Fatalf("expected question_number 0 in redis, got %q", got)
	}
	if got := mr.HGet("quiz:player:tg:1", "status"); got != "awaiting" {
		t.Fatalf("expected status awaiting in redis, got %q", got)
	}
}

func TestAdvanceIncrementsAndWraps(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	var session domain.Session
	var err error
	for i := 0; i < 3; i++ {
		session, err = store.Advance(ctx, "tg:1", 3)
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	if session.Index != 2 {
		t.Fatalf("expected index 2 after 3 advances, got %d", session.Index)
	}

	session, err = store.Advance(ctx, "tg:1", 3)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if session.Index != 0 {
		t.Fatalf("expected wrap to 0, got %d", session.Index)
	}
}

func TestLoadAbsentPlayer(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, ok, err := store.Load(ctx, "tg:unknown")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected absent session")
	}
}

func TestSetStateKeepsIndex(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if _, err := store.Advance(ctx, "tg:1", 3); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := store.Advance(ctx, "tg:1", 3); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := store.SetState(ctx, "tg:1", domain.StateAnswered); err != nil {
		t.Fatalf("set state: %v", err)
	}

	session, ok, err := store.Load(ctx, "tg:1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if session.Index != 1 || session.State != domain.StateAnswered {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestLoadAcceptsLegacyOrdinalStatus(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	mr.HSet("quiz:player:tg:legacy", "question_number", "4")
	mr.HSet("quiz:player:tg:legacy", "status", "1")

	session, ok, err := store.Load(ctx, "tg:legacy")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if session.Index != 4 || session.State != domain.StateAwaitingAnswer {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestLoadMissingStatusDefaultsToAnswered(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	mr.HSet("quiz:player:tg:old", "question_number", "2")

	session, ok, err := store.Load(ctx, "tg:old")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if session.State != domain.StateAnswered {
		t.Fatalf("expected answered for missing status, got %v", session.State)
	}
}

func TestUnreachableStoreReportsUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, 50*time.Millisecond)
	store.retryDelay = time.Millisecond
	mr.Close()

	_, _, err = store.Load(context.Background(), "tg:1")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
