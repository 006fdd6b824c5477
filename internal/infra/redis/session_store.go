package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"quizbot/internal/domain"
)

// advanceScript performs the whole read-increment-mod-write as one atomic
// unit: a brand-new player lands on index 0, everyone else moves to
// (stored+1) mod total, and both hash fields are written together so a
// crash can never leave a half-updated session.
var advanceScript = redis.NewScript(`
local idx = redis.call('HGET', KEYS[1], 'question_number')
if idx then
  idx = (tonumber(idx) + 1) % tonumber(ARGV[1])
else
  idx = 0
end
redis.call('HSET', KEYS[1], 'question_number', idx, 'status', ARGV[2])
return idx
`)

// SessionStore persists player progression in Redis, one hash per player
// with the fields question_number and status. Every operation runs under
// a per-call timeout and a capped constant-backoff retry; errors that
// survive the retries are wrapped as ErrStoreUnavailable.
type SessionStore struct {
	client     *redis.Client
	timeout    time.Duration
	retryDelay time.Duration
	maxRetries uint64
}

func NewSessionStore(client *redis.Client, timeout time.Duration) *SessionStore {
	return &SessionStore{
		client:     client,
		timeout:    timeout,
		retryDelay: 200 * time.Millisecond,
		maxRetries: 3,
	}
}

func (s *SessionStore) Load(ctx context.Context, player string) (domain.Session, bool, error) {
	var session domain.Session
	var found bool
	err := s.withRetry(ctx, func(ctx context.Context) error {
		values, err := s.client.HMGet(ctx, s.key(player), "question_number", "status").Result()
		if err != nil {
			return err
		}
		rawIndex, ok := values[0].(string)
		if !ok {
			found = false
			return nil
		}
		index, err := strconv.Atoi(rawIndex)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("decode question_number: %w", err))
		}
		// Records written before the status field existed default to
		// answered: the player gets prompted for the next question.
		state := domain.StateAnswered
		if rawState, ok := values[1].(string); ok {
			state, err = domain.ParseState(rawState)
			if err != nil {
				return backoff.Permanent(err)
			}
		}
		session = domain.Session{Index: index, State: state}
		found = true
		return nil
	})
	if err != nil {
		return domain.Session{}, false, err
	}
	return session, found, nil
}

func (s *SessionStore) Advance(ctx context.Context, player string, total int) (domain.Session, error) {
	var index int
	err := s.withRetry(ctx, func(ctx context.Context) error {
		result, err := advanceScript.Run(ctx, s.client,
			[]string{s.key(player)}, total, domain.StateAwaitingAnswer.Encode()).Int()
		if err != nil {
			return err
		}
		index = result
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Index: index, State: domain.StateAwaitingAnswer}, nil
}

func (s *SessionStore) SetState(ctx context.Context, player string, state domain.State) error {
	return s.withRetry(ctx, func(ctx context.Context) error {
		return s.client.HSet(ctx, s.key(player), "status", state.Encode()).Err()
	})
}

func (s *SessionStore) key(player string) string {
	return "quiz:player:" + player
}

func (s *SessionStore) withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	attempt := func() error {
		opCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return op(opCtx)
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryDelay), s.maxRetries), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
