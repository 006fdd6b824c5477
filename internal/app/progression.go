package app

import (
	"context"

	"quizbot/internal/corpus"
	"quizbot/internal/domain"
)

// SessionStore abstracts how player progression is persisted (in-memory,
// Redis, etc). Implementations keep two fields per player, question_number
// and status, and must write them as one atomic unit.
type SessionStore interface {
	// Load returns the player's session. ok is false when the player has
	// never started; that absence is the no-session sentinel, not an error.
	Load(ctx context.Context, player string) (session domain.Session, ok bool, err error)
	// Advance moves the player to the next question index modulo total
	// (or to 0 for a brand-new player), marks the session awaiting an
	// answer, and returns the resulting session. The read-modify-write
	// must be atomic so that concurrent events cannot skip or repeat a
	// question.
	Advance(ctx context.Context, player string, total int) (domain.Session, error)
	// SetState updates only the conversation state, leaving the index as is.
	SetState(ctx context.Context, player string, state domain.State) error
}

// Progression tracks where each player stands in the shared corpus.
type Progression struct {
	corpus *corpus.Corpus
	store  SessionStore
}

func NewProgression(c *corpus.Corpus, store SessionStore) *Progression {
	return &Progression{corpus: c, store: store}
}

// NextQuestion advances the player's position and returns the question at
// the new index. A brand-new player lands on index 0; everyone else moves
// to (stored+1) mod N. This is the only mutation of the index, whether
// triggered by start, next-question, or give-up.
func (p *Progression) NextQuestion(ctx context.Context, player string) (string, error) {
	session, err := p.store.Advance(ctx, player, p.corpus.Len())
	if err != nil {
		return "", err
	}
	return p.corpus.Question(session.Index), nil
}

// CurrentQuestion returns the question at the player's stored index
// without advancing, so repeated requests are idempotent.
func (p *Progression) CurrentQuestion(ctx context.Context, player string) (string, error) {
	session, ok, err := p.store.Load(ctx, player)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrNoActiveSession
	}
	return p.corpus.Question(p.clamp(session.Index)), nil
}

// CurrentAnswer returns the canonical answer at the player's stored index
// without advancing. Players that never started get ErrNoActiveSession.
func (p *Progression) CurrentAnswer(ctx context.Context, player string) (string, error) {
	session, ok, err := p.store.Load(ctx, player)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrNoActiveSession
	}
	return p.corpus.Answer(p.clamp(session.Index)), nil
}

// clamp folds a persisted index back into corpus bounds. Sessions are
// never deleted, so an index written against a larger corpus can come
// back after a restart that loaded a smaller one.
func (p *Progression) clamp(index int) int {
	return index % p.corpus.Len()
}
