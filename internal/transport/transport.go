// Package transport holds what the channel adapters share: the mapping
// from raw inbound text to logical conversation events, and the Channel
// contract the serve command supervises. Adapters differ only in how they
// talk to their messenger and how they render Reply.Options.
package transport

import (
	"context"

	"quizbot/internal/app"
	"quizbot/internal/domain"
)

// Channel is one inbound-event retrieval loop. Run blocks until ctx is
// canceled; transport failures are retried inside, never returned early.
type Channel interface {
	Name() string
	Run(ctx context.Context) error
}

// MapText resolves raw message text to a logical event kind by comparing
// against the known commands and button labels. Unmatched text falls
// through to EventText and is graded as an answer.
func MapText(text string) domain.EventKind {
	switch text {
	case "/start", "Начать":
		return domain.EventStart
	case app.ButtonNextQuestion:
		return domain.EventNextQuestion
	case app.ButtonRepeatQuestion:
		return domain.EventRepeatQuestion
	case app.ButtonGiveUp:
		return domain.EventGiveUp
	}
	return domain.EventText
}
