package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"quizbot/internal/domain"
)

// User-facing texts and button labels, shared by all channels.
const (
	HelloText       = "Здравствуйте"
	RightAnswerText = "Правильно! Поздравляю! Для следующего вопроса нажми «Новый вопрос»"
	WrongAnswerText = "Неправильно… Попробуешь ещё раз?"
	GiveUpTextFmt   = "Жаль что ты не справился. Вот правильный ответ:\n%s"
	PromptNextText  = "Нажми «Новый вопрос», чтобы получить вопрос"
	PromptStartText = "Сначала запроси вопрос — нажми «Новый вопрос»"
	TransientText   = "Что-то пошло не так, попробуй ещё раз чуть позже"

	ButtonNextQuestion   = "Новый вопрос"
	ButtonRepeatQuestion = "Повторить вопрос"
	ButtonGiveUp         = "Сдаться"
)

func answeredOptions() []string {
	return []string{ButtonNextQuestion}
}

func awaitingOptions() []string {
	return []string{ButtonRepeatQuestion, ButtonGiveUp}
}

func afterCorrectOptions() []string {
	return []string{ButtonNextQuestion, ButtonGiveUp}
}

// Conversation interprets inbound player events against the player's
// persisted state, producing the outbound reply and the next state. All
// per-event failures are converted to a user-facing reply here; channel
// loops never see an error they have to crash on.
type Conversation struct {
	progression *Progression
	store       SessionStore
	log         *zap.SugaredLogger
}

func NewConversation(progression *Progression, store SessionStore, log *zap.SugaredLogger) *Conversation {
	return &Conversation{progression: progression, store: store, log: log}
}

// Handle processes one inbound event and returns the reply to deliver.
// Events for one player are expected to arrive sequentially; the store's
// atomic advance covers the case where they do not.
func (c *Conversation) Handle(ctx context.Context, event domain.Event) domain.Reply {
	reply, err := c.dispatch(ctx, event)
	if err == nil {
		return reply
	}
	if errors.Is(err, domain.ErrNoActiveSession) {
		return domain.Reply{Text: PromptStartText, Options: answeredOptions()}
	}
	c.log.Errorw("event handling failed",
		"player", event.Player, "kind", event.Kind, "error", err)
	return domain.Reply{Text: TransientText, Options: answeredOptions()}
}

func (c *Conversation) dispatch(ctx context.Context, event domain.Event) (domain.Reply, error) {
	state := domain.StateAnswered
	session, ok, err := c.store.Load(ctx, event.Player)
	if err != nil {
		return domain.Reply{}, err
	}
	if ok {
		state = session.State
	}

	if state == domain.StateAwaitingAnswer {
		return c.handleAwaiting(ctx, event)
	}
	return c.handleAnswered(ctx, event)
}

func (c *Conversation) handleAnswered(ctx context.Context, event domain.Event) (domain.Reply, error) {
	switch event.Kind {
	case domain.EventStart, domain.EventNextQuestion:
		question, err := c.progression.NextQuestion(ctx, event.Player)
		if err != nil {
			return domain.Reply{}, err
		}
		text := question
		if event.Kind == domain.EventStart {
			text = HelloText + "\n\n" + question
		}
		return domain.Reply{Text: text, Options: awaitingOptions()}, nil
	default:
		// Give-up, repeat, or stray text with nothing open: nudge forward.
		return domain.Reply{Text: PromptNextText, Options: answeredOptions()}, nil
	}
}

func (c *Conversation) handleAwaiting(ctx context.Context, event domain.Event) (domain.Reply, error) {
	switch event.Kind {
	case domain.EventGiveUp:
		answer, err := c.progression.CurrentAnswer(ctx, event.Player)
		if err != nil {
			return domain.Reply{}, err
		}
		question, err := c.progression.NextQuestion(ctx, event.Player)
		if err != nil {
			return domain.Reply{}, err
		}
		text := fmt.Sprintf(GiveUpTextFmt, answer) + "\n\n" + question
		return domain.Reply{Text: text, Options: awaitingOptions()}, nil
	case domain.EventRepeatQuestion, domain.EventStart:
		// /start mid-question re-shows the open question; no advance.
		question, err := c.progression.CurrentQuestion(ctx, event.Player)
		if err != nil {
			return domain.Reply{}, err
		}
		return domain.Reply{Text: question, Options: awaitingOptions()}, nil
	default:
		// Anything else, the next-question label included, is graded as an
		// answer attempt.
		return c.gradeAnswer(ctx, event)
	}
}

func (c *Conversation) gradeAnswer(ctx context.Context, event domain.Event) (domain.Reply, error) {
	answer, err := c.progression.CurrentAnswer(ctx, event.Player)
	if err != nil {
		return domain.Reply{}, err
	}
	if !IsCorrect(event.Text, answer) {
		return domain.Reply{Text: WrongAnswerText, Options: awaitingOptions()}, nil
	}
	if err := c.store.SetState(ctx, event.Player, domain.StateAnswered); err != nil {
		return domain.Reply{}, err
	}
	return domain.Reply{Text: RightAnswerText, Options: afterCorrectOptions()}, nil
}
