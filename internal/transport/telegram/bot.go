package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"quizbot/internal/app"
	"quizbot/internal/domain"
	"quizbot/internal/transport"
)

const playerNamespace = "tg:"

// Bot runs the quiz conversation over Telegram long polling.
type Bot struct {
	api  *tgbotapi.BotAPI
	conv *app.Conversation
	log  *zap.SugaredLogger
}

func New(token string, conv *app.Conversation, log *zap.SugaredLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	log.Infow("telegram authorized", "username", api.Self.UserName)
	return &Bot{api: api, conv: conv, log: log}, nil
}

func (b *Bot) Name() string { return "telegram" }

// Run polls for updates until ctx is canceled. When the update channel
// closes or polling fails, the loop restarts with backoff; failures here
// never reach the other channels.
func (b *Bot) Run(ctx context.Context) error {
	restart := backoff.WithContext(backoff.NewConstantBackOff(5*time.Second), ctx)
	for {
		b.poll(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		delay := restart.NextBackOff()
		if delay == backoff.Stop {
			return ctx.Err()
		}
		b.log.Warnw("telegram update channel closed, restarting", "delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Bot) poll(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	player := playerNamespace + strconv.FormatInt(message.From.ID, 10)
	kind := transport.MapText(message.Text)
	if message.IsCommand() && message.Command() == "start" {
		kind = domain.EventStart
	}
	b.log.Debugw("inbound message", "player", player, "text", message.Text)

	reply := b.conv.Handle(ctx, domain.Event{
		Player: player,
		Kind:   kind,
		Text:   message.Text,
	})

	msg := tgbotapi.NewMessage(message.Chat.ID, reply.Text)
	if len(reply.Options) > 0 {
		msg.ReplyMarkup = replyKeyboard(reply.Options)
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorw("telegram send failed", "player", player, "error", err)
	}
}

func replyKeyboard(options []string) tgbotapi.ReplyKeyboardMarkup {
	buttons := make([]tgbotapi.KeyboardButton, 0, len(options))
	for _, option := range options {
		buttons = append(buttons, tgbotapi.NewKeyboardButton(option))
	}
	keyboard := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(buttons...))
	keyboard.ResizeKeyboard = true
	return keyboard
}
