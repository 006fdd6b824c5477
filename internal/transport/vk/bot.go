package vk

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/SevereCloud/vksdk/v2/api"
	"github.com/SevereCloud/vksdk/v2/api/params"
	"github.com/SevereCloud/vksdk/v2/events"
	longpoll "github.com/SevereCloud/vksdk/v2/longpoll-bot"
	"github.com/SevereCloud/vksdk/v2/object"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"quizbot/internal/app"
	"quizbot/internal/domain"
	"quizbot/internal/transport"
)

const playerNamespace = "vk:"

// Bot runs the quiz conversation over VK community long polling.
type Bot struct {
	vk      *api.VK
	groupID int
	conv    *app.Conversation
	log     *zap.SugaredLogger
	rnd     *rand.Rand
}

func New(token string, groupID int, conv *app.Conversation, log *zap.SugaredLogger) *Bot {
	return &Bot{
		vk:      api.NewVK(token),
		groupID: groupID,
		conv:    conv,
		log:     log,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *Bot) Name() string { return "vk" }

// Run listens on the group long poll until ctx is canceled, restarting
// the poll loop with backoff when it fails.
func (b *Bot) Run(ctx context.Context) error {
	restart := backoff.WithContext(backoff.NewConstantBackOff(5*time.Second), ctx)
	for {
		if err := b.poll(ctx); err != nil && ctx.Err() == nil {
			b.log.Warnw("vk long poll stopped", "error", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		delay := restart.NextBackOff()
		if delay == backoff.Stop {
			return ctx.Err()
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Bot) poll(ctx context.Context) error {
	lp, err := longpoll.NewLongPoll(b.vk, b.groupID)
	if err != nil {
		return fmt.Errorf("create vk long poll: %w", err)
	}

	lp.MessageNew(func(ctx context.Context, obj events.MessageNewObject) {
		b.handleMessage(ctx, obj.Message)
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			lp.Shutdown()
		case <-done:
		}
	}()

	return lp.Run()
}

func (b *Bot) handleMessage(ctx context.Context, message object.MessagesMessage) {
	player := playerNamespace + strconv.Itoa(message.FromID)
	b.log.Debugw("inbound message", "player", player, "text", message.Text)

	reply := b.conv.Handle(ctx, domain.Event{
		Player: player,
		Kind:   transport.MapText(message.Text),
		Text:   message.Text,
	})

	builder := params.NewMessagesSendBuilder()
	builder.PeerID(message.PeerID)
	builder.Message(reply.Text)
	builder.RandomID(b.rnd.Int())
	if len(reply.Options) > 0 {
		builder.Keyboard(keyboard(reply.Options))
	}
	if _, err := b.vk.MessagesSend(builder.Params); err != nil {
		b.log.Errorw("vk send failed", "player", player, "error", err)
	}
}

func keyboard(options []string) *object.MessagesKeyboard {
	kb := object.NewMessagesKeyboard(false)
	kb.AddRow()
	for _, option := range options {
		kb.AddTextButton(option, "", "secondary")
	}
	return kb
}
