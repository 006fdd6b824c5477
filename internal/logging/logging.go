// Package logging builds the process logger. Besides stdout, warnings
// and errors can be mirrored to a Telegram chat so operators see failures
// without shell access to the host.
package logging

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Forwarding configures the optional Telegram log sink. Empty ChatID
// disables it; empty Token falls back to the main bot token upstream.
type Forwarding struct {
	Token  string
	ChatID string
}

// New builds a sugared JSON logger at the given level, teeing Warn+ to
// Telegram when forwarding is configured.
func New(level string, fw Forwarding) (*zap.SugaredLogger, error) {
	var lvl zapcore.Level
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "info", "":
		lvl = zapcore.InfoLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	if fw.ChatID != "" && fw.Token != "" {
		chatID, err := strconv.ParseInt(fw.ChatID, 10, 64)
		if err != nil {
			return nil, err
		}
		api, err := tgbotapi.NewBotAPI(fw.Token)
		if err != nil {
			return nil, err
		}
		tee := newTelegramCore(api, chatID)
		logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, tee)
		}))
	}

	return logger.Sugar(), nil
}

// telegramCore mirrors Warn+ entries to a chat, best effort.
type telegramCore struct {
	api    *tgbotapi.BotAPI
	chatID int64
	enc    zapcore.Encoder
}

func newTelegramCore(api *tgbotapi.BotAPI, chatID int64) *telegramCore {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = ""
	return &telegramCore{
		api:    api,
		chatID: chatID,
		enc:    zapcore.NewConsoleEncoder(encCfg),
	}
}

func (c *telegramCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= zapcore.WarnLevel
}

func (c *telegramCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.enc = c.enc.Clone()
	for _, field := range fields {
		field.AddTo(clone.enc)
	}
	return &clone
}

func (c *telegramCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *telegramCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	text := buf.String()
	buf.Free()
	_, err = c.api.Send(tgbotapi.NewMessage(c.chatID, text))
	return err
}

func (c *telegramCore) Sync() error { return nil }
