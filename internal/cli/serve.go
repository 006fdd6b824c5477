package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quizbot/internal/app"
	"quizbot/internal/config"
	"quizbot/internal/corpus"
	"quizbot/internal/infra/memory"
	pgcorpus "quizbot/internal/infra/postgres"
	redisstore "quizbot/internal/infra/redis"
	"quizbot/internal/logging"
	"quizbot/internal/transport"
	"quizbot/internal/transport/telegram"
	"quizbot/internal/transport/vk"
	"quizbot/internal/transport/ws"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the corpus and serve the quiz on all configured channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, logging.Forwarding{
		Token:  cfg.LogForwardToken(),
		ChatID: cfg.Telegram.LogChatID,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var loader corpus.Loader = corpus.NewFileLoader(cfg.Corpus.Path)
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgcorpus.NewCorpusLoader(pool, cfg.Corpus.Name)
	}

	// Corpus problems are fatal: the process must not serve with zero
	// questions.
	quiz, err := corpus.Load(ctx, loader)
	if err != nil {
		return err
	}
	log.Infow("corpus loaded", "questions", quiz.Len())

	var store app.SessionStore = memory.NewSessionStore()
	if addr := cfg.RedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = redisstore.NewSessionStore(client, cfg.StoreTimeout(2*time.Second))
	} else {
		log.Warn("no redis configured, sessions will not survive restarts")
	}

	conversation := app.NewConversation(app.NewProgression(quiz, store), store, log)

	var channels []transport.Channel
	if cfg.Telegram.Token != "" {
		bot, err := telegram.New(cfg.Telegram.Token, conversation, log)
		if err != nil {
			return err
		}
		channels = append(channels, bot)
	}
	if cfg.VK.Token != "" {
		channels = append(channels, vk.New(cfg.VK.Token, cfg.VK.GroupID, conversation, log))
	}

	group, ctx := errgroup.WithContext(ctx)
	for _, channel := range channels {
		channel := channel
		log.Infow("starting channel", "channel", channel.Name())
		group.Go(func() error {
			return channel.Run(ctx)
		})
	}

	if cfg.WS.Port != "" {
		group.Go(func() error {
			return runWS(ctx, cfg.WS.Port, conversation, log)
		})
	}

	err = group.Wait()
	if errors.Is(err, context.Canceled) {
		log.Info("shutting down")
		return nil
	}
	return err
}

func runWS(ctx context.Context, port string, conversation *app.Conversation, log *zap.SugaredLogger) error {
	handler := ws.NewHandler(conversation, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", handler.ServeWS)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting ws channel", "port", port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}
