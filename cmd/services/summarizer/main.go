package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	config "github.com/recapd/backend/config/summarizer"
	"github.com/recapd/backend/pkg/gen"
	"github.com/recapd/backend/pkg/logger"
	mailClient "github.com/recapd/backend/services/summarizer/clients/mail"
	openaiClient "github.com/recapd/backend/services/summarizer/clients/openai"
	"github.com/recapd/backend/services/summarizer/server"
	"github.com/recapd/backend/services/summarizer/storage"
	"github.com/recapd/backend/services/summarizer/usecase"
)

func main() {
	log := logger.New(logger.Config{
		Level:      slog.LevelDebug,
		Output:     os.Stderr,
		AddSource:  true,
		JSONFormat: false,
	})

	// Code off the request path logs through the context logger; make its
	// fallback the configured logger too.
	logger.SetDefault(log)

	// Optional local overrides; absence of a .env file is not an error.
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded")
	}

	cfg := config.MustLoad()
	log.Info("configuration loaded",
		slog.Int("port", cfg.Port),
		slog.String("openai_model", cfg.OpenAI.Model),
		slog.String("smtp_host", cfg.SMTP.Host))

	ctx := logger.WithContext(context.Background(), log)

	rootCtx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer cancel()

	if err := run(rootCtx, cfg, log); err != nil {
		log.Error("failed to run()", slog.String("error", err.Error()))
		return
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	stg := storage.New(gen.UUID())

	completer := openaiClient.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model, log)
	mailer := mailClient.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, log)

	usc := usecase.New(stg, completer, mailer)

	srv := server.New(cfg, log, usc)
	return srv.Start(ctx)
}
