package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"file_rename_bot/internal/bot"
	"file_rename_bot/internal/pkg/config"
	"file_rename_bot/internal/pkg/nsfw"
	"file_rename_bot/internal/pkg/profile/postgres_storage"
	"file_rename_bot/internal/pkg/quota"
	"file_rename_bot/internal/pkg/rename/processor"
	"file_rename_bot/internal/pkg/rename/queue"
	"file_rename_bot/internal/pkg/rename/worker"
	"file_rename_bot/internal/pkg/telegram"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file, relying on environment")
	}

	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		log.Fatal().Msg("TELEGRAM_TOKEN is not set")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	store := postgres_storage.NewPostgresStorage(db)
	if err := store.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot api")
	}

	ledger := quota.NewLedger(store, cfg.DefaultDailyLimit)
	taskQueue := queue.New()
	checker := nsfw.NewChecker(cfg.BlockedWords)
	gateway := telegram.NewGateway(api)
	proc := processor.New(gateway, store, cfg.DownloadDir, cfg.MetadataDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.New(taskQueue, gateway, proc.Process, cfg.IdlePoll(), cfg.TaskPause(), cfg.FaultBackoff())
	go w.Run(ctx)

	b := bot.New(api, store, ledger, taskQueue, checker, cfg.AdminIDs, cfg.PremiumPeriod())

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		api.StopReceivingUpdates()
	}()

	b.Start()
}
