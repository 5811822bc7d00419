package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/iamchris0/hsedeadlinerbot/internal/app"
	"github.com/iamchris0/hsedeadlinerbot/internal/appconf"
	"github.com/iamchris0/hsedeadlinerbot/internal/course"
	"github.com/iamchris0/hsedeadlinerbot/internal/logging"
	"github.com/iamchris0/hsedeadlinerbot/internal/ops"
	"github.com/iamchris0/hsedeadlinerbot/internal/reminders"
	"github.com/iamchris0/hsedeadlinerbot/internal/telegram"
)

func main() {
	// A .env file is optional; real environment variables win
	_ = godotenv.Load()

	var cfg app.Config
	var envFlag string

	flag.IntVar(&cfg.Port, "port", envInt("PORT", 4000), "Ops server port")
	flag.StringVar(&envFlag, "env", envString("ENV", "development"), "Environment (development|test|production)")
	flag.StringVar(&cfg.BotToken, "token", envString("BOT_TOKEN", ""), "Telegram bot token")
	flag.StringVar(&cfg.DataDir, "data-dir", envString("DATA_DIR", "data"), "Directory for uploaded workbooks and the database")
	flag.StringVar(&cfg.DBPath, "db-path", envString("DB_PATH", ""), "SQLite database path (defaults to <data-dir>/deadliner.db)")
	flag.Int64Var(&cfg.AdminChatID, "admin-chat-id", envInt64("ADMIN_CHAT_ID", 0), "Chat ID allowed to run /update")
	flag.BoolVar(&cfg.TestMode, "test-mode", envBool("TEST_MODE"), "Fast reminder interval for manual verification")
	flag.Parse()

	cfg.Env = appconf.EnvFromString(envFlag)
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "deadliner.db")
	}

	logger := newLogger(cfg.Env)

	if cfg.BotToken == "" {
		logger.Error("BOT_TOKEN is not set; pass -token or set it in the environment")
		os.Exit(1)
	}

	manager, err := course.InitManager(course.Config{
		DataDir: cfg.DataDir,
		DBPath:  cfg.DBPath,
		Env:     cfg.Env,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize course manager", "error", err)
		os.Exit(1)
	}
	defer manager.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	imported, err := manager.Rescan(ctx)
	if err != nil {
		logger.Error("data directory rescan failed", "error", err)
	} else {
		logger.Info("data directory rescan complete", "imported", imported)
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Error("failed to connect to the Bot API", "error", err)
		os.Exit(1)
	}

	application := &app.Application{
		Config:  cfg,
		Logger:  logger,
		Courses: manager,
	}

	scheduler := reminders.NewScheduler(
		reminders.Config{TestMode: cfg.TestMode},
		manager, telegram.NewDigestSender(api), logger)
	defer scheduler.Shutdown()

	chatIDs, err := manager.ChatIDs(ctx)
	if err != nil {
		logger.Error("failed to list stored courses", "error", err)
	}
	for _, chatID := range chatIDs {
		scheduler.Schedule(chatID)
	}

	bot := telegram.NewBot(application, api, scheduler)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := api.GetUpdatesChan(updateConfig)
	go bot.Run(ctx, updates)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      ops.NewServer(application, scheduler).Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	go func() {
		logger.Info("starting ops server", "addr", srv.Addr, "env", cfg.Env.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server failed", "error", err)
		}
	}()

	logger.Info("bot is running",
		"username", api.Self.UserName,
		"admin_configured", cfg.AdminChatID != 0,
		"test_mode", cfg.TestMode)

	<-ctx.Done()
	logger.Info("shutting down")

	api.StopReceivingUpdates()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.LogError(logger, "ops server shutdown failed", err)
	}
}

func newLogger(env appconf.Environment) *slog.Logger {
	if env == appconf.Production {
		return logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// envBool treats 1/true/yes/on as enabled, matching how the container
// recipe documents TEST_MODE.
func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
