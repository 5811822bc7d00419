package app

import (
	"log/slog"

	"github.com/iamchris0/hsedeadlinerbot/internal/appconf"
	"github.com/iamchris0/hsedeadlinerbot/internal/course"
)

// Application holds the dependencies shared by the Telegram handlers and the
// ops endpoints.
type Application struct {
	Config  Config
	Logger  *slog.Logger
	Courses *course.Manager
}

// Config holds all the configuration settings for the Application, read from
// command-line flags and the environment at startup.
type Config struct {
	// Port is where the ops HTTP server listens.
	Port int
	Env  appconf.Environment

	// BotToken is the Telegram Bot API token. Required.
	BotToken string

	// DataDir holds uploaded workbooks and, by default, the database.
	DataDir string
	DBPath  string

	// AdminChatID is the only chat allowed to run /update. Zero means
	// no admin is configured and /update is refused everywhere.
	AdminChatID int64

	// TestMode switches reminders to a short fixed interval for manual
	// verification.
	TestMode bool
}
