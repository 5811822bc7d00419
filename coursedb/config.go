package coursedb

import "github.com/iamchris0/hsedeadlinerbot/internal/appconf"

// Config holds configuration options for the Client
type Config struct {
	DBPath string // Path to SQLite database file
	Env    appconf.Environment
}

func NewConfig(dbPath string, env appconf.Environment) Config {
	config := Config{
		DBPath: dbPath,
		Env:    env,
	}

	return config
}
