package course

import "github.com/iamchris0/hsedeadlinerbot/internal/appconf"

// Config holds the settings for the course Manager.
type Config struct {
	// DataDir is where uploaded workbooks are kept, one file per chat.
	DataDir string
	// DBPath is the SQLite database path, or ":memory:".
	DBPath string
	Env    appconf.Environment
}
