package coursedb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Client is the entry point for the course storage layer
type Client struct {
	config Config
	DB     *sql.DB
}

// NewClient opens the database described by config and ensures the schema exists
func NewClient(config Config) (*Client, error) {
	db, err := initDB(config)
	if err != nil {
		return nil, fmt.Errorf("error initializing course database: %w", err)
	}

	client := &Client{
		config: config,
		DB:     db,
	}
	return client, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}
