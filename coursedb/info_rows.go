package coursedb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iamchris0/hsedeadlinerbot/internal/models"
)

// insertInfoRow adds one info sheet row within the import transaction
func insertInfoRow(ctx context.Context, tx *sql.Tx, chatID int64, position int, row models.InfoRow) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO info_rows (chat_id, position, label, value)
		VALUES (?, ?, ?, ?);
	`, chatID, position, row.Label, row.Value)
	if err != nil {
		return fmt.Errorf("error inserting info row: %w", err)
	}
	return nil
}

// QueryInfoRows retrieves a chat's info sheet rows in sheet order.
func (c *Client) QueryInfoRows(ctx context.Context, chatID int64) ([]models.InfoRow, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT label, value FROM info_rows
		WHERE chat_id = ?
		ORDER BY position
	`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var info []models.InfoRow
	for rows.Next() {
		var row models.InfoRow
		if err := rows.Scan(&row.Label, &row.Value); err != nil {
			return nil, err
		}
		info = append(info, row)
	}

	return info, rows.Err()
}

func createInfoRowsTable(tx *sql.Tx) error {
	return createTable(tx, "info_rows", `
		CREATE TABLE IF NOT EXISTS info_rows (
			chat_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			label TEXT NOT NULL,
			value TEXT,
			PRIMARY KEY (chat_id, position),
			FOREIGN KEY (chat_id) REFERENCES courses(chat_id) ON DELETE CASCADE
		);`)
}
