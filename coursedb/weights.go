package coursedb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iamchris0/hsedeadlinerbot/internal/models"
)

// insertWeight adds one grade formula component within the import transaction
func insertWeight(ctx context.Context, tx *sql.Tx, chatID int64, position int, w models.Weight) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO weights (chat_id, position, label, weight)
		VALUES (?, ?, ?, ?);
	`, chatID, position, w.Label, w.Value)
	if err != nil {
		return fmt.Errorf("error inserting weight: %w", err)
	}
	return nil
}

// QueryWeights retrieves a chat's grade formula components in sheet order.
func (c *Client) QueryWeights(ctx context.Context, chatID int64) ([]models.Weight, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT label, weight FROM weights
		WHERE chat_id = ?
		ORDER BY position
	`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var weights []models.Weight
	for rows.Next() {
		var w models.Weight
		if err := rows.Scan(&w.Label, &w.Value); err != nil {
			return nil, err
		}
		weights = append(weights, w)
	}

	return weights, rows.Err()
}

func createWeightsTable(tx *sql.Tx) error {
	return createTable(tx, "weights", `
		CREATE TABLE IF NOT EXISTS weights (
			chat_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			label TEXT NOT NULL,
			weight REAL NOT NULL,
			PRIMARY KEY (chat_id, position),
			FOREIGN KEY (chat_id) REFERENCES courses(chat_id) ON DELETE CASCADE
		);`)
}
