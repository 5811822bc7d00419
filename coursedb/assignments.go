package coursedb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iamchris0/hsedeadlinerbot/internal/models"
)

// Due dates are stored date-only: reminders and the deadline window compare
// calendar dates, not times.
const dueDateLayout = "2006-01-02"

// insertAssignment adds one assignment row within the import transaction
func insertAssignment(ctx context.Context, tx *sql.Tx, chatID int64, position int, a models.Assignment) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO assignments (chat_id, position, title, due_date, link)
		VALUES (?, ?, ?, ?, ?);
	`, chatID, position, a.Title, a.Due.Format(dueDateLayout), a.Link)
	if err != nil {
		return fmt.Errorf("error inserting assignment: %w", err)
	}
	return nil
}

// QueryAssignments retrieves a chat's assignments in due-date order.
func (c *Client) QueryAssignments(ctx context.Context, chatID int64) ([]models.Assignment, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT title, due_date, link FROM assignments
		WHERE chat_id = ?
		ORDER BY due_date, position
	`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	return scanAssignments(rows)
}

// QueryAssignmentsDueOn retrieves the assignments due on exactly the given
// calendar date, in sheet order.
func (c *Client) QueryAssignmentsDueOn(ctx context.Context, chatID int64, due time.Time) ([]models.Assignment, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT title, due_date, link FROM assignments
		WHERE chat_id = ? AND due_date = ?
		ORDER BY position
	`, chatID, due.Format(dueDateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	return scanAssignments(rows)
}

func scanAssignments(rows *sql.Rows) ([]models.Assignment, error) {
	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		var due string
		if err := rows.Scan(&a.Title, &due, &a.Link); err != nil {
			return nil, err
		}
		parsed, err := time.ParseInLocation(dueDateLayout, due, time.Local)
		if err != nil {
			return nil, fmt.Errorf("error parsing stored due date %q: %w", due, err)
		}
		a.Due = parsed
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func createAssignmentsTable(tx *sql.Tx) error {
	return createTable(tx, "assignments", `
		CREATE TABLE IF NOT EXISTS assignments (
			chat_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			due_date TEXT NOT NULL,
			link TEXT,
			PRIMARY KEY (chat_id, position),
			FOREIGN KEY (chat_id) REFERENCES courses(chat_id) ON DELETE CASCADE
		);`)
}
