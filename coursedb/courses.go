package coursedb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iamchris0/hsedeadlinerbot/internal/models"
)

const uploadedAtLayout = time.RFC3339

// ReplaceCourse transactionally replaces everything stored for one chat:
// the course row plus all weights, assignments and info rows. A failure
// leaves the previously stored course untouched.
func (c *Client) ReplaceCourse(ctx context.Context, course models.CourseSummary, weights []models.Weight, assignments []models.Assignment, info []models.InfoRow) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	// Child tables are cleared explicitly rather than relying on the
	// cascade, which only fires when the connection has foreign keys on
	for _, table := range []string{"weights", "assignments", "info_rows", "courses"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE chat_id = ?;`, course.ChatID); err != nil {
			return fmt.Errorf("error clearing %s: %w", table, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO courses (chat_id, file_path, uploaded_at)
		VALUES (?, ?, ?);
	`, course.ChatID, course.FilePath, course.UploadedAt.Format(uploadedAtLayout))
	if err != nil {
		return fmt.Errorf("error inserting course: %w", err)
	}

	for i, w := range weights {
		if err := insertWeight(ctx, tx, course.ChatID, i, w); err != nil {
			return err
		}
	}
	for i, a := range assignments {
		if err := insertAssignment(ctx, tx, course.ChatID, i, a); err != nil {
			return err
		}
	}
	for i, row := range info {
		if err := insertInfoRow(ctx, tx, course.ChatID, i, row); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing course replacement: %w", err)
	}
	return nil
}

// GetCourse returns the stored course for a chat, or nil when none exists.
func (c *Client) GetCourse(ctx context.Context, chatID int64) (*models.CourseSummary, error) {
	row := c.DB.QueryRowContext(ctx,
		`SELECT chat_id, file_path, uploaded_at FROM courses WHERE chat_id = ?`, chatID)

	var course models.CourseSummary
	var uploadedAt string
	err := row.Scan(&course.ChatID, &course.FilePath, &uploadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	course.UploadedAt, err = time.Parse(uploadedAtLayout, uploadedAt)
	if err != nil {
		return nil, fmt.Errorf("error parsing uploaded_at for chat %d: %w", chatID, err)
	}
	return &course, nil
}

// QueryCourses retrieves every stored course.
func (c *Client) QueryCourses(ctx context.Context) ([]models.CourseSummary, error) {
	rows, err := c.DB.QueryContext(ctx,
		`SELECT chat_id, file_path, uploaded_at FROM courses ORDER BY chat_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var courses []models.CourseSummary
	for rows.Next() {
		var course models.CourseSummary
		var uploadedAt string
		if err := rows.Scan(&course.ChatID, &course.FilePath, &uploadedAt); err != nil {
			return nil, err
		}
		course.UploadedAt, err = time.Parse(uploadedAtLayout, uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("error parsing uploaded_at for chat %d: %w", course.ChatID, err)
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

// CountCourses returns the number of chats with a stored course.
func (c *Client) CountCourses(ctx context.Context) (int64, error) {
	var count int64
	err := c.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count)
	return count, err
}

// DeleteCourse removes a chat's course and all of its sheet rows.
func (c *Client) DeleteCourse(ctx context.Context, chatID int64) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	for _, table := range []string{"weights", "assignments", "info_rows", "courses"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE chat_id = ?;`, chatID); err != nil {
			return fmt.Errorf("error deleting from %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing course deletion: %w", err)
	}
	return nil
}

func createCoursesTable(tx *sql.Tx) error {
	return createTable(tx, "courses", `
		CREATE TABLE IF NOT EXISTS courses (
			chat_id INTEGER PRIMARY KEY,
			file_path TEXT NOT NULL,
			uploaded_at TEXT NOT NULL
		);`)
}
