package course

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iamchris0/hsedeadlinerbot/coursedb"
	"github.com/iamchris0/hsedeadlinerbot/internal/logging"
	"github.com/iamchris0/hsedeadlinerbot/internal/models"
)

// Manager owns the stored course workbooks: the files on disk and their
// parsed content in the database.
type Manager struct {
	config Config
	DB     *coursedb.Client
	logger *slog.Logger

	mu           sync.RWMutex
	shutdownOnce sync.Once
}

// InitManager ensures the data directory exists and opens the course database.
func InitManager(config Config, logger *slog.Logger) (*Manager, error) {
	if err := os.MkdirAll(config.DataDir, 0o750); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}

	db, err := coursedb.NewClient(coursedb.NewConfig(config.DBPath, config.Env))
	if err != nil {
		return nil, fmt.Errorf("error building course database: %w", err)
	}

	return &Manager{config: config, DB: db, logger: logger}, nil
}

// Shutdown closes the database. Safe to call more than once.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		if m.DB != nil {
			_ = m.DB.Close()
		}
	})
}

// WorkbookPath returns where a chat's uploaded workbook lives on disk.
func (m *Manager) WorkbookPath(chatID int64) string {
	return filepath.Join(m.config.DataDir, fmt.Sprintf("%d.xlsx", chatID))
}

// ImportWorkbook parses the workbook at path and replaces the chat's stored
// course with its content. A parse failure leaves previously stored data
// untouched.
func (m *Manager) ImportWorkbook(ctx context.Context, chatID int64, path string) (*Workbook, error) {
	wb, err := ParseWorkbook(path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	course := models.CourseSummary{
		ChatID:     chatID,
		FilePath:   path,
		UploadedAt: time.Now(),
	}
	if err := m.DB.ReplaceCourse(ctx, course, wb.Weights, wb.Assignments, wb.Info); err != nil {
		return nil, fmt.Errorf("error storing course: %w", err)
	}

	logging.LogOperation(m.logger, "course_imported",
		slog.Int64("chat_id", chatID),
		slog.Int("weights", len(wb.Weights)),
		slog.Int("assignments", len(wb.Assignments)),
		slog.Int("info_rows", len(wb.Info)))
	return wb, nil
}

// Rescan imports workbooks found in the data directory for chats that are
// not yet in the database. Covers restores where only the data volume
// survived. Returns the number of imported workbooks.
func (m *Manager) Rescan(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(m.config.DataDir)
	if err != nil {
		return 0, fmt.Errorf("error reading data directory: %w", err)
	}

	imported := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".xlsx" && ext != ".xlsm" {
			continue
		}
		chatID, err := strconv.ParseInt(strings.TrimSuffix(name, filepath.Ext(name)), 10, 64)
		if err != nil {
			continue
		}

		if stored, err := m.HasCourse(ctx, chatID); err != nil {
			return imported, err
		} else if stored {
			continue
		}

		if _, err := m.ImportWorkbook(ctx, chatID, filepath.Join(m.config.DataDir, name)); err != nil {
			logging.LogError(m.logger, "failed to import workbook during rescan", err,
				slog.Int64("chat_id", chatID), slog.String("file", name))
			continue
		}
		imported++
	}
	return imported, nil
}

// HasCourse reports whether a chat has a stored course.
func (m *Manager) HasCourse(ctx context.Context, chatID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	course, err := m.DB.GetCourse(ctx, chatID)
	return course != nil, err
}

// WeightsForChat returns the chat's grade formula components.
func (m *Manager) WeightsForChat(ctx context.Context, chatID int64) ([]models.Weight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.DB.QueryWeights(ctx, chatID)
}

// AssignmentsForChat returns the chat's assignments in due-date order.
func (m *Manager) AssignmentsForChat(ctx context.Context, chatID int64) ([]models.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.DB.QueryAssignments(ctx, chatID)
}

// InfoForChat returns the chat's info sheet rows.
func (m *Manager) InfoForChat(ctx context.Context, chatID int64) ([]models.InfoRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.DB.QueryInfoRows(ctx, chatID)
}

// AssignmentsDueOn returns the chat's assignments due on exactly the given
// calendar date.
func (m *Manager) AssignmentsDueOn(ctx context.Context, chatID int64, due time.Time) ([]models.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.DB.QueryAssignmentsDueOn(ctx, chatID, due)
}

// ChatIDs returns every chat with a stored course.
func (m *Manager) ChatIDs(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	courses, err := m.DB.QueryCourses(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(courses))
	for _, course := range courses {
		ids = append(ids, course.ChatID)
	}
	return ids, nil
}

// CountCourses returns the number of chats with a stored course.
func (m *Manager) CountCourses(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.DB.CountCourses(ctx)
}
