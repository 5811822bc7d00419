package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingCloser struct {
	err error
}

func (c failingCloser) Close() error {
	return c.err
}

func TestSafeCloseWithLogging(t *testing.T) {
	testCases := []struct {
		name        string
		closeErr    error
		expectedLog string
	}{
		{
			name:        "SuccessfulCloseLogsNothing",
			closeErr:    nil,
			expectedLog: "",
		},
		{
			name:        "FailedCloseIsLogged",
			closeErr:    errors.New("already closed"),
			expectedLog: "failed to close resource",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewStructuredLogger(&buf, slog.LevelInfo)

			SafeCloseWithLogging(failingCloser{err: tc.closeErr}, logger, "workbook")

			if tc.expectedLog == "" {
				assert.Empty(t, buf.String())
			} else {
				assert.True(t, strings.Contains(buf.String(), tc.expectedLog))
			}
		})
	}
}

func TestSafeCloseWithLogging_NilCloser(t *testing.T) {
	assert.NotPanics(t, func() {
		SafeCloseWithLogging(nil, nil, "nothing")
	})
}

type fakeTx struct {
	err error
}

func (tx fakeTx) Rollback() error {
	return tx.err
}

func TestSafeRollbackWithLogging_IgnoresCommittedTx(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	SafeRollbackWithLogging(fakeTx{err: errors.New("sql: transaction has already been committed or rolled back")}, logger, "replace_course")

	assert.Empty(t, buf.String())
}

func TestSafeRollbackWithLogging_LogsRealFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	SafeRollbackWithLogging(fakeTx{err: errors.New("database is locked")}, logger, "replace_course")

	assert.True(t, strings.Contains(buf.String(), "failed to rollback transaction"))
}
