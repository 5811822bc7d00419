package reminders

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamchris0/hsedeadlinerbot/internal/models"
)

type fakeSource struct {
	mu     sync.Mutex
	byDate map[string][]models.Assignment
}

func (f *fakeSource) AssignmentsDueOn(_ context.Context, _ int64, due time.Time) ([]models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byDate[due.Format("2006-01-02")], nil
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []string
	chats []int64
}

func (f *fakeSender) SendDigest(chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	f.chats = append(f.chats, chatID)
	return nil
}

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func newTestScheduler(source Source, sender Sender) *Scheduler {
	return NewScheduler(Config{TestMode: true, TestInterval: time.Hour}, source, sender, slog.Default())
}

func TestRunOnce_SendsWeekAndDayDigests(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)
	source := &fakeSource{byDate: map[string][]models.Assignment{
		"2026-09-08": {{Title: "Через неделю", Due: time.Date(2026, 9, 8, 0, 0, 0, 0, time.Local)}},
		"2026-09-02": {{Title: "Завтра", Due: time.Date(2026, 9, 2, 0, 0, 0, 0, time.Local)}},
	}}
	sender := &fakeSender{}

	s := newTestScheduler(source, sender)
	s.now = func() time.Time { return now }

	s.runOnce(100)

	messages := sender.messages()
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0], "за неделю")
	assert.Contains(t, messages[0], "Через неделю")
	assert.Contains(t, messages[1], "за день")
	assert.Contains(t, messages[1], "Завтра")
}

func TestRunOnce_QuietWhenNothingIsDue(t *testing.T) {
	source := &fakeSource{byDate: map[string][]models.Assignment{}}
	sender := &fakeSender{}

	s := newTestScheduler(source, sender)
	s.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local) }

	s.runOnce(100)

	assert.Empty(t, sender.messages())
}

func TestSchedule_ReplacesOnlyThatChatsJob(t *testing.T) {
	source := &fakeSource{byDate: map[string][]models.Assignment{}}
	sender := &fakeSender{}

	s := newTestScheduler(source, sender)
	defer s.Shutdown()

	s.Schedule(100)
	s.Schedule(200)
	assert.Equal(t, 2, s.Count())

	// Re-scheduling an existing chat keeps the job count stable
	s.Schedule(100)
	assert.Equal(t, 2, s.Count())

	s.Cancel(100)
	assert.Equal(t, 1, s.Count())
}

func TestShutdown_StopsAllJobs(t *testing.T) {
	source := &fakeSource{byDate: map[string][]models.Assignment{}}
	sender := &fakeSender{}

	s := newTestScheduler(source, sender)
	s.Schedule(100)
	s.Schedule(200)

	s.Shutdown()
	assert.Equal(t, 0, s.Count())
}

func TestUntilNextRun(t *testing.T) {
	testCases := []struct {
		name     string
		now      time.Time
		expected time.Duration
	}{
		{
			name:     "BeforeTodayRun",
			now:      time.Date(2026, 9, 1, 8, 30, 0, 0, time.Local),
			expected: 90 * time.Minute,
		},
		{
			name:     "AfterTodayRunWaitsForTomorrow",
			now:      time.Date(2026, 9, 1, 10, 0, 1, 0, time.Local),
			expected: 24*time.Hour - time.Second,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScheduler(Config{}, &fakeSource{}, &fakeSender{}, slog.Default())
			s.now = func() time.Time { return tc.now }
			assert.Equal(t, tc.expected, s.untilNextRun())
		})
	}
}
