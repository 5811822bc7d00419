// Package reminders runs the per-chat daily deadline digests.
package reminders

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iamchris0/hsedeadlinerbot/internal/format"
	"github.com/iamchris0/hsedeadlinerbot/internal/logging"
	"github.com/iamchris0/hsedeadlinerbot/internal/models"
)

// Sender delivers a rendered digest to a chat.
type Sender interface {
	SendDigest(chatID int64, text string) error
}

// Source provides the assignments due on a given calendar date for a chat.
type Source interface {
	AssignmentsDueOn(ctx context.Context, chatID int64, due time.Time) ([]models.Assignment, error)
}

// Config holds scheduler options.
type Config struct {
	// TestMode replaces the daily schedule with a short fixed interval.
	TestMode bool
	// TestInterval is the interval used in test mode. Defaults to 15s.
	TestInterval time.Duration
	// Hour is the local hour of the daily run. Defaults to 10.
	Hour int
}

const (
	defaultTestInterval = 15 * time.Second
	defaultHour         = 10

	digestTimeout = 30 * time.Second
)

// Scheduler owns one reminder job per chat. Scheduling a chat replaces only
// that chat's job; other chats keep theirs.
type Scheduler struct {
	config Config
	source Source
	sender Sender
	logger *slog.Logger

	mu   sync.Mutex
	jobs map[int64]chan struct{}
	wg   sync.WaitGroup

	now func() time.Time
}

func NewScheduler(config Config, source Source, sender Sender, logger *slog.Logger) *Scheduler {
	if config.TestInterval <= 0 {
		config.TestInterval = defaultTestInterval
	}
	if config.Hour == 0 {
		config.Hour = defaultHour
	}
	return &Scheduler{
		config: config,
		source: source,
		sender: sender,
		logger: logger,
		jobs:   make(map[int64]chan struct{}),
		now:    time.Now,
	}
}

// Schedule starts (or restarts) the reminder job for a chat.
func (s *Scheduler) Schedule(chatID int64) {
	s.mu.Lock()
	if stop, ok := s.jobs[chatID]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	s.jobs[chatID] = stop
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(chatID, stop)

	logging.LogOperation(s.logger, "reminders_scheduled",
		slog.Int64("chat_id", chatID),
		slog.Bool("test_mode", s.config.TestMode))
}

// Cancel stops the reminder job for a chat, if any.
func (s *Scheduler) Cancel(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stop, ok := s.jobs[chatID]; ok {
		close(stop)
		delete(s.jobs, chatID)
	}
}

// Count reports how many chats currently have a reminder job.
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Shutdown stops all jobs and waits for in-flight digests to finish.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	for chatID, stop := range s.jobs {
		close(stop)
		delete(s.jobs, chatID)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) run(chatID int64, stop chan struct{}) {
	defer s.wg.Done()

	if s.config.TestMode {
		ticker := time.NewTicker(s.config.TestInterval)
		defer ticker.Stop()

		s.runOnce(chatID)
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.runOnce(chatID)
			}
		}
	}

	for {
		timer := time.NewTimer(s.untilNextRun())
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
			s.runOnce(chatID)
		}
	}
}

// untilNextRun returns the wait until the next daily run in local time.
func (s *Scheduler) untilNextRun() time.Duration {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.Hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// runOnce sends the digests for one chat: assignments due in exactly a week
// and in exactly a day. Failures are logged and retried on the next tick.
func (s *Scheduler) runOnce(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	buckets := []struct {
		label string
		due   time.Time
	}{
		{label: "за неделю", due: today.AddDate(0, 0, 7)},
		{label: "за день", due: today.AddDate(0, 0, 1)},
	}

	for _, bucket := range buckets {
		items, err := s.source.AssignmentsDueOn(ctx, chatID, bucket.due)
		if err != nil {
			logging.LogError(s.logger, "failed to load assignments for digest", err,
				slog.Int64("chat_id", chatID))
			continue
		}

		text := format.Digest(bucket.label, items)
		if text == "" {
			continue
		}
		if err := s.sender.SendDigest(chatID, text); err != nil {
			logging.LogError(s.logger, "failed to send digest", err,
				slog.Int64("chat_id", chatID))
		}
	}
}
