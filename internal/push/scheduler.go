package push

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/campushub/campushub/internal/store"
)

// Scheduler surfaces the reminder bell server-side: once per check
// window it looks up each user's reminder note for today's date and
// pushes it to their subscribed devices.
type Scheduler struct {
	mu          sync.Mutex
	service     *Service
	push        *store.PushStore
	preferences *store.PreferenceStore
	interval    time.Duration
	logger      *slog.Logger
	sentToday   map[int64]string // userID -> date already notified
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewScheduler creates a reminder scheduler.
func NewScheduler(svc *Service, pushStore *store.PushStore, prefStore *store.PreferenceStore, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:     svc,
		push:        pushStore,
		preferences: prefStore,
		interval:    15 * time.Minute,
		logger:      logger,
		sentToday:   make(map[int64]string),
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick() {
	userIDs, err := s.preferences.ListUserIDsWithReminders()
	if err != nil {
		s.logger.Error("list reminder users", "error", err)
		return
	}

	today := time.Now().Format("2006-01-02")
	for _, userID := range userIDs {
		s.mu.Lock()
		already := s.sentToday[userID] == today
		s.mu.Unlock()
		if already {
			continue
		}

		note, ok, err := s.preferences.GetReminder(userID, today)
		if err != nil {
			s.logger.Error("get reminder", "user_id", userID, "error", err)
			continue
		}
		if !ok || note == "" {
			continue
		}

		if s.notify(userID, note) {
			s.mu.Lock()
			s.sentToday[userID] = today
			s.mu.Unlock()
		}
	}
}

// notify sends the reminder to every device and reports whether at
// least one delivery succeeded. Expired subscriptions are pruned.
func (s *Scheduler) notify(userID int64, note string) bool {
	subs, err := s.push.ListByUser(userID)
	if err != nil {
		s.logger.Error("list subscriptions", "user_id", userID, "error", err)
		return false
	}

	delivered := false
	for i := range subs {
		err := s.service.Send(&subs[i], Payload{
			Title: "Today's reminder",
			Body:  note,
			URL:   "/workspace",
			Tag:   "calendar_reminder",
		})
		if errors.Is(err, ErrExpired) {
			if err := s.push.DeleteByEndpoint(subs[i].Endpoint); err != nil {
				s.logger.Error("prune expired subscription", "error", err)
			}
			continue
		}
		if err != nil {
			s.logger.Error("send reminder", "user_id", userID, "error", err)
			continue
		}
		delivered = true
	}
	return delivered
}
