package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leafkeep/leafkeep/internal/model"
	"github.com/leafkeep/leafkeep/internal/store"
)

// Scheduler periodically checks for watering reminders to send.
type Scheduler struct {
	mu       sync.RWMutex
	service  *Service
	push     *store.PushStore
	events   *store.CareEventStore
	logger   *slog.Logger
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewScheduler creates a watering reminder scheduler.
func NewScheduler(svc *Service, pushStore *store.PushStore, eventStore *store.CareEventStore, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:  svc,
		push:     pushStore,
		events:   eventStore,
		logger:   logger.With("component", "push"),
		interval: 60 * time.Second,
	}
}

// Start begins the scheduler loop. It is a no-op when the push service has no
// VAPID keys.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.service.Configured() {
		s.logger.Info("push notifications disabled: no VAPID keys")
		return
	}

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
				s.tick(time.Now())
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick(now time.Time) {
	userIDs, err := s.push.ListUserIDs()
	if err != nil {
		s.logger.Error("list subscribed users", "error", err)
		return
	}

	for _, uid := range userIDs {
		s.checkWateringDue(uid, now)
	}
}

// checkWateringDue notifies a user once per day about plants whose watering
// is due or overdue.
func (s *Scheduler) checkWateringDue(userID int64, now time.Time) {
	// Morning reminder; skip until 8am local time.
	if now.Hour() < 8 {
		return
	}

	refID := fmt.Sprintf("daily-%s", now.Format("2006-01-02"))
	sent, err := s.push.WasSent(userID, model.NotifTypeWateringDue, refID)
	if err != nil || sent {
		return
	}

	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	due, err := s.events.DueWatering(userID, endOfDay)
	if err != nil {
		s.logger.Error("list due watering events", "error", err, "user_id", userID)
		return
	}
	if len(due) == 0 {
		return
	}

	subs, err := s.push.ListByUser(userID)
	if err != nil {
		s.logger.Error("list subscriptions", "error", err, "user_id", userID)
		return
	}
	if len(subs) == 0 {
		return
	}

	body := fmt.Sprintf("%d plants need watering today", len(due))
	if len(due) == 1 {
		body = fmt.Sprintf("%s needs watering today", due[0].PlantName)
	}

	payload := Payload{
		Title: "Watering Reminder",
		Body:  body,
		URL:   "/plants",
		Tag:   "watering-daily",
	}

	for _, sub := range subs {
		if err := s.service.Send(&sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				s.push.DeleteByEndpoint(sub.Endpoint)
			} else {
				s.logger.Error("send watering reminder", "error", err, "user_id", userID)
			}
		}
	}

	if err := s.push.MarkSent(userID, model.NotifTypeWateringDue, refID); err != nil {
		s.logger.Error("record sent notification", "error", err, "user_id", userID)
	}
}
