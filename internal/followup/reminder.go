package followup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"jobmate/match-service/internal/logger"
	"jobmate/match-service/internal/model"
)

// Store is the persistence the reminder sweep needs.
type Store interface {
	PendingReminders(ctx context.Context, statuses []string) ([]model.ApplicationRef, error)
	SetReminder(ctx context.Context, appID string, at time.Time) (bool, error)
}

// Reminder sets relance_reminder_at on applications that lack one.
type Reminder struct {
	store Store
	log   *zap.Logger
}

// NewReminder returns a Reminder.
func NewReminder(store Store, log *zap.Logger) *Reminder {
	return &Reminder{store: store, log: logger.WithFields(log).Named("followup")}
}

// Sweep schedules reminders for every pending application and returns how
// many were set. Rows with an unknown status are skipped.
func (r *Reminder) Sweep(ctx context.Context) (int, error) {
	statuses := RemindedStatuses()
	raw := make([]string, len(statuses))
	for i, s := range statuses {
		raw[i] = string(s)
	}

	apps, err := r.store.PendingReminders(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("load pending reminders: %w", err)
	}

	set := 0
	for _, a := range apps {
		st, err := ParseStatus(a.Status)
		if err != nil {
			r.log.Warn("skipping application", zap.String("application_id", a.ID), zap.Error(err))
			continue
		}
		at, ok := DueAt(st, a.Since)
		if !ok {
			continue
		}
		updated, err := r.store.SetReminder(ctx, a.ID, at)
		if err != nil {
			r.log.Warn("set reminder failed", zap.String("application_id", a.ID), zap.Error(err))
			continue
		}
		if updated {
			set++
		}
	}

	r.log.Info("reminder sweep complete", zap.Int("pending", len(apps)), zap.Int("set", set))
	return set, nil
}
