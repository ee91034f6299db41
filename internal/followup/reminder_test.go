package followup_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"jobmate/match-service/internal/followup"
	"jobmate/match-service/internal/model"
)

type fakeStore struct {
	pending   []model.ApplicationRef
	statuses  []string
	reminders map[string]time.Time
	raced     map[string]bool
	loadErr   error
}

func (f *fakeStore) PendingReminders(_ context.Context, statuses []string) ([]model.ApplicationRef, error) {
	f.statuses = statuses
	return f.pending, f.loadErr
}

func (f *fakeStore) SetReminder(_ context.Context, appID string, at time.Time) (bool, error) {
	if f.raced[appID] {
		return false, nil
	}
	if f.reminders == nil {
		f.reminders = map[string]time.Time{}
	}
	f.reminders[appID] = at
	return true, nil
}

func TestSweep(t *testing.T) {
	since := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		pending: []model.ApplicationRef{
			{ID: "a1", Status: "APPLIED", Since: since},
			{ID: "a2", Status: "OFFER", Since: since},
			{ID: "a3", Status: "ARCHIVED", Since: since},
			{ID: "a4", Status: "HIRED", Since: since},
			{ID: "a5", Status: "INTERVIEW", Since: since},
		},
		raced: map[string]bool{"a5": true},
	}

	set, err := followup.NewReminder(store, zap.NewNop()).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if set != 2 {
		t.Errorf("Sweep set %d reminders, want 2", set)
	}
	if got := store.reminders["a1"]; !got.Equal(since.AddDate(0, 0, 7)) {
		t.Errorf("a1 reminder = %s", got)
	}
	if got := store.reminders["a2"]; !got.Equal(since.AddDate(0, 0, 2)) {
		t.Errorf("a2 reminder = %s", got)
	}
	if _, ok := store.reminders["a4"]; ok {
		t.Error("terminal application should not get a reminder")
	}
	if len(store.statuses) != 3 {
		t.Errorf("queried statuses = %v, want the three reminded statuses", store.statuses)
	}
}

func TestSweep_LoadError(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("connection reset")}
	if _, err := followup.NewReminder(store, zap.NewNop()).Sweep(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
