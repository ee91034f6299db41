// Package followup schedules follow-up reminders on tracked applications.
//
// Application status graph (owned by the tracker):
//
//	TO_APPLY ──► APPLIED ──► INTERVIEW ──► OFFER ──► HIRED
//	    │            │             │           │
//	    └────────────┴─────────────┴───────────┴──► REJECTED
//
// A reminder is due a fixed number of days after the card entered a status
// where the candidate is waiting on the company.
package followup

import (
	"fmt"
	"time"
)

// Status values mirror the application_status enum in PostgreSQL.
type Status string

const (
	StatusToApply   Status = "TO_APPLY"
	StatusApplied   Status = "APPLIED"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusHired     Status = "HIRED"
	StatusRejected  Status = "REJECTED"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusToApply, StatusApplied, StatusInterview, StatusOffer, StatusHired, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s Status) bool {
	return s == StatusHired || s == StatusRejected
}

// FollowUpDays is how long to wait in s before nudging the company. Zero
// means no reminder: nothing to chase before applying, and nothing after a
// terminal status.
func FollowUpDays(s Status) int {
	switch s {
	case StatusApplied:
		return 7
	case StatusInterview:
		return 3
	case StatusOffer:
		return 2
	case StatusToApply, StatusHired, StatusRejected:
		return 0
	}
	return 0
}

// DueAt returns when the reminder for a card that entered s at since is due.
// ok is false when s takes no reminder.
func DueAt(s Status, since time.Time) (at time.Time, ok bool) {
	days := FollowUpDays(s)
	if days == 0 {
		return time.Time{}, false
	}
	return since.AddDate(0, 0, days), true
}

// RemindedStatuses lists every status that takes a reminder.
func RemindedStatuses() []Status {
	out := make([]Status, 0, 3)
	for _, s := range []Status{StatusToApply, StatusApplied, StatusInterview, StatusOffer, StatusHired, StatusRejected} {
		if FollowUpDays(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}
