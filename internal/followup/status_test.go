package followup_test

import (
	"testing"
	"time"

	"jobmate/match-service/internal/followup"
)

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"TO_APPLY", "APPLIED", "INTERVIEW", "OFFER", "HIRED", "REJECTED"}
	for _, s := range valid {
		got, err := followup.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	for _, s := range []string{"", "UNKNOWN", "applied", " APPLIED"} {
		if _, err := followup.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

// ── IsTerminal ─────────────────────────────────────────────────────────────

func TestIsTerminal(t *testing.T) {
	want := map[followup.Status]bool{
		followup.StatusToApply:   false,
		followup.StatusApplied:   false,
		followup.StatusInterview: false,
		followup.StatusOffer:     false,
		followup.StatusHired:     true,
		followup.StatusRejected:  true,
	}
	for s, terminal := range want {
		if got := followup.IsTerminal(s); got != terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, got, terminal)
		}
	}
}

// ── Follow-up table ────────────────────────────────────────────────────────

func TestFollowUpDays(t *testing.T) {
	want := map[followup.Status]int{
		followup.StatusToApply:   0,
		followup.StatusApplied:   7,
		followup.StatusInterview: 3,
		followup.StatusOffer:     2,
		followup.StatusHired:     0,
		followup.StatusRejected:  0,
	}
	for s, days := range want {
		if got := followup.FollowUpDays(s); got != days {
			t.Errorf("FollowUpDays(%s) = %d, want %d", s, got, days)
		}
	}
}

func TestTerminalStatusesNeverRemind(t *testing.T) {
	for _, s := range []followup.Status{followup.StatusHired, followup.StatusRejected} {
		if _, ok := followup.DueAt(s, time.Now()); ok {
			t.Errorf("DueAt(%s) should not schedule a reminder", s)
		}
	}
}

func TestDueAt(t *testing.T) {
	since := time.Date(2024, 2, 26, 9, 30, 0, 0, time.UTC)
	at, ok := followup.DueAt(followup.StatusApplied, since)
	if !ok {
		t.Fatal("DueAt(APPLIED) should schedule a reminder")
	}
	if want := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC); !at.Equal(want) {
		t.Errorf("DueAt(APPLIED) = %s, want %s", at, want)
	}
}

func TestRemindedStatuses(t *testing.T) {
	got := followup.RemindedStatuses()
	want := []followup.Status{followup.StatusApplied, followup.StatusInterview, followup.StatusOffer}
	if len(got) != len(want) {
		t.Fatalf("RemindedStatuses() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RemindedStatuses()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
