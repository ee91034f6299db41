package model_test

import (
	"testing"

	"jobmate/match-service/internal/model"
)

// ── ParseSeniority ─────────────────────────────────────────────────────────

func TestParseSeniority_AllLevelsRoundTrip(t *testing.T) {
	for i, s := range model.Seniorities {
		got, err := model.ParseSeniority(string(s))
		if err != nil {
			t.Errorf("ParseSeniority(%q) returned unexpected error: %v", s, err)
		}
		if got != s {
			t.Errorf("ParseSeniority(%q) = %q, want %q", s, got, s)
		}
		if got.Ordinal() != i {
			t.Errorf("%s.Ordinal() = %d, want %d", s, got.Ordinal(), i)
		}
	}
}

func TestParseSeniority_CaseSensitive(t *testing.T) {
	for _, s := range []string{"senior", "Senior", " SENIOR", "SENIOR ", ""} {
		if _, err := model.ParseSeniority(s); err == nil {
			t.Errorf("ParseSeniority(%q) expected error, got nil", s)
		}
	}
}

func TestSeniorityOrdinal_Unknown(t *testing.T) {
	if got := model.Seniority("ARCHITECT").Ordinal(); got != -1 {
		t.Errorf("Ordinal() of unknown level = %d, want -1", got)
	}
}

// ── Remote arrangements ────────────────────────────────────────────────────

func TestParseRemotePreference(t *testing.T) {
	for _, s := range []string{"REMOTE", "ONSITE", "HYBRID", "ANY"} {
		if _, err := model.ParseRemotePreference(s); err != nil {
			t.Errorf("ParseRemotePreference(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := model.ParseRemotePreference("remote"); err == nil {
		t.Error("ParseRemotePreference(\"remote\") expected error, got nil")
	}
}

func TestParseRemoteType_RejectsAny(t *testing.T) {
	// ANY is a candidate preference, never a job arrangement.
	if _, err := model.ParseRemoteType("ANY"); err == nil {
		t.Error("ParseRemoteType(\"ANY\") expected error, got nil")
	}
}

// ── Feedback enums ─────────────────────────────────────────────────────────

func TestOutcomeIsPositive(t *testing.T) {
	cases := map[model.Outcome]bool{
		model.OutcomeAccepted:  false,
		model.OutcomeInterview: true,
		model.OutcomeOffer:     true,
		model.OutcomeRejected:  false,
		model.OutcomeGhosted:   false,
		model.OutcomeWithdrawn: false,
	}
	for o, want := range cases {
		if got := o.IsPositive(); got != want {
			t.Errorf("%s.IsPositive() = %v, want %v", o, got, want)
		}
	}
}

func TestParseFactor_EmptyMeansNone(t *testing.T) {
	f, err := model.ParseFactor("")
	if err != nil {
		t.Fatalf("ParseFactor(\"\") unexpected error: %v", err)
	}
	if f != "" {
		t.Errorf("ParseFactor(\"\") = %q, want empty", f)
	}
	if _, err := model.ParseFactor("CULTURE"); err == nil {
		t.Error("ParseFactor(\"CULTURE\") expected error, got nil")
	}
}

func TestParseFeedback(t *testing.T) {
	cases := []struct {
		name     string
		outcome  string
		accuracy int
		factor   string
		wantErr  bool
	}{
		{"valid with factor", "OFFER", 3, "SKILLS", false},
		{"valid without factor", "GHOSTED", 1, "", false},
		{"accuracy too low", "OFFER", 0, "", true},
		{"accuracy too high", "OFFER", 6, "", true},
		{"unknown outcome", "HIRED", 3, "", true},
		{"unknown factor", "REJECTED", 3, "PERKS", true},
	}
	for _, c := range cases {
		_, err := model.ParseFeedback(c.outcome, c.accuracy, c.factor)
		if (err != nil) != c.wantErr {
			t.Errorf("%s: ParseFeedback error = %v, wantErr %v", c.name, err, c.wantErr)
		}
	}
}

func TestJobValidate_RequiresTitle(t *testing.T) {
	j := model.Job{RemoteType: model.RemoteTypeRemote}
	if err := j.Validate(); err == nil {
		t.Error("Validate() on job without title expected error, got nil")
	}
	j.Title = "Backend Engineer"
	if err := j.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}
