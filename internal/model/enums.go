// Package model defines the plain data structures exchanged between the
// match-service stores, transports and the scoring core.
//
// Enum values mirror the PostgreSQL enums used across the jobmate backend.
// Every Parse* function is case-sensitive and rejects padded input: callers
// validate at the boundary, the scoring core assumes valid values.
package model

import "fmt"

// ─── Seniority ───────────────────────────────────────────────────────────────

// Seniority is a position on the fixed career ladder
//
//	INTERN < JUNIOR < MID < SENIOR < LEAD < MANAGER < DIRECTOR < VP < C_LEVEL
type Seniority string

const (
	SeniorityIntern   Seniority = "INTERN"
	SeniorityJunior   Seniority = "JUNIOR"
	SeniorityMid      Seniority = "MID"
	SenioritySenior   Seniority = "SENIOR"
	SeniorityLead     Seniority = "LEAD"
	SeniorityManager  Seniority = "MANAGER"
	SeniorityDirector Seniority = "DIRECTOR"
	SeniorityVP       Seniority = "VP"
	SeniorityCLevel   Seniority = "C_LEVEL"
)

// Seniorities lists every level in ladder order.
var Seniorities = []Seniority{
	SeniorityIntern, SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead,
	SeniorityManager, SeniorityDirector, SeniorityVP, SeniorityCLevel,
}

// Ordinal returns the rung of s on the ladder (INTERN=0 … C_LEVEL=8).
// Unknown values return -1.
func (s Seniority) Ordinal() int {
	switch s {
	case SeniorityIntern:
		return 0
	case SeniorityJunior:
		return 1
	case SeniorityMid:
		return 2
	case SenioritySenior:
		return 3
	case SeniorityLead:
		return 4
	case SeniorityManager:
		return 5
	case SeniorityDirector:
		return 6
	case SeniorityVP:
		return 7
	case SeniorityCLevel:
		return 8
	}
	return -1
}

// ParseSeniority converts a raw string to a Seniority.
func ParseSeniority(s string) (Seniority, error) {
	v := Seniority(s)
	if v.Ordinal() < 0 {
		return "", fmt.Errorf("unknown seniority %q", s)
	}
	return v, nil
}

// ─── Remote arrangement ──────────────────────────────────────────────────────

// RemotePreference is the arrangement a candidate is looking for.
type RemotePreference string

const (
	PreferRemote RemotePreference = "REMOTE"
	PreferOnsite RemotePreference = "ONSITE"
	PreferHybrid RemotePreference = "HYBRID"
	PreferAny    RemotePreference = "ANY"
)

// ParseRemotePreference converts a raw string to a RemotePreference.
func ParseRemotePreference(s string) (RemotePreference, error) {
	v := RemotePreference(s)
	switch v {
	case PreferRemote, PreferOnsite, PreferHybrid, PreferAny:
		return v, nil
	}
	return "", fmt.Errorf("unknown remote preference %q", s)
}

// RemoteType is the arrangement a job posting offers.
type RemoteType string

const (
	RemoteTypeRemote RemoteType = "REMOTE"
	RemoteTypeOnsite RemoteType = "ONSITE"
	RemoteTypeHybrid RemoteType = "HYBRID"
)

// ParseRemoteType converts a raw string to a RemoteType.
func ParseRemoteType(s string) (RemoteType, error) {
	v := RemoteType(s)
	switch v {
	case RemoteTypeRemote, RemoteTypeOnsite, RemoteTypeHybrid:
		return v, nil
	}
	return "", fmt.Errorf("unknown remote type %q", s)
}

// ─── Skills ──────────────────────────────────────────────────────────────────

// SkillLevel is the self-assessed proficiency attached to a profile skill.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
	SkillExpert       SkillLevel = "EXPERT"
)

// ParseSkillLevel converts a raw string to a SkillLevel.
func ParseSkillLevel(s string) (SkillLevel, error) {
	v := SkillLevel(s)
	switch v {
	case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert:
		return v, nil
	}
	return "", fmt.Errorf("unknown skill level %q", s)
}

// ─── Feedback ────────────────────────────────────────────────────────────────

// Outcome is what actually happened with an application the user scored.
type Outcome string

const (
	OutcomeAccepted  Outcome = "ACCEPTED"
	OutcomeInterview Outcome = "INTERVIEW"
	OutcomeOffer     Outcome = "OFFER"
	OutcomeRejected  Outcome = "REJECTED"
	OutcomeGhosted   Outcome = "GHOSTED"
	OutcomeWithdrawn Outcome = "WITHDRAWN"
)

// ParseOutcome converts a raw string to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	v := Outcome(s)
	switch v {
	case OutcomeAccepted, OutcomeInterview, OutcomeOffer,
		OutcomeRejected, OutcomeGhosted, OutcomeWithdrawn:
		return v, nil
	}
	return "", fmt.Errorf("unknown outcome %q", s)
}

// IsPositive reports whether the outcome counts as a success signal for
// calibration. Only INTERVIEW and OFFER do; GHOSTED and WITHDRAWN weigh the
// same as REJECTED.
func (o Outcome) IsPositive() bool {
	switch o {
	case OutcomeInterview, OutcomeOffer:
		return true
	case OutcomeAccepted, OutcomeRejected, OutcomeGhosted, OutcomeWithdrawn:
		return false
	}
	return false
}

// Factor is the aspect the user blames (or credits) for a score being off.
type Factor string

const (
	FactorSkills     Factor = "SKILLS"
	FactorLocation   Factor = "LOCATION"
	FactorSalary     Factor = "SALARY"
	FactorSeniority  Factor = "SENIORITY"
	FactorCompanyFit Factor = "COMPANY_FIT"
)

// ParseFactor converts a raw string to a Factor. The empty string is valid
// and means "no primary factor".
func ParseFactor(s string) (Factor, error) {
	v := Factor(s)
	switch v {
	case "", FactorSkills, FactorLocation, FactorSalary, FactorSeniority, FactorCompanyFit:
		return v, nil
	}
	return "", fmt.Errorf("unknown factor %q", s)
}
