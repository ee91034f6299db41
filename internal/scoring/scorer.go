// Package scoring computes the deterministic match score between a candidate
// profile and a job posting.
//
// The score is a weighted average of six component sub-scores (skills,
// must-have, nice-to-have, location, seniority, salary), each in [0, 100],
// shifted by the user's learned bias and clamped back into [0, 100]. Nothing
// in this package performs I/O; the only ambient input is the clock used to
// close ongoing experiences, which is injectable through Scorer.
package scoring

import (
	"math"
	"time"

	"jobmate/match-service/internal/model"
)

// Fixed share of each component before per-user weights are applied.
const (
	shareSkills     = 0.30
	shareMustHave   = 0.25
	shareNiceToHave = 0.10
	shareLocation   = 0.15
	shareSeniority  = 0.10
	shareSalary     = 0.10
)

// SkillsComponent is the skill sub-score plus the lists that explain it.
type SkillsComponent struct {
	Score   int      `json:"score"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// RequirementComponent scores one requirement category (must-have or
// nice-to-have).
type RequirementComponent struct {
	Score   int      `json:"score"`
	Total   int      `json:"total"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// SeniorityComponent carries the levels that were compared.
type SeniorityComponent struct {
	Score     int              `json:"score"`
	Candidate model.Seniority  `json:"candidate"`
	Job       *model.Seniority `json:"job,omitempty"`
	Diff      int              `json:"diff"`
	Estimated bool             `json:"estimated"`
	Years     float64          `json:"years"`
	Reason    string           `json:"reason"`
}

// FitComponent is a sub-score with a single human readable reason.
type FitComponent struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// Breakdown is the immutable record of one scoring event.
type Breakdown struct {
	Skills          SkillsComponent      `json:"skills"`
	MustHave        RequirementComponent `json:"mustHave"`
	NiceToHave      RequirementComponent `json:"niceToHave"`
	Location        FitComponent         `json:"location"`
	Seniority       SeniorityComponent   `json:"seniority"`
	Salary          FitComponent         `json:"salary"`
	RawScore        float64              `json:"rawScore"`
	Bias            float64              `json:"bias"`
	CalibratedScore int                  `json:"calibratedScore"`
}

// Result is what CalculateScore hands back to the caller.
type Result struct {
	Breakdown   Breakdown   `json:"breakdown"`
	Explanation Explanation `json:"explanation"`
}

// Scorer computes match scores. The zero value uses the wall clock.
type Scorer struct {
	now func() time.Time
}

// NewScorer returns a Scorer that reads the time from now. A nil now means
// time.Now.
func NewScorer(now func() time.Time) *Scorer {
	return &Scorer{now: now}
}

// CalculateScore scores profile against job using the wall clock.
func CalculateScore(profile model.Profile, job model.Job, weights Option) Result {
	return (&Scorer{}).Calculate(profile, job, weights)
}

// Calculate scores profile against job. Absent weights mean the defaults.
func (s *Scorer) Calculate(profile model.Profile, job model.Job, weights Option) Result {
	w := weights.OrDefault().Clamped()
	now := time.Now()
	if s.now != nil {
		now = s.now()
	}

	b := Breakdown{Bias: w.Bias}

	candidate := newSkillSet(skillNames(profile.Skills))
	mustHave := newSkillSet(job.MustHave)
	niceToHave := newSkillSet(job.NiceToHave)
	everything := newSkillSet(job.Keywords, job.MustHave, job.NiceToHave)
	required := newSkillSet(job.Keywords, job.MustHave)

	matched := candidate.intersect(everything)
	b.Skills = SkillsComponent{
		Score:   ratioScore(len(matched), everything.len()),
		Matched: matched,
		Missing: required.minus(candidate),
	}
	b.MustHave = requirement(mustHave, candidate)
	b.NiceToHave = requirement(niceToHave, candidate)

	years := ExperienceYears(profile.Experiences, now)
	level, estimated := SeniorityFromYears(years), true
	if profile.TargetSeniority != nil {
		level, estimated = *profile.TargetSeniority, false
	}
	senScore, diff, senReason := SeniorityFit(level, job.Seniority)
	b.Seniority = SeniorityComponent{
		Score:     senScore,
		Candidate: level,
		Job:       job.Seniority,
		Diff:      diff,
		Estimated: estimated,
		Years:     math.Round(years*10) / 10,
		Reason:    senReason,
	}

	locScore, locReason := LocationFit(profile.RemotePreference, profile.Location, job.RemoteType, job.Location)
	b.Location = FitComponent{Score: locScore, Reason: locReason}

	salScore, salReason := SalaryFit(profile.Salary, job.Salary)
	b.Salary = FitComponent{Score: salScore, Reason: salReason}

	b.RawScore = rawScore(b, w)
	b.CalibratedScore = int(Clamp(math.Round(b.RawScore+w.Bias), 0, 100))

	return Result{Breakdown: b, Explanation: Explain(b)}
}

func requirement(req, candidate *skillSet) RequirementComponent {
	matched := req.intersect(candidate)
	return RequirementComponent{
		Score:   ratioScore(len(matched), req.len()),
		Total:   req.len(),
		Matched: matched,
		Missing: req.minus(candidate),
	}
}

func rawScore(b Breakdown, w Weights) float64 {
	parts := []struct {
		score  int
		weight float64
	}{
		{b.Skills.Score, shareSkills * w.Skills},
		{b.MustHave.Score, shareMustHave * w.MustHaveGap},
		{b.NiceToHave.Score, shareNiceToHave * w.NiceHaveGap},
		{b.Location.Score, shareLocation * w.Location},
		{b.Seniority.Score, shareSeniority * w.SeniorityPenalty},
		{b.Salary.Score, shareSalary * w.Salary},
	}
	var sum, total float64
	for _, p := range parts {
		sum += float64(p.score) * p.weight
		total += p.weight
	}
	if total <= 0 {
		return 0
	}
	return math.Round(sum/total*100) / 100
}

func skillNames(skills []model.Skill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, s.Name)
	}
	return out
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
