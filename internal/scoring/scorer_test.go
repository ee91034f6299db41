package scoring

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/match-service/internal/model"
)

var fixedNow = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func seniority(s model.Seniority) *model.Seniority { return &s }

func TestCalculateScore_TypeScriptScenario(t *testing.T) {
	profile := model.Profile{
		RemotePreference: model.PreferRemote,
		Skills: []model.Skill{
			{Name: "TypeScript", Level: model.SkillExpert},
			{Name: "React", Level: model.SkillExpert},
		},
	}
	job := model.Job{
		Title:      "Frontend Engineer",
		RemoteType: model.RemoteTypeRemote,
		MustHave:   []string{"TypeScript", "React", "Node.js"},
		NiceToHave: []string{},
	}

	res := NewScorer(fixedClock).Calculate(profile, job, None())
	b := res.Breakdown

	assert.Equal(t, 67, b.MustHave.Score)
	assert.Equal(t, []string{"Node.js"}, b.MustHave.Missing)
	assert.Equal(t, 100, b.NiceToHave.Score)
	assert.Equal(t, 100, b.Seniority.Score)
	assert.Equal(t, 100, b.Salary.Score)
	assert.Equal(t, 100, b.Location.Score)
	assert.Equal(t, 67, b.Skills.Score)
	assert.Equal(t, []string{"TypeScript", "React"}, b.Skills.Matched)
	assert.InDelta(t, 79.83, b.RawScore, 0.01)
	assert.Equal(t, 80, b.CalibratedScore)

	assert.Equal(t, "Excellent match (80/100)", res.Explanation.Summary)
	assert.Contains(t, res.Explanation.Gaps, "Missing required skills: Node.js")
	assert.Contains(t, res.Explanation.Recommendations, "Build or highlight experience with Node.js")
}

func TestCalculateScore_Deterministic(t *testing.T) {
	profile := model.Profile{
		Location:         "Paris, France",
		RemotePreference: model.PreferHybrid,
		Salary:           model.NewSalaryRange(50000, 65000),
		Skills:           []model.Skill{{Name: "Go"}, {Name: "PostgreSQL"}, {Name: "Kubernetes"}},
		Experiences: []model.Experience{
			{StartDate: time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC), Current: true},
		},
	}
	job := model.Job{
		Title:      "Senior Backend Engineer",
		Location:   "Lyon, France",
		RemoteType: model.RemoteTypeHybrid,
		Seniority:  seniority(model.SenioritySenior),
		Salary:     model.NewSalaryRange(55000, 70000),
		MustHave:   []string{"Go", "gRPC"},
		NiceToHave: []string{"Kubernetes"},
		Keywords:   []string{"postgresql", "redis"},
	}

	s := NewScorer(fixedClock)
	first := s.Calculate(profile, job, Some(DefaultWeights()))
	second := s.Calculate(profile, job, Some(DefaultWeights()))
	require.Equal(t, first, second)
}

func TestCalculateScore_EmptyInputsStayInBounds(t *testing.T) {
	res := NewScorer(fixedClock).Calculate(model.Profile{}, model.Job{Title: "Anything"}, None())
	b := res.Breakdown

	assert.Equal(t, 100, b.MustHave.Score)
	assert.Equal(t, 100, b.NiceToHave.Score)
	assert.Equal(t, 100, b.Skills.Score)
	assert.Equal(t, 100, b.Salary.Score)
	assert.GreaterOrEqual(t, b.CalibratedScore, 0)
	assert.LessOrEqual(t, b.CalibratedScore, 100)
	assert.Empty(t, b.Skills.Matched)
	assert.NotNil(t, b.Skills.Matched)
}

func TestCalculateScore_MustHaveEmptyIgnoresCandidate(t *testing.T) {
	job := model.Job{Title: "Generalist", RemoteType: model.RemoteTypeOnsite, Keywords: []string{"excel"}}
	for _, skills := range [][]model.Skill{nil, {{Name: "Excel"}}, {{Name: "Rust"}, {Name: "Go"}}} {
		res := CalculateScore(model.Profile{RemotePreference: model.PreferAny, Skills: skills}, job, None())
		assert.Equal(t, 100, res.Breakdown.MustHave.Score)
	}
}

func TestCalculateScore_BiasShiftsAndClamps(t *testing.T) {
	profile := model.Profile{RemotePreference: model.PreferRemote, Skills: []model.Skill{{Name: "Go"}}}
	job := model.Job{Title: "Go Developer", RemoteType: model.RemoteTypeRemote, MustHave: []string{"Go"}}

	base := NewScorer(fixedClock).Calculate(profile, job, None()).Breakdown
	require.Equal(t, 100, base.CalibratedScore)

	w := DefaultWeights()
	w.Bias = 40 // clamped to 15, still cannot push past 100
	boosted := NewScorer(fixedClock).Calculate(profile, job, Some(w)).Breakdown
	assert.Equal(t, 100, boosted.CalibratedScore)
	assert.Equal(t, MaxBias, boosted.Bias)

	w.Bias = -10
	lowered := NewScorer(fixedClock).Calculate(profile, job, Some(w)).Breakdown
	assert.Equal(t, 90, lowered.CalibratedScore)
	assert.Equal(t, base.RawScore, lowered.RawScore)
}

func TestCalculateScore_PropertyBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	skills := []string{"Go", "Rust", "C++", "C#", "Node.js", "react", "SQL", ""}
	prefs := []model.RemotePreference{model.PreferRemote, model.PreferOnsite, model.PreferHybrid, model.PreferAny}
	types := []model.RemoteType{model.RemoteTypeRemote, model.RemoteTypeOnsite, model.RemoteTypeHybrid}
	pick := func() []string {
		var out []string
		for _, s := range skills {
			if rng.Intn(2) == 0 {
				out = append(out, s)
			}
		}
		return out
	}

	for i := 0; i < 500; i++ {
		var cand []model.Skill
		for _, s := range pick() {
			cand = append(cand, model.Skill{Name: s})
		}
		profile := model.Profile{
			RemotePreference: prefs[rng.Intn(len(prefs))],
			TargetSeniority:  seniority(model.Seniorities[rng.Intn(len(model.Seniorities))]),
			Skills:           cand,
		}
		if rng.Intn(2) == 0 {
			profile.Salary = model.NewSalaryRange(float64(rng.Intn(100000)), float64(100000+rng.Intn(100000)))
		}
		job := model.Job{
			Title:      "Role",
			RemoteType: types[rng.Intn(len(types))],
			MustHave:   pick(),
			NiceToHave: pick(),
			Keywords:   pick(),
			Seniority:  seniority(model.Seniorities[rng.Intn(len(model.Seniorities))]),
		}
		w := Weights{
			Skills:           rng.Float64()*10 - 5,
			Location:         rng.Float64()*10 - 5,
			SeniorityPenalty: rng.Float64()*10 - 5,
			MustHaveGap:      rng.Float64()*10 - 5,
			NiceHaveGap:      rng.Float64()*10 - 5,
			Salary:           rng.Float64()*10 - 5,
			Bias:             rng.Float64()*200 - 100,
		}

		b := NewScorer(fixedClock).Calculate(profile, job, Some(w)).Breakdown
		require.GreaterOrEqual(t, b.CalibratedScore, 0)
		require.LessOrEqual(t, b.CalibratedScore, 100)
		for _, sub := range []int{b.Skills.Score, b.MustHave.Score, b.NiceToHave.Score, b.Location.Score, b.Seniority.Score, b.Salary.Score} {
			require.GreaterOrEqual(t, sub, 0)
			require.LessOrEqual(t, sub, 100)
		}
	}
}

func TestCalculateScore_SeniorityEstimatedFromExperience(t *testing.T) {
	profile := model.Profile{
		RemotePreference: model.PreferAny,
		Experiences: []model.Experience{
			{StartDate: time.Date(2018, 6, 15, 0, 0, 0, 0, time.UTC), EndDate: timePtr(time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC))},
			{StartDate: time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), Current: true},
		},
	}
	job := model.Job{Title: "Staff Engineer", RemoteType: model.RemoteTypeOnsite, Seniority: seniority(model.SeniorityLead)}

	b := NewScorer(fixedClock).Calculate(profile, job, None()).Breakdown
	assert.True(t, b.Seniority.Estimated)
	assert.InDelta(t, 6.0, b.Seniority.Years, 0.001)
	assert.Equal(t, model.SenioritySenior, b.Seniority.Candidate)
	assert.Equal(t, -1, b.Seniority.Diff)
	assert.Equal(t, 70, b.Seniority.Score)
}

func TestNormalizeSkill(t *testing.T) {
	cases := map[string]string{
		"  TypeScript ": "typescript",
		"Node.js":       "nodejs",
		"C++":           "c++",
		"C#":            "c#",
		"CI/CD":         "cicd",
		"Go (lang)":     "golang",
		"Élixir":        "élixir",
		"---":           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeSkill(in), "NormalizeSkill(%q)", in)
	}
}

func TestOption(t *testing.T) {
	_, ok := None().Get()
	assert.False(t, ok)
	assert.Equal(t, DefaultWeights(), None().OrDefault())

	w := Weights{Skills: 2}
	got, ok := Some(w).Get()
	assert.True(t, ok)
	assert.Equal(t, w, got)

	var zero Option
	assert.Equal(t, DefaultWeights(), zero.OrDefault())
}

func TestWeightsClamped(t *testing.T) {
	w := Weights{Skills: 0, Location: 9, SeniorityPenalty: 1.2, MustHaveGap: -1, NiceHaveGap: 2.5, Salary: 0.3, Bias: -99}
	c := w.Clamped()
	assert.Equal(t, Weights{Skills: 0.3, Location: 2.5, SeniorityPenalty: 1.2, MustHaveGap: 0.3, NiceHaveGap: 2.5, Salary: 0.3, Bias: -15}, c)
}

func timePtr(t time.Time) *time.Time { return &t }
