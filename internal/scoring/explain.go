package scoring

import (
	"fmt"
	"strings"
)

// Explanation is the human readable side of a Breakdown.
type Explanation struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
}

// Tier names the band a calibrated score falls in.
func Tier(score int) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "moderate"
	default:
		return "low"
	}
}

// Explain derives strengths, gaps and recommendations from a breakdown.
// Output depends on b alone, so equal breakdowns explain identically.
func Explain(b Breakdown) Explanation {
	e := Explanation{
		Summary:         fmt.Sprintf("%s match (%d/100)", capitalize(Tier(b.CalibratedScore)), b.CalibratedScore),
		Strengths:       []string{},
		Gaps:            []string{},
		Recommendations: []string{},
	}

	// Required skills.
	if b.MustHave.Total > 0 && b.MustHave.Score >= 80 {
		e.Strengths = append(e.Strengths, fmt.Sprintf("Strong match on required skills (%d/%d)",
			len(b.MustHave.Matched), b.MustHave.Total))
	}
	if len(b.MustHave.Missing) > 0 {
		e.Gaps = append(e.Gaps, "Missing required skills: "+strings.Join(b.MustHave.Missing, ", "))
		e.Recommendations = append(e.Recommendations,
			fmt.Sprintf("Build or highlight experience with %s", b.MustHave.Missing[0]))
	}

	// Overall and bonus skills.
	switch {
	case b.Skills.Score >= 70:
		e.Strengths = append(e.Strengths, "Good overall skill alignment")
	case b.Skills.Score < 40:
		e.Gaps = append(e.Gaps, "Low overlap with the skills this posting mentions")
	}
	if b.NiceToHave.Total > 0 && len(b.NiceToHave.Matched) > 0 {
		e.Strengths = append(e.Strengths, fmt.Sprintf("Has %d of %d nice-to-have skills",
			len(b.NiceToHave.Matched), b.NiceToHave.Total))
	}

	// Location.
	switch {
	case b.Location.Score >= 90:
		e.Strengths = append(e.Strengths, b.Location.Reason)
	case b.Location.Score <= 60:
		e.Gaps = append(e.Gaps, b.Location.Reason)
		e.Recommendations = append(e.Recommendations, "Confirm the work arrangement and location before applying")
	}

	// Seniority.
	switch {
	case b.Seniority.Job != nil && b.Seniority.Score == 100:
		e.Strengths = append(e.Strengths, b.Seniority.Reason)
	case b.Seniority.Score <= 60:
		e.Gaps = append(e.Gaps, b.Seniority.Reason)
	}
	if b.Seniority.Diff == -1 {
		e.Recommendations = append(e.Recommendations, "Emphasize recent growth and ownership to bridge the level gap")
	}

	// Salary.
	switch {
	case b.Salary.Score >= 85 && b.Salary.Reason != "Salary not specified":
		e.Strengths = append(e.Strengths, b.Salary.Reason)
	case b.Salary.Score <= 40:
		e.Gaps = append(e.Gaps, b.Salary.Reason)
		e.Recommendations = append(e.Recommendations, "Research the compensation band before investing in this application")
	}

	return e
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
