package scoring

import (
	"time"

	"jobmate/match-service/internal/model"
)

// ExperienceYears sums the length of every experience in whole months and
// converts the total to years. Current or open-ended positions run until now;
// spans that end before they start count as zero.
func ExperienceYears(experiences []model.Experience, now time.Time) float64 {
	total := 0
	for _, e := range experiences {
		end := now
		if !e.Current && e.EndDate != nil {
			end = *e.EndDate
		}
		if m := monthsBetween(e.StartDate, end); m > 0 {
			total += m
		}
	}
	return float64(total) / 12
}

func monthsBetween(start, end time.Time) int {
	m := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		m--
	}
	return m
}

// SeniorityFromYears estimates a level from years of experience.
func SeniorityFromYears(years float64) model.Seniority {
	switch {
	case years < 1:
		return model.SeniorityIntern
	case years < 2:
		return model.SeniorityJunior
	case years < 4:
		return model.SeniorityMid
	case years < 7:
		return model.SenioritySenior
	case years < 10:
		return model.SeniorityLead
	default:
		return model.SeniorityManager
	}
}
