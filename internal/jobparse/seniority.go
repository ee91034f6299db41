package jobparse

import (
	"regexp"
	"strconv"
	"strings"

	"jobmate/match-service/internal/model"
	"jobmate/match-service/internal/scoring"
)

// titleRules are checked top-down so "Senior Engineering Manager" lands on
// MANAGER rather than SENIOR.
var titleRules = []struct {
	re    *regexp.Regexp
	level model.Seniority
}{
	{regexp.MustCompile(`\b(chief|cto|ceo|cfo|coo|cio|ciso|c-level)\b`), model.SeniorityCLevel},
	{regexp.MustCompile(`\b(vp|vice president)\b`), model.SeniorityVP},
	{regexp.MustCompile(`\bdirector\b`), model.SeniorityDirector},
	{regexp.MustCompile(`\b(manager|head of)\b`), model.SeniorityManager},
	{regexp.MustCompile(`\b(lead|staff|principal|architect)\b`), model.SeniorityLead},
	{regexp.MustCompile(`\b(senior|sr)\b`), model.SenioritySenior},
	{regexp.MustCompile(`\b(mid|intermediate|mid-level|confirmed)\b`), model.SeniorityMid},
	{regexp.MustCompile(`\b(junior|jr|entry[- ]level|graduate)\b`), model.SeniorityJunior},
	{regexp.MustCompile(`\b(intern|internship|stagiaire|trainee|apprentice)\b`), model.SeniorityIntern},
}

// A years count only reads as a requirement next to experience wording
// ("3-5 years of professional experience", "5 ans d'expérience") or after
// "at least"/"minimum". For a range the lower bound is kept.
var reYearsRequired = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2})\s*(?:(?:-|–|to)\s*\d{1,2}\s*)?\+?\s*(?:years?|yrs?|ans)\b(?:\s+of)?(?:\s+[\p{L}-]+){0,2}?\s+(?:d['’])?(?:experience|expérience)`),
	regexp.MustCompile(`(?:at least|minimum(?: of)?|min\.?)\s*(\d{1,2})\s*\+?\s*(?:years?|yrs?|ans)\b`),
}

// EstimateSeniority guesses the level a posting targets. The title decides
// when it names a level; otherwise the first years-of-experience requirement
// in the description is mapped through the experience thresholds. The boolean
// is false when neither yields anything.
func EstimateSeniority(title, description string) (model.Seniority, bool) {
	t := strings.ToLower(title)
	for _, r := range titleRules {
		if r.re.MatchString(t) {
			return r.level, true
		}
	}

	desc := strings.ToLower(description)
	for _, re := range reYearsRequired {
		m := re.FindStringSubmatch(desc)
		if m == nil {
			continue
		}
		years, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return scoring.SeniorityFromYears(float64(years)), true
	}
	return "", false
}
