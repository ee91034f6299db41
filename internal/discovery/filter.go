// Package discovery ingests postings from job boards into job_feed and
// scores every new posting against the owner of the search config.
package discovery

import (
	"strings"

	"jobmate/match-service/internal/model"
)

// ContainsRedFlag reports whether any red-flag term appears, ignoring case,
// in the posting's title, company or description.
func ContainsRedFlag(p model.Posting, redFlags []string) bool {
	if len(redFlags) == 0 {
		return false
	}
	combined := strings.ToLower(p.Title + " " + p.Company + " " + p.Description)
	for _, flag := range redFlags {
		flag = strings.ToLower(strings.TrimSpace(flag))
		if flag == "" {
			continue
		}
		if strings.Contains(combined, flag) {
			return true
		}
	}
	return false
}

// BelowSalaryFloor reports whether the posting advertises a maximum below
// the config's minimum. Postings without salary data are kept.
func BelowSalaryFloor(p model.Posting, salaryMin *int) bool {
	if salaryMin == nil || *salaryMin <= 0 {
		return false
	}
	top := p.SalaryMax
	if top == 0 {
		top = p.SalaryMin
	}
	return top > 0 && top < float64(*salaryMin)
}
