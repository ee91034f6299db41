// Package jobparse turns raw job postings into the structured model.Job the
// scorer consumes: salary, seniority, work arrangement and skill keywords are
// all recovered from free text when the job board does not provide them.
package jobparse

import (
	"regexp"
	"strings"

	"jobmate/match-service/internal/model"
)

var (
	reHybrid = regexp.MustCompile(`\b(hybrid|hybride|partially remote|\d days? (?:in|at) (?:the )?office)\b`)
	reRemote = regexp.MustCompile(`\b(remote|fully remote|work from home|wfh|télétravail|teletravail|anywhere)\b`)

	reRequiredHeading = regexp.MustCompile(`^(requirements|required|must[- ]haves?|what you (?:need|bring)|qualifications|profil recherché)\b`)
	reBonusHeading    = regexp.MustCompile(`^(nice[- ]to[- ]haves?|bonus(?: points)?|preferred|plus|pluses|would be a plus)\b`)
)

// DetectRemoteType infers the work arrangement. Hybrid wording wins over
// remote wording since hybrid postings usually mention both.
func DetectRemoteType(title, location, description string) model.RemoteType {
	text := strings.ToLower(title + " " + location + " " + description)
	switch {
	case reHybrid.MatchString(text):
		return model.RemoteTypeHybrid
	case reRemote.MatchString(text):
		return model.RemoteTypeRemote
	default:
		return model.RemoteTypeOnsite
	}
}

// FromPosting builds a Job from a fetched posting. Skills listed under a
// requirements heading become must-haves, skills under a nice-to-have heading
// become nice-to-haves, and every skill mentioned in the title or the
// description is a keyword.
func FromPosting(p model.Posting) model.Job {
	required, bonus := splitSections(p.Description)

	job := model.Job{
		ID:         p.ExternalID,
		Title:      strings.TrimSpace(p.Title),
		Company:    strings.TrimSpace(p.Company),
		Location:   strings.TrimSpace(p.Location),
		RemoteType: DetectRemoteType(p.Title, p.Location, p.Description),
		MustHave:   ExtractKeywords(required),
		NiceToHave: ExtractKeywords(bonus),
		Keywords:   mergeKeywords(extractKeywords(p.Title, true), ExtractKeywords(p.Description)),
	}

	if level, ok := EstimateSeniority(p.Title, p.Description); ok {
		job.Seniority = &level
	}

	switch {
	case p.SalaryMin > 0 && p.SalaryMax > 0:
		job.Salary = model.NewSalaryRange(p.SalaryMin, p.SalaryMax)
	case p.SalaryMin > 0:
		v := p.SalaryMin
		job.Salary = &model.SalaryRange{Min: &v}
	case p.SalaryMax > 0:
		v := p.SalaryMax
		job.Salary = &model.SalaryRange{Max: &v}
	default:
		job.Salary = ExtractSalary(p.Description)
	}

	return job
}

// splitSections collects the lines under requirement headings and under
// nice-to-have headings. A heading is a line that starts with one of the
// known phrases; any other heading-looking line ending in ':' closes the
// current section.
func splitSections(description string) (required, bonus string) {
	var req, plus strings.Builder
	var current *strings.Builder

	for _, line := range strings.Split(description, "\n") {
		trimmed := strings.ToLower(strings.TrimSpace(strings.TrimLeft(line, "#*-• \t")))
		switch {
		case reBonusHeading.MatchString(trimmed):
			current = &plus
		case reRequiredHeading.MatchString(trimmed):
			current = &req
		case strings.HasSuffix(trimmed, ":") && len(trimmed) < 60:
			current = nil
		}
		if current != nil {
			current.WriteString(line)
			current.WriteByte('\n')
		}
	}
	return req.String(), plus.String()
}
