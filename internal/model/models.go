package model

import (
	"fmt"
	"time"
)

// Skill is one entry of a candidate's skill list.
type Skill struct {
	Name  string     `json:"name"`
	Level SkillLevel `json:"level,omitempty"`
}

// Experience is one position held by the candidate. EndDate is nil for
// ongoing positions; Current forces "now" as the end regardless of EndDate.
type Experience struct {
	Title     string     `json:"title,omitempty"`
	Company   string     `json:"company,omitempty"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Current   bool       `json:"current,omitempty"`
}

// SalaryRange is a yearly compensation range. Either bound may be unset.
type SalaryRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// IsEmpty reports whether neither bound is set.
func (r *SalaryRange) IsEmpty() bool {
	return r == nil || (r.Min == nil && r.Max == nil)
}

// NewSalaryRange builds a fully bounded range.
func NewSalaryRange(lo, hi float64) *SalaryRange {
	return &SalaryRange{Min: &lo, Max: &hi}
}

// Profile is the candidate side of a match.
type Profile struct {
	UserID           string           `json:"userId,omitempty"`
	Location         string           `json:"location,omitempty"`
	RemotePreference RemotePreference `json:"remotePreference"`
	TargetSeniority  *Seniority       `json:"targetSeniority,omitempty"`
	Salary           *SalaryRange     `json:"salary,omitempty"`
	Skills           []Skill          `json:"skills"`
	Experiences      []Experience     `json:"experiences"`
}

// Validate checks the enum fields of a profile decoded from an untrusted source.
func (p *Profile) Validate() error {
	if _, err := ParseRemotePreference(string(p.RemotePreference)); err != nil {
		return err
	}
	if p.TargetSeniority != nil {
		if _, err := ParseSeniority(string(*p.TargetSeniority)); err != nil {
			return err
		}
	}
	for _, s := range p.Skills {
		if s.Level == "" {
			continue
		}
		if _, err := ParseSkillLevel(string(s.Level)); err != nil {
			return fmt.Errorf("skill %q: %w", s.Name, err)
		}
	}
	return nil
}

// Job is the posting side of a match.
type Job struct {
	ID         string       `json:"id,omitempty"`
	Title      string       `json:"title"`
	Company    string       `json:"company,omitempty"`
	Location   string       `json:"location,omitempty"`
	RemoteType RemoteType   `json:"remoteType"`
	Seniority  *Seniority   `json:"seniority,omitempty"`
	Salary     *SalaryRange `json:"salary,omitempty"`
	MustHave   []string     `json:"mustHave"`
	NiceToHave []string     `json:"niceToHave"`
	Keywords   []string     `json:"keywords"`
}

// Validate checks the required title and enum fields of a decoded job.
func (j *Job) Validate() error {
	if j.Title == "" {
		return fmt.Errorf("job title is required")
	}
	if _, err := ParseRemoteType(string(j.RemoteType)); err != nil {
		return err
	}
	if j.Seniority != nil {
		if _, err := ParseSeniority(string(*j.Seniority)); err != nil {
			return err
		}
	}
	return nil
}

// Feedback is a user's judgment of a score after the application played out.
type Feedback struct {
	Outcome  Outcome `json:"outcome"`
	Accuracy int     `json:"accuracy"`
	Factor   Factor  `json:"factor,omitempty"`
}

// ParseFeedback validates raw feedback fields and returns a Feedback.
func ParseFeedback(outcome string, accuracy int, factor string) (Feedback, error) {
	o, err := ParseOutcome(outcome)
	if err != nil {
		return Feedback{}, err
	}
	if accuracy < 1 || accuracy > 5 {
		return Feedback{}, fmt.Errorf("accuracy must be between 1 and 5")
	}
	f, err := ParseFactor(factor)
	if err != nil {
		return Feedback{}, err
	}
	return Feedback{Outcome: o, Accuracy: accuracy, Factor: f}, nil
}

// Posting is a normalised offer fetched from an external job board. It is
// stored as JSON in job_feed.raw_data and turned into a Job by jobparse.
type Posting struct {
	ExternalID   string  `json:"externalId"`
	Title        string  `json:"title"`
	Company      string  `json:"company"`
	Location     string  `json:"location"`
	Description  string  `json:"description"`
	SalaryMin    float64 `json:"salaryMin,omitempty"`
	SalaryMax    float64 `json:"salaryMax,omitempty"`
	SourceURL    string  `json:"sourceUrl"`
	ContractType string  `json:"contractType,omitempty"`
	PublishedAt  string  `json:"publishedAt,omitempty"`
}

// SearchConfig mirrors the search_configs columns used by discovery.
type SearchConfig struct {
	ID           string
	UserID       string
	JobTitles    []string
	Locations    []string
	RemotePolicy string
	Keywords     []string
	RedFlags     []string
	SalaryMin    *int
	SalaryMax    *int
}

// ApplicationRef is the slice of an applications row the follow-up sweep
// needs. Since is the time of the last status change.
type ApplicationRef struct {
	ID     string
	UserID string
	Status string
	Since  time.Time
}
