package scoring

import (
	"math"
	"strings"

	"jobmate/match-service/internal/model"
)

// SeniorityFit compares the candidate's level with the job's. A job without
// a level never penalizes. diff is candidate minus job on the ordinal scale.
func SeniorityFit(candidate model.Seniority, job *model.Seniority) (score int, diff int, reason string) {
	if job == nil {
		return 100, 0, "Seniority not specified"
	}
	diff = candidate.Ordinal() - job.Ordinal()
	switch {
	case diff == 0:
		return 100, diff, "Seniority level matches"
	case diff == 1:
		return 90, diff, "Slightly overqualified, good"
	case diff == -1:
		return 70, diff, "Slightly junior, growth opportunity"
	case diff > 1:
		return 60, diff, "Significantly overqualified"
	case diff < -1:
		return 40, diff, "Significantly underqualified"
	default:
		return 50, diff, "Seniority unclear"
	}
}

// LocationFit scores how well the job's arrangement and place suit the
// candidate. Rules are evaluated in order; the first that applies wins.
func LocationFit(pref model.RemotePreference, candLoc string, remote model.RemoteType, jobLoc string) (int, string) {
	if remote == model.RemoteTypeRemote && pref == model.PreferRemote {
		return 100, "Remote position matches preference"
	}
	if pref == model.PreferAny {
		return 90, "Open to any work arrangement"
	}
	if remote == model.RemoteTypeRemote && pref == model.PreferOnsite {
		return 60, "Remote position but on-site preferred"
	}

	cand := strings.ToLower(strings.TrimSpace(candLoc))
	job := strings.ToLower(strings.TrimSpace(jobLoc))
	if cand != "" && job != "" {
		if strings.Contains(cand, job) || strings.Contains(job, cand) {
			return 100, "Location matches"
		}
		if segmentsOverlap(cand, job) {
			return 80, "Same region"
		}
	}

	if pref == model.PreferHybrid {
		if remote == model.RemoteTypeHybrid {
			return 90, "Hybrid position matches preference"
		}
		return 70, "Hybrid preferred, arrangement differs"
	}
	return 50, "Location mismatch"
}

func segmentsOverlap(a, b string) bool {
	seen := make(map[string]struct{})
	for _, s := range strings.Split(a, ",") {
		if s = strings.TrimSpace(s); s != "" {
			seen[s] = struct{}{}
		}
	}
	for _, s := range strings.Split(b, ",") {
		if _, ok := seen[strings.TrimSpace(s)]; ok {
			return true
		}
	}
	return false
}

// SalaryFit compares the candidate's expectation with the job's range.
// A missing lower bound reads as 0 and a missing upper bound as unbounded.
func SalaryFit(candidate, job *model.SalaryRange) (int, string) {
	if candidate.IsEmpty() && job.IsEmpty() {
		return 100, "Salary not specified"
	}
	cMin, cMax := bounds(candidate)
	jMin, jMax := bounds(job)

	switch {
	case jMax >= cMin && jMin <= cMax:
		ratio := overlapRatio(cMin, cMax, jMin, jMax)
		switch {
		case ratio >= 0.8:
			return 100, "Salary range aligns well"
		case ratio >= 0.5:
			return 85, "Salary range mostly overlaps"
		default:
			return 70, "Salary range partially overlaps"
		}
	case jMax < cMin:
		gap := (cMin - jMax) / cMin * 100
		switch {
		case gap > 30:
			return 20, "Salary well below expectations"
		case gap > 15:
			return 40, "Salary below expectations"
		default:
			return 60, "Salary slightly below expectations"
		}
	default:
		return 90, "Salary above expectations"
	}
}

func bounds(r *model.SalaryRange) (lo, hi float64) {
	lo, hi = 0, math.Inf(1)
	if r == nil {
		return lo, hi
	}
	if r.Min != nil {
		lo = *r.Min
	}
	if r.Max != nil {
		hi = *r.Max
	}
	return lo, hi
}

// overlapRatio is the overlapping span divided by the union span. Two ranges
// that are both open-ended upwards count as fully aligned; a bounded overlap
// inside an unbounded union counts as none.
func overlapRatio(aMin, aMax, bMin, bMax float64) float64 {
	overlap := math.Min(aMax, bMax) - math.Max(aMin, bMin)
	union := math.Max(aMax, bMax) - math.Min(aMin, bMin)
	switch {
	case math.IsInf(overlap, 1):
		return 1
	case math.IsInf(union, 1):
		return 0
	case union <= 0:
		return 1
	}
	return overlap / union
}
