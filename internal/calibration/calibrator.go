// Package calibration nudges a user's scoring weights after each feedback
// event. One call is one online learning step; the caller loads the current
// vector, applies UpdateWeights and persists the result.
package calibration

import (
	"jobmate/match-service/internal/model"
	"jobmate/match-service/internal/scoring"
)

// LearningRate is the step applied to a factor weight per feedback event.
const LearningRate = 0.1

// companyFitBiasMultiplier scales the factor step when COMPANY_FIT is blamed,
// since company fit has no dedicated weight and moves the bias instead.
const companyFitBiasMultiplier = 5

// UpdateWeights applies one feedback event to w and returns the new vector.
//
// The bias moves by (5 − accuracy) × LearningRate × 2, upwards for INTERVIEW
// and OFFER and downwards for every other outcome. A primary factor moves its
// weight by ±LearningRate in the same direction. Every weight in the result
// is clamped to its bounds.
func UpdateWeights(w scoring.Weights, fb model.Feedback) scoring.Weights {
	direction := -1.0
	if fb.Outcome.IsPositive() {
		direction = 1.0
	}

	accuracyError := float64(5 - fb.Accuracy)
	w.Bias += direction * accuracyError * LearningRate * 2

	step := direction * LearningRate
	switch fb.Factor {
	case model.FactorSkills:
		w.Skills += step
		w.MustHaveGap += step
	case model.FactorLocation:
		w.Location += step
	case model.FactorSalary:
		w.Salary += step
	case model.FactorSeniority:
		w.SeniorityPenalty += step
	case model.FactorCompanyFit:
		w.Bias += step * companyFitBiasMultiplier
	}

	return w.Clamped()
}

// ResetWeights returns the default vector a user starts with.
func ResetWeights() scoring.Weights {
	return scoring.DefaultWeights()
}
