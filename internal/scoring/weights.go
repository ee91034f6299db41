package scoring

import "math"

// Bounds every weight is kept within.
const (
	MinWeight = 0.3
	MaxWeight = 2.5
	MinBias   = -15.0
	MaxBias   = 15.0
)

// Weights are the per-user knobs applied on top of the fixed component
// shares. They are owned by the caller and mutated only by calibration.
type Weights struct {
	Skills           float64 `json:"skills"`
	Location         float64 `json:"location"`
	SeniorityPenalty float64 `json:"seniorityPenalty"`
	MustHaveGap      float64 `json:"mustHaveGap"`
	NiceHaveGap      float64 `json:"niceHaveGap"`
	Salary           float64 `json:"salary"`
	Bias             float64 `json:"bias"`
}

// DefaultWeights returns the vector every user starts with.
func DefaultWeights() Weights {
	return Weights{
		Skills:           1.0,
		Location:         1.0,
		SeniorityPenalty: 1.0,
		MustHaveGap:      1.0,
		NiceHaveGap:      0.5,
		Salary:           0.5,
		Bias:             0.0,
	}
}

// Clamped returns a copy of w with every weight pulled into its bounds.
// NaN values are replaced by the default for that knob.
func (w Weights) Clamped() Weights {
	d := DefaultWeights()
	return Weights{
		Skills:           clampOr(w.Skills, MinWeight, MaxWeight, d.Skills),
		Location:         clampOr(w.Location, MinWeight, MaxWeight, d.Location),
		SeniorityPenalty: clampOr(w.SeniorityPenalty, MinWeight, MaxWeight, d.SeniorityPenalty),
		MustHaveGap:      clampOr(w.MustHaveGap, MinWeight, MaxWeight, d.MustHaveGap),
		NiceHaveGap:      clampOr(w.NiceHaveGap, MinWeight, MaxWeight, d.NiceHaveGap),
		Salary:           clampOr(w.Salary, MinWeight, MaxWeight, d.Salary),
		Bias:             clampOr(w.Bias, MinBias, MaxBias, d.Bias),
	}
}

// Option carries weights that may be absent. The zero value is None.
type Option struct {
	w  Weights
	ok bool
}

// Some wraps a concrete weight vector.
func Some(w Weights) Option { return Option{w: w, ok: true} }

// None means "use DefaultWeights".
func None() Option { return Option{} }

// Get returns the wrapped weights and whether any were set.
func (o Option) Get() (Weights, bool) { return o.w, o.ok }

// OrDefault returns the wrapped weights, or the defaults when absent.
func (o Option) OrDefault() Weights {
	if o.ok {
		return o.w
	}
	return DefaultWeights()
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampOr(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return Clamp(v, lo, hi)
}
