package review

import (
	"math"

	"github.com/Wraptron/incubation-backend/src/api/apperr"
)

// Scores carries the five criterion scores of one evaluation. Each must be
// in [0, 10] with at most two decimal digits; invalid scores are rejected
// outright, never clamped or rounded.
type Scores struct {
	Need        float64 `json:"needScore"`
	Innovation  float64 `json:"innovationScore"`
	Market      float64 `json:"marketScore"`
	Team        float64 `json:"teamScore"`
	Scalability float64 `json:"scalabilityScore"`
}

// Comments carries the optional free-text parts of an evaluation.
type Comments struct {
	Need        string `json:"needComment"`
	Innovation  string `json:"innovationComment"`
	Market      string `json:"marketComment"`
	Team        string `json:"teamComment"`
	Scalability string `json:"scalabilityComment"`
	Overall     string `json:"overallComment"`
}

// Total is the exact sum of the five scores. It is recomputed on every
// write and never edited independently.
func (s Scores) Total() float64 {
	return s.Need + s.Innovation + s.Market + s.Team + s.Scalability
}

func (s Scores) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"needScore", s.Need},
		{"innovationScore", s.Innovation},
		{"marketScore", s.Market},
		{"teamScore", s.Team},
		{"scalabilityScore", s.Scalability},
	}
	for _, c := range checks {
		if err := validateScore(c.name, c.value); err != nil {
			return err
		}
	}
	return nil
}

func validateScore(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return apperr.Newf(apperr.InvalidInput, "%s must be a number", name)
	}
	if v < 0 || v > 10 {
		return apperr.Newf(apperr.InvalidInput, "%s must be between 0 and 10", name)
	}
	// At most two decimal digits: scaled by 100 the value must land on an
	// integer (within float tolerance).
	scaled := v * 100
	if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
		return apperr.Newf(apperr.InvalidInput, "%s may have at most 2 decimal places", name)
	}
	return nil
}
