package gait

import (
	"errors"

	"gait-analysis/internal/utils"
)

// EvenStepsThreshold is the exclusive upper bound on the coefficient of
// variation for steps to be classified as even.
const EvenStepsThreshold = 0.15

var (
	// ErrInsufficientData is returned when fewer than two step lengths were recorded.
	ErrInsufficientData = errors.New("gait: not enough steps detected")
	// ErrDegenerateInput is returned when the mean step length is zero and the
	// coefficient of variation is undefined.
	ErrDegenerateInput = errors.New("gait: step lengths have zero mean")
)

// VariationResult characterizes how consistent the recorded step lengths are.
type VariationResult struct {
	Mean                   float64 `json:"mean"`
	StdDev                 float64 `json:"std_dev"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	EvenSteps              bool    `json:"even_steps"`
}

// CanSummarize reports whether Summarize has enough step lengths to work with.
func CanSummarize(stepLengths []float64) bool {
	return len(stepLengths) >= 2
}

// Summarize computes the mean, population standard deviation and coefficient
// of variation of stepLengths. Callers should check CanSummarize first.
func Summarize(stepLengths []float64) (VariationResult, error) {
	if !CanSummarize(stepLengths) {
		return VariationResult{}, ErrInsufficientData
	}
	mean, stdDev := utils.PopulationStats(stepLengths)
	if mean == 0 {
		return VariationResult{}, ErrDegenerateInput
	}
	cv := stdDev / mean
	return VariationResult{
		Mean:                   mean,
		StdDev:                 stdDev,
		CoefficientOfVariation: cv,
		EvenSteps:              evenSteps(cv),
	}, nil
}

func evenSteps(cv float64) bool {
	return cv < EvenStepsThreshold
}
