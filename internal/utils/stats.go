package utils

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RoundFloat rounds a float64 to a specified number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// PopulationStats returns the mean and population standard deviation
// (divided by N) of data. Both are zero for empty input.
func PopulationStats(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0.0, 0.0
	}
	return stat.PopMeanStdDev(data, nil)
}

// CalculateStats calculates the average and sample standard deviation of a slice of float64 pointers.
// Nil values in the input slice are ignored. Results are rounded to 4 decimal places.
// Returns (average, standardDeviation).
func CalculateStats(data []*float64) (float64, float64) {
	filteredData := []float64{}
	for _, valPtr := range data {
		if valPtr != nil {
			filteredData = append(filteredData, *valPtr)
		}
	}

	n := len(filteredData)
	if n == 0 {
		return 0.0, 0.0
	}
	if n < 2 { // sample standard deviation is not defined for a single value
		return RoundFloat(filteredData[0], 4), 0.0
	}

	average, stdDev := stat.MeanStdDev(filteredData, nil)
	return RoundFloat(average, 4), RoundFloat(stdDev, 4)
}
