package utils

import "math"

// RoundDecimal rounds a float64 value half away from zero to the specified number of decimal places.
// For example, RoundDecimal(3.14159, 2) returns 3.14 and RoundDecimal(-2.345, 2) returns -2.35.
func RoundDecimal(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(value*pow) / pow
}
