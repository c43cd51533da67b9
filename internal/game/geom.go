package game

import "math"

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Magnitude returns the length of the vector (x, y).
func Magnitude(x, y float64) float64 {
	return math.Sqrt(x*x + y*y)
}

// Normalize scales (x, y) to unit length. The vector must be non-zero; the
// update systems guarantee this by consuming the "already at target" case
// through the arrival threshold before a direction is ever computed.
func Normalize(x, y float64) (float64, float64) {
	m := Magnitude(x, y)
	return x / m, y / m
}
