package geom

import "math"

// Wrap normalizes an angle to (-π, π].
func Wrap(angle float64) float64 {
	if !isFinite(angle) {
		return 0
	}
	a := math.Mod(angle, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// AngleDiff returns the shortest signed rotation from heading `from` to
// heading `to`, in (-π, π]. Positive is counter-clockwise.
func AngleDiff(from, to float64) float64 {
	return Wrap(to - from)
}

// Degrees converts radians to degrees for logging/display.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
