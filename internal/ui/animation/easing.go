package animation

import "math"

// easeInOut maps linear progress in [0,1] onto a sine ease-in-out curve.
func easeInOut(progress float64) float64 {
	if progress <= 0 {
		return 0
	}
	if progress >= 1 {
		return 1
	}
	return (1 - math.Cos(math.Pi*progress)) / 2
}

func lerp(from, to, progress float64) float64 {
	if progress >= 1 {
		return to
	}
	return from + (to-from)*progress
}
