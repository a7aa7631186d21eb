package systems

import "github.com/pthm-cable/invaders/components"

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Intersects reports whether two boxes overlap on both axes. Comparisons are
// strict, so boxes that only share an edge do not intersect.
func Intersects(a, b components.Rect) bool {
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

// Contains reports whether inner lies entirely within outer. Shared edges count
// as inside.
func Contains(outer, inner components.Rect) bool {
	return inner.X >= outer.X &&
		inner.X+inner.W <= outer.X+outer.W &&
		inner.Y >= outer.Y &&
		inner.Y+inner.H <= outer.Y+outer.H
}
