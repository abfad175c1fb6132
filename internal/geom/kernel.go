package geom

import "math"

const (
	// HitPadding is added to half the extent when computing a hit disc.
	HitPadding = 10.0
	// MinHitTolerance keeps tiny shapes selectable.
	MinHitTolerance = 20.0
)

// Centroid returns the midpoint of the start/end diagonal.
func Centroid(start, end Point) Point {
	return Point{X: (start.X + end.X) / 2, Y: (start.Y + end.Y) / 2}
}

// Extent returns the length of the start/end diagonal. Kinds derive their
// radius or side length from it.
func Extent(start, end Point) float64 {
	return Distance(start, end)
}

// HitTolerance returns the radius of the selection disc for a shape of the
// given extent.
func HitTolerance(extent float64) float64 {
	return max(extent/2+HitPadding, MinHitTolerance)
}

// IsHit reports whether p falls inside the hit disc of the shape spanned by
// start and end. Rotation does not affect the disc.
func IsHit(start, end, p Point) bool {
	return Distance(p, Centroid(start, end)) < HitTolerance(Extent(start, end))
}

// RotatePoint rotates p about center by degrees (clockwise on a y-down canvas).
func RotatePoint(p, center Point, degrees float64) Point {
	return RotateAbout(center, degrees).TransformPoint(p)
}

// NormalizeDegrees maps any angle into [0, 360).
func NormalizeDegrees(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	n := math.Mod(math.Mod(d, 360)+360, 360)
	if n >= 360 {
		n = 0
	}
	return n
}

// AngleDegrees returns atan2(to - from) in degrees, in (-180, 180].
func AngleDegrees(from, to Point) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X) * 180 / math.Pi
}
