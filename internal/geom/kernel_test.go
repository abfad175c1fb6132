package geom

import (
	"math"
	"testing"

	"github.com/tdewolff/test"
)

func TestCentroidExtent(t *testing.T) {
	var tts = []struct {
		start, end Point
		centroid   Point
		extent     float64
	}{
		{Pt(0, 0), Pt(40, 0), Pt(20, 0), 40},
		{Pt(10, 10), Pt(10, 10), Pt(10, 10), 0},
		{Pt(-3, -4), Pt(3, 4), Pt(0, 0), 10},
		{Pt(5, 5), Pt(-5, 5), Pt(0, 5), 10},
	}
	for _, tt := range tts {
		c := Centroid(tt.start, tt.end)
		test.Float(t, c.X, tt.centroid.X)
		test.Float(t, c.Y, tt.centroid.Y)
		test.Float(t, Extent(tt.start, tt.end), tt.extent)
	}
}

func TestHitTolerance(t *testing.T) {
	test.Float(t, HitTolerance(0), 20)
	test.Float(t, HitTolerance(20), 20)
	test.Float(t, HitTolerance(40), 30)
	test.Float(t, HitTolerance(100), 60)
}

func TestIsHitCentroid(t *testing.T) {
	pairs := [][2]Point{
		{Pt(0, 0), Pt(0, 0)},
		{Pt(0, 0), Pt(40, 0)},
		{Pt(-100, 3), Pt(250, 17)},
		{Pt(1e6, 1e6), Pt(1e6+1, 1e6-1)},
	}
	for _, p := range pairs {
		test.That(t, IsHit(p[0], p[1], Centroid(p[0], p[1])), "centroid must hit", p)
	}

	test.That(t, IsHit(Pt(0, 0), Pt(40, 0), Pt(20, 29)))
	test.That(t, !IsHit(Pt(0, 0), Pt(40, 0), Pt(20, 30)))
	test.That(t, !IsHit(Pt(0, 0), Pt(40, 0), Pt(1000, 1000)))
}

func TestNormalizeDegrees(t *testing.T) {
	var tts = []struct {
		in, out float64
	}{
		{0, 0},
		{90, 90},
		{360, 0},
		{720, 0},
		{-90, 270},
		{-450, 270},
		{359.5, 359.5},
		{1080.25, 0.25},
		{math.NaN(), 0},
	}
	for _, tt := range tts {
		out := NormalizeDegrees(tt.in)
		test.Float(t, out, tt.out, tt.in)
		test.That(t, out >= 0 && out < 360)
	}
}

func TestRotatePoint(t *testing.T) {
	p := RotatePoint(Pt(10, 0), Pt(0, 0), 90)
	test.That(t, math.Abs(p.X) < 1e-9, p)
	test.That(t, math.Abs(p.Y-10) < 1e-9, p)

	p = RotatePoint(Pt(30, 20), Pt(20, 20), 180)
	test.That(t, math.Abs(p.X-10) < 1e-9, p)
	test.That(t, math.Abs(p.Y-20) < 1e-9, p)

	c := Pt(7, -3)
	test.That(t, near(RotatePoint(c, c, 123), c))
}

func TestAngleDegrees(t *testing.T) {
	test.Float(t, AngleDegrees(Pt(0, 0), Pt(10, 0)), 0)
	test.Float(t, AngleDegrees(Pt(0, 0), Pt(0, 10)), 90)
	test.Float(t, AngleDegrees(Pt(0, 0), Pt(-10, 0)), 180)
	test.Float(t, AngleDegrees(Pt(0, 0), Pt(0, -10)), -90)
}
