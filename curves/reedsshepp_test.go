package curves

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestReedsSheppIdentity(t *testing.T) {
	rs := &ReedsShepp{Radius: 1.0}
	test.That(t, rs.Distance([]float64{0, 0, 0}, []float64{0, 0, 0}), test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, rs.Distance([]float64{3, -2, 1.5}, []float64{3, -2, 1.5}), test.ShouldAlmostEqual, 0, 1e-9)
}

func TestReedsSheppStraight(t *testing.T) {
	rs := &ReedsShepp{Radius: 1.0}

	// forwards and backwards straights are both a single segment
	test.That(t, rs.Distance([]float64{0, 0, 0}, []float64{5, 0, 0}), test.ShouldAlmostEqual, 5.0, 1e-9)
	test.That(t, rs.Distance([]float64{0, 0, 0}, []float64{-5, 0, 0}), test.ShouldAlmostEqual, 5.0, 1e-9)

	// invariant under rigid transforms of the pair
	a := rs.Distance([]float64{0, 0, 0}, []float64{2, 3, math.Pi / 2})
	b := rs.Distance([]float64{10, -4, math.Pi}, []float64{8, -7, -math.Pi / 2})
	test.That(t, a, test.ShouldAlmostEqual, b, 1e-9)
}

func TestReedsSheppLowerBounds(t *testing.T) {
	rs := &ReedsShepp{Radius: 1.0}
	d := &Dubins{Radius: 1.0, PointSeparation: 0.1}

	goals := [][]float64{
		{5, 0, 0},
		{0, 0, math.Pi},
		{3, 3, math.Pi / 2},
		{-2, 5, 0},
		{-1, -1, -math.Pi / 4},
		{0.5, 0.1, math.Pi / 8},
		{10, -1, -math.Pi / 3},
	}
	origin := []float64{0, 0, 0}
	for _, goal := range goals {
		rsDist := rs.Distance(origin, goal)
		// at least the euclidean distance, at most the forward-only distance
		test.That(t, rsDist, test.ShouldBeGreaterThanOrEqualTo, math.Hypot(goal[0], goal[1])-1e-9)
		test.That(t, rsDist, test.ShouldBeLessThanOrEqualTo, d.Distance(origin, goal)+1e-9)
	}
}

func TestReedsSheppRadiusScaling(t *testing.T) {
	small := &ReedsShepp{Radius: 1.0}
	large := &ReedsShepp{Radius: 4.0}

	// a pure heading change costs more with a larger turning radius
	turnSmall := small.Distance([]float64{0, 0, 0}, []float64{0, 0, math.Pi / 2})
	turnLarge := large.Distance([]float64{0, 0, 0}, []float64{0, 0, math.Pi / 2})
	test.That(t, turnLarge, test.ShouldBeGreaterThan, turnSmall)
}
