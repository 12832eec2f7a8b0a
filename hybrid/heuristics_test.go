package hybrid

import (
	"math"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/openmobility/latticenav/costmap"
	"github.com/openmobility/latticenav/curves"
)

func TestObstacleHeuristicOpenGrid(t *testing.T) {
	h := NewHeuristics(golog.NewTestLogger(t))
	cm := costmap.New(20, 20, 0.05, 0, 0)
	goal := Coordinates{X: 10, Y: 10}
	h.ResetObstacleHeuristic(cm, 10, 10)

	test.That(t, h.GetObstacleHeuristic(cm, goal, goal), test.ShouldEqual, 0.0)
	test.That(t, h.GetObstacleHeuristic(cm, Coordinates{X: 14, Y: 10}, goal), test.ShouldAlmostEqual, 4.0)
	test.That(t, h.GetObstacleHeuristic(cm, Coordinates{X: 14, Y: 14}, goal), test.ShouldAlmostEqual, 4*math.Sqrt2)

	// monotone in distance on an open grid
	prev := 0.0
	for x := uint(11); x < 20; x++ {
		d := h.GetObstacleHeuristic(cm, Coordinates{X: float64(x), Y: 10}, goal)
		test.That(t, d, test.ShouldBeGreaterThan, prev)
		prev = d
	}
}

func TestObstacleHeuristicDetour(t *testing.T) {
	h := NewHeuristics(golog.NewTestLogger(t))
	cm := costmap.New(20, 20, 0.05, 0, 0)
	// a wall with gaps only at the top and bottom rows
	for y := uint(1); y < 19; y++ {
		cm.SetCost(10, y, costmap.LethalObstacle)
	}
	goal := Coordinates{X: 5, Y: 10}
	h.ResetObstacleHeuristic(cm, 5, 10)

	// the field routes around the wall, so it beats the straight-line bound
	node := Coordinates{X: 15, Y: 10}
	test.That(t, h.GetObstacleHeuristic(cm, node, goal), test.ShouldBeGreaterThan, 10.0)
}

func TestObstacleHeuristicUnreachable(t *testing.T) {
	h := NewHeuristics(golog.NewTestLogger(t))
	cm := costmap.New(20, 20, 0.05, 0, 0)
	for y := uint(0); y < 20; y++ {
		cm.SetCost(10, y, costmap.LethalObstacle)
	}
	h.ResetObstacleHeuristic(cm, 5, 10)

	// cells the expansion never reached report no lower bound
	test.That(t, h.GetObstacleHeuristic(cm, Coordinates{X: 15, Y: 10}, Coordinates{X: 5, Y: 10}), test.ShouldEqual, 0.0)
}

func TestObstacleHeuristicUnreset(t *testing.T) {
	h := NewHeuristics(golog.NewTestLogger(t))
	cm := costmap.New(20, 20, 0.05, 0, 0)
	test.That(t, h.GetObstacleHeuristic(cm, Coordinates{X: 3, Y: 3}, Coordinates{}), test.ShouldEqual, 0.0)

	// a field built for one costmap says nothing about another
	h.ResetObstacleHeuristic(cm, 10, 10)
	other := costmap.New(20, 20, 0.05, 0, 0)
	test.That(t, h.GetObstacleHeuristic(other, Coordinates{X: 3, Y: 3}, Coordinates{}), test.ShouldEqual, 0.0)
}

func TestObstacleHeuristicCostWeighting(t *testing.T) {
	h := NewHeuristics(golog.NewTestLogger(t))
	cfg := SearchConfig{MinTurningRadius: 5, CostPenalty: 1, ObstacleHeuristicCostWeight: 2.0}
	test.That(t, h.PrecomputeDistanceHeuristic(11, MotionModelDubins, 16, cfg), test.ShouldBeNil)

	cm := costmap.New(20, 20, 0.05, 0, 0)
	for y := uint(0); y < 20; y++ {
		for x := uint(11); x < 20; x++ {
			cm.SetCost(x, y, costmap.MaxNonObstacle)
		}
	}
	goal := Coordinates{X: 5, Y: 10}
	h.ResetObstacleHeuristic(cm, 5, 10)

	// stepping into fully inflated cells costs (1 + weight) per cell
	free := h.GetObstacleHeuristic(cm, Coordinates{X: 10, Y: 10}, goal)
	test.That(t, free, test.ShouldAlmostEqual, 5.0)
	inflated := h.GetObstacleHeuristic(cm, Coordinates{X: 15, Y: 10}, goal)
	test.That(t, inflated, test.ShouldAlmostEqual, 5.0+5*(1+2.0))
}

func TestDistanceHeuristicLookup(t *testing.T) {
	h := NewHeuristics(golog.NewTestLogger(t))
	cfg := SearchConfig{MinTurningRadius: 5, CostPenalty: 1}
	test.That(t, h.PrecomputeDistanceHeuristic(21, MotionModelDubins, 16, cfg), test.ShouldBeNil)

	space := &curves.Dubins{Radius: 5, PointSeparation: 1}
	node := Coordinates{X: 25, Y: 25, Theta: 0}

	// in-window values come straight from the state space
	test.That(t, h.GetDistanceHeuristic(node, Coordinates{X: 30, Y: 25, Theta: 0}, 0), test.ShouldAlmostEqual, 5.0)

	goal := Coordinates{X: 30, Y: 32, Theta: 4}
	want := space.Distance([]float64{0, 0, 0}, []float64{5, 7, math.Pi / 2})
	test.That(t, h.GetDistanceHeuristic(node, goal, 0), test.ShouldAlmostEqual, want)

	// the displacement is rotated into the node frame before lookup
	rotNode := Coordinates{X: 25, Y: 25, Theta: 4}
	rotGoal := Coordinates{X: 18, Y: 30, Theta: 8}
	test.That(t, h.GetDistanceHeuristic(rotNode, rotGoal, 0), test.ShouldAlmostEqual, want)
}

func TestDistanceHeuristicMirror(t *testing.T) {
	h := NewHeuristics(golog.NewTestLogger(t))
	cfg := SearchConfig{MinTurningRadius: 5, CostPenalty: 1}
	test.That(t, h.PrecomputeDistanceHeuristic(21, MotionModelDubins, 16, cfg), test.ShouldBeNil)

	// headings above the stored half reflect about the travel axis
	node := Coordinates{X: 25, Y: 25, Theta: 0}
	upLeft := h.GetDistanceHeuristic(node, Coordinates{X: 30, Y: 28, Theta: 3}, 0)
	downRight := h.GetDistanceHeuristic(node, Coordinates{X: 30, Y: 22, Theta: 13}, 0)
	test.That(t, downRight, test.ShouldAlmostEqual, upLeft)
}

func TestDistanceHeuristicOutOfWindow(t *testing.T) {
	h := NewHeuristics(golog.NewTestLogger(t))
	cfg := SearchConfig{MinTurningRadius: 5, CostPenalty: 1}
	test.That(t, h.PrecomputeDistanceHeuristic(21, MotionModelDubins, 16, cfg), test.ShouldBeNil)

	node := Coordinates{X: 25, Y: 25, Theta: 0}
	far := Coordinates{X: 200, Y: 25, Theta: 0}
	test.That(t, h.GetDistanceHeuristic(node, far, 0), test.ShouldAlmostEqual, 175.0)

	// a stronger obstacle bound wins the fallback
	test.That(t, h.GetDistanceHeuristic(node, far, 300), test.ShouldEqual, 300.0)
}

func TestDistanceHeuristicReedsShepp(t *testing.T) {
	h := NewHeuristics(golog.NewTestLogger(t))
	cfg := SearchConfig{MinTurningRadius: 5, CostPenalty: 1, AllowReverseExpansion: true}
	test.That(t, h.PrecomputeDistanceHeuristic(21, MotionModelStateLattice, 16, cfg), test.ShouldBeNil)

	// backing straight up is a short Reeds-Shepp path but a long Dubins one
	node := Coordinates{X: 25, Y: 25, Theta: 0}
	behind := Coordinates{X: 20, Y: 25, Theta: 0}
	test.That(t, h.GetDistanceHeuristic(node, behind, 0), test.ShouldAlmostEqual, 5.0)
}

func TestPrecomputeDistanceHeuristicErrors(t *testing.T) {
	h := NewHeuristics(golog.NewTestLogger(t))
	err := h.PrecomputeDistanceHeuristic(21, MotionModelUnknown, 16, SearchConfig{MinTurningRadius: 5})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGetHeuristicCost(t *testing.T) {
	h := NewHeuristics(golog.NewTestLogger(t))
	cfg := SearchConfig{MinTurningRadius: 5, CostPenalty: 1}
	test.That(t, h.PrecomputeDistanceHeuristic(21, MotionModelDubins, 16, cfg), test.ShouldBeNil)

	cm := costmap.New(40, 40, 0.05, 0, 0)
	goal := Coordinates{X: 30, Y: 20, Theta: 0}
	h.ResetObstacleHeuristic(cm, 30, 20)

	// both estimates agree on a straight free-space run
	test.That(t, h.GetHeuristicCost(Coordinates{X: 20, Y: 20, Theta: 0}, goal, cm), test.ShouldAlmostEqual, 10.0)

	// never negative, and never below either component
	for _, node := range []Coordinates{
		{X: 0, Y: 0, Theta: 9},
		{X: 35, Y: 5, Theta: 2},
		{X: 30, Y: 20, Theta: 0},
	} {
		combined := h.GetHeuristicCost(node, goal, cm)
		obstacle := h.GetObstacleHeuristic(cm, node, goal)
		distance := h.GetDistanceHeuristic(node, goal, obstacle)
		test.That(t, combined, test.ShouldBeGreaterThanOrEqualTo, 0.0)
		test.That(t, combined, test.ShouldBeGreaterThanOrEqualTo, obstacle)
		test.That(t, combined, test.ShouldBeGreaterThanOrEqualTo, distance)
	}
}
