package costmap

import (
	"math"

	"github.com/golang/geo/r3"
)

// GridCollisionChecker validates continuous grid poses against a costmap. A
// nil or empty footprint checks only the center cell; otherwise the footprint
// polygon, given in robot-frame world units, is rotated to the pose heading
// and its perimeter is checked for lethal cells.
//
// It is not safe for concurrent use: the cost of the last checked pose is
// retained for the caller to read back.
type GridCollisionChecker struct {
	costmap   *Costmap
	binAngles []float64
	footprint []r3.Vector
	lastCost  float64
}

// NewGridCollisionChecker creates a checker for poses whose headings are
// quantized into numHeadingBins equal bins.
func NewGridCollisionChecker(cm *Costmap, numHeadingBins uint, footprint []r3.Vector) *GridCollisionChecker {
	angles := make([]float64, numHeadingBins)
	for i := range angles {
		angles[i] = 2 * math.Pi * float64(i) / float64(numHeadingBins)
	}
	return &GridCollisionChecker{
		costmap:   cm,
		binAngles: angles,
		footprint: footprint,
		lastCost:  math.NaN(),
	}
}

// IsValid reports whether the continuous cell pose (x, y) at the given
// heading bin is collision free. When traverseUnknown is false, unknown cells
// are treated as obstacles.
func (g *GridCollisionChecker) IsValid(x, y float64, headingBin uint, traverseUnknown bool) bool {
	if x < 0 || y < 0 {
		return false
	}
	mx, my := uint(x), uint(y)
	if mx >= g.costmap.SizeX() || my >= g.costmap.SizeY() {
		return false
	}
	cost := g.costmap.GetCost(mx, my)
	g.lastCost = float64(cost)

	if cost == NoInformation {
		return traverseUnknown
	}
	if len(g.footprint) == 0 {
		return cost < InscribedInflatedObstacle
	}
	if cost >= LethalObstacle {
		return false
	}
	if cost < InscribedInflatedObstacle {
		// no chance any part of the footprint is in collision
		return true
	}
	return !g.footprintInCollision(x, y, g.binAngles[headingBin], traverseUnknown)
}

// Cost returns the costmap cost at the center cell of the most recently
// checked pose, or NaN before the first check.
func (g *GridCollisionChecker) Cost() float64 {
	return g.lastCost
}

func (g *GridCollisionChecker) footprintInCollision(x, y, angle float64, traverseUnknown bool) bool {
	res := g.costmap.Resolution()
	cos, sin := math.Cos(angle), math.Sin(angle)
	oriented := make([]r3.Vector, len(g.footprint))
	for i, pt := range g.footprint {
		// robot frame -> cells at the queried pose
		oriented[i] = r3.Vector{
			X: x + (pt.X*cos-pt.Y*sin)/res,
			Y: y + (pt.X*sin+pt.Y*cos)/res,
		}
	}
	for i := range oriented {
		a := oriented[i]
		b := oriented[(i+1)%len(oriented)]
		if g.segmentInCollision(a, b, traverseUnknown) {
			return true
		}
	}
	return false
}

func (g *GridCollisionChecker) segmentInCollision(a, b r3.Vector, traverseUnknown bool) bool {
	steps := int(math.Ceil(b.Sub(a).Norm())) + 1
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		px := a.X + (b.X-a.X)*f
		py := a.Y + (b.Y-a.Y)*f
		if px < 0 || py < 0 {
			return true
		}
		mx, my := uint(px), uint(py)
		if mx >= g.costmap.SizeX() || my >= g.costmap.SizeY() {
			return true
		}
		cost := g.costmap.GetCost(mx, my)
		if cost == NoInformation {
			if !traverseUnknown {
				return true
			}
			continue
		}
		if cost >= LethalObstacle {
			return true
		}
	}
	return false
}
