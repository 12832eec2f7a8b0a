package hybrid

import (
	"container/heap"
	"math"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/openmobility/latticenav/costmap"
	"github.com/openmobility/latticenav/curves"
)

// Heuristics owns the two cached lower-bound estimates combined for search
// ordering: a costmap-wide obstacle distance field rooted at the goal, and a
// precomputed curvature-constrained distance lookup around the goal state.
// Both are scoped to one planner instance and rebuilt on its schedule: the
// distance lookup once per configuration, the obstacle field once per
// (costmap, goal) pair.
type Heuristics struct {
	logger golog.Logger

	// obstacle distance field
	costmap       *costmap.Costmap
	obstacleTable []float64
	costWeight    float64

	// curvature distance lookup
	distTable      []float64
	distHalf       int
	distDim        int
	distBins       uint
	distBinsStored uint
	binSize        float64
	stateSpace     curves.StateSpace
}

// NewHeuristics creates an empty heuristic cache; both estimates return zero
// until their precompute calls run.
func NewHeuristics(logger golog.Logger) *Heuristics {
	return &Heuristics{logger: logger}
}

// PrecomputeDistanceHeuristic builds, once per planner configuration, the
// lookup of minimal curvature-constrained distances from the origin heading
// to every relative state within a window of lookupDim cells per side.
// Heading symmetry halves the stored bins: a reflection about the travel
// axis reconstructs the rest.
func (h *Heuristics) PrecomputeDistanceHeuristic(
	lookupDim float64,
	model MotionModel,
	angleBinCount uint,
	info SearchConfig,
) error {
	var space curves.StateSpace
	switch model {
	case MotionModelDubins:
		space = &curves.Dubins{Radius: info.MinTurningRadius, PointSeparation: 1}
	case MotionModelReedsShepp:
		space = &curves.ReedsShepp{Radius: info.MinTurningRadius}
	case MotionModelStateLattice:
		if info.AllowReverseExpansion {
			space = &curves.ReedsShepp{Radius: info.MinTurningRadius}
		} else {
			space = &curves.Dubins{Radius: info.MinTurningRadius, PointSeparation: 1}
		}
	default:
		return errors.Errorf("cannot precompute distance heuristic for motion model %q", model)
	}

	half := int(lookupDim) / 2
	dim := 2*half + 1
	binsStored := angleBinCount/2 + 1
	binSize := 2 * math.Pi / float64(angleBinCount)

	table := make([]float64, 0, dim*dim*int(binsStored))
	origin := []float64{0, 0, 0}
	for y := -half; y <= half; y++ {
		for x := -half; x <= half; x++ {
			for b := uint(0); b < binsStored; b++ {
				goal := []float64{float64(x), float64(y), float64(b) * binSize}
				table = append(table, space.Distance(origin, goal))
			}
		}
	}

	h.distTable = table
	h.distHalf = half
	h.distDim = dim
	h.distBins = angleBinCount
	h.distBinsStored = binsStored
	h.binSize = binSize
	h.stateSpace = space
	h.costWeight = info.ObstacleHeuristicCostWeight

	h.logger.Debugf(
		"precomputed %s distance heuristic: %dx%d window, %d of %d heading bins stored",
		model, dim, dim, binsStored, angleBinCount)
	return nil
}

// GetDistanceHeuristic returns the curvature-constrained lower bound from a
// node state to the goal state. In-window displacements are a cached lookup;
// out-of-window displacements fall back to the greater of the straight-line
// distance and the obstacle heuristic value.
func (h *Heuristics) GetDistanceHeuristic(nodeCoords, goalCoords Coordinates, obstacleHeuristic float64) float64 {
	dx := goalCoords.X - nodeCoords.X
	dy := goalCoords.Y - nodeCoords.Y
	if len(h.distTable) == 0 {
		return math.Max(math.Hypot(dx, dy), obstacleHeuristic)
	}

	// express the goal in the node's frame so the origin-rooted table applies
	nodeAngle := nodeCoords.Theta * h.binSize
	cos, sin := math.Cos(nodeAngle), math.Sin(nodeAngle)
	rx := cos*dx + sin*dy
	ry := -sin*dx + cos*dy
	ix := int(math.Round(rx))
	iy := int(math.Round(ry))
	if ix < -h.distHalf || ix > h.distHalf || iy < -h.distHalf || iy > h.distHalf {
		return math.Max(math.Hypot(dx, dy), obstacleHeuristic)
	}

	bins := int(h.distBins)
	relBin := (int(goalCoords.Theta) - int(nodeCoords.Theta) + bins) % bins
	if relBin > bins/2 {
		// mirror about the travel axis onto the stored representative
		relBin = bins - relBin
		iy = -iy
	}
	idx := ((iy+h.distHalf)*h.distDim+(ix+h.distHalf))*int(h.distBinsStored) + relBin
	return math.Max(h.distTable[idx], 0)
}

// ResetObstacleHeuristic recomputes the obstacle distance field for a
// (costmap, goal) pair: one Dijkstra pass outward from the goal over
// traversable cells, weighting each step by the inflated cell cost. Every
// later GetObstacleHeuristic call is a lookup into this field.
func (h *Heuristics) ResetObstacleHeuristic(cm *costmap.Costmap, goalX, goalY uint) {
	sizeX, sizeY := cm.SizeX(), cm.SizeY()
	size := sizeX * sizeY

	dist := make([]float64, size)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	visited := make([]bool, size)

	start := goalY*sizeX + goalX
	dist[start] = 0
	f := &frontier{{index: start, distance: 0}}
	heap.Init(f)

	for f.Len() > 0 {
		item := heap.Pop(f).(*frontierItem)
		if visited[item.index] {
			continue
		}
		visited[item.index] = true

		cx := item.index % sizeX
		cy := item.index / sizeX
		for ndy := -1; ndy <= 1; ndy++ {
			for ndx := -1; ndx <= 1; ndx++ {
				if ndx == 0 && ndy == 0 {
					continue
				}
				nx := int(cx) + ndx
				ny := int(cy) + ndy
				if nx < 0 || ny < 0 || nx >= int(sizeX) || ny >= int(sizeY) {
					continue
				}
				nIdx := uint(ny)*sizeX + uint(nx)
				if visited[nIdx] {
					continue
				}
				cellCost, ok := traversalWeight(cm.GetCost(uint(nx), uint(ny)))
				if !ok {
					continue
				}
				step := 1.0
				if ndx != 0 && ndy != 0 {
					step = math.Sqrt2
				}
				candidate := dist[item.index] + step*(1+h.costWeight*cellCost)
				if candidate < dist[nIdx] {
					dist[nIdx] = candidate
					heap.Push(f, &frontierItem{index: nIdx, distance: candidate})
				}
			}
		}
	}

	table := make([]float64, size)
	for i, d := range dist {
		if !math.IsInf(d, 1) {
			table[i] = d
		}
	}
	h.costmap = cm
	h.obstacleTable = table
}

// traversalWeight maps a cell cost to its normalized heuristic weight,
// reporting whether the cell is traversable at all. Unknown cells are kept
// traversable at the maximum weight so the field stays a lower bound when
// the search is allowed to cross them.
func traversalWeight(cost uint8) (float64, bool) {
	if cost == costmap.NoInformation {
		return 1, true
	}
	if cost >= costmap.InscribedInflatedObstacle {
		return 0, false
	}
	return float64(cost) / float64(costmap.MaxNonObstacle), true
}

// GetObstacleHeuristic looks up the cached distance-field lower bound for a
// node. It is zero at the goal and for cells the field never reached.
func (h *Heuristics) GetObstacleHeuristic(cm *costmap.Costmap, nodeCoords, _ Coordinates) float64 {
	if len(h.obstacleTable) == 0 || cm != h.costmap {
		return 0
	}
	return h.obstacleTable[uint(nodeCoords.Y)*cm.SizeX()+uint(nodeCoords.X)]
}

// GetHeuristicCost combines the obstacle and distance heuristics into the
// single non-negative estimate the search loop orders by.
func (h *Heuristics) GetHeuristicCost(nodeCoords, goalCoords Coordinates, cm *costmap.Costmap) float64 {
	obstacle := h.GetObstacleHeuristic(cm, nodeCoords, goalCoords)
	distance := h.GetDistanceHeuristic(nodeCoords, goalCoords, obstacle)
	return math.Max(obstacle, distance)
}

// frontierItem is one queued cell in the obstacle-field expansion.
type frontierItem struct {
	index     uint
	distance  float64
	heapIndex int
}

type frontier []*frontierItem

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].distance < f[j].distance }
func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].heapIndex = i
	f[j].heapIndex = j
}

func (f *frontier) Push(x any) {
	item := x.(*frontierItem)
	item.heapIndex = len(*f)
	*f = append(*f, item)
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}
