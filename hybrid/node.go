package hybrid

import (
	"math"

	"github.com/openmobility/latticenav/costmap"
	"github.com/openmobility/latticenav/lattice"
)

// CollisionChecker validates a continuous pose against the costmap, retaining
// the cost of the last cell it inspected.
type CollisionChecker interface {
	IsValid(x, y float64, headingBin uint, traverseUnknown bool) bool
	Cost() float64
}

// NodeGetter resolves a graph index to its node, reporting whether the node
// may be expanded into. It is how GetNeighbors stays agnostic of the caller's
// node arena.
type NodeGetter func(index uint) (*NodeLattice, bool)

// NodeLattice is one search graph vertex: a discretized (x, y, heading-bin)
// state carrying a continuous pose, its path cost, and expansion bookkeeping.
// Nodes are pooled by the caller and recycled with Reset.
type NodeLattice struct {
	// Parent is the predecessor on the best known path.
	Parent *NodeLattice
	// Pose is the continuous state; X and Y in cells, Theta a heading bin.
	Pose Coordinates

	table *MotionTable
	index uint

	cellCost        float64
	accumulatedCost float64

	wasVisited bool
	isQueued   bool

	motionPrimitiveIndex uint
	backwards            bool
}

// NewNodeLattice creates a node for the given graph index. Costs start unset;
// the search assigns them on first touch.
func NewNodeLattice(index uint, table *MotionTable) *NodeLattice {
	return &NodeLattice{
		index:           index,
		table:           table,
		cellCost:        math.NaN(),
		accumulatedCost: math.NaN(),
	}
}

// Reset returns the node to its freshly constructed state so its pool slot
// can be reused for a new query. The index and table binding survive.
func (n *NodeLattice) Reset() {
	n.Parent = nil
	n.Pose = Coordinates{}
	n.cellCost = math.NaN()
	n.accumulatedCost = math.NaN()
	n.wasVisited = false
	n.isQueued = false
	n.motionPrimitiveIndex = 0
	n.backwards = false
}

// Index returns the node's flattened graph index.
func (n *NodeLattice) Index() uint {
	return n.index
}

// SetPose stores the continuous pose this node was reached at.
func (n *NodeLattice) SetPose(pose Coordinates) {
	n.Pose = pose
}

// AccumulatedCost returns the cost of the best known path to this node. It is
// meaningful only after the search has set it; WasVisited gates validity.
func (n *NodeLattice) AccumulatedCost() float64 {
	return n.accumulatedCost
}

// SetAccumulatedCost records the cost of the best known path to this node.
func (n *NodeLattice) SetAccumulatedCost(cost float64) {
	n.accumulatedCost = cost
}

// Cost returns the costmap cost cached by the last IsNodeValid call.
func (n *NodeLattice) Cost() float64 {
	return n.cellCost
}

// WasVisited reports whether the node has been expanded.
func (n *NodeLattice) WasVisited() bool {
	return n.wasVisited
}

// Visited marks the node expanded and removes its queued mark.
func (n *NodeLattice) Visited() {
	n.wasVisited = true
	n.isQueued = false
}

// IsQueued reports whether the node is on the search frontier.
func (n *NodeLattice) IsQueued() bool {
	return n.isQueued
}

// Queued marks the node as on the search frontier.
func (n *NodeLattice) Queued() {
	n.isQueued = true
}

// MotionPrimitiveIndex returns the projection index this node was reached by.
func (n *NodeLattice) MotionPrimitiveIndex() uint {
	return n.motionPrimitiveIndex
}

// SetMotionPrimitiveIndex records the projection this node was reached by and
// whether it was driven in reverse.
func (n *NodeLattice) SetMotionPrimitiveIndex(idx uint, backwards bool) {
	n.motionPrimitiveIndex = idx
	n.backwards = backwards
}

// IsBackwards reports whether the node was reached driving in reverse.
func (n *NodeLattice) IsBackwards() bool {
	return n.backwards
}

// IsNodeValid runs the collision checker at the node's pose and caches the
// resulting cell cost for traversal costing.
func (n *NodeLattice) IsNodeValid(traverseUnknown bool, checker CollisionChecker) bool {
	valid := checker.IsValid(n.Pose.X, n.Pose.Y, uint(n.Pose.Theta), traverseUnknown)
	n.cellCost = checker.Cost()
	return valid
}

// GetTraversalCost prices the edge from this node to a freshly projected
// child. The base is the primitive's travel distance scaled by the cost
// penalty and the child's normalized cell cost; turning, switching
// primitives, and reversing travel direction each add a surcharge
// proportional to the base.
func (n *NodeLattice) GetTraversalCost(child *NodeLattice) float64 {
	t := n.table
	proj := &t.projections[uint(n.Pose.Theta)][child.motionPrimitiveIndex]

	normalizedCost := child.cellCost / float64(costmap.MaxNonObstacle)
	if math.IsNaN(normalizedCost) {
		normalizedCost = 0
	}
	base := proj.ArcLength * t.costPenalty * (1 + normalizedCost)

	cost := base
	if proj.Primitive.Turn != lattice.TurnNone {
		cost += base * t.nonStraightPenalty
	}
	// the start node has no inbound primitive to differ from
	if n.Parent != nil && child.motionPrimitiveIndex != n.motionPrimitiveIndex {
		cost += base * t.changePenalty
	}
	if child.backwards != n.backwards {
		cost += base * t.reversePenalty
	}
	return cost
}

// GetNeighbors projects every motion primitive from this node's pose and
// returns the in-bounds, expandable, collision-free successors in projection
// order. Each returned node has its pose set and its inbound primitive
// recorded; costing is the caller's job.
func (n *NodeLattice) GetNeighbors(
	getNode NodeGetter,
	checker CollisionChecker,
	traverseUnknown bool,
) []*NodeLattice {
	t := n.table
	projections := t.GetProjections(n)
	neighbors := make([]*NodeLattice, 0, len(projections))

	for i := range projections {
		proj := &projections[i]
		newX := n.Pose.X + proj.X
		newY := n.Pose.Y + proj.Y
		if newX < 0 || newY < 0 || uint(newX) >= t.sizeX || uint(newY) >= t.sizeY {
			continue
		}

		idx := GetIndex(uint(newX), uint(newY), uint(proj.Theta), t.sizeX, t.numAngleQuantization)
		neighbor, ok := getNode(idx)
		if !ok {
			continue
		}

		// validate at the projected pose, restoring on rejection so a
		// node reachable through several projections keeps its best pose
		initialPose := neighbor.Pose
		neighbor.SetPose(Coordinates{X: newX, Y: newY, Theta: proj.Theta})
		if !neighbor.IsNodeValid(traverseUnknown, checker) {
			neighbor.SetPose(initialPose)
			continue
		}
		neighbor.SetMotionPrimitiveIndex(uint(i), proj.Backwards)
		neighbors = append(neighbors, neighbor)
	}
	return neighbors
}
