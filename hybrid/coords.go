// Package hybrid implements the graph-node model for state-lattice
// Hybrid-A* search: a motion table of precomputed primitive projections,
// cached obstacle and curvature-distance heuristics, and the per-node
// operations (validity, traversal cost, neighbor generation) an external
// best-first search loop drives.
package hybrid

// Coordinates is a continuous search-space pose: X and Y in cells with
// sub-cell precision, Theta a heading-bin index.
type Coordinates struct {
	X     float64
	Y     float64
	Theta float64
}

// GetIndex flattens discrete cell coordinates into a single graph index.
// Heading is the fastest-varying component so that heuristic caches built
// against this scheme are valid for any node type sharing it.
func GetIndex(x, y, angle, width, angleQuantization uint) uint {
	return (y*width+x)*angleQuantization + angle
}

// GetCoords inverts GetIndex. The index must lie within the configured
// grid and angle extents.
func GetCoords(index, width, angleQuantization uint) Coordinates {
	return Coordinates{
		X:     float64((index / angleQuantization) % width),
		Y:     float64(index / (angleQuantization * width)),
		Theta: float64(index % angleQuantization),
	}
}
