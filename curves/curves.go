// Package curves provides curvature-constrained planar state spaces for
// nonholonomic mobile robots. They are used both as the motion model handle of
// a lattice motion table and to precompute admissible distance heuristics.
package curves

// StateSpace computes shortest kinematically feasible path lengths between
// planar states. States are (x, y, heading) triples; heading is in radians.
type StateSpace interface {
	// Distance returns the length of the shortest feasible path from start to
	// end, in the same units as x and y. It never underestimates zero and is a
	// lower bound on any feasible trajectory between the two states.
	Distance(start, end []float64) float64
}
