package hybrid

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// MotionModel selects the kinematic model constraining motion between states.
type MotionModel int

// Supported motion models.
const (
	MotionModelUnknown MotionModel = iota
	MotionModelDubins
	MotionModelReedsShepp
	MotionModelStateLattice
)

func (m MotionModel) String() string {
	switch m {
	case MotionModelDubins:
		return "dubins"
	case MotionModelReedsShepp:
		return "reeds_shepp"
	case MotionModelStateLattice:
		return "state_lattice"
	default:
		return "unknown"
	}
}

// SearchConfig carries everything the motion table and heuristics consume at
// initialization time. It is read once; changing it requires rebuilding the
// table.
type SearchConfig struct {
	// LatticeFilepath locates the control-set file for the state-lattice model.
	LatticeFilepath string
	// MinTurningRadius, in cells, parameterizes the non-lattice motion models
	// and the distance heuristic. For the lattice model it is read from the
	// control-set file instead.
	MinTurningRadius float64
	// AllowReverseExpansion additionally projects each primitive driven in
	// reverse, and switches the state-space handle from Dubins to Reeds-Shepp.
	AllowReverseExpansion bool

	// Penalty weights applied in traversal cost. CostPenalty scales every
	// edge; the others are additive surcharges.
	ChangePenalty               float64
	NonStraightPenalty          float64
	CostPenalty                 float64
	ReversePenalty              float64
	ObstacleHeuristicCostWeight float64
}

// Validate rejects configurations that would break search admissibility
// rather than clamping them silently.
func (c *SearchConfig) Validate() error {
	var err error
	if c.CostPenalty <= 0 {
		err = multierr.Append(err, errors.New("cost penalty must be positive"))
	}
	if c.ChangePenalty < 0 {
		err = multierr.Append(err, errors.New("change penalty may not be negative"))
	}
	if c.NonStraightPenalty < 0 {
		err = multierr.Append(err, errors.New("non-straight penalty may not be negative"))
	}
	if c.ReversePenalty < 0 {
		err = multierr.Append(err, errors.New("reverse penalty may not be negative"))
	}
	if c.ObstacleHeuristicCostWeight < 0 {
		err = multierr.Append(err, errors.New("obstacle heuristic cost weight may not be negative"))
	}
	return err
}
