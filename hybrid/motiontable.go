package hybrid

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/openmobility/latticenav/curves"
	"github.com/openmobility/latticenav/lattice"
)

// TrigValues caches the sine and cosine of one heading bin's angle.
type TrigValues struct {
	Sin float64
	Cos float64
}

// MotionPose is one candidate successor: a primitive's endpoint rotated into
// a heading bin's frame, in cell units.
type MotionPose struct {
	X     float64
	Y     float64
	Theta float64 // destination heading bin

	// ArcLength is the primitive's travel distance in cells.
	ArcLength float64
	// Primitive is the source primitive; shared and read-only.
	Primitive *lattice.Primitive
	// Backwards marks a reverse-expansion projection.
	Backwards bool
}

// MotionTable holds the per-heading-bin successor projections and penalty
// weights for one planner instance. Its state is valid for exactly one
// (grid size, control-set file) pair; InitMotionModel rebuilds it whenever
// either changes and is a no-op otherwise.
//
// A table is shared mutable state scoped to a single planner instance. Run
// independent instances for parallelism; never share one across goroutines.
type MotionTable struct {
	logger golog.Logger

	projections [][]MotionPose
	trigValues  []TrigValues
	stateSpace  curves.StateSpace

	sizeX                     uint
	sizeY                     uint
	numAngleQuantization      uint
	numAngleQuantizationFloat float64
	minTurningRadius          float64 // cells
	binSize                   float64 // radians per heading bin

	changePenalty               float64
	nonStraightPenalty          float64
	costPenalty                 float64
	reversePenalty              float64
	obstacleHeuristicCostWeight float64

	currentLatticeFilepath string
}

// NewMotionTable creates an empty motion table. GetProjections returns no
// candidates until InitMotionModel succeeds.
func NewMotionTable(logger golog.Logger) *MotionTable {
	return &MotionTable{logger: logger}
}

// InitMotionModel loads the configured control-set file and builds the
// projections, trig cache, and state-space handle for a grid of the given
// cell dimensions. When the file path and grid size match the loaded state
// it returns immediately. On error no partial state is committed.
func (t *MotionTable) InitMotionModel(sizeX, sizeY uint, info SearchConfig) error {
	if t.currentLatticeFilepath == info.LatticeFilepath && t.sizeX == sizeX && t.sizeY == sizeY {
		return nil
	}
	if err := info.Validate(); err != nil {
		return errors.Wrap(err, "invalid search configuration")
	}
	cs, err := lattice.ParseControlSetFile(info.LatticeFilepath)
	if err != nil {
		return err
	}

	meta := &cs.Metadata
	numBins := meta.NumberOfHeadings
	trig := make([]TrigValues, numBins)
	for b := uint(0); b < numBins; b++ {
		angle := meta.BinAngle(b)
		trig[b] = TrigValues{Sin: math.Sin(angle), Cos: math.Cos(angle)}
	}

	projections, err := buildProjections(cs, trig, info.AllowReverseExpansion)
	if err != nil {
		return err
	}

	radiusCells := meta.TurningRadius / meta.GridResolution
	var space curves.StateSpace
	if info.AllowReverseExpansion {
		space = &curves.ReedsShepp{Radius: radiusCells}
	} else {
		space = &curves.Dubins{Radius: radiusCells, PointSeparation: 1}
	}

	t.projections = projections
	t.trigValues = trig
	t.stateSpace = space
	t.sizeX = sizeX
	t.sizeY = sizeY
	t.numAngleQuantization = numBins
	t.numAngleQuantizationFloat = float64(numBins)
	t.minTurningRadius = radiusCells
	t.binSize = 2 * math.Pi / float64(numBins)
	t.changePenalty = info.ChangePenalty
	t.nonStraightPenalty = info.NonStraightPenalty
	t.costPenalty = info.CostPenalty
	t.reversePenalty = info.ReversePenalty
	t.obstacleHeuristicCostWeight = info.ObstacleHeuristicCostWeight
	t.currentLatticeFilepath = info.LatticeFilepath

	t.logger.Debugf(
		"loaded lattice control set %q: %d primitives, %d heading bins, min turning radius %.2f cells",
		info.LatticeFilepath, len(cs.Primitives), numBins, radiusCells)
	return nil
}

// buildProjections computes, for every heading bin, the ordered successor
// endpoints reachable via the control set from that bin's orientation.
// Primitives declared for a bin are used directly; bins the file does not
// cover are populated by rotating the bin-0 primitives through the trig
// cache. Order follows the file's primitive order, with reverse projections
// appended after the forward ones.
func buildProjections(cs *lattice.ControlSet, trig []TrigValues, allowReverse bool) ([][]MotionPose, error) {
	meta := &cs.Metadata
	numBins := meta.NumberOfHeadings
	res := meta.GridResolution

	byStartBin := make([][]*lattice.Primitive, numBins)
	for i := range cs.Primitives {
		prim := &cs.Primitives[i]
		byStartBin[prim.StartAngleIndex] = append(byStartBin[prim.StartAngleIndex], prim)
	}

	// base primitives normalized into the bin-0 frame for rotation into
	// uncovered bins
	angle0 := meta.BinAngle(0)
	sin0, cos0 := math.Sin(-angle0), math.Cos(-angle0)
	type basePose struct {
		x, y      float64 // endpoint, cells, bin-0 frame
		deltaBins uint    // heading-bin advance, mod numBins
		prim      *lattice.Primitive
	}
	base := make([]basePose, 0, len(byStartBin[0]))
	for _, prim := range byStartBin[0] {
		end := prim.End()
		ex, ey := end.Point.X/res, end.Point.Y/res
		base = append(base, basePose{
			x:         ex*cos0 - ey*sin0,
			y:         ex*sin0 + ey*cos0,
			deltaBins: (prim.EndAngleIndex + numBins - prim.StartAngleIndex) % numBins,
			prim:      prim,
		})
	}

	projections := make([][]MotionPose, numBins)
	for b := uint(0); b < numBins; b++ {
		var poses []MotionPose
		if prims := byStartBin[b]; len(prims) > 0 {
			poses = make([]MotionPose, 0, len(prims))
			for _, prim := range prims {
				end := prim.End()
				poses = append(poses, MotionPose{
					X:         end.Point.X / res,
					Y:         end.Point.Y / res,
					Theta:     float64(prim.EndAngleIndex),
					ArcLength: prim.TrajectoryLength / res,
					Primitive: prim,
				})
			}
		} else {
			if len(base) == 0 {
				return nil, errors.Errorf(
					"control set has no primitives for heading bin %d and none at bin 0 to rotate", b)
			}
			poses = make([]MotionPose, 0, len(base))
			for _, bp := range base {
				poses = append(poses, MotionPose{
					X:         bp.x*trig[b].Cos - bp.y*trig[b].Sin,
					Y:         bp.x*trig[b].Sin + bp.y*trig[b].Cos,
					Theta:     float64((b + bp.deltaBins) % numBins),
					ArcLength: bp.prim.TrajectoryLength / res,
					Primitive: bp.prim,
				})
			}
		}

		if allowReverse {
			forward := len(poses)
			for i := 0; i < forward; i++ {
				fwd := poses[i]
				prim := fwd.Primitive
				// driving the primitive in reverse inverts its transform
				deltaRad := prim.End().Theta
				sinD, cosD := math.Sin(-deltaRad), math.Cos(-deltaRad)
				rx := -(fwd.X*cosD - fwd.Y*sinD)
				ry := -(fwd.X*sinD + fwd.Y*cosD)
				deltaBins := (prim.EndAngleIndex + numBins - prim.StartAngleIndex) % numBins
				endBin := (b + numBins - deltaBins) % numBins
				poses = append(poses, MotionPose{
					X:         rx,
					Y:         ry,
					Theta:     float64(endBin),
					ArcLength: fwd.ArcLength,
					Primitive: prim,
					Backwards: true,
				})
			}
		}
		projections[b] = poses
	}
	return projections, nil
}

// GetProjections returns the successor candidates for the node's current
// heading bin, or nothing if no control set is loaded. The returned slice is
// shared; callers must not mutate it.
func (t *MotionTable) GetProjections(node *NodeLattice) []MotionPose {
	if len(t.projections) == 0 {
		return nil
	}
	return t.projections[uint(node.Pose.Theta)]
}

// NumAngleQuantization returns the number of heading bins.
func (t *MotionTable) NumAngleQuantization() uint {
	return t.numAngleQuantization
}

// MinTurningRadius returns the control set's minimum turning radius in cells.
func (t *MotionTable) MinTurningRadius() float64 {
	return t.minTurningRadius
}

// StateSpace returns the curvature-constrained model matching the loaded
// control set, for use in analytic expansion and heuristic precompute.
func (t *MotionTable) StateSpace() curves.StateSpace {
	return t.stateSpace
}

// GetLatticeMetadata reads only a control-set file's header, for sizing the
// graph before a full InitMotionModel call.
func GetLatticeMetadata(filepath string) (lattice.Metadata, error) {
	return lattice.ReadMetadata(filepath)
}
