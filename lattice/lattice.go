// Package lattice loads state-lattice control sets: libraries of
// kinematically feasible motion primitives generated offline and described by
// a single JSON file with a metadata header and a primitive body.
package lattice

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// TurnDirection classifies a primitive by the handedness of its heading
// change over forward travel.
type TurnDirection int

// The three primitive classes.
const (
	TurnNone TurnDirection = iota
	TurnLeft
	TurnRight
)

func (d TurnDirection) String() string {
	switch d {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return "straight"
	}
}

// Metadata is the control-set file header. It is sufficient to size a search
// graph before the primitive body is loaded.
type Metadata struct {
	MotionModel          string
	TurningRadius        float64 // world units
	GridResolution       float64 // world units per cell
	NumberOfHeadings     uint
	HeadingAngles        []float64 // radians per heading bin; uniform when empty
	NumberOfTrajectories uint
}

// BinAngle returns the heading angle of a bin, using the file's angles when
// present and a uniform quantization otherwise.
func (m *Metadata) BinAngle(bin uint) float64 {
	if len(m.HeadingAngles) > 0 {
		return m.HeadingAngles[bin]
	}
	return 2 * math.Pi * float64(bin) / float64(m.NumberOfHeadings)
}

// Pose is one sampled state along a primitive, relative to the primitive's
// start, in world units.
type Pose struct {
	Point r3.Vector // X, Y; Z unused
	Theta float64   // heading, radians
}

// Primitive is one feasible relative trajectory from a start heading bin to
// an end heading bin.
type Primitive struct {
	ID               uint
	StartAngleIndex  uint
	EndAngleIndex    uint
	Turn             TurnDirection
	TrajectoryLength float64 // world units along the trajectory
	ArcLength        float64
	StraightLength   float64
	Poses            []Pose
}

// End returns the primitive's endpoint pose.
func (p *Primitive) End() Pose {
	return p.Poses[len(p.Poses)-1]
}

// ControlSet is a fully parsed primitive file.
type ControlSet struct {
	Metadata   Metadata
	Primitives []Primitive
}

func (m *Metadata) validate() error {
	var err error
	if m.NumberOfHeadings == 0 {
		err = multierr.Append(err, errors.New("number_of_headings must be positive"))
	}
	if m.TurningRadius <= 0 {
		err = multierr.Append(err, errors.New("turning_radius must be positive"))
	}
	if m.GridResolution <= 0 {
		err = multierr.Append(err, errors.New("grid_resolution must be positive"))
	}
	if len(m.HeadingAngles) > 0 && uint(len(m.HeadingAngles)) != m.NumberOfHeadings {
		err = multierr.Append(err, errors.Errorf(
			"found %d heading_angles for %d headings", len(m.HeadingAngles), m.NumberOfHeadings))
	}
	return err
}

func (p *Primitive) validate(numHeadings uint) error {
	var err error
	if p.StartAngleIndex >= numHeadings {
		err = multierr.Append(err, errors.Errorf(
			"primitive %d: start_angle_index %d out of range", p.ID, p.StartAngleIndex))
	}
	if p.EndAngleIndex >= numHeadings {
		err = multierr.Append(err, errors.Errorf(
			"primitive %d: end_angle_index %d out of range", p.ID, p.EndAngleIndex))
	}
	if len(p.Poses) < 2 {
		err = multierr.Append(err, errors.Errorf(
			"primitive %d: requires at least 2 poses, found %d", p.ID, len(p.Poses)))
	}
	if p.TrajectoryLength <= 0 {
		err = multierr.Append(err, errors.Errorf(
			"primitive %d: trajectory_length must be positive", p.ID))
	}
	return err
}
