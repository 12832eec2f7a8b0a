package lattice

import (
	"encoding/json"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// controlSetJSON mirrors the on-disk layout of a lattice control-set file.
type controlSetJSON struct {
	LatticeMetadata metadataJSON    `json:"lattice_metadata"`
	Primitives      []primitiveJSON `json:"primitives"`
}

type metadataJSON struct {
	MotionModel          string    `json:"motion_model"`
	TurningRadius        float64   `json:"turning_radius"`
	GridResolution       float64   `json:"grid_resolution"`
	NumberOfHeadings     uint      `json:"number_of_headings"`
	HeadingAngles        []float64 `json:"heading_angles,omitempty"`
	NumberOfTrajectories uint      `json:"number_of_trajectories"`
}

type primitiveJSON struct {
	TrajectoryID     uint        `json:"trajectory_id"`
	StartAngleIndex  uint        `json:"start_angle_index"`
	EndAngleIndex    uint        `json:"end_angle_index"`
	LeftTurn         *bool       `json:"left_turn,omitempty"`
	TrajectoryLength float64     `json:"trajectory_length"`
	ArcLength        float64     `json:"arc_length"`
	StraightLength   float64     `json:"straight_length"`
	Poses            [][]float64 `json:"poses"`
}

// ReadMetadata reads only the header of a control-set file, enough to size a
// search graph before a full parse.
func ReadMetadata(filename string) (Metadata, error) {
	//nolint:gosec
	f, err := os.Open(filename)
	if err != nil {
		return Metadata{}, errors.Wrap(err, "failed to open lattice file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	var header struct {
		LatticeMetadata metadataJSON `json:"lattice_metadata"`
	}
	if err := json.NewDecoder(f).Decode(&header); err != nil {
		return Metadata{}, errors.Wrap(err, "failed to unmarshal lattice file header")
	}
	meta := header.LatticeMetadata.toMetadata()
	if err := meta.validate(); err != nil {
		return Metadata{}, errors.Wrap(err, "invalid lattice metadata")
	}
	return meta, nil
}

// ParseControlSetFile reads and parses a full control-set file.
func ParseControlSetFile(filename string) (*ControlSet, error) {
	//nolint:gosec
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read lattice file")
	}
	return UnmarshalControlSet(data)
}

// UnmarshalControlSet parses control-set JSON data. Parsing is all-or-nothing:
// any structural error returns nil with no partial set.
func UnmarshalControlSet(data []byte) (*ControlSet, error) {
	var raw controlSetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal lattice file")
	}
	return raw.parse()
}

func (raw *controlSetJSON) parse() (*ControlSet, error) {
	meta := raw.LatticeMetadata.toMetadata()
	if err := meta.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid lattice metadata")
	}
	if len(raw.Primitives) == 0 {
		return nil, errors.New("lattice file contains no primitives")
	}

	// primitive order is the file's; projection builds depend on it
	primitives := make([]Primitive, 0, len(raw.Primitives))
	for _, rp := range raw.Primitives {
		prim, err := rp.parse()
		if err != nil {
			return nil, err
		}
		if err := prim.validate(meta.NumberOfHeadings); err != nil {
			return nil, errors.Wrap(err, "invalid primitive")
		}
		primitives = append(primitives, prim)
	}
	return &ControlSet{Metadata: meta, Primitives: primitives}, nil
}

func (m metadataJSON) toMetadata() Metadata {
	return Metadata{
		MotionModel:          m.MotionModel,
		TurningRadius:        m.TurningRadius,
		GridResolution:       m.GridResolution,
		NumberOfHeadings:     m.NumberOfHeadings,
		HeadingAngles:        m.HeadingAngles,
		NumberOfTrajectories: m.NumberOfTrajectories,
	}
}

func (rp primitiveJSON) parse() (Primitive, error) {
	poses := make([]Pose, 0, len(rp.Poses))
	for i, triple := range rp.Poses {
		if len(triple) != 3 {
			return Primitive{}, errors.Errorf(
				"primitive %d: pose %d has %d values, want 3", rp.TrajectoryID, i, len(triple))
		}
		poses = append(poses, Pose{
			Point: r3.Vector{X: triple[0], Y: triple[1]},
			Theta: triple[2],
		})
	}
	return Primitive{
		ID:               rp.TrajectoryID,
		StartAngleIndex:  rp.StartAngleIndex,
		EndAngleIndex:    rp.EndAngleIndex,
		Turn:             rp.turnDirection(),
		TrajectoryLength: rp.TrajectoryLength,
		ArcLength:        rp.ArcLength,
		StraightLength:   rp.StraightLength,
		Poses:            poses,
	}, nil
}

func (rp primitiveJSON) turnDirection() TurnDirection {
	if rp.LeftTurn != nil {
		if rp.ArcLength == 0 && rp.StartAngleIndex == rp.EndAngleIndex {
			return TurnNone
		}
		if *rp.LeftTurn {
			return TurnLeft
		}
		return TurnRight
	}
	if rp.StartAngleIndex == rp.EndAngleIndex {
		return TurnNone
	}
	// classify by the final heading relative to the start heading
	if len(rp.Poses) > 0 {
		last := rp.Poses[len(rp.Poses)-1]
		if len(last) == 3 && last[2] < 0 {
			return TurnRight
		}
	}
	return TurnLeft
}
