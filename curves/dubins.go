package curves

import (
	"math"
	"sort"
)

// Dubins models a forward-only car with a bounded turning radius. Paths are
// composed of at most three segments drawn from left arcs, right arcs, and
// straight lines.
type Dubins struct {
	Radius          float64 // minimum turning radius
	PointSeparation float64 // distance between sampled points on generated paths
}

// DubinPathAttr describes one candidate Dubins word between two states.
// DubinsPath holds the start turn, the end turn, and the middle segment, in
// that order. Turn entries are signed arc angles, positive for left turns.
// When Straight is true the middle entry is a straight-line length, otherwise
// it is the signed middle arc angle.
type DubinPathAttr struct {
	TotalLen   float64
	DubinsPath []float64
	Straight   bool
}

// AllPaths computes the six Dubins words from start to end, each a
// (x, y, heading) state. Infeasible words carry an infinite length. If sorted
// is true the result is ordered by total length, shortest first.
func (d *Dubins) AllPaths(start, end []float64, sorted bool) []DubinPathAttr {
	paths := []DubinPathAttr{
		d.lsl(start, end),
		d.rsr(start, end),
		d.rsl(start, end),
		d.lsr(start, end),
		d.rlr(start, end),
		d.lrl(start, end),
	}
	if sorted {
		sort.SliceStable(paths, func(i, j int) bool {
			return paths[i].TotalLen < paths[j].TotalLen
		})
	}
	return paths
}

// Distance returns the shortest Dubins path length from start to end.
func (d *Dubins) Distance(start, end []float64) float64 {
	return d.AllPaths(start, end, true)[0].TotalLen
}

// findCenter returns the center of the turning circle tangent to the given
// state on its left or right side.
func (d *Dubins) findCenter(point []float64, isLeft bool) []float64 {
	angle := point[2]
	if isLeft {
		angle += math.Pi / 2
	} else {
		angle -= math.Pi / 2
	}
	return []float64{
		point[0] + d.Radius*math.Cos(angle),
		point[1] + d.Radius*math.Sin(angle),
	}
}

func (d *Dubins) lsl(start, end []float64) DubinPathAttr {
	c0 := d.findCenter(start, true)
	c1 := d.findCenter(end, true)
	dist := math.Hypot(c1[0]-c0[0], c1[1]-c0[1])
	theta := math.Atan2(c1[1]-c0[1], c1[0]-c0[0])
	beta0 := wrapTo2Pi(theta - start[2])
	beta1 := wrapTo2Pi(end[2] - theta)
	return DubinPathAttr{
		TotalLen:   (beta0+beta1)*d.Radius + dist,
		DubinsPath: []float64{beta0, beta1, dist},
		Straight:   true,
	}
}

func (d *Dubins) rsr(start, end []float64) DubinPathAttr {
	c0 := d.findCenter(start, false)
	c1 := d.findCenter(end, false)
	dist := math.Hypot(c1[0]-c0[0], c1[1]-c0[1])
	theta := math.Atan2(c1[1]-c0[1], c1[0]-c0[0])
	beta0 := wrapTo2Pi(start[2] - theta)
	beta1 := wrapTo2Pi(theta - end[2])
	return DubinPathAttr{
		TotalLen:   (beta0+beta1)*d.Radius + dist,
		DubinsPath: []float64{-beta0, -beta1, dist},
		Straight:   true,
	}
}

func (d *Dubins) rsl(start, end []float64) DubinPathAttr {
	c0 := d.findCenter(start, false)
	c1 := d.findCenter(end, true)
	dist := math.Hypot(c1[0]-c0[0], c1[1]-c0[1])
	if dist < 2*d.Radius {
		return infeasibleDubinPath()
	}
	straight := math.Sqrt(dist*dist - 4*d.Radius*d.Radius)
	theta := math.Atan2(c1[1]-c0[1], c1[0]-c0[0]) - math.Asin(2*d.Radius/dist)
	beta0 := wrapTo2Pi(start[2] - theta)
	beta1 := wrapTo2Pi(end[2] - theta)
	return DubinPathAttr{
		TotalLen:   (beta0+beta1)*d.Radius + straight,
		DubinsPath: []float64{-beta0, beta1, straight},
		Straight:   true,
	}
}

func (d *Dubins) lsr(start, end []float64) DubinPathAttr {
	c0 := d.findCenter(start, true)
	c1 := d.findCenter(end, false)
	dist := math.Hypot(c1[0]-c0[0], c1[1]-c0[1])
	if dist < 2*d.Radius {
		return infeasibleDubinPath()
	}
	straight := math.Sqrt(dist*dist - 4*d.Radius*d.Radius)
	theta := math.Atan2(c1[1]-c0[1], c1[0]-c0[0]) + math.Asin(2*d.Radius/dist)
	beta0 := wrapTo2Pi(theta - start[2])
	beta1 := wrapTo2Pi(theta - end[2])
	return DubinPathAttr{
		TotalLen:   (beta0+beta1)*d.Radius + straight,
		DubinsPath: []float64{beta0, -beta1, straight},
		Straight:   true,
	}
}

func (d *Dubins) lrl(start, end []float64) DubinPathAttr {
	c0 := d.findCenter(start, true)
	c1 := d.findCenter(end, true)
	dist := math.Hypot(c1[0]-c0[0], c1[1]-c0[1])
	if dist > 4*d.Radius {
		return infeasibleDubinPath()
	}
	theta := math.Atan2(c1[1]-c0[1], c1[0]-c0[0])
	phi := math.Acos(dist / (4 * d.Radius))
	mid := []float64{
		c0[0] + 2*d.Radius*math.Cos(theta+phi),
		c0[1] + 2*d.Radius*math.Sin(theta+phi),
	}
	eta := math.Atan2(c1[1]-mid[1], c1[0]-mid[0])
	beta0 := wrapTo2Pi(theta + phi + math.Pi/2 - start[2])
	betaMid := wrapTo2Pi(theta + phi + math.Pi - eta)
	beta1 := wrapTo2Pi(end[2] - math.Pi/2 - (eta + math.Pi))
	return DubinPathAttr{
		TotalLen:   (beta0 + betaMid + beta1) * d.Radius,
		DubinsPath: []float64{beta0, beta1, -betaMid},
		Straight:   false,
	}
}

func (d *Dubins) rlr(start, end []float64) DubinPathAttr {
	c0 := d.findCenter(start, false)
	c1 := d.findCenter(end, false)
	dist := math.Hypot(c1[0]-c0[0], c1[1]-c0[1])
	if dist > 4*d.Radius {
		return infeasibleDubinPath()
	}
	theta := math.Atan2(c1[1]-c0[1], c1[0]-c0[0])
	phi := math.Acos(dist / (4 * d.Radius))
	mid := []float64{
		c0[0] + 2*d.Radius*math.Cos(theta-phi),
		c0[1] + 2*d.Radius*math.Sin(theta-phi),
	}
	eta := math.Atan2(c1[1]-mid[1], c1[0]-mid[0])
	beta0 := wrapTo2Pi(start[2] + math.Pi/2 - (theta - phi))
	betaMid := wrapTo2Pi(eta - (theta - phi + math.Pi))
	beta1 := wrapTo2Pi(eta + math.Pi - (end[2] + math.Pi/2))
	return DubinPathAttr{
		TotalLen:   (beta0 + betaMid + beta1) * d.Radius,
		DubinsPath: []float64{-beta0, -beta1, betaMid},
		Straight:   false,
	}
}

func infeasibleDubinPath() DubinPathAttr {
	return DubinPathAttr{
		TotalLen:   math.Inf(1),
		DubinsPath: []float64{math.Inf(1), math.Inf(1), math.Inf(1)},
	}
}

// GeneratePoints samples (x, y, heading) points along a Dubins word at
// PointSeparation intervals. The start and end states are always included.
func (d *Dubins) GeneratePoints(start, end []float64, dubinsPath []float64, straight bool) [][]float64 {
	points := [][]float64{{start[0], start[1], start[2]}}
	pose := []float64{start[0], start[1], start[2]}

	type segment struct {
		length float64
		turn   float64 // +1 left, -1 right, 0 straight
	}
	segs := []segment{
		{length: math.Abs(dubinsPath[0]) * d.Radius, turn: sign(dubinsPath[0])},
	}
	if straight {
		segs = append(segs, segment{length: math.Abs(dubinsPath[2])})
	} else {
		segs = append(segs, segment{length: math.Abs(dubinsPath[2]) * d.Radius, turn: sign(dubinsPath[2])})
	}
	segs = append(segs, segment{length: math.Abs(dubinsPath[1]) * d.Radius, turn: sign(dubinsPath[1])})

	// carry is the distance left to travel before the next sampled point
	carry := d.PointSeparation
	for _, seg := range segs {
		remaining := seg.length
		for remaining >= carry {
			pose = stepPose(pose, carry, seg.turn, d.Radius)
			points = append(points, []float64{pose[0], pose[1], pose[2]})
			remaining -= carry
			carry = d.PointSeparation
		}
		pose = stepPose(pose, remaining, seg.turn, d.Radius)
		carry -= remaining
	}
	return append(points, []float64{end[0], end[1], end[2]})
}

func stepPose(pose []float64, dist, turn, radius float64) []float64 {
	x, y, th := pose[0], pose[1], pose[2]
	if turn == 0 || dist == 0 {
		return []float64{x + dist*math.Cos(th), y + dist*math.Sin(th), th}
	}
	th2 := th + turn*dist/radius
	return []float64{
		x + turn*radius*(math.Sin(th2)-math.Sin(th)),
		y - turn*radius*(math.Cos(th2)-math.Cos(th)),
		th2,
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Returns a given angle in the [0, 2pi) range.
func wrapTo2Pi(theta float64) float64 {
	return theta - 2*math.Pi*math.Floor(theta/(2*math.Pi))
}
