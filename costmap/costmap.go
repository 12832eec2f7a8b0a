// Package costmap provides a 2D traversal-cost grid and collision checking
// against it. The grid is produced elsewhere; planners treat it as read-only.
package costmap

// Cell cost markers. Values between FreeSpace and MaxNonObstacle scale
// traversal penalties; anything at or above InscribedInflatedObstacle is
// untraversable, and NoInformation marks unobserved space.
const (
	FreeSpace                 uint8 = 0
	MaxNonObstacle            uint8 = 252
	InscribedInflatedObstacle uint8 = 253
	LethalObstacle            uint8 = 254
	NoInformation             uint8 = 255
)

// Costmap is a row-major grid of per-cell traversal costs with a world-frame
// origin and resolution.
type Costmap struct {
	sizeX, sizeY     uint
	resolution       float64 // world units per cell
	originX, originY float64
	costs            []uint8
}

// New creates a costmap of the given cell dimensions with every cell free.
func New(sizeX, sizeY uint, resolution, originX, originY float64) *Costmap {
	return &Costmap{
		sizeX:      sizeX,
		sizeY:      sizeY,
		resolution: resolution,
		originX:    originX,
		originY:    originY,
		costs:      make([]uint8, sizeX*sizeY),
	}
}

// SizeX returns the grid width in cells.
func (c *Costmap) SizeX() uint {
	return c.sizeX
}

// SizeY returns the grid height in cells.
func (c *Costmap) SizeY() uint {
	return c.sizeY
}

// Resolution returns the world size of one cell.
func (c *Costmap) Resolution() float64 {
	return c.resolution
}

// GetCost returns the cost at a cell. Coordinates must be in bounds.
func (c *Costmap) GetCost(mx, my uint) uint8 {
	return c.costs[my*c.sizeX+mx]
}

// SetCost sets the cost at a cell. Coordinates must be in bounds.
func (c *Costmap) SetCost(mx, my uint, cost uint8) {
	c.costs[my*c.sizeX+mx] = cost
}

// WorldToMap converts a world-frame point to cell coordinates, reporting
// whether the point lies on the grid.
func (c *Costmap) WorldToMap(wx, wy float64) (uint, uint, bool) {
	if wx < c.originX || wy < c.originY {
		return 0, 0, false
	}
	mx := uint((wx - c.originX) / c.resolution)
	my := uint((wy - c.originY) / c.resolution)
	if mx >= c.sizeX || my >= c.sizeY {
		return 0, 0, false
	}
	return mx, my, true
}

// MapToWorld converts cell coordinates to the world-frame center of the cell.
func (c *Costmap) MapToWorld(mx, my uint) (float64, float64) {
	wx := c.originX + (float64(mx)+0.5)*c.resolution
	wy := c.originY + (float64(my)+0.5)*c.resolution
	return wx, wy
}
