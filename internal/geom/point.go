package geom

import "github.com/tessellate-dev/planemesh/internal/kernel"

// Coord is a point coordinate. Z defaults to 0 for 2D input.
type Coord struct {
	X, Y, Z float64
}

// XY builds a planar coordinate.
func XY(x, y float64) Coord { return Coord{X: x, Y: y} }

// XYZ builds a full 3-component coordinate.
func XYZ(x, y, z float64) Coord { return Coord{X: x, Y: y, Z: z} }

// Point is a zero-dimensional entity, the leaf of the dependency graph.
//
// Two Points are distinct entities even with identical coordinates; no
// deduplication is performed. Callers share vertices by reusing the same
// *Point across lines. Coordinate and mesh size are fixed at creation.
type Point struct {
	transaction

	coord    Coord
	meshSize float64

	// Label is optional caller metadata. Points take no part in
	// physical-group aggregation, which operates on curves and surfaces.
	Label string
}

// NewPoint creates a point at c with a target mesh element size. The mesh
// size must be positive; a non-positive value is rejected by the kernel at
// construction time.
func NewPoint(c Coord, meshSize float64) *Point {
	return &Point{coord: c, meshSize: meshSize}
}

// Coord returns the point's coordinate.
func (p *Point) Coord() Coord { return p.coord }

// MeshSize returns the target element size at the point.
func (p *Point) MeshSize() float64 { return p.meshSize }

// Construct creates the point primitive in the kernel and stores its tag.
// Idempotent: later calls are no-ops.
func (p *Point) Construct(k kernel.Kernel) error {
	if p.constructed() {
		return nil
	}
	tag, err := k.AddPoint(p.coord.X, p.coord.Y, p.coord.Z, p.meshSize)
	if err != nil {
		return err
	}
	p.finishConstruct(tag)
	return nil
}

// Refine is a state transition only; points carry no refinement metadata.
func (p *Point) Refine(k kernel.Kernel) error {
	done, err := p.beginRefine("point")
	if done || err != nil {
		return err
	}
	p.finishRefine()
	return nil
}
