package geom

import "github.com/tessellate-dev/planemesh/internal/kernel"

// Field is mesh-sizing metadata attached to a curve loop. Fields exist
// purely as phase-2 metadata but implement both protocol entry points so
// the loop dispatches them uniformly with entities; Construct is a state
// transition only.
type Field interface {
	Construct(k kernel.Kernel, loop *CurveLoop) error
	Refine(k kernel.Kernel, loop *CurveLoop) error
	Phase() Phase
}

// BoundaryLayerOption configures a boundary layer at creation. Attributes
// left unset are never sent to the kernel, so kernel defaults apply.
type BoundaryLayerOption func(*BoundaryLayer)

// WithMaxFanAngle sets the threshold angle for creating a mesh fan.
func WithMaxFanAngle(deg float64) BoundaryLayerOption {
	return func(b *BoundaryLayer) { b.fanAngle = &deg }
}

// WithFarSize sets the element size far from the wall.
func WithFarSize(h float64) BoundaryLayerOption {
	return func(b *BoundaryLayer) { b.farSize = &h }
}

// WithWallNormalSize sets the mesh size normal to the wall.
func WithWallNormalSize(h float64) BoundaryLayerOption {
	return func(b *BoundaryLayer) { b.wallSize = &h }
}

// WithGrowthRatio sets the size ratio between two successive layers.
func WithGrowthRatio(r float64) BoundaryLayerOption {
	return func(b *BoundaryLayer) { b.growth = &r }
}

// WithThickness sets the maximal thickness of the boundary layer.
func WithThickness(t float64) BoundaryLayerOption {
	return func(b *BoundaryLayer) { b.thickness = &t }
}

// WithIntersectMetrics intersects the metrics of all surfaces.
func WithIntersectMetrics() BoundaryLayerOption {
	return func(b *BoundaryLayer) { b.intersectMetrics = true }
}

// WithQuadCells generates recombined elements inside the layer.
func WithQuadCells() BoundaryLayerOption {
	return func(b *BoundaryLayer) { b.quads = true }
}

// BoundaryLayer inflates element size normal to the owning loop's curves
// to resolve near-wall gradients.
//
// Optional attributes are pointers: only explicitly provided values are
// pushed to the kernel, never local sentinels, so unset attributes keep
// the kernel's own defaults.
type BoundaryLayer struct {
	transaction

	fanAngle         *float64
	farSize          *float64
	wallSize         *float64
	growth           *float64
	thickness        *float64
	intersectMetrics bool
	quads            bool
}

// NewBoundaryLayer creates a boundary-layer field with the given
// attributes. Attach it to the loop whose curves form the wall.
func NewBoundaryLayer(opts ...BoundaryLayerOption) *BoundaryLayer {
	b := &BoundaryLayer{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Construct is a state transition only; fields have no phase-1 kernel
// work.
func (b *BoundaryLayer) Construct(k kernel.Kernel, loop *CurveLoop) error {
	if b.constructed() {
		return nil
	}
	b.markConstructed()
	return nil
}

// Refine materializes the field: creates it in the kernel, keys it to the
// owning loop's curve tags, sets the provided attributes, and marks it as
// the model's active boundary-layer field. The field tag is a
// refinement-phase tag, stable only after this call.
func (b *BoundaryLayer) Refine(k kernel.Kernel, loop *CurveLoop) error {
	done, err := b.beginRefine("boundary layer")
	if done || err != nil {
		return err
	}

	tag, err := k.AddField("BoundaryLayer")
	if err != nil {
		return err
	}

	curveTags := loop.CurveTags()
	curves := make([]float64, len(curveTags))
	for i, t := range curveTags {
		curves[i] = float64(t)
	}
	if err := k.SetFieldNumbers(tag, "CurvesList", curves); err != nil {
		return err
	}

	if b.fanAngle != nil {
		if err := k.SetFieldNumber(tag, "AnisoMax", *b.fanAngle); err != nil {
			return err
		}
	}
	if b.intersectMetrics {
		if err := k.SetFieldNumber(tag, "IntersectMetrics", 1); err != nil {
			return err
		}
	}
	if b.quads {
		if err := k.SetFieldNumber(tag, "Quads", 1); err != nil {
			return err
		}
	}
	if b.farSize != nil {
		if err := k.SetFieldNumber(tag, "hfar", *b.farSize); err != nil {
			return err
		}
	}
	if b.wallSize != nil {
		if err := k.SetFieldNumber(tag, "hwall_n", *b.wallSize); err != nil {
			return err
		}
	}
	if b.growth != nil {
		if err := k.SetFieldNumber(tag, "ratio", *b.growth); err != nil {
			return err
		}
	}
	if b.thickness != nil {
		if err := k.SetFieldNumber(tag, "thickness", *b.thickness); err != nil {
			return err
		}
	}

	if err := k.SetFieldAsBoundaryLayer(tag); err != nil {
		return err
	}

	b.setTag(tag)
	b.finishRefine()
	return nil
}

// FieldTag returns the kernel field tag, valid after Refine.
func (b *BoundaryLayer) FieldTag() (int, bool) { return b.Tag() }
