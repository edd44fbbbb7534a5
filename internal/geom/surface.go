package geom

import (
	"golang.org/x/text/unicode/norm"

	"github.com/tessellate-dev/planemesh/internal/kernel"
)

// SurfaceOption configures a surface at creation.
type SurfaceOption func(*PlaneSurface)

// WithSurfaceLabel sets the surface's physical-group label.
func WithSurfaceLabel(label string) SurfaceOption {
	return func(s *PlaneSurface) {
		s.label = label
	}
}

// WithHoles subtracts the given loops from the surface interior.
func WithHoles(holes ...*CurveLoop) SurfaceOption {
	return func(s *PlaneSurface) {
		s.holes = append(s.holes, holes...)
	}
}

// WithRecombine requests recombination of the surface mesh into
// quadrilateral cells instead of triangles.
func WithRecombine() SurfaceOption {
	return func(s *PlaneSurface) {
		s.recombine = true
	}
}

// PlaneSurface is a two-dimensional entity bounded by one outer loop with
// zero or more hole loops subtracted. Loops are shared references.
type PlaneSurface struct {
	transaction

	outer     *CurveLoop
	holes     []*CurveLoop
	label     string
	recombine bool
}

// NewPlaneSurface creates a surface bounded by outer.
func NewPlaneSurface(outer *CurveLoop, opts ...SurfaceOption) *PlaneSurface {
	s := &PlaneSurface{outer: outer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Outer returns the bounding loop.
func (s *PlaneSurface) Outer() *CurveLoop { return s.outer }

// Holes returns the hole loops in declaration order.
func (s *PlaneSurface) Holes() []*CurveLoop { return s.holes }

// Label returns the surface's physical-group label, or "".
func (s *PlaneSurface) Label() string { return s.label }

// Recombine reports whether quad recombination was requested.
func (s *PlaneSurface) Recombine() bool { return s.recombine }

// loops returns outer followed by holes, the fixed construction order.
func (s *PlaneSurface) loops() []*CurveLoop {
	all := make([]*CurveLoop, 0, 1+len(s.holes))
	all = append(all, s.outer)
	all = append(all, s.holes...)
	return all
}

// Construct constructs every constituent loop (outer first, then holes),
// then creates the surface primitive from their tags. Idempotent.
func (s *PlaneSurface) Construct(k kernel.Kernel) error {
	if s.constructed() {
		return nil
	}
	loops := s.loops()
	loopTags := make([]int, 0, len(loops))
	for _, cl := range loops {
		if err := cl.Construct(k); err != nil {
			return err
		}
		tag, _ := cl.Tag()
		loopTags = append(loopTags, tag)
	}
	tag, err := k.AddPlaneSurface(loopTags)
	if err != nil {
		return err
	}
	s.finishConstruct(tag)
	return nil
}

// refineBase is the shared phase-2 body: refine constituent loops, create
// the surface-dimension physical group when labeled, apply recombination.
// Callers hold the lifecycle guard.
func (s *PlaneSurface) refineBase(k kernel.Kernel) error {
	for _, cl := range s.loops() {
		if err := cl.Refine(k); err != nil {
			return err
		}
	}
	if s.label != "" {
		groupTag, err := k.AddPhysicalGroup(kernel.DimSurface, []int{s.tag})
		if err != nil {
			return err
		}
		if err := k.SetPhysicalName(kernel.DimSurface, groupTag, norm.NFC.String(s.label)); err != nil {
			return err
		}
	}
	if s.recombine {
		if err := k.SetRecombine(kernel.DimSurface, s.tag); err != nil {
			return err
		}
	}
	return nil
}

// Refine refines constituent loops, then applies the surface's own
// labeling and recombination directives.
func (s *PlaneSurface) Refine(k kernel.Kernel) error {
	done, err := s.beginRefine("plane surface")
	if done || err != nil {
		return err
	}
	if err := s.refineBase(k); err != nil {
		return err
	}
	s.finishRefine()
	return nil
}

// TransfiniteSurface is a PlaneSurface with a structured-meshing
// constraint: the region is meshed as a mapped grid anchored at the
// declared corner points.
type TransfiniteSurface struct {
	PlaneSurface

	corners []*Point
}

// NewTransfiniteSurface creates a structured surface bounded by outer with
// the given corner points.
//
// Each corner must be one of the outer loop's vertices (checked by
// reference identity). Whether the corner count matches the region's
// topology - 3 for a triangle, 4 for a quad - is the kernel's call and is
// reported by it at refinement time, not validated here.
func NewTransfiniteSurface(outer *CurveLoop, corners []*Point, opts ...SurfaceOption) (*TransfiniteSurface, error) {
	vertices := outer.Points()
	for i, corner := range corners {
		found := false
		for _, p := range vertices {
			if p == corner {
				found = true
				break
			}
		}
		if !found {
			return nil, structural("transfinite surface", "corner %d is not a vertex of the outer loop", i)
		}
	}
	s := &TransfiniteSurface{
		PlaneSurface: PlaneSurface{outer: outer},
		corners:      corners,
	}
	for _, opt := range opts {
		opt(&s.PlaneSurface)
	}
	return s, nil
}

// Corners returns the declared corner points.
func (s *TransfiniteSurface) Corners() []*Point { return s.corners }

// Refine runs the base surface refinement, then applies the structured
// constraint with the corner point tags.
func (s *TransfiniteSurface) Refine(k kernel.Kernel) error {
	done, err := s.beginRefine("transfinite surface")
	if done || err != nil {
		return err
	}
	if err := s.refineBase(k); err != nil {
		return err
	}
	cornerTags := make([]int, len(s.corners))
	for i, corner := range s.corners {
		tag, _ := corner.Tag()
		cornerTags[i] = tag
	}
	if err := k.SetTransfiniteSurface(s.tag, cornerTags); err != nil {
		return err
	}
	s.finishRefine()
	return nil
}
