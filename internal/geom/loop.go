package geom

import (
	"golang.org/x/text/unicode/norm"

	"github.com/tessellate-dev/planemesh/internal/kernel"
)

// CurveLoop is an ordered closed cycle of curves. It owns the mesh-sizing
// fields attached to it; curves are shared references.
type CurveLoop struct {
	transaction

	curves []Curve
	fields []Field

	// curveTags is collected during construction, in declaration order.
	// Fields and label aggregation read this snapshot, not live state.
	curveTags []int
}

// NewCurveLoop creates a closed loop from curves in declaration order.
//
// The chain must close: each curve's end point must be the next curve's
// start point (by reference identity, since vertices are shared by
// reference), and the last curve must return to the first. A non-closing
// chain is a StructuralError before any kernel call is made.
func NewCurveLoop(curves ...Curve) (*CurveLoop, error) {
	if len(curves) == 0 {
		return nil, structural("curve loop", "at least one curve is required")
	}
	for i, c := range curves {
		next := curves[(i+1)%len(curves)]
		if c.End() != next.Start() {
			return nil, structural("curve loop", "curve %d does not connect to curve %d: chain must close", i, (i+1)%len(curves))
		}
	}
	return &CurveLoop{curves: curves}, nil
}

// Attach adds a mesh-sizing field to the loop. Fields are exclusively
// owned by the loop they are attached to.
func (cl *CurveLoop) Attach(f Field) {
	cl.fields = append(cl.fields, f)
}

// Curves returns the loop's curves in declaration order.
func (cl *CurveLoop) Curves() []Curve { return cl.curves }

// Points returns the loop's vertex sequence in traversal order (each
// curve's start point).
func (cl *CurveLoop) Points() []*Point {
	pts := make([]*Point, len(cl.curves))
	for i, c := range cl.curves {
		pts[i] = c.Start()
	}
	return pts
}

// CurveTags returns the kernel tags of the loop's curves, collected during
// construction. Empty before Construct has run.
func (cl *CurveLoop) CurveTags() []int {
	out := make([]int, len(cl.curveTags))
	copy(out, cl.curveTags)
	return out
}

// Construct constructs every curve in declaration order, creates the
// closed-loop primitive from their tags, then constructs attached fields
// with the loop as context. Idempotent.
func (cl *CurveLoop) Construct(k kernel.Kernel) error {
	if cl.constructed() {
		return nil
	}
	cl.curveTags = make([]int, 0, len(cl.curves))
	for _, c := range cl.curves {
		if err := c.Construct(k); err != nil {
			return err
		}
		tag, _ := c.Tag()
		cl.curveTags = append(cl.curveTags, tag)
	}
	tag, err := k.AddCurveLoop(cl.curveTags)
	if err != nil {
		return err
	}
	// Fields construct after the loop so they can observe collected curve
	// tags; for boundary layers this is a pure state transition.
	for _, f := range cl.fields {
		if err := f.Construct(k, cl); err != nil {
			return err
		}
	}
	cl.finishConstruct(tag)
	return nil
}

// Refine refines every curve, then aggregates same-label curves into one
// named physical group each, then refines attached fields.
//
// Grouping runs only after all curves in the loop have been visited, so
// every same-label tag is collected before the group is created. Groups
// are created in first-seen label order for a deterministic call sequence.
func (cl *CurveLoop) Refine(k kernel.Kernel) error {
	done, err := cl.beginRefine("curve loop")
	if done || err != nil {
		return err
	}

	type labelGroup struct {
		name string
		tags []int
	}
	var groups []labelGroup
	index := make(map[string]int)

	for i, c := range cl.curves {
		if label := c.Label(); label != "" {
			// Labels are NFC-normalized so byte-different spellings of
			// the same text land in one group.
			name := norm.NFC.String(label)
			gi, ok := index[name]
			if !ok {
				gi = len(groups)
				index[name] = gi
				groups = append(groups, labelGroup{name: name})
			}
			groups[gi].tags = append(groups[gi].tags, cl.curveTags[i])
		}
		if err := c.Refine(k); err != nil {
			return err
		}
	}

	for _, g := range groups {
		groupTag, err := k.AddPhysicalGroup(kernel.DimCurve, g.tags)
		if err != nil {
			return err
		}
		if err := k.SetPhysicalName(kernel.DimCurve, groupTag, g.name); err != nil {
			return err
		}
	}

	for _, f := range cl.fields {
		if err := f.Refine(k, cl); err != nil {
			return err
		}
	}

	cl.finishRefine()
	return nil
}
