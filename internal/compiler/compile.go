// Package compiler turns declarative CUE geometry models into the geom
// entity graph.
//
// A model file names its points, lines, loops and surfaces and wires them
// together by name; the compiler validates the description against the
// embedded schema, resolves references, and hands back ready-to-generate
// root entities. Declaration order in the CUE file is preserved
// everywhere, so a model compiles to the same kernel call sequence every
// time.
package compiler

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/tessellate-dev/planemesh/internal/geom"
)

//go:embed schema.cue
var schemaCUE string

// CompileError reports a defect in a model description, with the CUE
// source position when one is available.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Model is a compiled geometry model: the full entity graph plus the root
// set to hand to a session.
type Model struct {
	Name string

	Points   map[string]*geom.Point
	Curves   map[string]geom.Curve
	Loops    map[string]*geom.CurveLoop
	Surfaces map[string]geom.Entity

	// Roots are the entities to generate, in declaration order: surfaces
	// first, then loops, lines and points no surface reaches. Generating
	// the roots realizes the whole graph exactly once.
	Roots []geom.Entity
}

// Compile validates a CUE value holding a model against the embedded
// schema and builds the entity graph. The value must come from the
// context's own compile/build calls.
func Compile(v cue.Value) (*Model, error) {
	if err := v.Err(); err != nil {
		return nil, &CompileError{Field: "model", Message: err.Error(), Pos: v.Pos()}
	}

	schema := v.Context().CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile embedded schema: %w", err)
	}

	unified := v.Unify(schema)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &CompileError{Field: "model", Message: err.Error(), Pos: v.Pos()}
	}

	mv := unified.LookupPath(cue.ParsePath("model"))
	if !mv.Exists() {
		return nil, &CompileError{Field: "model", Message: "model is required"}
	}

	m := &Model{
		Points:   make(map[string]*geom.Point),
		Curves:   make(map[string]geom.Curve),
		Loops:    make(map[string]*geom.CurveLoop),
		Surfaces: make(map[string]geom.Entity),
	}

	name, err := mv.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return nil, &CompileError{Field: "name", Message: err.Error(), Pos: mv.Pos()}
	}
	m.Name = name

	pointOrder, err := compilePoints(mv, m)
	if err != nil {
		return nil, err
	}
	lineOrder, err := compileLines(mv, m)
	if err != nil {
		return nil, err
	}
	loopOrder, err := compileLoops(mv, m)
	if err != nil {
		return nil, err
	}
	surfaceOrder, err := compileSurfaces(mv, m)
	if err != nil {
		return nil, err
	}

	m.Roots = collectRoots(m, pointOrder, lineOrder, loopOrder, surfaceOrder)
	return m, nil
}

// fields iterates a struct field of the model in declaration order.
// Missing fields yield no iterations.
func fields(mv cue.Value, path string) (*cue.Iterator, error) {
	fv := mv.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.Fields()
	if err != nil {
		return nil, &CompileError{Field: path, Message: err.Error(), Pos: fv.Pos()}
	}
	return iter, nil
}

func compilePoints(mv cue.Value, m *Model) ([]string, error) {
	iter, err := fields(mv, "points")
	if iter == nil || err != nil {
		return nil, err
	}

	var order []string
	for iter.Next() {
		name := iter.Selector().Unquoted()
		var p struct {
			X        float64 `json:"x"`
			Y        float64 `json:"y"`
			Z        float64 `json:"z"`
			MeshSize float64 `json:"meshSize"`
			Label    string  `json:"label"`
		}
		if err := iter.Value().Decode(&p); err != nil {
			return nil, &CompileError{Field: "points." + name, Message: err.Error(), Pos: iter.Value().Pos()}
		}
		point := geom.NewPoint(geom.XYZ(p.X, p.Y, p.Z), p.MeshSize)
		point.Label = p.Label
		m.Points[name] = point
		order = append(order, name)
	}
	return order, nil
}

func compileLines(mv cue.Value, m *Model) ([]string, error) {
	iter, err := fields(mv, "lines")
	if iter == nil || err != nil {
		return nil, err
	}

	var order []string
	for iter.Next() {
		name := iter.Selector().Unquoted()
		var l struct {
			From        string `json:"from"`
			To          string `json:"to"`
			Label       string `json:"label"`
			Transfinite *struct {
				Cells   int     `json:"cells"`
				Grading string  `json:"grading"`
				Coeff   float64 `json:"coeff"`
			} `json:"transfinite"`
		}
		if err := iter.Value().Decode(&l); err != nil {
			return nil, &CompileError{Field: "lines." + name, Message: err.Error(), Pos: iter.Value().Pos()}
		}

		start, ok := m.Points[l.From]
		if !ok {
			return nil, &CompileError{Field: "lines." + name, Message: fmt.Sprintf("unknown point %q", l.From), Pos: iter.Value().Pos()}
		}
		end, ok := m.Points[l.To]
		if !ok {
			return nil, &CompileError{Field: "lines." + name, Message: fmt.Sprintf("unknown point %q", l.To), Pos: iter.Value().Pos()}
		}

		var opts []geom.LineOption
		if l.Label != "" {
			opts = append(opts, geom.WithLabel(l.Label))
		}

		var curve geom.Curve
		if l.Transfinite != nil {
			tl, err := geom.NewTransfiniteLine(start, end, l.Transfinite.Cells,
				geom.GradingType(l.Transfinite.Grading), l.Transfinite.Coeff, opts...)
			if err != nil {
				return nil, &CompileError{Field: "lines." + name, Message: err.Error(), Pos: iter.Value().Pos()}
			}
			curve = tl
		} else {
			curve = geom.NewLine(start, end, opts...)
		}
		m.Curves[name] = curve
		order = append(order, name)
	}
	return order, nil
}

func compileLoops(mv cue.Value, m *Model) ([]string, error) {
	iter, err := fields(mv, "loops")
	if iter == nil || err != nil {
		return nil, err
	}

	var order []string
	for iter.Next() {
		name := iter.Selector().Unquoted()
		var l struct {
			Lines         []string `json:"lines"`
			BoundaryLayer *struct {
				MaxFanAngle      *float64 `json:"maxFanAngle"`
				FarSize          *float64 `json:"farSize"`
				WallNormalSize   *float64 `json:"wallNormalSize"`
				GrowthRatio      *float64 `json:"growthRatio"`
				Thickness        *float64 `json:"thickness"`
				IntersectMetrics bool     `json:"intersectMetrics"`
				Quads            bool     `json:"quads"`
			} `json:"boundaryLayer"`
		}
		if err := iter.Value().Decode(&l); err != nil {
			return nil, &CompileError{Field: "loops." + name, Message: err.Error(), Pos: iter.Value().Pos()}
		}

		curves := make([]geom.Curve, len(l.Lines))
		for i, ref := range l.Lines {
			curve, ok := m.Curves[ref]
			if !ok {
				return nil, &CompileError{Field: "loops." + name, Message: fmt.Sprintf("unknown line %q", ref), Pos: iter.Value().Pos()}
			}
			curves[i] = curve
		}

		loop, err := geom.NewCurveLoop(curves...)
		if err != nil {
			return nil, &CompileError{Field: "loops." + name, Message: err.Error(), Pos: iter.Value().Pos()}
		}

		if bl := l.BoundaryLayer; bl != nil {
			var opts []geom.BoundaryLayerOption
			if bl.MaxFanAngle != nil {
				opts = append(opts, geom.WithMaxFanAngle(*bl.MaxFanAngle))
			}
			if bl.FarSize != nil {
				opts = append(opts, geom.WithFarSize(*bl.FarSize))
			}
			if bl.WallNormalSize != nil {
				opts = append(opts, geom.WithWallNormalSize(*bl.WallNormalSize))
			}
			if bl.GrowthRatio != nil {
				opts = append(opts, geom.WithGrowthRatio(*bl.GrowthRatio))
			}
			if bl.Thickness != nil {
				opts = append(opts, geom.WithThickness(*bl.Thickness))
			}
			if bl.IntersectMetrics {
				opts = append(opts, geom.WithIntersectMetrics())
			}
			if bl.Quads {
				opts = append(opts, geom.WithQuadCells())
			}
			loop.Attach(geom.NewBoundaryLayer(opts...))
		}

		m.Loops[name] = loop
		order = append(order, name)
	}
	return order, nil
}

func compileSurfaces(mv cue.Value, m *Model) ([]string, error) {
	iter, err := fields(mv, "surfaces")
	if iter == nil || err != nil {
		return nil, err
	}

	var order []string
	for iter.Next() {
		name := iter.Selector().Unquoted()
		var s struct {
			Loop      string   `json:"loop"`
			Holes     []string `json:"holes"`
			Label     string   `json:"label"`
			Recombine bool     `json:"recombine"`
			Corners   []string `json:"corners"`
		}
		if err := iter.Value().Decode(&s); err != nil {
			return nil, &CompileError{Field: "surfaces." + name, Message: err.Error(), Pos: iter.Value().Pos()}
		}

		outer, ok := m.Loops[s.Loop]
		if !ok {
			return nil, &CompileError{Field: "surfaces." + name, Message: fmt.Sprintf("unknown loop %q", s.Loop), Pos: iter.Value().Pos()}
		}

		var opts []geom.SurfaceOption
		if s.Label != "" {
			opts = append(opts, geom.WithSurfaceLabel(s.Label))
		}
		if s.Recombine {
			opts = append(opts, geom.WithRecombine())
		}
		for _, ref := range s.Holes {
			hole, ok := m.Loops[ref]
			if !ok {
				return nil, &CompileError{Field: "surfaces." + name, Message: fmt.Sprintf("unknown hole loop %q", ref), Pos: iter.Value().Pos()}
			}
			opts = append(opts, geom.WithHoles(hole))
		}

		var surface geom.Entity
		if len(s.Corners) > 0 {
			corners := make([]*geom.Point, len(s.Corners))
			for i, ref := range s.Corners {
				p, ok := m.Points[ref]
				if !ok {
					return nil, &CompileError{Field: "surfaces." + name, Message: fmt.Sprintf("unknown corner point %q", ref), Pos: iter.Value().Pos()}
				}
				corners[i] = p
			}
			ts, err := geom.NewTransfiniteSurface(outer, corners, opts...)
			if err != nil {
				return nil, &CompileError{Field: "surfaces." + name, Message: err.Error(), Pos: iter.Value().Pos()}
			}
			surface = ts
		} else {
			surface = geom.NewPlaneSurface(outer, opts...)
		}

		m.Surfaces[name] = surface
		order = append(order, name)
	}
	return order, nil
}

// collectRoots returns the root set in declaration order: every surface,
// then loops no surface uses, then lines no loop uses, then points no
// line touches. Generating the roots visits the entire graph.
func collectRoots(m *Model, pointOrder, lineOrder, loopOrder, surfaceOrder []string) []geom.Entity {
	usedLoops := make(map[*geom.CurveLoop]bool)
	usedCurves := make(map[geom.Curve]bool)
	usedPoints := make(map[*geom.Point]bool)

	for _, name := range surfaceOrder {
		switch s := m.Surfaces[name].(type) {
		case *geom.TransfiniteSurface:
			usedLoops[s.Outer()] = true
			for _, h := range s.Holes() {
				usedLoops[h] = true
			}
		case *geom.PlaneSurface:
			usedLoops[s.Outer()] = true
			for _, h := range s.Holes() {
				usedLoops[h] = true
			}
		}
	}
	for _, loop := range m.Loops {
		for _, c := range loop.Curves() {
			usedCurves[c] = true
		}
	}
	for _, c := range m.Curves {
		usedPoints[c.Start()] = true
		usedPoints[c.End()] = true
	}

	var roots []geom.Entity
	for _, name := range surfaceOrder {
		roots = append(roots, m.Surfaces[name])
	}
	for _, name := range loopOrder {
		if !usedLoops[m.Loops[name]] {
			roots = append(roots, m.Loops[name])
		}
	}
	for _, name := range lineOrder {
		if !usedCurves[m.Curves[name]] {
			roots = append(roots, m.Curves[name])
		}
	}
	for _, name := range pointOrder {
		if !usedPoints[m.Points[name]] {
			roots = append(roots, m.Points[name])
		}
	}
	return roots
}
