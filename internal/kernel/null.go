package kernel

import "fmt"

// Null is a stand-in kernel that performs no geometry.
//
// It assigns sequential tags per dimension, tracks which tags exist, and
// enforces the call ordering a real engine requires: Initialize first,
// refinement APIs only after Synchronize, nothing after Finalize. This
// makes it a strict harness for the builder's two-phase protocol: a build
// that runs cleanly against Null has issued every kernel call in a legal
// order with valid references.
type Null struct {
	initialized bool
	finalized   bool
	synced      bool

	nextPoint   int
	nextCurve   int
	nextLoop    int
	nextSurface int
	nextField   int
	nextGroup   map[int]int

	points   map[int]bool
	curves   map[int]bool
	loops    map[int]bool
	surfaces map[int]bool
	fields   map[int]bool
	groups   map[int]map[int]bool // dim -> group tags
}

// NewNull creates an unopened Null kernel.
func NewNull() *Null {
	return &Null{
		nextGroup: make(map[int]int),
		points:    make(map[int]bool),
		curves:    make(map[int]bool),
		loops:     make(map[int]bool),
		surfaces:  make(map[int]bool),
		fields:    make(map[int]bool),
		groups:    make(map[int]map[int]bool),
	}
}

// Synced reports whether Synchronize has been called. Exposed for tests
// that assert on the synchronization barrier.
func (n *Null) Synced() bool { return n.synced }

func (n *Null) live() error {
	if !n.initialized {
		return fmt.Errorf("kernel: session not initialized")
	}
	if n.finalized {
		return fmt.Errorf("kernel: session already finalized")
	}
	return nil
}

// refinable guards the post-synchronization API surface.
func (n *Null) refinable(op string) error {
	if err := n.live(); err != nil {
		return err
	}
	if !n.synced {
		return fmt.Errorf("kernel: %s requires a prior synchronize", op)
	}
	return nil
}

func (n *Null) Initialize() error {
	if n.initialized && !n.finalized {
		return fmt.Errorf("kernel: session already initialized")
	}
	n.initialized = true
	n.finalized = false
	return nil
}

func (n *Null) Finalize() error {
	// Finalize must succeed on any path, including after earlier errors.
	n.finalized = true
	return nil
}

func (n *Null) AddPoint(x, y, z, meshSize float64) (int, error) {
	if err := n.live(); err != nil {
		return 0, err
	}
	if meshSize <= 0 {
		return 0, fmt.Errorf("kernel: non-positive mesh size %v", meshSize)
	}
	n.nextPoint++
	n.points[n.nextPoint] = true
	return n.nextPoint, nil
}

func (n *Null) AddLine(startTag, endTag int) (int, error) {
	if err := n.live(); err != nil {
		return 0, err
	}
	if !n.points[startTag] || !n.points[endTag] {
		return 0, fmt.Errorf("kernel: unknown point tag in line (%d, %d)", startTag, endTag)
	}
	if startTag == endTag {
		return 0, fmt.Errorf("kernel: degenerate line (%d, %d)", startTag, endTag)
	}
	n.nextCurve++
	n.curves[n.nextCurve] = true
	return n.nextCurve, nil
}

func (n *Null) AddCurveLoop(curveTags []int) (int, error) {
	if err := n.live(); err != nil {
		return 0, err
	}
	if len(curveTags) == 0 {
		return 0, fmt.Errorf("kernel: empty curve loop")
	}
	for _, t := range curveTags {
		if !n.curves[t] {
			return 0, fmt.Errorf("kernel: unknown curve tag %d in loop", t)
		}
	}
	n.nextLoop++
	n.loops[n.nextLoop] = true
	return n.nextLoop, nil
}

func (n *Null) AddPlaneSurface(loopTags []int) (int, error) {
	if err := n.live(); err != nil {
		return 0, err
	}
	if len(loopTags) == 0 {
		return 0, fmt.Errorf("kernel: surface without bounding loop")
	}
	for _, t := range loopTags {
		if !n.loops[t] {
			return 0, fmt.Errorf("kernel: unknown loop tag %d in surface", t)
		}
	}
	n.nextSurface++
	n.surfaces[n.nextSurface] = true
	return n.nextSurface, nil
}

func (n *Null) Synchronize() error {
	if err := n.live(); err != nil {
		return err
	}
	n.synced = true
	return nil
}

func (n *Null) SetTransfiniteCurve(curveTag, nodeCount int, grading string, coeff float64) error {
	if err := n.refinable(OpSetTransfiniteCurve); err != nil {
		return err
	}
	if !n.curves[curveTag] {
		return fmt.Errorf("kernel: unknown curve tag %d", curveTag)
	}
	if nodeCount < 2 {
		return fmt.Errorf("kernel: transfinite curve needs at least 2 nodes, got %d", nodeCount)
	}
	return nil
}

func (n *Null) SetTransfiniteSurface(surfaceTag int, cornerTags []int) error {
	if err := n.refinable(OpSetTransfiniteSurface); err != nil {
		return err
	}
	if !n.surfaces[surfaceTag] {
		return fmt.Errorf("kernel: unknown surface tag %d", surfaceTag)
	}
	if len(cornerTags) != 3 && len(cornerTags) != 4 {
		return fmt.Errorf("kernel: transfinite surface needs 3 or 4 corners, got %d", len(cornerTags))
	}
	for _, t := range cornerTags {
		if !n.points[t] {
			return fmt.Errorf("kernel: unknown corner point tag %d", t)
		}
	}
	return nil
}

func (n *Null) SetRecombine(dim, tag int) error {
	if err := n.refinable(OpSetRecombine); err != nil {
		return err
	}
	if dim == DimSurface && !n.surfaces[tag] {
		return fmt.Errorf("kernel: unknown surface tag %d", tag)
	}
	return nil
}

func (n *Null) AddPhysicalGroup(dim int, tags []int) (int, error) {
	if err := n.refinable(OpAddPhysicalGroup); err != nil {
		return 0, err
	}
	if len(tags) == 0 {
		return 0, fmt.Errorf("kernel: empty physical group")
	}
	known := map[int]map[int]bool{
		DimPoint:   n.points,
		DimCurve:   n.curves,
		DimSurface: n.surfaces,
	}[dim]
	if known == nil {
		return 0, fmt.Errorf("kernel: unsupported physical group dimension %d", dim)
	}
	for _, t := range tags {
		if !known[t] {
			return 0, fmt.Errorf("kernel: unknown dim-%d tag %d in physical group", dim, t)
		}
	}
	n.nextGroup[dim]++
	if n.groups[dim] == nil {
		n.groups[dim] = make(map[int]bool)
	}
	tag := n.nextGroup[dim]
	n.groups[dim][tag] = true
	return tag, nil
}

func (n *Null) SetPhysicalName(dim, groupTag int, name string) error {
	if err := n.refinable(OpSetPhysicalName); err != nil {
		return err
	}
	if !n.groups[dim][groupTag] {
		return fmt.Errorf("kernel: unknown physical group %d (dim %d)", groupTag, dim)
	}
	if name == "" {
		return fmt.Errorf("kernel: empty physical group name")
	}
	return nil
}

func (n *Null) AddField(kind string) (int, error) {
	if err := n.refinable(OpAddField); err != nil {
		return 0, err
	}
	if kind == "" {
		return 0, fmt.Errorf("kernel: empty field kind")
	}
	n.nextField++
	n.fields[n.nextField] = true
	return n.nextField, nil
}

func (n *Null) SetFieldNumber(fieldTag int, key string, value float64) error {
	if err := n.refinable(OpSetFieldNumber); err != nil {
		return err
	}
	if !n.fields[fieldTag] {
		return fmt.Errorf("kernel: unknown field tag %d", fieldTag)
	}
	return nil
}

func (n *Null) SetFieldNumbers(fieldTag int, key string, values []float64) error {
	if err := n.refinable(OpSetFieldNumbers); err != nil {
		return err
	}
	if !n.fields[fieldTag] {
		return fmt.Errorf("kernel: unknown field tag %d", fieldTag)
	}
	return nil
}

func (n *Null) SetFieldAsBoundaryLayer(fieldTag int) error {
	if err := n.refinable(OpSetFieldAsBLayer); err != nil {
		return err
	}
	if !n.fields[fieldTag] {
		return fmt.Errorf("kernel: unknown field tag %d", fieldTag)
	}
	return nil
}

func (n *Null) GenerateMesh() error {
	if err := n.refinable(OpGenerateMesh); err != nil {
		return err
	}
	return nil
}

func (n *Null) Write(path string) error {
	if err := n.live(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("kernel: empty export path")
	}
	return nil
}
