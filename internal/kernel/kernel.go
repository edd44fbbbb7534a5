package kernel

// Entity dimensions as used by the engine's dim/tag addressing scheme.
const (
	DimPoint   = 0
	DimCurve   = 1
	DimSurface = 2
)

// Kernel is the capability surface the builder consumes from the external
// geometry/meshing engine.
//
// Implementations are assumed to be single-writer, non-reentrant and
// process-global: callers must serialize all access for the lifetime of one
// session. The builder's session layer upholds that; Kernel implementations
// do not need internal locking.
//
// Creation calls (AddPoint through AddPlaneSurface) are only valid before
// Synchronize; refinement calls (SetTransfinite*, SetRecombine, physical
// groups, mesh fields) require a prior Synchronize so that created tags are
// queryable in the engine's database.
//
// All errors are engine errors and are propagated to callers unmodified in
// meaning; the builder never retries or swallows them.
type Kernel interface {
	// Initialize acquires the engine session. Must be called exactly once
	// before any other call.
	Initialize() error

	// Finalize releases the engine session. Safe to call after a failed
	// run; implementations must tolerate being the only cleanup step.
	Finalize() error

	// AddPoint creates a point primitive at (x, y, z) with a target mesh
	// element size and returns its tag.
	AddPoint(x, y, z, meshSize float64) (int, error)

	// AddLine creates a directed curve primitive between two point tags.
	AddLine(startTag, endTag int) (int, error)

	// AddCurveLoop creates a closed loop primitive from an ordered list of
	// curve tags.
	AddCurveLoop(curveTags []int) (int, error)

	// AddPlaneSurface creates a plane surface bounded by the first loop
	// tag, with any further loop tags subtracted as holes.
	AddPlaneSurface(loopTags []int) (int, error)

	// Synchronize flushes the built-up geometry into the engine's model
	// database, making all previously returned tags stable and queryable.
	Synchronize() error

	// SetTransfiniteCurve constrains a curve to a fixed node count with
	// the given grading discipline ("Progression", "Bump", ...) and
	// grading coefficient.
	SetTransfiniteCurve(curveTag, nodeCount int, grading string, coeff float64) error

	// SetTransfiniteSurface constrains a surface to structured meshing
	// using the given corner point tags (3 or 4, matching the topology).
	SetTransfiniteSurface(surfaceTag int, cornerTags []int) error

	// SetRecombine requests recombination of the entity's mesh into
	// quadrilaterals.
	SetRecombine(dim, tag int) error

	// AddPhysicalGroup creates a named-group container for same-dimension
	// entities and returns the group tag.
	AddPhysicalGroup(dim int, tags []int) (int, error)

	// SetPhysicalName assigns the display name of a physical group.
	SetPhysicalName(dim, groupTag int, name string) error

	// AddField creates a mesh-sizing field of the given kind (e.g.
	// "BoundaryLayer") and returns its tag.
	AddField(kind string) (int, error)

	// SetFieldNumber sets a scalar field attribute.
	SetFieldNumber(fieldTag int, key string, value float64) error

	// SetFieldNumbers sets a list-valued field attribute (e.g. the curve
	// tag list a boundary layer inflates from).
	SetFieldNumbers(fieldTag int, key string, values []float64) error

	// SetFieldAsBoundaryLayer marks a field as the model's active
	// boundary-layer field.
	SetFieldAsBoundaryLayer(fieldTag int) error

	// GenerateMesh runs mesh generation for the whole model.
	GenerateMesh() error

	// Write exports the generated mesh using the engine's own exporter.
	Write(path string) error
}
