// Package geom models parametric 2D mesh-ready geometry as an entity graph
// realized against an external meshing kernel in two phases.
//
// ARCHITECTURE:
//
// Entities form a DAG: Point <- Line <- CurveLoop <- PlaneSurface, with
// mesh-sizing Fields attached to loops. Every entity implements the same
// two-phase transaction protocol:
//
//  1. Construct: create the raw primitive in the kernel, dependencies
//     first (post-order), exactly once, and store the returned tag.
//  2. Refine: apply metadata that needs stable tags - transfinite
//     constraints, physical-group labels, recombination, mesh fields.
//
// Between the two phases the session issues one global kernel synchronize;
// that barrier is what makes construction-phase tags queryable for the
// refinement APIs. All Construct calls for all roots therefore complete
// before any Refine call begins. Nothing in this package talks to the
// kernel outside those two entry points.
//
// Each entity carries an explicit lifecycle state
// (Unsynced -> ConstructionDone -> RefinementDone). Transitions are
// monotonic and idempotent: a repeated Construct or Refine in a reached
// state is a no-op, so shared entities (a Point referenced by many Lines,
// a Line by many loops) are created exactly once no matter how many
// parents visit them. Refining an entity that was never constructed is an
// illegal transition and fails with a LifecycleError.
//
// SHARING: references between entities are non-owning. Callers reuse
// *Point and Curve values to share vertices and edges; no deduplication by
// coordinate is ever performed. Fields are the exception - a Field belongs
// to exactly one loop.
//
// DETERMINISM: traversal follows declaration order everywhere (lines in a
// loop, loops in a surface, labels in first-seen order), so the same graph
// always produces the identical kernel call sequence.
package geom
