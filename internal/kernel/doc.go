// Package kernel defines the capability surface of the external
// geometry/meshing engine and the in-process stand-ins used for dry runs
// and tests.
//
// The engine itself (gmsh or compatible) is an opaque collaborator: it owns
// the authoritative geometric database, assigns integer tags to every
// primitive, and produces the discretized mesh. This package never
// reimplements any of that. It only pins down the narrow interface the
// builder is allowed to call through, so the rest of the codebase can be
// exercised without a live engine.
//
// Two implementations live here:
//
//   - Null: assigns sequential tags per dimension and validates gross
//     misuse (unknown tags, refinement calls before Synchronize, calls
//     after Finalize). It performs no geometry.
//   - Recorder: a decorator over any Kernel that journals every call as a
//     typed Op in invocation order. Recorder traces drive golden tests,
//     the plan command, and run journaling.
//
// ORDERING CONTRACT: the engine's tag database is only stable for
// refinement APIs (transfinite constraints, physical groups, mesh fields)
// after Synchronize has been called. Null enforces this so that ordering
// bugs fail loudly in tests instead of deep inside a real engine.
package kernel
