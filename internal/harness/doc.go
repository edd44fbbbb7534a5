// Package harness runs conformance scenarios for the geometry builder.
//
// A scenario is a YAML file naming a model (inline CUE source or a model
// directory) plus assertions over the kernel-op trace the build produces.
// The harness compiles the model, runs a full session against a recording
// Null kernel, and evaluates the assertions; golden tests additionally
// compare the whole trace byte-for-byte against a checked-in fixture.
//
// Everything here is deterministic: Null assigns sequential tags, the
// recorder stamps ops with a logical counter, and traversal order is fixed
// by declaration order. The same scenario always yields the same trace, so
// golden files are stable.
package harness
