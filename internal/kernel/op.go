package kernel

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// Op names, matching the Kernel method they record one-to-one.
const (
	OpInitialize            = "initialize"
	OpFinalize              = "finalize"
	OpAddPoint              = "addPoint"
	OpAddLine               = "addLine"
	OpAddCurveLoop          = "addCurveLoop"
	OpAddPlaneSurface       = "addPlaneSurface"
	OpSynchronize           = "synchronize"
	OpSetTransfiniteCurve   = "setTransfiniteCurve"
	OpSetTransfiniteSurface = "setTransfiniteSurface"
	OpSetRecombine          = "setRecombine"
	OpAddPhysicalGroup      = "addPhysicalGroup"
	OpSetPhysicalName       = "setPhysicalName"
	OpAddField              = "addField"
	OpSetFieldNumber        = "setFieldNumber"
	OpSetFieldNumbers       = "setFieldNumbers"
	OpSetFieldAsBLayer      = "setFieldAsBoundaryLayer"
	OpGenerateMesh          = "generateMesh"
	OpWrite                 = "write"
)

// Op is one recorded kernel call.
//
// Ops are stamped with a strictly increasing seq so a recorded trace is a
// total order over all kernel effects of a run. Tag carries the tag the
// kernel returned for creation calls and is zero otherwise.
type Op struct {
	Seq  int64          `json:"seq"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
	Tag  int            `json:"tag,omitempty"`
}

// String renders the op in a compact single-line form for logs and the
// plan command. Arg keys are sorted for stable output.
func (o Op) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%4d  %s", o.Seq, o.Name)
	if len(o.Args) > 0 {
		keys := make([]string, 0, len(o.Args))
		for k := range o.Args {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('(')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, o.Args[k])
		}
		b.WriteByte(')')
	} else {
		b.WriteString("()")
	}
	if o.Tag != 0 {
		fmt.Fprintf(&b, " -> %d", o.Tag)
	}
	return b.String()
}

// clock is a monotonic logical counter used to stamp recorded ops.
//
// Seq numbers, never wall-clock timestamps, order a trace: replaying the
// same build produces the identical sequence. Safe for concurrent use,
// though the session layer serializes all kernel access anyway.
type clock struct {
	seq atomic.Int64
}

// next returns the next sequence number and increments the counter.
func (c *clock) next() int64 {
	return c.seq.Add(1)
}
