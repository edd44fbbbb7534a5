package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessellate-dev/planemesh/internal/kernel"
)

const triangleCUE = `model: {
	name: "triangle"
	points: {
		p0: {x: 0, y: 0, meshSize: 0.5}
		p1: {x: 1, y: 0, meshSize: 0.5}
		p2: {x: 0, y: 1, meshSize: 0.5}
	}
	lines: {
		a: {from: "p0", to: "p1"}
		b: {from: "p1", to: "p2"}
		c: {from: "p2", to: "p0"}
	}
	loops: outer: {lines: ["a", "b", "c"]}
	surfaces: s: {loop: "outer"}
}`

func TestRun_PassingAssertions(t *testing.T) {
	result, err := Run(&Scenario{
		Name:  "triangle",
		Model: triangleCUE,
		Assertions: []Assertion{
			{Type: AssertOpCount, Op: kernel.OpAddPoint, Count: 3},
			{Type: AssertOpOrder, Ops: []string{kernel.OpSynchronize, kernel.OpGenerateMesh, kernel.OpFinalize}},
			{Type: AssertOpContains, Op: kernel.OpAddPlaneSurface, Tag: 1, Args: map[string]any{"loops": []any{1}}},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.Ops)
}

func TestRun_FailingAssertion(t *testing.T) {
	result, err := Run(&Scenario{
		Name:  "triangle",
		Model: triangleCUE,
		Assertions: []Assertion{
			{Type: AssertOpCount, Op: kernel.OpAddPoint, Count: 99},
		},
	})
	require.NoError(t, err, "assertion failures are reported in the result, not as run errors")
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "assertion failed: op_count")
	assert.Contains(t, result.Errors[0], "full trace", "failures carry the trace for debugging")
}

func TestRun_CompileErrorFailsLoad(t *testing.T) {
	_, err := Run(&Scenario{Name: "bad", Model: `model: name: ""`})
	require.Error(t, err)
	assert.ErrorContains(t, err, "load model")
}

func TestRun_KernelRejectionReturnsPartialTrace(t *testing.T) {
	// Five corners pass compilation (each is a loop vertex) but the engine
	// rejects them at refinement time.
	src := `model: {
		name: "pentagon"
		points: {
			p0: {x: 0, y: 0, meshSize: 0.5}
			p1: {x: 1, y: 0, meshSize: 0.5}
			p2: {x: 1.5, y: 1, meshSize: 0.5}
			p3: {x: 0.5, y: 1.6, meshSize: 0.5}
			p4: {x: -0.5, y: 1, meshSize: 0.5}
		}
		lines: {
			a: {from: "p0", to: "p1"}
			b: {from: "p1", to: "p2"}
			c: {from: "p2", to: "p3"}
			d: {from: "p3", to: "p4"}
			e: {from: "p4", to: "p0"}
		}
		loops: outer: {lines: ["a", "b", "c", "d", "e"]}
		surfaces: s: {loop: "outer", corners: ["p0", "p1", "p2", "p3", "p4"]}
	}`
	result, err := Run(&Scenario{Name: "pentagon", Model: src})
	require.Error(t, err)
	assert.ErrorContains(t, err, "3 or 4 corners")

	require.NotNil(t, result)
	names := make([]string, len(result.Ops))
	for i, op := range result.Ops {
		names[i] = op.Name
	}
	assert.Contains(t, names, kernel.OpSynchronize, "trace covers everything up to the failure")
	assert.Equal(t, kernel.OpFinalize, names[len(names)-1], "the session closes on failed runs too")
}

func TestRun_ExportWritesThroughKernel(t *testing.T) {
	result, err := Run(&Scenario{Name: "triangle", Model: triangleCUE, Export: "out.msh"})
	require.NoError(t, err)

	var wrote bool
	for _, op := range result.Ops {
		if op.Name == kernel.OpWrite {
			wrote = true
			assert.Equal(t, "out.msh", op.Args["path"])
		}
	}
	assert.True(t, wrote)
}

func TestEvaluate_OpOrderBroken(t *testing.T) {
	trace := []kernel.Op{
		{Seq: 1, Name: kernel.OpInitialize},
		{Seq: 2, Name: kernel.OpSynchronize},
		{Seq: 3, Name: kernel.OpGenerateMesh},
	}
	err := evaluate(trace, Assertion{
		Type: AssertOpOrder,
		Ops:  []string{kernel.OpGenerateMesh, kernel.OpSynchronize},
	})
	require.Error(t, err)
	var aerr *AssertionError
	require.ErrorAs(t, err, &aerr)
	assert.Contains(t, aerr.Actual, "synchronize")
}

func TestEvaluate_NumericNormalization(t *testing.T) {
	trace := []kernel.Op{
		{Seq: 1, Name: kernel.OpAddPoint, Args: map[string]any{"x": 1.0, "size": 0.1}, Tag: 1},
	}

	// YAML decodes whole numbers as int; recorded args are float64.
	err := evaluate(trace, Assertion{
		Type: AssertOpContains,
		Op:   kernel.OpAddPoint,
		Args: map[string]any{"x": 1},
	})
	assert.NoError(t, err)

	err = evaluate(trace, Assertion{
		Type: AssertOpContains,
		Op:   kernel.OpAddPoint,
		Args: map[string]any{"x": 2},
	})
	assert.Error(t, err)
}

func TestEvaluate_SliceArgsMatchAcrossTypes(t *testing.T) {
	trace := []kernel.Op{
		{Seq: 1, Name: kernel.OpAddCurveLoop, Args: map[string]any{"curves": []int{1, 2, 3}}, Tag: 1},
	}

	err := evaluate(trace, Assertion{
		Type: AssertOpContains,
		Op:   kernel.OpAddCurveLoop,
		Args: map[string]any{"curves": []any{1, 2, 3}},
	})
	assert.NoError(t, err)

	err = evaluate(trace, Assertion{
		Type: AssertOpContains,
		Op:   kernel.OpAddCurveLoop,
		Args: map[string]any{"curves": []any{1, 2}},
	})
	assert.Error(t, err, "length mismatch")
}
