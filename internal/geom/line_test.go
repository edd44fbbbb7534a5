package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessellate-dev/planemesh/internal/kernel"
)

func TestLine_ConstructCreatesEndpointsFirst(t *testing.T) {
	k := newTestKernel(t)
	a := NewPoint(XY(0, 0), 0.1)
	b := NewPoint(XY(1, 0), 0.1)
	l := NewLine(a, b)

	require.NoError(t, l.Construct(k))

	// initialize, both endpoints, then the line itself.
	var names []string
	for _, op := range k.Trace() {
		names = append(names, op.Name)
	}
	assert.Equal(t, []string{
		kernel.OpInitialize,
		kernel.OpAddPoint,
		kernel.OpAddPoint,
		kernel.OpAddLine,
	}, names)

	tag, tagged := l.Tag()
	assert.True(t, tagged)
	assert.Equal(t, 1, tag, "first curve tag")
}

func TestLine_SharedPointsConstructedOnce(t *testing.T) {
	k := newTestKernel(t)
	a := NewPoint(XY(0, 0), 0.1)
	b := NewPoint(XY(1, 0), 0.1)
	c := NewPoint(XY(1, 1), 0.1)

	// Three lines sharing vertices: K distinct points, exactly K creations.
	lines := []*Line{NewLine(a, b), NewLine(b, c), NewLine(c, a)}
	for _, l := range lines {
		require.NoError(t, l.Construct(k))
	}

	assert.Equal(t, 3, countOps(k.Trace(), kernel.OpAddPoint))
	assert.Equal(t, 3, countOps(k.Trace(), kernel.OpAddLine))
}

func TestLine_Accessors(t *testing.T) {
	a := NewPoint(XY(0, 0), 0.1)
	b := NewPoint(XY(1, 0), 0.1)
	l := NewLine(a, b, WithLabel("wall"))

	assert.Same(t, a, l.Start())
	assert.Same(t, b, l.End())
	assert.Equal(t, "wall", l.Label())
	assert.Empty(t, NewLine(a, b).Label())
}

func TestTransfiniteLine_NodeCountIsCellsPlusOne(t *testing.T) {
	k := newTestKernel(t)
	a := NewPoint(XY(0, 0), 0.1)
	b := NewPoint(XY(1, 0), 0.1)

	l, err := NewTransfiniteLine(a, b, 4, GradingProgression, 1.0)
	require.NoError(t, err)

	require.NoError(t, l.Construct(k))
	require.NoError(t, k.Synchronize())
	require.NoError(t, l.Refine(k))

	var found bool
	for _, op := range k.Trace() {
		if op.Name == kernel.OpSetTransfiniteCurve {
			found = true
			assert.Equal(t, 5, op.Args["nodes"], "4 cells mean 5 nodes")
			assert.Equal(t, "Progression", op.Args["grading"])
			assert.Equal(t, 1.0, op.Args["coeff"])
		}
	}
	assert.True(t, found, "transfinite constraint issued")
}

func TestTransfiniteLine_CellCountValidation(t *testing.T) {
	a := NewPoint(XY(0, 0), 0.1)
	b := NewPoint(XY(1, 0), 0.1)

	_, err := NewTransfiniteLine(a, b, 0, GradingProgression, 1.0)
	require.Error(t, err)
	assert.True(t, IsStructural(err))

	_, err = NewTransfiniteLine(a, b, -3, GradingProgression, 1.0)
	require.Error(t, err)
	assert.True(t, IsStructural(err))

	l, err := NewTransfiniteLine(a, b, 1, GradingProgression, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1, l.CellCount())
}

func TestTransfiniteLine_GradingDefaults(t *testing.T) {
	a := NewPoint(XY(0, 0), 0.1)
	b := NewPoint(XY(1, 0), 0.1)

	l, err := NewTransfiniteLine(a, b, 10, "", 0)
	require.NoError(t, err)

	grading, coeff := l.Grading()
	assert.Equal(t, GradingProgression, grading)
	assert.Equal(t, 1.0, coeff)
}

func TestTransfiniteLine_RefineIdempotent(t *testing.T) {
	k := newTestKernel(t)
	a := NewPoint(XY(0, 0), 0.1)
	b := NewPoint(XY(1, 0), 0.1)
	l, err := NewTransfiniteLine(a, b, 8, GradingBump, 0.3, WithLabel("inlet"))
	require.NoError(t, err)
	assert.Equal(t, "inlet", l.Label())

	require.NoError(t, l.Construct(k))
	require.NoError(t, k.Synchronize())
	require.NoError(t, l.Refine(k))
	require.NoError(t, l.Refine(k))

	assert.Equal(t, 1, countOps(k.Trace(), kernel.OpSetTransfiniteCurve), "constraint applied once")
}
