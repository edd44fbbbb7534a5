package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolyline_BuildsClosedChain(t *testing.T) {
	coords := []Coord{XY(0, 0), XY(1, 0), XY(1, 1), XY(0, 1)}
	points, curves, err := Polyline(coords, 0.1, nil)
	require.NoError(t, err)
	require.Len(t, points, 4)
	require.Len(t, curves, 4)

	for i, c := range curves {
		assert.Same(t, points[i], c.Start())
		assert.Same(t, points[(i+1)%len(points)], c.End())
	}

	// Shared endpoints mean the result feeds NewCurveLoop directly.
	_, err = NewCurveLoop(curves...)
	assert.NoError(t, err)
}

func TestPolyline_SegmentsCustomizeEdges(t *testing.T) {
	coords := []Coord{XY(0, 0), XY(1, 0), XY(0, 1)}
	segments := []Segment{
		{Label: "wall", Cells: 8, Grading: GradingBump, Coeff: 0.25},
		{Label: "outlet"},
		{},
	}
	_, curves, err := Polyline(coords, 0.1, segments)
	require.NoError(t, err)

	tl, ok := curves[0].(*TransfiniteLine)
	require.True(t, ok)
	assert.Equal(t, "wall", tl.Label())
	assert.Equal(t, 8, tl.CellCount())
	grading, coeff := tl.Grading()
	assert.Equal(t, GradingBump, grading)
	assert.Equal(t, 0.25, coeff)

	_, ok = curves[1].(*TransfiniteLine)
	assert.False(t, ok, "Cells 0 leaves the edge a plain line")
	assert.Equal(t, "outlet", curves[1].Label())
	assert.Empty(t, curves[2].Label())
}

func TestPolyline_Validation(t *testing.T) {
	coords := []Coord{XY(0, 0), XY(1, 0), XY(0, 1)}

	_, _, err := Polyline(coords[:2], 0.1, nil)
	require.Error(t, err)
	assert.True(t, IsStructural(err))

	_, _, err = Polyline(coords, 0.1, make([]Segment, 2))
	require.Error(t, err)
	assert.True(t, IsStructural(err))

	_, _, err = Polyline(coords, 0.1, []Segment{{Cells: -1}, {}, {}})
	assert.NoError(t, err, "negative cells means free meshing, not an error")
}
