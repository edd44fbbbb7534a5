package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessellate-dev/planemesh/internal/geom"
)

const channelModel = `
model: {
	name: "channel"
	points: {
		p0: {x: 0, y: 0, meshSize: 0.1}
		p1: {x: 1, y: 0, meshSize: 0.1}
		p2: {x: 1, y: 1, meshSize: 0.1}
		p3: {x: 0, y: 1, meshSize: 0.1}
	}
	lines: {
		bottom: {from: "p0", to: "p1", label: "wall", transfinite: {cells: 10}}
		right: {from: "p1", to: "p2"}
		top: {from: "p2", to: "p3", label: "wall"}
		left: {from: "p3", to: "p0"}
	}
	loops: outer: {lines: ["bottom", "right", "top", "left"]}
	surfaces: domain: {
		loop:      "outer"
		label:     "fluid"
		recombine: true
		corners: ["p0", "p1", "p2", "p3"]
	}
}
`

func TestCompile_ChannelModel(t *testing.T) {
	m, err := LoadSource("channel.cue", channelModel)
	require.NoError(t, err)

	assert.Equal(t, "channel", m.Name)
	assert.Len(t, m.Points, 4)
	assert.Len(t, m.Curves, 4)
	assert.Len(t, m.Loops, 1)
	assert.Len(t, m.Surfaces, 1)

	// Everything hangs off the surface, so it is the sole root.
	require.Len(t, m.Roots, 1)
	surface, ok := m.Roots[0].(*geom.TransfiniteSurface)
	require.True(t, ok)
	assert.Equal(t, "fluid", surface.Label())
	assert.True(t, surface.Recombine())

	// The loop references the shared curve objects in declaration order.
	loop := m.Loops["outer"]
	require.NotNil(t, loop)
	assert.Same(t, m.Curves["bottom"], loop.Curves()[0])

	tl, ok := m.Curves["bottom"].(*geom.TransfiniteLine)
	require.True(t, ok)
	assert.Equal(t, 10, tl.CellCount())
	assert.Equal(t, "wall", tl.Label())

	grading, coeff := tl.Grading()
	assert.Equal(t, geom.GradingProgression, grading, "schema default")
	assert.Equal(t, 1.0, coeff, "schema default")

	_, ok = m.Curves["right"].(*geom.TransfiniteLine)
	assert.False(t, ok, "lines without a transfinite block mesh freely")
}

func TestCompile_SharedEndpoints(t *testing.T) {
	m, err := LoadSource("channel.cue", channelModel)
	require.NoError(t, err)

	bottom := m.Curves["bottom"]
	right := m.Curves["right"]
	assert.Same(t, bottom.End(), right.Start(), "named points resolve to one object")
	assert.Same(t, m.Points["p1"], bottom.End())
}

func TestCompile_UnknownReferences(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		field string
	}{
		{
			name: "line endpoint",
			src: `model: {
				name: "m"
				points: p0: {x: 0, y: 0, meshSize: 0.1}
				lines: l0: {from: "p0", to: "ghost"}
			}`,
			field: "lines.l0",
		},
		{
			name: "loop line",
			src: `model: {
				name: "m"
				loops: outer: {lines: ["ghost"]}
			}`,
			field: "loops.outer",
		},
		{
			name: "surface loop",
			src: `model: {
				name: "m"
				surfaces: s: {loop: "ghost"}
			}`,
			field: "surfaces.s",
		},
		{
			name: "corner point",
			src: `model: {
				name: "m"
				points: {
					p0: {x: 0, y: 0, meshSize: 0.1}
					p1: {x: 1, y: 0, meshSize: 0.1}
					p2: {x: 1, y: 1, meshSize: 0.1}
				}
				lines: {
					a: {from: "p0", to: "p1"}
					b: {from: "p1", to: "p2"}
					c: {from: "p2", to: "p0"}
				}
				loops: outer: {lines: ["a", "b", "c"]}
				surfaces: s: {loop: "outer", corners: ["p0", "p1", "ghost"]}
			}`,
			field: "surfaces.s",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadSource("bad.cue", tc.src)
			require.Error(t, err)
			var cerr *CompileError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tc.field, cerr.Field)
			assert.Contains(t, cerr.Message, "ghost")
		})
	}
}

func TestCompile_OpenLoopFailsEagerly(t *testing.T) {
	src := `model: {
		name: "m"
		points: {
			p0: {x: 0, y: 0, meshSize: 0.1}
			p1: {x: 1, y: 0, meshSize: 0.1}
			p2: {x: 1, y: 1, meshSize: 0.1}
			p3: {x: 0, y: 1, meshSize: 0.1}
		}
		lines: {
			a: {from: "p0", to: "p1"}
			b: {from: "p2", to: "p3"}
		}
		loops: outer: {lines: ["a", "b"]}
	}`
	_, err := LoadSource("open.cue", src)
	require.Error(t, err)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "loops.outer", cerr.Field)
	assert.Contains(t, cerr.Message, "chain must close")
}

func TestCompile_SchemaViolations(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"missing name", `model: {points: p0: {x: 0, y: 0, meshSize: 0.1}}`},
		{"empty name", `model: name: ""`},
		{"zero mesh size", `model: {name: "m", points: p0: {x: 0, y: 0, meshSize: 0}}`},
		{"bad grading", `model: {
			name: "m"
			points: {
				p0: {x: 0, y: 0, meshSize: 0.1}
				p1: {x: 1, y: 0, meshSize: 0.1}
			}
			lines: l: {from: "p0", to: "p1", transfinite: {cells: 4, grading: "Linear"}}
		}`},
		{"zero cells", `model: {
			name: "m"
			points: {
				p0: {x: 0, y: 0, meshSize: 0.1}
				p1: {x: 1, y: 0, meshSize: 0.1}
			}
			lines: l: {from: "p0", to: "p1", transfinite: {cells: 0}}
		}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadSource("bad.cue", tc.src)
			assert.Error(t, err)
		})
	}
}

func TestCompile_StandaloneEntitiesBecomeRoots(t *testing.T) {
	src := `model: {
		name: "probe-layout"
		points: {
			p0: {x: 0, y: 0, meshSize: 0.1}
			p1: {x: 1, y: 0, meshSize: 0.1}
			probe: {x: 0.5, y: 2, meshSize: 0.05}
		}
		lines: axis: {from: "p0", to: "p1"}
	}`
	m, err := LoadSource("probe.cue", src)
	require.NoError(t, err)

	// The free line comes first, then the point no line touches; p0 and
	// p1 are reached through the line.
	require.Len(t, m.Roots, 2)
	assert.Same(t, m.Curves["axis"], m.Roots[0])
	assert.Same(t, m.Points["probe"], m.Roots[1])
}

func TestCompile_BoundaryLayerAttaches(t *testing.T) {
	src := `model: {
		name: "bl"
		points: {
			p0: {x: 0, y: 0, meshSize: 0.1}
			p1: {x: 1, y: 0, meshSize: 0.1}
			p2: {x: 1, y: 1, meshSize: 0.1}
		}
		lines: {
			a: {from: "p0", to: "p1"}
			b: {from: "p1", to: "p2"}
			c: {from: "p2", to: "p0"}
		}
		loops: outer: {
			lines: ["a", "b", "c"]
			boundaryLayer: {wallNormalSize: 0.001, growthRatio: 1.2, quads: true}
		}
		surfaces: s: {loop: "outer"}
	}`
	m, err := LoadSource("bl.cue", src)
	require.NoError(t, err)
	require.Len(t, m.Roots, 1)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.cue"), []byte(channelModel), 0o644))

	m, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "channel", m.Name)
}

func TestLoadDir_Errors(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "not found")

	empty := t.TempDir()
	_, err = LoadDir(empty)
	require.Error(t, err)
	assert.ErrorContains(t, err, "no CUE files")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.cue")
	require.NoError(t, os.WriteFile(path, []byte(channelModel), 0o644))

	m, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "channel", m.Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.cue"))
	assert.Error(t, err)
}
