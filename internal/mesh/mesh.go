// Package mesh holds the application-level mesh value handed back to
// callers after generation, and the importer boundary that produces it.
//
// The kernel's own mesh representation stays behind the importer: the rest
// of the codebase only ever sees these types.
package mesh

// Node is one mesh vertex.
type Node struct {
	Tag int     `json:"tag"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Z   float64 `json:"z"`
}

// Element is one mesh cell, referencing its nodes by tag.
type Element struct {
	Tag   int    `json:"tag"`
	Type  string `json:"type"` // "line", "triangle", "quad"
	Nodes []int  `json:"nodes"`
}

// PhysicalGroup is a named collection of same-dimension entities carried
// through from the geometry for downstream boundary/region tagging.
type PhysicalGroup struct {
	Dim      int    `json:"dim"`
	Tag      int    `json:"tag"`
	Name     string `json:"name"`
	Entities []int  `json:"entities"`
}

// Mesh is the generated discretization of one model.
type Mesh struct {
	Nodes    []Node          `json:"nodes"`
	Elements []Element       `json:"elements"`
	Groups   []PhysicalGroup `json:"groups"`
}

// Importer translates the kernel's post-generation model state into a
// Mesh. Implementations wrap a concrete engine binding; the builder only
// invokes Import after mesh generation has succeeded.
type Importer interface {
	Import() (*Mesh, error)
}

// ImporterFunc adapts a plain function to the Importer interface.
type ImporterFunc func() (*Mesh, error)

// Import implements Importer.
func (f ImporterFunc) Import() (*Mesh, error) { return f() }
