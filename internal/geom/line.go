package geom

import "github.com/tessellate-dev/planemesh/internal/kernel"

// GradingType selects the node distribution discipline of a transfinite
// curve. The names are the ones the kernel understands.
type GradingType string

const (
	GradingProgression GradingType = "Progression"
	GradingBump        GradingType = "Bump"
	GradingBeta        GradingType = "Beta"
)

// Curve is a one-dimensional entity between two shared Points. Line and
// TransfiniteLine implement it.
type Curve interface {
	Entity

	Start() *Point
	End() *Point

	// Label returns the physical-group label, or "" for unlabeled curves.
	// Curves sharing a label within a loop are aggregated into one named
	// group during refinement.
	Label() string
}

// LineOption configures a line at creation.
type LineOption func(*Line)

// WithLabel sets the curve's physical-group label.
func WithLabel(label string) LineOption {
	return func(l *Line) {
		l.label = label
	}
}

// Line is a directed curve between two endpoint references. It owns no
// geometry beyond those references; endpoints are shared, not owned.
type Line struct {
	transaction

	start *Point
	end   *Point
	label string
}

// NewLine creates a directed line from start to end.
func NewLine(start, end *Point, opts ...LineOption) *Line {
	l := &Line{start: start, end: end}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Line) Start() *Point { return l.start }
func (l *Line) End() *Point   { return l.end }
func (l *Line) Label() string { return l.label }

// Construct ensures both endpoints are constructed, then creates the curve
// primitive between their tags. Idempotent.
func (l *Line) Construct(k kernel.Kernel) error {
	if l.constructed() {
		return nil
	}
	if err := l.start.Construct(k); err != nil {
		return err
	}
	if err := l.end.Construct(k); err != nil {
		return err
	}
	startTag, _ := l.start.Tag()
	endTag, _ := l.end.Tag()
	tag, err := k.AddLine(startTag, endTag)
	if err != nil {
		return err
	}
	l.finishConstruct(tag)
	return nil
}

// Refine is a state transition only. Label aggregation for plain lines
// happens at the owning loop, which reads Label() and the stored tag.
func (l *Line) Refine(k kernel.Kernel) error {
	done, err := l.beginRefine("line")
	if done || err != nil {
		return err
	}
	l.finishRefine()
	return nil
}

// TransfiniteLine is a Line with a fixed-subdivision constraint: the curve
// is meshed into exactly CellCount cells with the given grading.
type TransfiniteLine struct {
	Line

	cells   int
	grading GradingType
	coeff   float64
}

// NewTransfiniteLine creates a directed line meshed into cells fixed
// subdivisions. cells must be >= 1. A zero-valued grading defaults to
// Progression with coefficient 1.
func NewTransfiniteLine(start, end *Point, cells int, grading GradingType, coeff float64, opts ...LineOption) (*TransfiniteLine, error) {
	if cells < 1 {
		return nil, structural("transfinite line", "cell count must be >= 1, got %d", cells)
	}
	if grading == "" {
		grading = GradingProgression
	}
	if coeff == 0 {
		coeff = 1.0
	}
	l := &TransfiniteLine{
		Line:    Line{start: start, end: end},
		cells:   cells,
		grading: grading,
		coeff:   coeff,
	}
	for _, opt := range opts {
		opt(&l.Line)
	}
	return l, nil
}

// CellCount returns the fixed number of mesh cells along the curve.
func (l *TransfiniteLine) CellCount() int { return l.cells }

// Grading returns the node distribution discipline and its coefficient.
func (l *TransfiniteLine) Grading() (GradingType, float64) { return l.grading, l.coeff }

// Refine applies the subdivision constraint. CellCount cells means
// CellCount+1 mesh nodes along the curve.
func (l *TransfiniteLine) Refine(k kernel.Kernel) error {
	done, err := l.beginRefine("transfinite line")
	if done || err != nil {
		return err
	}
	if err := k.SetTransfiniteCurve(l.tag, l.cells+1, string(l.grading), l.coeff); err != nil {
		return err
	}
	l.finishRefine()
	return nil
}
