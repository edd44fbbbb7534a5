package geom

// Segment describes one edge of a polyline. The zero value is a plain
// unlabeled line with free meshing.
type Segment struct {
	// Label is the physical-group label for the segment's curve.
	Label string

	// Cells, when >= 1, makes the segment a transfinite line with that
	// many fixed subdivisions. Zero leaves meshing free.
	Cells int

	// Grading and Coeff select the transfinite node distribution.
	// Ignored unless Cells >= 1; zero values default to Progression / 1.
	Grading GradingType
	Coeff   float64
}

// Polyline builds a closed chain of points and curves from coordinates:
// one point per coordinate, one curve per consecutive pair, and a closing
// curve from the last coordinate back to the first. All points share one
// mesh size; endpoint references are shared between adjacent curves, so
// the result feeds NewCurveLoop directly.
//
// segments customizes individual edges and may be nil (all edges plain).
// When provided it must have exactly one entry per coordinate.
func Polyline(coords []Coord, meshSize float64, segments []Segment) ([]*Point, []Curve, error) {
	if len(coords) < 3 {
		return nil, nil, structural("polyline", "a closed chain needs at least 3 coordinates, got %d", len(coords))
	}
	if segments != nil && len(segments) != len(coords) {
		return nil, nil, structural("polyline", "got %d segments for %d coordinates", len(segments), len(coords))
	}

	points := make([]*Point, len(coords))
	for i, c := range coords {
		points[i] = NewPoint(c, meshSize)
	}

	curves := make([]Curve, len(coords))
	for i := range coords {
		start := points[i]
		end := points[(i+1)%len(points)]

		var seg Segment
		if segments != nil {
			seg = segments[i]
		}

		var opts []LineOption
		if seg.Label != "" {
			opts = append(opts, WithLabel(seg.Label))
		}

		if seg.Cells >= 1 {
			line, err := NewTransfiniteLine(start, end, seg.Cells, seg.Grading, seg.Coeff, opts...)
			if err != nil {
				return nil, nil, err
			}
			curves[i] = line
		} else {
			curves[i] = NewLine(start, end, opts...)
		}
	}

	return points, curves, nil
}
