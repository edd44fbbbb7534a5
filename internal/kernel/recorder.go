package kernel

// Recorder decorates a Kernel, journaling every call as an Op while
// delegating to the wrapped implementation.
//
// The recorded trace is the authoritative account of what a build asked the
// engine to do: golden tests compare it, the plan command prints it, and
// the journal persists it. Failed calls are recorded too, so a trace always
// shows the last op attempted before an error surfaced.
type Recorder struct {
	inner Kernel
	clock clock
	ops   []Op
}

// NewRecorder wraps a kernel with op recording.
func NewRecorder(inner Kernel) *Recorder {
	return &Recorder{inner: inner}
}

// Trace returns a copy of the recorded ops in invocation order.
func (r *Recorder) Trace() []Op {
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Reset discards recorded ops. The seq counter keeps advancing so ops from
// before and after a Reset never share sequence numbers.
func (r *Recorder) Reset() {
	r.ops = nil
}

func (r *Recorder) record(name string, args map[string]any, tag int) {
	r.ops = append(r.ops, Op{Seq: r.clock.next(), Name: name, Args: args, Tag: tag})
}

func (r *Recorder) Initialize() error {
	err := r.inner.Initialize()
	r.record(OpInitialize, nil, 0)
	return err
}

func (r *Recorder) Finalize() error {
	err := r.inner.Finalize()
	r.record(OpFinalize, nil, 0)
	return err
}

func (r *Recorder) AddPoint(x, y, z, meshSize float64) (int, error) {
	tag, err := r.inner.AddPoint(x, y, z, meshSize)
	r.record(OpAddPoint, map[string]any{"x": x, "y": y, "z": z, "size": meshSize}, tag)
	return tag, err
}

func (r *Recorder) AddLine(startTag, endTag int) (int, error) {
	tag, err := r.inner.AddLine(startTag, endTag)
	r.record(OpAddLine, map[string]any{"start": startTag, "end": endTag}, tag)
	return tag, err
}

func (r *Recorder) AddCurveLoop(curveTags []int) (int, error) {
	tag, err := r.inner.AddCurveLoop(curveTags)
	r.record(OpAddCurveLoop, map[string]any{"curves": intsCopy(curveTags)}, tag)
	return tag, err
}

func (r *Recorder) AddPlaneSurface(loopTags []int) (int, error) {
	tag, err := r.inner.AddPlaneSurface(loopTags)
	r.record(OpAddPlaneSurface, map[string]any{"loops": intsCopy(loopTags)}, tag)
	return tag, err
}

func (r *Recorder) Synchronize() error {
	err := r.inner.Synchronize()
	r.record(OpSynchronize, nil, 0)
	return err
}

func (r *Recorder) SetTransfiniteCurve(curveTag, nodeCount int, grading string, coeff float64) error {
	err := r.inner.SetTransfiniteCurve(curveTag, nodeCount, grading, coeff)
	r.record(OpSetTransfiniteCurve, map[string]any{
		"curve": curveTag, "nodes": nodeCount, "grading": grading, "coeff": coeff,
	}, 0)
	return err
}

func (r *Recorder) SetTransfiniteSurface(surfaceTag int, cornerTags []int) error {
	err := r.inner.SetTransfiniteSurface(surfaceTag, cornerTags)
	r.record(OpSetTransfiniteSurface, map[string]any{
		"surface": surfaceTag, "corners": intsCopy(cornerTags),
	}, 0)
	return err
}

func (r *Recorder) SetRecombine(dim, tag int) error {
	err := r.inner.SetRecombine(dim, tag)
	r.record(OpSetRecombine, map[string]any{"dim": dim, "entity": tag}, 0)
	return err
}

func (r *Recorder) AddPhysicalGroup(dim int, tags []int) (int, error) {
	tag, err := r.inner.AddPhysicalGroup(dim, tags)
	r.record(OpAddPhysicalGroup, map[string]any{"dim": dim, "members": intsCopy(tags)}, tag)
	return tag, err
}

func (r *Recorder) SetPhysicalName(dim, groupTag int, name string) error {
	err := r.inner.SetPhysicalName(dim, groupTag, name)
	r.record(OpSetPhysicalName, map[string]any{"dim": dim, "group": groupTag, "name": name}, 0)
	return err
}

func (r *Recorder) AddField(kind string) (int, error) {
	tag, err := r.inner.AddField(kind)
	r.record(OpAddField, map[string]any{"kind": kind}, tag)
	return tag, err
}

func (r *Recorder) SetFieldNumber(fieldTag int, key string, value float64) error {
	err := r.inner.SetFieldNumber(fieldTag, key, value)
	r.record(OpSetFieldNumber, map[string]any{"field": fieldTag, "key": key, "value": value}, 0)
	return err
}

func (r *Recorder) SetFieldNumbers(fieldTag int, key string, values []float64) error {
	err := r.inner.SetFieldNumbers(fieldTag, key, values)
	r.record(OpSetFieldNumbers, map[string]any{
		"field": fieldTag, "key": key, "values": floatsCopy(values),
	}, 0)
	return err
}

func (r *Recorder) SetFieldAsBoundaryLayer(fieldTag int) error {
	err := r.inner.SetFieldAsBoundaryLayer(fieldTag)
	r.record(OpSetFieldAsBLayer, map[string]any{"field": fieldTag}, 0)
	return err
}

func (r *Recorder) GenerateMesh() error {
	err := r.inner.GenerateMesh()
	r.record(OpGenerateMesh, nil, 0)
	return err
}

func (r *Recorder) Write(path string) error {
	err := r.inner.Write(path)
	r.record(OpWrite, map[string]any{"path": path}, 0)
	return err
}

// intsCopy snapshots a tag slice so later mutation by the caller cannot
// rewrite the recorded trace.
func intsCopy(in []int) []int {
	out := make([]int, len(in))
	copy(out, in)
	return out
}

func floatsCopy(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
