package geom

import "github.com/tessellate-dev/planemesh/internal/kernel"

// Phase is an entity's position in the two-phase transaction lifecycle.
// Transitions are monotonic: Unsynced -> ConstructionDone -> RefinementDone.
type Phase int

const (
	// Unsynced means no kernel call has been made for this entity.
	Unsynced Phase = iota

	// ConstructionDone means the entity's creation call has been issued
	// and its tag is stored, but refinement has not run.
	ConstructionDone

	// RefinementDone means both phases have completed.
	RefinementDone
)

func (p Phase) String() string {
	switch p {
	case Unsynced:
		return "unsynced"
	case ConstructionDone:
		return "construction-done"
	case RefinementDone:
		return "refinement-done"
	default:
		return "invalid"
	}
}

// Entity is any geometric object participating in the two-phase protocol.
//
// Construct performs phase-1 work: it recursively constructs structural
// dependencies, then issues exactly one kernel creation call for itself.
// Refine performs phase-2 work and may rely on its own and its
// dependencies' tags being stable. Both are idempotent; Refine before
// Construct fails with a LifecycleError.
type Entity interface {
	Construct(k kernel.Kernel) error
	Refine(k kernel.Kernel) error
	Phase() Phase
	Tag() (int, bool)
}

// transaction carries the lifecycle state and kernel tag every entity
// embeds. The guard methods centralize the idempotence and ordering rules
// so entity code only contains its kernel actions.
type transaction struct {
	phase  Phase
	tag    int
	tagged bool
}

// Phase returns the entity's current lifecycle state.
func (t *transaction) Phase() Phase { return t.phase }

// Tag returns the kernel-assigned tag and whether one has been stored.
// Construction-phase tags are stable after Construct; refinement-phase
// tags (mesh fields) only after Refine.
func (t *transaction) Tag() (int, bool) { return t.tag, t.tagged }

// constructed reports whether phase 1 already ran; callers return nil
// immediately when it did.
func (t *transaction) constructed() bool { return t.phase >= ConstructionDone }

// finishConstruct stores the creation tag and advances to ConstructionDone.
func (t *transaction) finishConstruct(tag int) {
	t.tag = tag
	t.tagged = true
	t.phase = ConstructionDone
}

// markConstructed advances to ConstructionDone without a tag. Used by
// fields, which have no construction-phase kernel call.
func (t *transaction) markConstructed() {
	t.phase = ConstructionDone
}

// beginRefine checks the phase-2 entry conditions. done is true when
// refinement already ran (no-op); err is a LifecycleError when Construct
// never ran.
func (t *transaction) beginRefine(entity string) (done bool, err error) {
	switch t.phase {
	case RefinementDone:
		return true, nil
	case Unsynced:
		return false, &LifecycleError{Entity: entity, Phase: t.phase, Op: "refine"}
	default:
		return false, nil
	}
}

// finishRefine advances to RefinementDone.
func (t *transaction) finishRefine() {
	t.phase = RefinementDone
}

// setTag stores a refinement-phase tag (field tags).
func (t *transaction) setTag(tag int) {
	t.tag = tag
	t.tagged = true
}
