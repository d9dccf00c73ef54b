package layout

import "math"

// FollowParent makes its target geometrically transparent: it spans the
// whole parent layout area with no offset.
//
// Its priority is pinned to math.MaxInt so it runs before every other
// behavior on the node, and it only validates while it is first.
type FollowParent struct {
	BehaviorBase
}

// NewFollowParent returns a FollowParent behavior.
func NewFollowParent() *FollowParent {
	f := &FollowParent{}
	f.priority = math.MaxInt
	f.bind(f)
	return f
}

// Kind returns "follow_parent".
func (f *FollowParent) Kind() string { return "follow_parent" }

// SetOperationPriority is ignored; the priority stays math.MaxInt.
func (f *FollowParent) SetOperationPriority(int) {}

// OperationTargetFlags reports that FollowParent writes all of its target's
// geometry.
func (f *FollowParent) OperationTargetFlags() OperationFlags { return SelfGeometry }

// Validate succeeds when the target has a parent and f is first in the
// target's behavior list.
func (f *FollowParent) Validate() bool {
	t := f.Target()
	return t != nil && t.Parent() != nil && IsFirst(f)
}

// UpdateLayout copies the parent's layout size onto the target if dirty.
func (f *FollowParent) UpdateLayout() {
	if !f.IsDirty() {
		return
	}
	defer f.ClearDirty()

	t := f.Target()
	if t == nil {
		return
	}
	if !f.Validate() {
		if t.Parent() == nil {
			resetPlanar(t)
		}
		return
	}
	t.FollowParent()
}
