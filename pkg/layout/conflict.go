package layout

// ConflictsOnTarget reports whether another behavior on b's target claims
// any of flags.
func ConflictsOnTarget(b Behavior, flags OperationFlags) bool {
	t := b.Target()
	if t == nil {
		return false
	}
	for _, o := range t.behaviors {
		if o != b && o.OperationTargetFlags()&flags != 0 {
			return true
		}
	}
	return false
}

// ConflictsOnParent reports whether a behavior on the parent of b's target
// claims any of flags. Callers pass Child* flags: those are the writes a
// parent behavior makes into its children.
func ConflictsOnParent(b Behavior, flags OperationFlags) bool {
	t := b.Target()
	if t == nil || t.parent == nil {
		return false
	}
	for _, o := range t.parent.behaviors {
		if o.OperationTargetFlags()&flags != 0 {
			return true
		}
	}
	return false
}

// IsFirst reports whether b runs before every other behavior on its target.
func IsFirst(b Behavior) bool {
	t := b.Target()
	return t != nil && len(t.behaviors) > 0 && t.behaviors[0] == b
}

// resetPlanar zeroes the X and Y size and offset of an orphaned node,
// keeping Z.
func resetPlanar(n *Node) {
	size, off := n.LocalSize(), n.Offset()
	size.X, size.Y = 0, 0
	off.X, off.Y = 0, 0
	n.UpdateLocalSize(size, off)
}
