package layout

import (
	"slices"
	"strings"

	"github.com/matzehuels/boxlayout/pkg/signal"
)

// OperationFlags describe which aspects of which node a behavior writes.
// They drive conflict detection; nothing enforces them at write time.
type OperationFlags uint32

const (
	SelfLocalSize OperationFlags = 1 << iota
	SelfOffset
	SelfAnchor
	ParentLocalSize
	ParentOffset
	ChildLocalSize
	ChildOffset

	// SelfGeometry is every aspect of the behavior's own target.
	SelfGeometry = SelfLocalSize | SelfOffset | SelfAnchor
)

var flagNames = []struct {
	flag OperationFlags
	name string
}{
	{SelfLocalSize, "self-size"},
	{SelfOffset, "self-offset"},
	{SelfAnchor, "self-anchor"},
	{ParentLocalSize, "parent-size"},
	{ParentOffset, "parent-offset"},
	{ChildLocalSize, "child-size"},
	{ChildOffset, "child-offset"},
}

// String lists the set flags separated by "|", or "none".
func (f OperationFlags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Behavior is a pluggable unit of geometry computation attached to a node.
//
// Implementations embed [BehaviorBase], which provides the target, priority,
// dirty flag and lifecycle wiring. UpdateLayout must do nothing unless the
// behavior is dirty and must leave it clean, whether or not Validate passed.
type Behavior interface {
	// OperationTargetFlags reports what the behavior writes.
	OperationTargetFlags() OperationFlags
	// OperationPriority orders behaviors on a node, highest first.
	OperationPriority() int
	// Validate reports whether the behavior may run now.
	Validate() bool
	// UpdateLayout recomputes the target's geometry if dirty.
	UpdateLayout()

	Target() *Node
	IsDirty() bool
	MarkDirty()
	Dispose()

	base() *BehaviorBase
}

// Kinded is implemented by behaviors that report a stable kind name for
// scenes and snapshots.
type Kinded interface {
	Kind() string
}

// KindOf returns b's kind name, falling back to "custom".
func KindOf(b Behavior) string {
	if k, ok := b.(Kinded); ok {
		return k.Kind()
	}
	return "custom"
}

// BehaviorBase carries the state shared by all behaviors. Embed it by value.
type BehaviorBase struct {
	self     Behavior
	target   *Node
	priority int
	dirty    bool
	disposed bool

	unsubs        []func()
	unwatchParent func()
	nodeTokens    [2]signal.Token

	disposedSig     signal.Signal[Behavior]
	priorityChanged signal.Signal[signal.Change[int]]
}

func (b *BehaviorBase) base() *BehaviorBase { return b }

// bind records the concrete behavior that embeds b.
func (b *BehaviorBase) bind(self Behavior) { b.self = self }

// Target returns the node the behavior is attached to, or nil.
func (b *BehaviorBase) Target() *Node { return b.target }

// OperationPriority returns the current priority.
func (b *BehaviorBase) OperationPriority() int { return b.priority }

// SetOperationPriority changes the priority. The owning node re-sorts its
// behavior list in response.
func (b *BehaviorBase) SetOperationPriority(p int) {
	if p == b.priority {
		return
	}
	prev := b.priority
	b.priority = p
	b.priorityChanged.Emit(signal.Change[int]{Current: p, Previous: prev})
}

// IsDirty reports whether the behavior needs to run.
func (b *BehaviorBase) IsDirty() bool { return b.dirty }

// MarkDirty schedules the behavior for the next UpdateLayout.
func (b *BehaviorBase) MarkDirty() { b.dirty = true }

// ClearDirty marks the behavior as up to date.
func (b *BehaviorBase) ClearDirty() { b.dirty = false }

// IsDisposed reports whether Dispose has been called.
func (b *BehaviorBase) IsDisposed() bool { return b.disposed }

// OnDisposed fires once when the behavior is disposed.
func (b *BehaviorBase) OnDisposed() *signal.Signal[Behavior] { return &b.disposedSig }

// OnPriorityChanged fires when SetOperationPriority changes the priority.
func (b *BehaviorBase) OnPriorityChanged() *signal.Signal[signal.Change[int]] {
	return &b.priorityChanged
}

// Dispose detaches the behavior from its target and clears its signals.
func (b *BehaviorBase) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	b.disposedSig.Emit(b.self)
	if b.target != nil {
		b.target.RemoveBehavior(b.self)
	}
	b.disposedSig.Reset()
	b.priorityChanged.Reset()
}

func connect[T any](s *signal.Signal[T], fn func(T)) func() {
	tok := s.Connect(fn)
	return func() { s.Disconnect(tok) }
}

// attach subscribes to every target signal that can stale the behavior's
// output, plus the layout size of the target's current parent.
func (b *BehaviorBase) attach(n *Node) {
	b.target = n
	b.unsubs = []func(){
		connect(n.OnDisposed(), func(*Node) { b.MarkDirty() }),
		connect(n.OnParentChanged(), func(c ParentChange) {
			b.watchParent(c.Current)
			b.MarkDirty()
		}),
		connect(n.OnLocalSizeChanged(), func(Vec3Change) { b.MarkDirty() }),
		connect(n.OnOffsetChanged(), func(Vec3Change) { b.MarkDirty() }),
		connect(n.OnAnchorChanged(), func(AnchorChange) { b.MarkDirty() }),
		connect(n.OnLayoutInfoChanged(), func(InfoChange) { b.MarkDirty() }),
	}
	b.watchParent(n.Parent())
	b.dirty = true
}

func (b *BehaviorBase) watchParent(p *Node) {
	if b.unwatchParent != nil {
		b.unwatchParent()
		b.unwatchParent = nil
	}
	if p != nil {
		b.unwatchParent = connect(p.OnLayoutSizeChanged(), func(Vec3Change) { b.MarkDirty() })
	}
}

func (b *BehaviorBase) detach() {
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
	b.watchParent(nil)
	b.target = nil
}

// AddBehavior attaches b to n, moving it from its previous target if any.
// The list stays sorted by descending priority; ties keep insertion order.
func (n *Node) AddBehavior(b Behavior) {
	base := b.base()
	if base.target == n || base.disposed {
		return
	}
	if base.target != nil {
		base.target.RemoveBehavior(b)
	}
	base.bind(b)
	n.insertBehavior(b)
	base.nodeTokens = [2]signal.Token{
		base.disposedSig.Connect(func(Behavior) { n.RemoveBehavior(b) }),
		base.priorityChanged.Connect(func(signal.Change[int]) { n.resortBehavior(b) }),
	}
	base.attach(n)
}

// RemoveBehavior detaches b from n. It reports whether b was attached.
func (n *Node) RemoveBehavior(b Behavior) bool {
	i := slices.Index(n.behaviors, b)
	if i < 0 {
		return false
	}
	n.behaviors = slices.Delete(n.behaviors, i, i+1)
	base := b.base()
	base.disposedSig.Disconnect(base.nodeTokens[0])
	base.priorityChanged.Disconnect(base.nodeTokens[1])
	base.nodeTokens = [2]signal.Token{}
	base.detach()
	return true
}

// Behaviors returns the attached behaviors in execution order.
func (n *Node) Behaviors() []Behavior { return slices.Clone(n.behaviors) }

// UpdateBehaviors runs UpdateLayout on every attached behavior in order.
func (n *Node) UpdateBehaviors() {
	for _, b := range n.Behaviors() {
		if b.Target() == n {
			b.UpdateLayout()
		}
	}
}

func (n *Node) insertBehavior(b Behavior) {
	p := b.OperationPriority()
	i := slices.IndexFunc(n.behaviors, func(o Behavior) bool { return o.OperationPriority() < p })
	if i < 0 {
		i = len(n.behaviors)
	}
	n.behaviors = slices.Insert(n.behaviors, i, b)
}

func (n *Node) resortBehavior(b Behavior) {
	if i := slices.Index(n.behaviors, b); i >= 0 {
		n.behaviors = slices.Delete(n.behaviors, i, i+1)
		n.insertBehavior(b)
	}
}
