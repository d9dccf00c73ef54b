package scene

import (
	"github.com/matzehuels/boxlayout/pkg/errors"
	"github.com/matzehuels/boxlayout/pkg/geom"
	"github.com/matzehuels/boxlayout/pkg/layout"
	"github.com/matzehuels/boxlayout/pkg/transform"
)

// Tree is a scene built into layout nodes, each bound to an in-memory
// transform. It is not safe for concurrent use.
type Tree struct {
	Name string
	Root *transform.Adapter

	adapters []*transform.Adapter // parents before children
	byID     map[string]*transform.Adapter
}

type prioritySetter interface {
	SetOperationPriority(int)
}

// Build creates the layout tree described by s. Nodes without ids get one
// first, and the scene is validated before anything is built.
func (s *Scene) Build() (*Tree, error) {
	s.AssignIDs()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	t := &Tree{Name: s.Name, byID: make(map[string]*transform.Adapter)}
	root, err := t.add(&s.Root, nil)
	if err != nil {
		t.Dispose()
		return nil, err
	}
	t.Root = root
	return t, nil
}

func (t *Tree) add(spec *NodeSpec, parent *layout.Node) (*transform.Adapter, error) {
	n := layout.NewNode(spec.ID)
	n.SetLayoutInfo(layoutInfo(spec))
	if parent != nil {
		if err := n.SetParent(parent); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "attach %q", spec.ID)
		}
	}

	for _, bs := range spec.Behaviors {
		factory, _ := Lookup(bs.Kind)
		b := factory(bs)
		if bs.Priority != 0 {
			if p, ok := b.(prioritySetter); ok {
				p.SetOperationPriority(bs.Priority)
			}
		}
		n.AddBehavior(b)
	}

	a := transform.New(n, rectOf(spec))
	t.adapters = append(t.adapters, a)
	t.byID[spec.ID] = a

	for i := range spec.Children {
		if _, err := t.add(&spec.Children[i], n); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func layoutInfo(spec *NodeSpec) layout.LayoutInfo {
	info := layout.DefaultLayoutInfo()
	if spec.MinSize != nil {
		info.MinSize = spec.MinSize.Vec3()
	}
	if spec.MaxSize != nil {
		info.MaxSize = spec.MaxSize.Vec3()
	}
	if spec.LayoutSize != nil {
		info.LayoutSize = spec.LayoutSize.Vec3()
	}
	return info
}

func rectOf(spec *NodeSpec) *transform.Rect {
	r := &transform.Rect{Pivot: transform.DefaultPivot}
	set := func(dst *geom.Vec3, v *Vec) {
		if v != nil {
			*dst = v.Vec3()
		}
	}
	set(&r.AnchorMin, spec.AnchorMin)
	set(&r.AnchorMax, spec.AnchorMax)
	set(&r.Size, spec.Size)
	set(&r.LocalPos, spec.Pos)
	set(&r.Pivot, spec.Pivot)
	return r
}

// LayoutInstance returns the root node, so a Tree can be passed to
// [layout.Tick].
func (t *Tree) LayoutInstance() *layout.Node { return t.Root.Node }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.adapters) }

// Adapters returns the node adapters, parents before children.
func (t *Tree) Adapters() []*transform.Adapter {
	return append([]*transform.Adapter(nil), t.adapters...)
}

// Node returns the layout node with the given id.
func (t *Tree) Node(id string) (*layout.Node, bool) {
	a, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return a.Node, true
}

// Rect returns the current transform geometry of the node with the given id.
func (t *Tree) Rect(id string) (transform.Rect, bool) {
	a, ok := t.byID[id]
	if !ok {
		return transform.Rect{}, false
	}
	return a.Transform.Geometry(), true
}

// Resize sets the size of the root transform. The change reaches the layout
// nodes on the next Step.
func (t *Tree) Resize(size geom.Vec3) {
	r := t.Root.Transform.Geometry()
	r.Size = geom.NonNegative(size)
	t.Root.Transform.SetGeometry(r)
}

// Pull seeds every node from its transform, parents first.
func (t *Tree) Pull() {
	for _, a := range t.adapters {
		a.CopyToLayoutTarget()
	}
}

// Push writes every node's resolved geometry back to its transform.
func (t *Tree) Push() {
	for _, a := range t.adapters {
		a.CopyToTransform()
	}
}

// Step runs one frame: Pull, one layout tick, Push.
func (t *Tree) Step(observe layout.TickObserver) layout.TickStats {
	t.Pull()
	stats := layout.TickWithObserver(observe, t)
	t.Push()
	return stats
}

// Dispose tears down every node of the tree.
func (t *Tree) Dispose() {
	for i := len(t.adapters) - 1; i >= 0; i-- {
		t.adapters[i].Node.Dispose()
	}
}
