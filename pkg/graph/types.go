package graph

import (
	"time"
)

// =============================================================================
// Snapshot - Resolved Tree Serialization
// =============================================================================

// Snapshot is the canonical serialization format for a resolved layout tree.
// Nodes are listed in walk order: every parent precedes its children.
type Snapshot struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Scene     string    `json:"scene" bson:"scene"`
	Ticks     int       `json:"ticks" bson:"ticks"`
	CreatedAt time.Time `json:"created_at,omitzero" bson:"created_at,omitempty"`
	Nodes     []Node    `json:"nodes" bson:"nodes"`
}

// Root returns the first node, or false for an empty snapshot.
func (s *Snapshot) Root() (Node, bool) {
	if len(s.Nodes) == 0 {
		return Node{}, false
	}
	return s.Nodes[0], true
}

// Node returns the node with the given id.
func (s *Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Children returns the direct children of the node with the given id, in
// snapshot order.
func (s *Snapshot) Children(id string) []Node {
	var out []Node
	for _, n := range s.Nodes {
		if n.Parent == id {
			out = append(out, n)
		}
	}
	return out
}

// Bounds returns the world rect of the root, which encloses the frame all
// other world rects are expressed in.
func (s *Snapshot) Bounds() Rect {
	root, ok := s.Root()
	if !ok {
		return Rect{}
	}
	return root.World
}

// MaxDepth returns the depth of the deepest node.
func (s *Snapshot) MaxDepth() int {
	depth := 0
	for _, n := range s.Nodes {
		depth = max(depth, n.Depth)
	}
	return depth
}

// =============================================================================
// Node - One Resolved Box
// =============================================================================

// Node is the resolved geometry of one layout node.
type Node struct {
	ID        string     `json:"id" bson:"id"`
	Parent    string     `json:"parent,omitempty" bson:"parent,omitempty"`
	Depth     int        `json:"depth,omitempty" bson:"depth,omitempty"`
	AnchorMin [3]float64 `json:"anchor_min" bson:"anchor_min"`
	AnchorMax [3]float64 `json:"anchor_max" bson:"anchor_max"`
	OffsetMin [3]float64 `json:"offset_min" bson:"offset_min"`
	OffsetMax [3]float64 `json:"offset_max" bson:"offset_max"`
	Size      [3]float64 `json:"size" bson:"size"`
	Offset    [3]float64 `json:"offset" bson:"offset"`
	LocalPos  [3]float64 `json:"local_pos" bson:"local_pos"`
	World     Rect       `json:"world" bson:"world"`
	Behaviors []string   `json:"behaviors,omitempty" bson:"behaviors,omitempty"` // behavior kinds in execution order
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.Parent == "" }

// =============================================================================
// Rect - Planar World Box
// =============================================================================

// Rect is an axis-aligned box in the root's frame. (X, Y) is the
// bottom-left corner.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Center returns the center of r.
func (r Rect) Center() (x, y float64) { return r.X + r.W/2, r.Y + r.H/2 }

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the Y coordinate of the top edge.
func (r Rect) Top() float64 { return r.Y + r.H }

// Contains reports whether o lies within r, within tolerance.
func (r Rect) Contains(o Rect) bool {
	const eps = 1e-6
	return o.X >= r.X-eps && o.Y >= r.Y-eps &&
		o.Right() <= r.Right()+eps && o.Top() <= r.Top()+eps
}
