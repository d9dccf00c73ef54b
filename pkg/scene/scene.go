// Package scene loads layout trees from TOML scene files.
//
// A scene describes a tree of boxes: each node has the geometry of an
// external transform (anchors, size, pivot position) plus optional size
// constraints and layout behaviors. [Decode] parses a scene, [Scene.Validate]
// rejects malformed input with [errors.ErrCodeInvalidScene] or
// [errors.ErrCodeInvalidBehavior], and [Scene.Build] turns it into a live
// [Tree] of layout nodes bound to in-memory transforms.
//
// A minimal scene:
//
//	name = "hud"
//	ticks = 1
//
//	[root]
//	id = "screen"
//	size = [200.0, 100.0, 0.0]
//
//	[[root.children]]
//	id = "panel"
//	anchor_max = [1.0, 1.0, 0.0]
//
//	[[root.children.behaviors]]
//	kind = "aspect_fit"
//	mode = "parent_fit"
//	aspect_ratio = 1.0
//
// Behavior kinds are resolved through a registry. "aspect_fit" and
// "follow_parent" are built in; hosts add their own with [Register].
package scene

import (
	"bytes"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/boxlayout/pkg/errors"
	"github.com/matzehuels/boxlayout/pkg/geom"
)

// Vec is a 3-component vector as written in scene files.
type Vec [3]float64

// Vec3 converts v to a geometry vector.
func (v Vec) Vec3() geom.Vec3 { return geom.FromArray(v) }

// FromVec3 converts a geometry vector to a scene vector.
func FromVec3(v geom.Vec3) Vec { return v.Array() }

// Scene is the top-level document of a scene file.
type Scene struct {
	Name  string   `toml:"name" json:"name"`
	Ticks int      `toml:"ticks,omitempty" json:"ticks,omitempty"`
	Root  NodeSpec `toml:"root" json:"root"`
}

// NodeSpec describes one node and its subtree. Nil vectors take their
// defaults: zero anchors, size and position, a centered pivot, and unset
// constraints.
type NodeSpec struct {
	ID         string         `toml:"id" json:"id"`
	AnchorMin  *Vec           `toml:"anchor_min,omitempty" json:"anchor_min,omitempty"`
	AnchorMax  *Vec           `toml:"anchor_max,omitempty" json:"anchor_max,omitempty"`
	Size       *Vec           `toml:"size,omitempty" json:"size,omitempty"`
	Pos        *Vec           `toml:"pos,omitempty" json:"pos,omitempty"`
	Pivot      *Vec           `toml:"pivot,omitempty" json:"pivot,omitempty"`
	MinSize    *Vec           `toml:"min_size,omitempty" json:"min_size,omitempty"`
	MaxSize    *Vec           `toml:"max_size,omitempty" json:"max_size,omitempty"`
	LayoutSize *Vec           `toml:"layout_size,omitempty" json:"layout_size,omitempty"`
	Behaviors  []BehaviorSpec `toml:"behaviors,omitempty" json:"behaviors,omitempty"`
	Children   []NodeSpec     `toml:"children,omitempty" json:"children,omitempty"`
}

// BehaviorSpec configures one behavior. Which fields apply depends on Kind.
type BehaviorSpec struct {
	Kind        string      `toml:"kind" json:"kind"`
	Priority    int         `toml:"priority,omitempty" json:"priority,omitempty"`
	Mode        string      `toml:"mode,omitempty" json:"mode,omitempty"`
	AspectRatio float64     `toml:"aspect_ratio,omitempty" json:"aspect_ratio,omitempty"`
	FixedLength float64     `toml:"fixed_length,omitempty" json:"fixed_length,omitempty"`
	Padding     *[4]float64 `toml:"padding,omitempty" json:"padding,omitempty"` // left, right, top, bottom
	PaddingUnit string      `toml:"padding_unit,omitempty" json:"padding_unit,omitempty"`
}

// Decode parses a scene from TOML, fills in missing node ids and validates
// the result. Unknown keys are rejected so typos do not silently fall back
// to defaults.
func Decode(data []byte) (*Scene, error) {
	var s Scene
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&s)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidScene, "parse scene: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidScene, "unknown keys: %s", strings.Join(keys, ", "))
	}
	s.AssignIDs()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and decodes a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "scene file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Decode(data)
}

// Encode writes s as TOML.
func (s *Scene) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return buf.Bytes(), nil
}

// AssignIDs gives every node without an id a random UUID.
func (s *Scene) AssignIDs() {
	walkSpecs(&s.Root, func(n *NodeSpec) {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
	})
}

// Count returns the number of nodes in the scene.
func (s *Scene) Count() int {
	count := 0
	walkSpecs(&s.Root, func(*NodeSpec) { count++ })
	return count
}

// walkSpecs visits n and its descendants depth-first, parents first.
func walkSpecs(n *NodeSpec, fn func(*NodeSpec)) {
	fn(n)
	for i := range n.Children {
		walkSpecs(&n.Children[i], fn)
	}
}
