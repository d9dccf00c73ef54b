package scene

import (
	"math"

	"github.com/matzehuels/boxlayout/pkg/errors"
	"github.com/matzehuels/boxlayout/pkg/layout"
)

// MaxTicks bounds the tick count a scene may request.
const MaxTicks = 1000

// Validate checks the whole scene. It reports the first problem found,
// prefixed with the offending node id.
func (s *Scene) Validate() error {
	if s.Ticks < 0 || s.Ticks > MaxTicks {
		return errors.New(errors.ErrCodeInvalidScene, "ticks must be between 0 and %d, got %d", MaxTicks, s.Ticks)
	}
	seen := make(map[string]bool)
	return validateNode(&s.Root, seen)
}

func validateNode(n *NodeSpec, seen map[string]bool) error {
	if err := errors.ValidateNodeID(n.ID); err != nil {
		return err
	}
	if seen[n.ID] {
		return errors.New(errors.ErrCodeInvalidScene, "duplicate node id %q", n.ID)
	}
	seen[n.ID] = true

	checks := []struct {
		field string
		v     *Vec
		fn    func(string, [3]float64) error
	}{
		{"anchor_min", n.AnchorMin, errors.ValidateAnchor},
		{"anchor_max", n.AnchorMax, errors.ValidateAnchor},
		{"size", n.Size, errors.ValidateSize},
		{"pos", n.Pos, finiteVec},
		{"pivot", n.Pivot, finiteVec},
		{"min_size", n.MinSize, errors.ValidateConstraint},
		{"max_size", n.MaxSize, errors.ValidateConstraint},
		{"layout_size", n.LayoutSize, errors.ValidateConstraint},
	}
	for _, c := range checks {
		if c.v == nil {
			continue
		}
		if err := c.fn(c.field, *c.v); err != nil {
			return nodeError(n.ID, err)
		}
	}

	for i, b := range n.Behaviors {
		if err := b.Validate(); err != nil {
			return errors.New(errors.GetCode(err), "node %q: behavior %d: %s", n.ID, i, errors.UserMessage(err))
		}
	}
	for i := range n.Children {
		if err := validateNode(&n.Children[i], seen); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a behavior configuration against its kind.
func (b BehaviorSpec) Validate() error {
	if _, ok := Lookup(b.Kind); !ok {
		return errors.New(errors.ErrCodeInvalidBehavior, "unknown behavior kind %q", b.Kind)
	}
	if b.Kind != KindAspectFit {
		return nil
	}
	if _, err := layout.ParseFitMode(b.Mode); err != nil {
		return errors.New(errors.ErrCodeInvalidBehavior, "mode: %v", err)
	}
	if _, err := layout.ParsePaddingUnit(b.PaddingUnit); err != nil {
		return errors.New(errors.ErrCodeInvalidBehavior, "padding_unit: %v", err)
	}
	if err := errors.ValidateAspectRatio(b.AspectRatio); err != nil {
		return err
	}
	if !isFinite(b.FixedLength) || b.FixedLength < 0 {
		return errors.New(errors.ErrCodeInvalidBehavior, "fixed_length must be non-negative, got %v", b.FixedLength)
	}
	if b.Padding != nil {
		for _, p := range b.Padding {
			if !isFinite(p) || p < 0 {
				return errors.New(errors.ErrCodeInvalidBehavior, "padding must be non-negative, got %v", *b.Padding)
			}
		}
	}
	return nil
}

func nodeError(id string, err error) error {
	return errors.New(errors.GetCode(err), "node %q: %s", id, errors.UserMessage(err))
}

func finiteVec(field string, v [3]float64) error {
	for _, f := range v {
		if !isFinite(f) {
			return errors.New(errors.ErrCodeInvalidScene, "%s must be finite", field)
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
