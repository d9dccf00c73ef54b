package scene

import (
	"slices"
	"sync"

	"github.com/matzehuels/boxlayout/pkg/geom"
	"github.com/matzehuels/boxlayout/pkg/layout"
)

// Built-in behavior kinds.
const (
	KindAspectFit    = "aspect_fit"
	KindFollowParent = "follow_parent"
)

// Factory creates a behavior from its scene configuration, which has
// already passed [BehaviorSpec.Validate]. A non-zero Priority is applied
// by the builder.
type Factory func(spec BehaviorSpec) layout.Behavior

var (
	registry   = make(map[string]Factory)
	registryMu sync.RWMutex
)

func init() {
	Register(KindAspectFit, newAspectFit)
	Register(KindFollowParent, func(BehaviorSpec) layout.Behavior { return layout.NewFollowParent() })
}

// Register makes a behavior kind available to scene files. It is meant to
// be called from init functions; registering a kind twice replaces the
// earlier factory.
func Register(kind string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = f
}

// Lookup returns the factory for kind.
func Lookup(kind string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[kind]
	return f, ok
}

// Kinds returns the registered behavior kinds in sorted order.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

func newAspectFit(spec BehaviorSpec) layout.Behavior {
	mode, _ := layout.ParseFitMode(spec.Mode)
	unit, _ := layout.ParsePaddingUnit(spec.PaddingUnit)

	a := layout.NewAspectFit(mode, spec.AspectRatio)
	a.SetFixedLength(spec.FixedLength)
	if spec.Padding != nil {
		p := spec.Padding
		a.SetPadding(layout.Padding{
			Edges: geom.Edges{Left: p[0], Right: p[1], Top: p[2], Bottom: p[3]},
			Unit:  unit,
		})
	}
	return a
}
