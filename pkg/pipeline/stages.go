package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/matzehuels/boxlayout/pkg/errors"
	"github.com/matzehuels/boxlayout/pkg/graph"
	"github.com/matzehuels/boxlayout/pkg/layout"
	"github.com/matzehuels/boxlayout/pkg/observability"
	"github.com/matzehuels/boxlayout/pkg/render"
	"github.com/matzehuels/boxlayout/pkg/scene"
)

// =============================================================================
// Load
// =============================================================================

// Load reads the scene named by opts and returns it with its raw bytes.
func Load(ctx context.Context, opts Options) (*scene.Scene, []byte, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, nil, err
	}
	name := opts.ScenePath
	if name == "" {
		name = "<inline>"
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()

	raw := opts.Scene
	if opts.ScenePath != "" {
		data, err := os.ReadFile(opts.ScenePath)
		if os.IsNotExist(err) {
			err = errors.New(errors.ErrCodeFileNotFound, "scene file not found: %s", opts.ScenePath)
			hooks.OnLoadComplete(ctx, name, 0, time.Since(start), err)
			return nil, nil, err
		}
		if err != nil {
			err = errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", opts.ScenePath)
			hooks.OnLoadComplete(ctx, name, 0, time.Since(start), err)
			return nil, nil, err
		}
		raw = data
	}

	sc, err := scene.Decode(raw)
	if err != nil {
		hooks.OnLoadComplete(ctx, name, 0, time.Since(start), err)
		return nil, nil, err
	}
	hooks.OnLoadComplete(ctx, name, sc.Count(), time.Since(start), nil)
	return sc, raw, nil
}

// =============================================================================
// Resolve
// =============================================================================

// Report summarizes the ticks of one Resolve.
type Report struct {
	Ticks   int
	Ran     int
	Skipped int
}

// Resolve builds sc, applies any root size override, runs the tick loop and
// captures the resolved geometry. The tree is disposed before returning.
func Resolve(ctx context.Context, sc *scene.Scene, opts Options) (graph.Snapshot, Report, error) {
	if err := opts.ValidateForResolve(); err != nil {
		return graph.Snapshot{}, Report{}, err
	}
	tree, err := sc.Build()
	if err != nil {
		return graph.Snapshot{}, Report{}, err
	}
	defer tree.Dispose()

	if opts.Width > 0 || opts.Height > 0 {
		size := tree.Root.Transform.Geometry().Size
		if opts.Width > 0 {
			size.X = opts.Width
		}
		if opts.Height > 0 {
			size.Y = opts.Height
		}
		tree.Resize(size)
	}

	hooks := observability.Pipeline()
	logger := opts.Logger
	observe := func(n *layout.Node, b layout.Behavior) {
		kind := layout.KindOf(b)
		hooks.OnBehaviorSkipped(ctx, n.ID(), kind)
		logger.Debug("behavior skipped", "node", n.ID(), "kind", kind)
	}

	rep := Report{Ticks: opts.TicksFor(sc)}
	for i := range rep.Ticks {
		if err := ctx.Err(); err != nil {
			return graph.Snapshot{}, rep, err
		}
		start := time.Now()
		stats := tree.Step(observe)
		rep.Ran += stats.Ran
		rep.Skipped += stats.Skipped
		hooks.OnTick(ctx, sc.Name, i+1, stats.Ran, stats.Skipped, time.Since(start))
		logger.Debug("tick", "n", i+1, "ran", stats.Ran, "skipped", stats.Skipped)
	}

	return graph.FromTree(sc.Name, rep.Ticks, tree.LayoutInstance()), rep, nil
}

// =============================================================================
// Render
// =============================================================================

// Render draws snap in every format of opts.Formats.
func Render(ctx context.Context, snap graph.Snapshot, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		var data []byte
		var err error
		if format == FormatJSON {
			data, err = graph.Marshal(snap)
		} else {
			data, err = render.Render(ctx, format, snap, opts.RenderOptions()...)
		}
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
