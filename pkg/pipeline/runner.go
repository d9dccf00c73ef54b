package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxlayout/pkg/cache"
	"github.com/matzehuels/boxlayout/pkg/errors"
	"github.com/matzehuels/boxlayout/pkg/graph"
	"github.com/matzehuels/boxlayout/pkg/observability"
	"github.com/matzehuels/boxlayout/pkg/scene"
)

// Runner executes the pipeline with caching. The CLI and the HTTP service
// share it.
//
// A Runner holds no per-run state, so one Runner may serve concurrent
// Execute calls as long as its Cache is safe for concurrent use. Each run
// builds its own layout tree.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a Runner. A nil cache disables caching, a nil keyer
// uses DefaultKeyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → resolve → render. Rendering is skipped when
// opts.Formats is empty.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	loadStart := time.Now()
	sc, raw, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Scene = sc
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = sc.Count()

	r.Logger.Info("loaded scene",
		"name", sc.Name,
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Resolve
	resolveStart := time.Now()
	snap, rep, hit, err := r.ResolveWithCacheInfo(ctx, sc, raw, opts)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snap
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.Ticks = snap.Ticks
	result.Stats.Ran = rep.Ran
	result.Stats.Skipped = rep.Skipped
	result.CacheInfo.ResolveHit = hit
	if data, err := graph.Marshal(snap); err == nil {
		result.SnapshotHash = cache.Hash(data)
	}

	r.Logger.Info("resolved layout",
		"ticks", snap.Ticks,
		"ran", rep.Ran,
		"skipped", rep.Skipped,
		"cached", hit,
		"duration", result.Stats.ResolveTime)

	if len(opts.Formats) == 0 {
		return result, nil
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ResolveWithCacheInfo resolves sc, consulting the cache first unless
// opts.Refresh is set. raw is the scene source used for the cache key; a
// cached snapshot reports a zero Report apart from Ticks.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, sc *scene.Scene, raw []byte, opts Options) (graph.Snapshot, Report, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForResolve(); err != nil {
		return graph.Snapshot{}, Report{}, false, err
	}
	ticks := opts.TicksFor(sc)
	key := r.Keyer.SnapshotKey(cache.Hash(raw), opts.SnapshotKeyOpts(ticks))
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if snap, err := graph.Unmarshal(data); err == nil {
				hooks.OnCacheHit(ctx, cache.KeyTypeSnapshot)
				return snap, Report{Ticks: snap.Ticks}, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		hooks.OnCacheMiss(ctx, cache.KeyTypeSnapshot)
	}

	snap, rep, err := Resolve(ctx, sc, opts)
	if err != nil {
		return graph.Snapshot{}, rep, false, err
	}

	if data, err := graph.Marshal(snap); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLSnapshot); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			hooks.OnCacheSet(ctx, cache.KeyTypeSnapshot, len(data))
		}
	}
	return snap, rep, false, nil
}

// Resolve is ResolveWithCacheInfo without the cache report.
func (r *Runner) Resolve(ctx context.Context, sc *scene.Scene, raw []byte, opts Options) (graph.Snapshot, error) {
	snap, _, _, err := r.ResolveWithCacheInfo(ctx, sc, raw, opts)
	return snap, err
}

// RenderWithCacheInfo renders snap in every requested format. The cache is
// only reported as hit when every format was found.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap graph.Snapshot, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	data, err := graph.Marshal(snap)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize snapshot for cache key")
	}
	snapHash := cache.Hash(data)
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, cache.KeyTypeArtifact)
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, cache.KeyTypeArtifact)
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, snap, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for _, format := range missing {
		data := rendered[format]
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, cache.KeyTypeArtifact, len(data))
	}
	return artifacts, false, nil
}

// Render is RenderWithCacheInfo without the cache report.
func (r *Runner) Render(ctx context.Context, snap graph.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, snap, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
