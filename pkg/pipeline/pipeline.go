// Package pipeline runs scenes end to end for the CLI and the HTTP service.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Load: decode and validate a TOML scene (see [scene.Decode])
//  2. Resolve: build the layout tree and run N ticks, each of which reads
//     every transform, runs behaviors parents first and writes the
//     transforms back, then capture a [graph.Snapshot]
//  3. Render: draw the snapshot in the requested formats
//
// [Runner] wraps the stages with caching, hooks and logging. Resolved
// snapshots are keyed by a hash of the scene bytes plus the options that
// change the result, and artifacts by a hash of the snapshot.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    ScenePath: "hud.toml",
//	    Formats:   []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxlayout/pkg/cache"
	"github.com/matzehuels/boxlayout/pkg/errors"
	"github.com/matzehuels/boxlayout/pkg/graph"
	"github.com/matzehuels/boxlayout/pkg/render"
	"github.com/matzehuels/boxlayout/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTicks is used when neither the options nor the scene ask for a
	// tick count. One tick settles any tree whose behaviors do not depend on
	// sibling results.
	DefaultTicks = 1

	// DefaultMargin is the render margin in output units.
	DefaultMargin = 8.0

	// DefaultScale is the render scale.
	DefaultScale = 1.0

	// DefaultFormat is the artifact format used when none is requested.
	DefaultFormat = render.FormatSVG
)

// FormatJSON emits the snapshot itself as an artifact.
const FormatJSON = "json"

// ValidFormats returns every artifact format the pipeline accepts.
func ValidFormats() []string {
	return append(render.Formats(), FormatJSON)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It supports JSON for API requests.
type Options struct {
	// Load options. Exactly one of ScenePath and Scene is set.
	ScenePath string `json:"scene_path,omitempty"`
	Scene     []byte `json:"-"`

	// Resolve options
	Ticks   int     `json:"ticks,omitempty"`  // 0 uses the scene's ticks, then DefaultTicks
	Width   float64 `json:"width,omitempty"`  // overrides the root width when > 0
	Height  float64 `json:"height,omitempty"` // overrides the root height when > 0
	Refresh bool    `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Margin   float64  `json:"margin,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	NoLabels bool     `json:"no_labels,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Font   []byte      `json:"-"`
	Logger *log.Logger `json:"-"`
}

// Result holds the outputs of a pipeline run.
type Result struct {
	// Scene is the decoded scene, with generated ids filled in.
	Scene *scene.Scene

	// Snapshot is the resolved geometry.
	Snapshot graph.Snapshot

	// SnapshotHash is the content hash of the serialized snapshot.
	SnapshotHash string

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds pipeline execution statistics.
type Stats struct {
	NodeCount   int
	Ticks       int
	Ran         int // behaviors run, summed over ticks
	Skipped     int // behaviors skipped, summed over ticks
	LoadTime    time.Duration
	ResolveTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	ResolveHit bool
	RenderHit  bool // every requested artifact came from the cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormats checks every format against ValidFormats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, ValidFormats()...); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForLoad checks that exactly one scene source is set.
func (o *Options) ValidateForLoad() error {
	switch {
	case o.ScenePath == "" && len(o.Scene) == 0:
		return errors.New(errors.ErrCodeInvalidInput, "scene path or scene content is required")
	case o.ScenePath != "" && len(o.Scene) > 0:
		return errors.New(errors.ErrCodeInvalidInput, "scene path and scene content are mutually exclusive")
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForResolve checks resolve options.
func (o *Options) ValidateForResolve() error {
	if o.Ticks != 0 {
		if err := errors.ValidateTicks(o.Ticks, scene.MaxTicks); err != nil {
			return err
		}
	}
	if err := errors.ValidateDimension("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("height", o.Height); err != nil {
		return err
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForRender applies render defaults, checks the formats and
// lowercases them.
func (o *Options) ValidateForRender() error {
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Margin < 0 || o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin and scale must be non-negative")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	formats := make([]string, len(o.Formats))
	for i, f := range o.Formats {
		formats[i] = strings.ToLower(f)
	}
	o.Formats = formats
	o.setLoggerDefault()
	return nil
}

// ValidateAndSetDefaults runs every stage's validation. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForResolve(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// TicksFor returns the tick count to run for sc.
func (o *Options) TicksFor(sc *scene.Scene) int {
	switch {
	case o.Ticks > 0:
		return o.Ticks
	case sc != nil && sc.Ticks > 0:
		return sc.Ticks
	}
	return DefaultTicks
}

// SnapshotKeyOpts returns cache key options for a resolved snapshot.
func (o *Options) SnapshotKeyOpts(ticks int) cache.SnapshotKeyOpts {
	return cache.SnapshotKeyOpts{Ticks: ticks, Width: o.Width, Height: o.Height}
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Margin:   o.Margin,
		Scale:    o.Scale,
		Labels:   !o.NoLabels,
		Detailed: o.Detailed,
	}
}

// RenderOptions converts the render fields to renderer options.
func (o *Options) RenderOptions() []render.Option {
	opts := []render.Option{render.WithMargin(o.Margin)}
	if o.Scale > 0 {
		opts = append(opts, render.WithScale(o.Scale))
	}
	if o.NoLabels {
		opts = append(opts, render.WithoutLabels())
	}
	if o.Detailed {
		opts = append(opts, render.WithDetails())
	}
	if len(o.Font) > 0 {
		opts = append(opts, render.WithFont(o.Font))
	}
	return opts
}
