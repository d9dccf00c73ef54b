package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxlayout/pkg/graph"
	"github.com/matzehuels/boxlayout/pkg/pipeline"
	"github.com/matzehuels/boxlayout/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	resolveOpts
	output   string   // output file (one format) or base path (several)
	formats  []string // svg, pdf, dot, dot-svg, json
	margin   float64
	scale    float64
	noLabels bool
	detailed bool   // sizes and behaviors in DOT labels
	fontPath string // TrueType/OpenType file for PDF labels
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		margin: pipeline.DefaultMargin,
		scale:  pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render <scene.toml|snapshot.json>",
		Short: "Draw a scene or snapshot as SVG, PDF or DOT",
		Long: `Render draws the resolved boxes of a scene, or of a snapshot written by
"boxlayout resolve". Scenes are resolved first; snapshots are drawn as is.

Formats:
  svg      nested translucent boxes, colored by depth
  pdf      the same drawing as a single PDF page (labels need --font)
  dot      the node hierarchy as a Graphviz digraph
  dot-svg  the hierarchy laid out by Graphviz
  json     the snapshot itself`,
		Example: `  boxlayout render hud.toml
  boxlayout render hud.toml -f svg,pdf -o out/hud
  boxlayout render hud.json -f dot-svg --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.ValidFormats(), ", ")+" (comma-separated, default svg)")
	cmd.Flags().Float64Var(&opts.margin, "margin", opts.margin, "space around the root box")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "scale factor for all coordinates")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit node id labels")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show sizes and behaviors in DOT labels")
	cmd.Flags().StringVar(&opts.fontPath, "font", "", "font file for PDF labels")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	pOpts := opts.pipelineOptions("")
	pOpts.Formats = opts.formats
	pOpts.Margin = opts.margin
	pOpts.Scale = opts.scale
	pOpts.NoLabels = opts.noLabels
	pOpts.Detailed = opts.detailed
	if opts.fontPath != "" {
		font, err := os.ReadFile(opts.fontPath)
		if err != nil {
			return fmt.Errorf("read font: %w", err)
		}
		pOpts.Font = font
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if slices.Contains(opts.formats, render.FormatPDF) && len(pOpts.Font) == 0 && !opts.noLabels {
		printWarning("PDF labels are omitted without --font")
	}

	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(ctx, "Rendering "+filepath.Base(input))
	spin.Start()
	var snap graph.Snapshot
	var artifacts map[string][]byte
	var cached bool
	if isSnapshotFile(input) {
		snap, err = graph.ReadFile(input)
		if err != nil {
			spin.Stop()
			return err
		}
		c.Logger.Debug("loaded snapshot", "nodes", len(snap.Nodes), "ticks", snap.Ticks)
		artifacts, cached, err = runner.RenderWithCacheInfo(ctx, snap, pOpts)
	} else {
		pOpts.ScenePath = input
		var res *pipeline.Result
		res, err = runner.Execute(ctx, pOpts)
		if err == nil {
			snap, artifacts, cached = res.Snapshot, res.Artifacts, res.CacheInfo.RenderHit
		}
	}
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", input))

	printSuccess("Rendered %s", StyleHighlight.Render(snap.Scene))
	printStats(len(snap.Nodes), snap.Ticks, cached)
	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := outputPath(opts.output, base, format, len(opts.formats))
		if path == input {
			return fmt.Errorf("refusing to overwrite input %s", input)
		}
		if err := writeArtifact(path, artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

func isSnapshotFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// formatExt returns the file extension for a format.
func formatExt(format string) string {
	if format == render.FormatDOTSVG {
		return ".tree.svg"
	}
	return "." + format
}

// basePath derives the base output path. Without an output it strips the
// input's extension; an output carrying a format extension loses it.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidateFormats([]string{ext}) == nil {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// outputPath names the file for format. A single format written to an
// explicit output uses that path verbatim.
func outputPath(output, base, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	return base + formatExt(format)
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
