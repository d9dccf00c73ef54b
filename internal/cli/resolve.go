package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxlayout/pkg/graph"
	"github.com/matzehuels/boxlayout/pkg/pipeline"
)

// resolveOpts holds the flags shared by commands that run a scene.
type resolveOpts struct {
	ticks   int     // 0 uses the scene's ticks
	width   float64 // root width override
	height  float64 // root height override
	noCache bool
	refresh bool
}

func (o *resolveOpts) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&o.ticks, "ticks", "n", 0, "ticks to run (default: the scene's ticks, or 1)")
	cmd.Flags().Float64Var(&o.width, "width", 0, "override the root width")
	cmd.Flags().Float64Var(&o.height, "height", 0, "override the root height")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached snapshots")
}

// pipelineOptions converts the flags for scenePath.
func (o *resolveOpts) pipelineOptions(scenePath string) pipeline.Options {
	return pipeline.Options{
		ScenePath: scenePath,
		Ticks:     o.ticks,
		Width:     o.width,
		Height:    o.height,
		Refresh:   o.refresh,
	}
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts
	var output string

	cmd := &cobra.Command{
		Use:   "resolve <scene.toml>",
		Short: "Run a scene and write the resolved snapshot as JSON",
		Long: `Resolve builds the layout tree of a scene, runs the requested number of
ticks and writes the resolved geometry of every node as a JSON snapshot.

The snapshot can be drawn later with "boxlayout render snapshot.json".`,
		Example: `  boxlayout resolve hud.toml
  boxlayout resolve hud.toml --ticks 3 --width 1280 --height 720 -o hud.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), args[0], output, cmd.OutOrStdout(), opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, scenePath, output string, stdout io.Writer, opts resolveOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, opts.pipelineOptions(scenePath))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %s", scenePath))

	if output == "" {
		return graph.Write(res.Snapshot, stdout)
	}
	if err := graph.WriteFile(res.Snapshot, output); err != nil {
		return err
	}
	printSuccess("Resolved %s", StyleHighlight.Render(res.Scene.Name))
	printStats(res.Stats.NodeCount, res.Stats.Ticks, res.CacheInfo.ResolveHit)
	printFile(output)
	printNextStep("Draw it", "boxlayout render "+output)
	return nil
}
