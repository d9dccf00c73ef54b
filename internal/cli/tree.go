package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxlayout/pkg/graph"
)

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "tree <scene.toml|snapshot.json>",
		Short: "Print the resolved node tree as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), args[0], cmd.OutOrStdout(), opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) runTree(ctx context.Context, input string, w io.Writer, opts resolveOpts) error {
	var snap graph.Snapshot
	if isSnapshotFile(input) {
		s, err := graph.ReadFile(input)
		if err != nil {
			return err
		}
		snap = s
	} else {
		runner, err := c.newRunner(opts.noCache)
		if err != nil {
			return err
		}
		defer runner.Close()
		res, err := runner.Execute(ctx, opts.pipelineOptions(input))
		if err != nil {
			return err
		}
		snap = res.Snapshot
	}

	fmt.Fprintln(w, StyleTitle.Render(snap.Scene)+" "+StyleDim.Render(fmt.Sprintf("%d nodes · %d ticks", len(snap.Nodes), snap.Ticks)))
	fmt.Fprintln(w, snapshotTable(snap, -1))
	return nil
}

// headerRow is the row index lipgloss tables pass for the header.
const headerRow = -1

// snapshotTable renders one row per node, indented by depth. The row at
// index selected is highlighted; pass -1 for none.
func snapshotTable(snap graph.Snapshot, selected int) string {
	nodes := treeOrder(snap)
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{
			strings.Repeat("  ", n.Depth) + n.ID,
			fmtPair(n.Size[0], n.Size[1]),
			fmt.Sprintf("%.4g, %.4g", n.World.X, n.World.Y),
			fmtPair(n.World.W, n.World.H),
			strings.Join(n.Behaviors, ", "),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Size", "World pos", "World size", "Behaviors").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return headerStyle
			case row == selected:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case col == 0:
				return lipgloss.NewStyle().Foreground(depthColor(nodes[row].Depth))
			case col == 4:
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}

// treeOrder lists nodes depth-first so children sit under their parent.
// Snapshots store nodes breadth-first.
func treeOrder(snap graph.Snapshot) []graph.Node {
	root, ok := snap.Root()
	if !ok {
		return nil
	}
	var out []graph.Node
	var visit func(n graph.Node)
	visit = func(n graph.Node) {
		out = append(out, n)
		for _, child := range snap.Children(n.ID) {
			visit(child)
		}
	}
	visit(root)
	return out
}

func fmtPair(a, b float64) string {
	return fmt.Sprintf("%.4g × %.4g", a, b)
}
