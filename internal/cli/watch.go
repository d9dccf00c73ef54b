package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxlayout/pkg/geom"
	"github.com/matzehuels/boxlayout/pkg/graph"
	"github.com/matzehuels/boxlayout/pkg/layout"
	"github.com/matzehuels/boxlayout/pkg/scene"
)

var (
	watchKeyStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	watchStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// watchCommand creates the interactive watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var step float64

	cmd := &cobra.Command{
		Use:   "watch <scene.toml>",
		Short: "Resize and tick a scene interactively",
		Long: `Watch opens a terminal view of a scene's resolved tree. Arrow keys resize
the root; space runs one tick so the change propagates through the
behaviors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			tree, err := sc.Build()
			if err != nil {
				return err
			}
			defer tree.Dispose()

			m := newWatchModel(sc.Name, tree, step)
			c.Logger.Debug("watching scene", "name", sc.Name, "nodes", tree.Len())
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().Float64Var(&step, "step", 10, "resize step per key press")
	return cmd
}

// =============================================================================
// watchModel - Interactive tick loop
// =============================================================================

// watchModel drives a scene tree from key presses. The tree is shared, so
// copies of the model see the same layout state.
type watchModel struct {
	name     string
	tree     *scene.Tree
	initial  geom.Vec3
	step     float64
	ticks    int
	last     layout.TickStats
	snap     graph.Snapshot
	selected int
}

// newWatchModel runs the first tick so the view starts resolved.
func newWatchModel(name string, tree *scene.Tree, step float64) watchModel {
	m := watchModel{
		name:    name,
		tree:    tree,
		initial: tree.Root.Transform.Geometry().Size,
		step:    max(step, 1),
	}
	return m.tick()
}

func (m watchModel) tick() watchModel {
	m.last = m.tree.Step(nil)
	m.ticks++
	m.snap = graph.FromTree(m.name, m.ticks, m.tree.LayoutInstance())
	return m
}

func (m watchModel) resize(dw, dh float64) watchModel {
	size := m.rootSize()
	m.tree.Resize(geom.V3(size.X+dw, size.Y+dh, size.Z))
	return m
}

func (m watchModel) rootSize() geom.Vec3 {
	return m.tree.Root.Transform.Geometry().Size
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l":
		m = m.resize(m.step, 0)
	case "left", "h":
		m = m.resize(-m.step, 0)
	case "up", "k":
		m = m.resize(0, m.step)
	case "down", "j":
		m = m.resize(0, -m.step)
	case " ", "enter":
		m = m.tick()
	case "r":
		m.tree.Resize(m.initial)
		m = m.tick()
	case "tab":
		if n := len(m.snap.Nodes); n > 0 {
			m.selected = (m.selected + 1) % n
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.name))
	b.WriteString("\n\n")
	b.WriteString(snapshotTable(m.snap, m.selected))
	b.WriteString("\n")

	size := m.rootSize()
	status := fmt.Sprintf("root %s · tick %d · ran %d · skipped %d", fmtPair(size.X, size.Y), m.ticks, m.last.Ran, m.last.Skipped)
	if root, ok := m.snap.Root(); ok && (root.Size[0] != size.X || root.Size[1] != size.Y) {
		status += StyleWarning.Render(" · pending")
	}
	b.WriteString(watchStatusStyle.Render(status))
	b.WriteString("\n\n")

	help := []string{
		watchKeyStyle.Render("←/→/↑/↓") + " resize",
		watchKeyStyle.Render("space") + " tick",
		watchKeyStyle.Render("tab") + " select",
		watchKeyStyle.Render("r") + " reset",
		watchKeyStyle.Render("q") + " quit",
	}
	b.WriteString(StyleDim.Render(strings.Join(help, "  ")))
	return b.String()
}
