package graph_test

import (
	"fmt"

	"github.com/matzehuels/boxlayout/pkg/geom"
	"github.com/matzehuels/boxlayout/pkg/graph"
	"github.com/matzehuels/boxlayout/pkg/layout"
)

func ExampleFromTree() {
	// A 200x100 screen with a stretched panel kept square by AspectFit
	screen := layout.NewNode("screen")
	screen.UpdateLocalSize(geom.V3(200, 100, 0), geom.Zero)

	panel := layout.NewNode("panel")
	_ = panel.SetParent(screen)
	panel.UpdateAnchorParam(geom.Zero, geom.V3(1, 1, 0), geom.Zero, geom.Zero)
	panel.AddBehavior(layout.NewAspectFit(layout.ParentFit, 1))
	layout.Tick(screen)

	snap := graph.FromTree("hud", 1, screen)
	for _, n := range snap.Nodes {
		fmt.Printf("%s depth=%d world=%+v behaviors=%v\n", n.ID, n.Depth, n.World, n.Behaviors)
	}
	// Output:
	// screen depth=0 world={X:0 Y:0 W:200 H:100} behaviors=[]
	// panel depth=1 world={X:50 Y:0 W:100 H:100} behaviors=[aspect_fit]
}

func ExampleUnmarshal() {
	data := []byte(`{
	  "scene": "hud",
	  "ticks": 1,
	  "nodes": [
	    {"id": "screen", "size": [200, 100, 0], "world": {"x": 0, "y": 0, "w": 200, "h": 100}},
	    {"id": "panel", "parent": "screen", "depth": 1, "world": {"x": 50, "y": 0, "w": 100, "h": 100}}
	  ]
	}`)

	snap, err := graph.Unmarshal(data)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, child := range snap.Children("screen") {
		fmt.Printf("%s inside %v: %v\n", child.ID, snap.Bounds(), snap.Bounds().Contains(child.World))
	}
	// Output:
	// panel inside {0 0 200 100}: true
}
