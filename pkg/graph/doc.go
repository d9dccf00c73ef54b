// Package graph provides the serialization format for resolved layout trees.
//
// A [Snapshot] is the geometry of every node of a tree after some number of
// layout ticks. It is the canonical wire format of boxlayout, used for JSON
// files, API responses, caching, and the MongoDB snapshot store.
//
// # Architecture
//
// The package sits at the serialization boundary:
//
//   - [Snapshot], [Node], [Rect]: serialization types (this package)
//   - pkg/layout.Node: the live layout tree
//   - pkg/scene.Tree: a live tree built from a scene file
//
// Use [FromTree] to capture a live tree. Snapshots never convert back into
// nodes; rebuild from the scene instead.
//
// # Coordinates
//
// Node fields mirror the layout engine: anchors in parent-relative fractions,
// offsets and local positions relative to the parent center, Y growing
// upward. [Node.World] additionally places every box in the root's frame,
// with the origin at the root's bottom-left corner. Renderers only need the
// world rects.
//
// # Serialization
//
//	{
//	  "scene": "hud",
//	  "ticks": 1,
//	  "nodes": [
//	    {"id": "screen", "size": [200, 100, 0], "world": {"x": 0, "y": 0, "w": 200, "h": 100}, ...},
//	    {"id": "panel", "parent": "screen", "depth": 1, ...}
//	  ]
//	}
//
// Common operations:
//
//	snap := graph.FromTree("hud", 1, root)      // live tree → Snapshot
//	graph.WriteFile(snap, "hud.json")          // Snapshot → file
//	data, _ := graph.Marshal(snap)             // Snapshot → []byte
//	snap, _ = graph.Unmarshal(data)            // []byte → Snapshot
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
