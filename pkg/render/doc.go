// Package render draws resolved layout snapshots.
//
// # Overview
//
// Every renderer takes a [graph.Snapshot] and uses the world rects it
// carries; no renderer touches live layout nodes. Supported outputs:
//
//   - SVG: hand-written, one rect and label per node ([RenderSVG])
//   - PDF: vector boxes through tdewolff/canvas ([RenderPDF])
//   - DOT: the node hierarchy as a Graphviz digraph ([ToDOT])
//   - DOT-SVG: the DOT graph laid out by Graphviz ([RenderDOTSVG])
//
// [Render] dispatches on a format name, which is how the CLI and the HTTP
// API select an output:
//
//	data, err := render.Render(ctx, render.FormatSVG, snap, render.WithMargin(8))
//
// # Coordinates
//
// Snapshot world rects have Y growing upward. SVG flips them so the root
// fills the viewBox with its top edge at y=0; PDF pages use the same
// orientation as the snapshot and need no flip.
//
// # Fonts
//
// SVG labels use the viewer's sans-serif font. PDF labels need font data,
// supplied with [WithFont]; without it the PDF contains boxes only.
package render
