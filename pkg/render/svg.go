package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/boxlayout/pkg/graph"
)

const boxCSS = `
    .box { transition: fill-opacity 0.2s ease; }
    .box:hover { fill-opacity: 0.6; }
    .box-label { font-family: sans-serif; fill: #222; pointer-events: none; }`

// RenderSVG draws every node of snap as a translucent rect, colored by
// depth, with its id centered on top. Parents are drawn before children so
// nested boxes stay visible.
func RenderSVG(snap graph.Snapshot, opts ...Option) []byte {
	o := newOptions(opts...)
	bounds := snap.Bounds()
	w, h := o.frame(bounds)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	if snap.Scene != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(snap.Scene))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", boxCSS)

	for _, n := range snap.Nodes {
		renderBox(&buf, o, bounds, n)
	}
	if o.labels {
		for _, n := range snap.Nodes {
			renderLabel(&buf, o, bounds, n)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// project maps a world rect to SVG coordinates: scaled, shifted by the
// margin, and flipped so Y grows downward.
func project(o options, bounds, r graph.Rect) (x, y, w, h float64) {
	x = o.margin + (r.X-bounds.X)*o.scale
	y = o.margin + (bounds.Top()-r.Top())*o.scale
	return x, y, r.W * o.scale, r.H * o.scale
}

func renderBox(buf *bytes.Buffer, o options, bounds graph.Rect, n graph.Node) {
	x, y, w, h := project(o, bounds, n.World)
	fmt.Fprintf(buf, `  <rect id="box-%s" class="box depth-%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="1">`,
		html.EscapeString(n.ID), n.Depth, x, y, w, h, DepthColor(n.Depth), fillOpacity, strokeHex)
	fmt.Fprintf(buf, "<title>%s</title></rect>\n", html.EscapeString(describe(n)))
}

func renderLabel(buf *bytes.Buffer, o options, bounds graph.Rect, n graph.Node) {
	x, y, w, h := project(o, bounds, n.World)
	if w <= 0 || h <= 0 {
		return
	}
	size := min(12*o.scale, h/2)
	fmt.Fprintf(buf, `  <text class="box-label" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		x+w/2, y+h/2, size, html.EscapeString(n.ID))
}
