package render

import (
	"bytes"
	"fmt"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/matzehuels/boxlayout/pkg/graph"
)

// pdfStrokeWidth is the box outline width in millimeters.
const pdfStrokeWidth = 0.3

// RenderPDF draws snap on a single PDF page. One snapshot unit is one
// millimeter at scale 1. Labels are drawn only when a font was supplied
// with [WithFont].
func RenderPDF(snap graph.Snapshot, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	bounds := snap.Bounds()
	w, h := o.frame(bounds)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render pdf: empty page (%.4g x %.4g)", w, h)
	}

	var face *canvas.FontFace
	if o.labels && len(o.font) > 0 {
		family := canvas.NewFontFamily("boxlayout-label")
		if err := family.LoadFont(o.font, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		face = family.Face(10*o.scale, canvas.Hex("#222222"), canvas.FontRegular, canvas.FontNormal)
	}

	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetStrokeColor(canvas.Hex(strokeHex))
	ctx.SetStrokeWidth(pdfStrokeWidth)

	for _, n := range snap.Nodes {
		r := n.World
		if r.W <= 0 || r.H <= 0 {
			continue
		}
		x := o.margin + (r.X-bounds.X)*o.scale
		y := o.margin + (r.Y-bounds.Y)*o.scale
		ctx.SetFillColor(fillColor(n.Depth))
		ctx.DrawPath(x, y, canvas.Rectangle(r.W*o.scale, r.H*o.scale))

		if face != nil {
			cx, cy := x+r.W*o.scale/2, y+r.H*o.scale/2
			ctx.DrawText(cx, cy, canvas.NewTextLine(face, n.ID, canvas.Center))
		}
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
