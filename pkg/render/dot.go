package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/boxlayout/pkg/graph"
)

// ToDOT converts the node hierarchy of snap to Graphviz DOT format, with
// one edge per parent-child link. The result can be laid out with
// [RenderDOTSVG]. [WithDetails] adds sizes and behavior kinds to labels.
func ToDOT(snap graph.Snapshot, opts ...Option) string {
	o := newOptions(opts...)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range snap.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, o.detailed), ", "))
	}

	buf.WriteString("\n")
	for _, n := range snap.Nodes {
		if n.Parent != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.Parent, n.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}
	parts := []string{
		n.ID,
		fmt.Sprintf("size: %.4g x %.4g", n.Size[0], n.Size[1]),
		fmt.Sprintf("pos: %.4g, %.4g", n.LocalPos[0], n.LocalPos[1]),
	}
	if len(n.Behaviors) > 0 {
		parts = append(parts, "behaviors: "+strings.Join(n.Behaviors, ", "))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n graph.Node, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("fillcolor=%q", DepthColor(n.Depth)),
	}
	if n.World.W <= 0 || n.World.H <= 0 {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=grey40")
	}
	return attrs
}

// RenderDOTSVG lays out a DOT graph with Graphviz and returns SVG.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg tag with one whose
// width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
