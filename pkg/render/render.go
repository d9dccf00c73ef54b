package render

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/matzehuels/boxlayout/pkg/errors"
	"github.com/matzehuels/boxlayout/pkg/graph"
)

// Output formats.
const (
	FormatSVG    = "svg"
	FormatPDF    = "pdf"
	FormatDOT    = "dot"
	FormatDOTSVG = "dot-svg"
)

// Formats returns every supported format name.
func Formats() []string {
	return []string{FormatSVG, FormatPDF, FormatDOT, FormatDOTSVG}
}

// ContentType returns the MIME type of a format's output.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatDOTSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// Render draws snap in the given format.
func Render(ctx context.Context, format string, snap graph.Snapshot, opts ...Option) ([]byte, error) {
	if err := errors.ValidateFormat(format, Formats()...); err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case FormatSVG:
		return RenderSVG(snap, opts...), nil
	case FormatPDF:
		return RenderPDF(snap, opts...)
	case FormatDOT:
		return []byte(ToDOT(snap, opts...)), nil
	case FormatDOTSVG:
		return RenderDOTSVG(ctx, ToDOT(snap, opts...))
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "format %q", format)
}

// Option configures rendering.
type Option func(*options)

type options struct {
	margin   float64
	scale    float64
	labels   bool
	detailed bool
	font     []byte
}

// WithMargin adds empty space around the root box, in output units.
func WithMargin(m float64) Option { return func(o *options) { o.margin = max(m, 0) } }

// WithScale multiplies every snapshot coordinate.
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

// WithoutLabels omits node id labels.
func WithoutLabels() Option { return func(o *options) { o.labels = false } }

// WithDetails adds sizes and behavior kinds to DOT labels.
func WithDetails() Option { return func(o *options) { o.detailed = true } }

// WithFont supplies TrueType or OpenType data for PDF labels.
func WithFont(data []byte) Option { return func(o *options) { o.font = data } }

func newOptions(opts ...Option) options {
	o := options{scale: 1, labels: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// frame returns the output size for bounds b.
func (o options) frame(b graph.Rect) (w, h float64) {
	return b.W*o.scale + 2*o.margin, b.H*o.scale + 2*o.margin
}

// =============================================================================
// Palette
// =============================================================================

// palette colors boxes by depth, cycling for deep trees.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2",
	"#59a14f", "#edc948", "#b07aa1", "#ff9da7",
}

const (
	strokeHex   = "#333333"
	fillOpacity = 0.35
)

// DepthColor returns the hex fill color for boxes at depth.
func DepthColor(depth int) string {
	return palette[depth%len(palette)]
}

func fillColor(depth int) color.Color {
	c := canvas.Hex(DepthColor(depth))
	return canvas.RGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, fillOpacity)
}

func describe(n graph.Node) string {
	return fmt.Sprintf("%s (%.4g x %.4g)", n.ID, n.World.W, n.World.H)
}
