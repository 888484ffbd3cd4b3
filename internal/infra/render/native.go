package render

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/jchntrl/power-point-assistant/internal/core/diagram"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// NativeRenderer は外部コマンドを使わずにPNGを描画する
// ランクごとに並べたノード、クラスタ枠、矢印付きの辺を描く
type NativeRenderer struct {
	regular *truetype.Font
	bold    *truetype.Font
	scale   float64
	logger  *slog.Logger
}

// NewNativeRenderer は新しいNativeRendererを作成する
// dpi は描画倍率の目安で、150dpiを等倍として1〜2倍に収める
func NewNativeRenderer(dpi int, logger *slog.Logger) (*NativeRenderer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	scale := math.Min(math.Max(float64(dpi)/150, 1), 2)
	return &NativeRenderer{regular: regular, bold: bold, scale: scale, logger: logger}, nil
}

// faces は描画1回分のフォントフェイス
// font.Face は並行に使えないため呼び出しごとに作る
type faces struct {
	title, label, small font.Face
}

func (r *NativeRenderer) newFaces() faces {
	face := func(f *truetype.Font, size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{Size: size * r.scale, Hinting: font.HintingFull})
	}
	return faces{
		title: face(r.bold, 20),
		label: face(r.bold, 13),
		small: face(r.regular, 10),
	}
}

// Render は図をPNGとして outputPath に保存する
func (r *NativeRenderer) Render(ctx context.Context, g diagram.Resolved, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := baseMetrics.scaled(r.scale)
	l := computeLayout(g, m)
	f := r.newFaces()

	dc := gg.NewContext(int(math.Ceil(l.Width)), int(math.Ceil(l.Height)))
	if bg, ok := parseColor(g.Graph["bgcolor"]); ok {
		dc.SetColor(bg)
		dc.Clear()
	}

	textColor := colorOr(g.Graph["fontcolor"], color.RGBA{R: 0x34, G: 0x3A, B: 0x40, A: 0xFF})
	if g.Title != "" {
		dc.SetFontFace(f.title)
		dc.SetColor(textColor)
		dc.DrawStringAnchored(g.Title, l.Width/2, m.Margin/2+m.TitleH/2, 0.5, 0.5)
	}

	for _, c := range l.Clusters {
		r.drawCluster(dc, f, c, m)
	}

	for _, e := range g.Edges {
		from, okFrom := l.Nodes[e.From]
		to, okTo := l.Nodes[e.To]
		if !okFrom || !okTo || e.From == e.To {
			continue
		}
		r.drawEdge(dc, f, g, e, from, to)
	}

	for _, n := range g.Nodes {
		if b, ok := l.Nodes[n.ID]; ok {
			r.drawNode(dc, f, g, n, b)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("failed to save png: %w", err)
	}

	r.logger.Debug("rendered diagram", "output", outputPath, "nodes", len(g.Nodes), "edges", len(g.Edges))
	return nil
}

func (r *NativeRenderer) drawCluster(dc *gg.Context, f faces, c clusterBox, m metrics) {
	style := c.Cluster.Style
	radius := 12 * r.scale

	dc.DrawRoundedRectangle(c.Box.X, c.Box.Y, c.Box.W, c.Box.H, radius)
	if strings.Contains(style["style"], "filled") {
		dc.SetColor(colorOr(style["fillcolor"], color.RGBA{R: 0xF8, G: 0xF9, B: 0xFA, A: 0xFF}))
		dc.FillPreserve()
	}
	dc.SetColor(colorOr(style["color"], color.RGBA{R: 0x6C, G: 0x75, B: 0x7D, A: 0xFF}))
	dc.SetLineWidth(penWidth(style["penwidth"], 2) * r.scale)
	if strings.Contains(style["style"], "dashed") {
		dc.SetDash(8*r.scale, 6*r.scale)
	}
	dc.Stroke()
	dc.SetDash()

	dc.SetFontFace(f.label)
	dc.DrawStringAnchored(c.Cluster.Name, c.Box.X+m.ClusterPad, c.Box.Y+m.ClusterLabel/2+m.ClusterPad/2, 0, 0.5)
}

func (r *NativeRenderer) drawEdge(dc *gg.Context, f faces, g diagram.Resolved, e diagram.Edge, from, to box) {
	tcx, tcy := to.center()
	fcx, fcy := from.center()
	x1, y1 := from.border(tcx, tcy)
	x2, y2 := to.border(fcx, fcy)

	edgeColor := colorOr(firstNonEmpty(e.Style["color"], g.EdgeAttrs["color"]), color.RGBA{R: 0x1F, G: 0x4E, B: 0x79, A: 0xFF})
	dc.SetColor(edgeColor)
	dc.SetLineWidth(penWidth(firstNonEmpty(e.Style["penwidth"], g.EdgeAttrs["penwidth"]), 2) * r.scale)

	style := e.Style["style"]
	if strings.Contains(style, "dashed") || strings.Contains(style, "dotted") {
		dc.SetDash(6*r.scale, 4*r.scale)
	}
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
	dc.SetDash()

	size := 10 * r.scale
	drawArrowhead(dc, x1, y1, x2, y2, size)
	if e.Bidirectional {
		drawArrowhead(dc, x2, y2, x1, y1, size)
	}

	if e.Label != "" {
		dc.SetFontFace(f.small)
		dc.DrawStringAnchored(e.Label, (x1+x2)/2, (y1+y2)/2-6*r.scale, 0.5, 1)
	}
}

// drawArrowhead は (x1,y1)→(x2,y2) の終点に三角形を描く
func drawArrowhead(dc *gg.Context, x1, y1, x2, y2, size float64) {
	angle := math.Atan2(y2-y1, x2-x1)
	spread := math.Pi / 7
	dc.MoveTo(x2, y2)
	dc.LineTo(x2-size*math.Cos(angle-spread), y2-size*math.Sin(angle-spread))
	dc.LineTo(x2-size*math.Cos(angle+spread), y2-size*math.Sin(angle+spread))
	dc.ClosePath()
	dc.Fill()
}

func (r *NativeRenderer) drawNode(dc *gg.Context, f faces, g diagram.Resolved, n diagram.Node, b box) {
	fill := colorOr(firstNonEmpty(n.Style["fillcolor"], g.NodeAttrs["fillcolor"]), color.White)
	stroke := colorOr(firstNonEmpty(n.Style["color"], g.NodeAttrs["color"]), color.RGBA{R: 0x1F, G: 0x4E, B: 0x79, A: 0xFF})
	text := colorOr(firstNonEmpty(n.Style["fontcolor"], g.NodeAttrs["fontcolor"]), color.Black)

	dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, 10*r.scale)
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(stroke)
	dc.SetLineWidth(penWidth(firstNonEmpty(n.Style["penwidth"], g.NodeAttrs["penwidth"]), 2) * r.scale)
	dc.Stroke()

	cx, cy := b.center()
	dc.SetColor(text)
	dc.SetFontFace(f.label)
	dc.DrawStringWrapped(n.Label(), cx, cy-6*r.scale, 0.5, 0.5, b.W-16*r.scale, 1.2, gg.AlignCenter)

	if n.Icon.Name != "" {
		dc.SetFontFace(f.small)
		dc.DrawStringAnchored(n.Icon.Name, cx, b.Y+b.H-10*r.scale, 0.5, 0)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func penWidth(s string, def float64) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
		return v
	}
	return def
}

var namedColors = map[string]color.RGBA{
	"white":     {R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	"black":     {A: 0xFF},
	"gray":      {R: 0x80, G: 0x80, B: 0x80, A: 0xFF},
	"lightgray": {R: 0xD3, G: 0xD3, B: 0xD3, A: 0xFF},
}

// parseColor は "#RRGGBB" / "#RRGGBBAA" と一部の色名を解釈する
// "transparent" や解釈できない値は false を返す
func parseColor(s string) (color.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 9) {
		return nil, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return nil, false
	}
	if len(s) == 7 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, true
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

func colorOr(s string, def color.Color) color.Color {
	if c, ok := parseColor(s); ok {
		return c
	}
	return def
}
