package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jchntrl/power-point-assistant/internal/core/diagram"
)

// DefaultDotBinary は既定のGraphvizコマンド
const DefaultDotBinary = "dot"

// GraphvizRenderer はDOTを生成し、Graphvizの dot コマンドでPNGに変換する
type GraphvizRenderer struct {
	binary string
	logger *slog.Logger
}

// NewGraphvizRenderer は新しいGraphvizRendererを作成する
func NewGraphvizRenderer(binary string, logger *slog.Logger) *GraphvizRenderer {
	if binary == "" {
		binary = DefaultDotBinary
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphvizRenderer{binary: binary, logger: logger}
}

// Available は dot コマンドが実行可能かを返す
func (r *GraphvizRenderer) Available() bool {
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// Render はDOTを dot -Tpng に渡して outputPath に書き出す
func (r *GraphvizRenderer) Render(ctx context.Context, graph diagram.Resolved, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, "-Tpng", "-o", outputPath)
	cmd.Stdin = strings.NewReader(DOT(graph))
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run %s: %w: %s", r.binary, err, strings.TrimSpace(stderr.String()))
	}

	r.logger.Debug("rendered diagram with graphviz", "output", outputPath, "nodes", len(graph.Nodes))
	return nil
}

// DOT は解決済みの図をGraphvizのDOT言語で表す
func DOT(g diagram.Resolved) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", quote(g.Title))

	graphAttrs := diagram.Attrs{"rankdir": string(g.Direction), "label": g.Title, "labelloc": "t"}
	for k, v := range g.Graph {
		graphAttrs[k] = v
	}
	writeStatement(&b, "\t", "graph", graphAttrs)
	writeStatement(&b, "\t", "node", withDefault(g.NodeAttrs, "shape", "box"))
	writeStatement(&b, "\t", "edge", g.EdgeAttrs)

	for i, c := range g.Clusters {
		fmt.Fprintf(&b, "\tsubgraph cluster_%d {\n", i)
		clusterAttrs := diagram.Attrs{"label": c.Name}
		for k, v := range c.Style {
			clusterAttrs[k] = v
		}
		for _, k := range sortedKeys(clusterAttrs) {
			fmt.Fprintf(&b, "\t\t%s=%s;\n", k, quote(clusterAttrs[k]))
		}
		for _, id := range c.NodeIDs {
			if n, ok := g.NodeByID(id); ok {
				writeNode(&b, "\t\t", n)
			}
		}
		b.WriteString("\t}\n")
	}

	for _, n := range g.Nodes {
		if n.Cluster == "" {
			writeNode(&b, "\t", n)
		}
	}

	for _, e := range g.Edges {
		attrs := diagram.Attrs{}
		for k, v := range e.Style {
			attrs[k] = v
		}
		if e.Label != "" {
			attrs["label"] = e.Label
		}
		if e.Bidirectional {
			attrs["dir"] = "both"
		}
		fmt.Fprintf(&b, "\t%s -> %s", e.From, e.To)
		writeAttrList(&b, attrs)
		b.WriteString(";\n")
	}

	b.WriteString("}\n")
	return b.String()
}

func writeNode(b *strings.Builder, indent string, n diagram.Node) {
	attrs := diagram.Attrs{"label": n.Label() + "\n" + n.Icon.Name, "tooltip": n.Icon.ID()}
	for k, v := range n.Style {
		attrs[k] = v
	}
	b.WriteString(indent + n.ID)
	writeAttrList(b, attrs)
	b.WriteString(";\n")
}

func writeStatement(b *strings.Builder, indent, kind string, attrs diagram.Attrs) {
	if len(attrs) == 0 {
		return
	}
	b.WriteString(indent + kind)
	writeAttrList(b, attrs)
	b.WriteString(";\n")
}

func writeAttrList(b *strings.Builder, attrs diagram.Attrs) {
	if len(attrs) == 0 {
		return
	}
	parts := make([]string, 0, len(attrs))
	for _, k := range sortedKeys(attrs) {
		parts = append(parts, k+"="+quote(attrs[k]))
	}
	b.WriteString(" [" + strings.Join(parts, ", ") + "]")
}

func withDefault(attrs diagram.Attrs, key, value string) diagram.Attrs {
	out := diagram.Attrs{key: value}
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

func sortedKeys(attrs diagram.Attrs) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// quote はDOTの文字列として引用する（改行は \n、他の制御文字は捨てる）
func quote(s string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' {
			return -1
		}
		return r
	}, s)
	return `"` + dotEscaper.Replace(clean) + `"`
}
