package diagram

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// Node は解決済みのコンポーネント
type Node struct {
	ID        string
	Component Component
	Icon      Icon
	Cluster   string // 空ならトップレベル
	Style     Attrs
}

// Label は表示用のラベルを返す
func (n Node) Label() string {
	return n.Component.Name
}

// ResolvedCluster はノードIDのグループ
type ResolvedCluster struct {
	Name    string
	NodeIDs []string
	Style   Attrs
}

// Edge は解決済みの辺
type Edge struct {
	From          string // ノードID
	To            string // ノードID
	Kind          ConnectionKind
	Label         string
	Bidirectional bool
	Style         Attrs
}

// Resolved はレンダラーに渡す図の構造
// Nodesはクラスタに属するノード、属さないノードの順に並ぶ
type Resolved struct {
	Title     string
	Type      Type
	Direction Direction
	Nodes     []Node
	Clusters  []ResolvedCluster
	Edges     []Edge
	Graph     Attrs
	NodeAttrs Attrs
	EdgeAttrs Attrs

	// Options はstylingのうちグラフ属性以外の認識済みキー
	Options map[string]any
}

// NodeByID はIDでノードを探す
func (r Resolved) NodeByID(id string) (Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// DiagnosticLevel は診断の重要度
type DiagnosticLevel string

const (
	DiagnosticDebug DiagnosticLevel = "debug"
	DiagnosticWarn  DiagnosticLevel = "warn"
)

// Diagnostic は解決中に捨てた要素の記録
type Diagnostic struct {
	Level   DiagnosticLevel
	Message string
}

// validStylingKeys はレンダラーに渡してよいstylingのキー
var validStylingKeys = map[string]bool{
	"name":       true,
	"filename":   true,
	"direction":  true,
	"curvestyle": true,
	"outformat":  true,
	"autolabel":  true,
	"show":       true,
	"strict":     true,
	"graph_attr": true,
	"node_attr":  true,
	"edge_attr":  true,
}

// FilterStyling は認識済みのキーだけを残し、捨てたキーを名前順で返す
func FilterStyling(styling map[string]any) (map[string]any, []string) {
	kept := make(map[string]any, len(styling))
	var dropped []string
	for k, v := range styling {
		if validStylingKeys[k] {
			kept[k] = v
		} else {
			dropped = append(dropped, k)
		}
	}
	sort.Strings(dropped)
	return kept, dropped
}

// Resolve は図の仕様をアイコン・クラスタ・辺に解決する
// 参照先のない接続や未知のstylingキーは捨てて診断に記録する
func Resolve(spec Spec, catalog *IconCatalog, styler *Styler, styleName string) (Resolved, []Diagnostic) {
	var diags []Diagnostic
	diag := func(level DiagnosticLevel, format string, args ...any) {
		diags = append(diags, Diagnostic{Level: level, Message: fmt.Sprintf(format, args...)})
	}

	style := styler.StyleConfig(styleName, spec.Type)
	out := Resolved{
		Title:     spec.Title,
		Type:      spec.Type,
		Direction: spec.Direction,
		Graph:     style.Graph,
		NodeAttrs: style.Node,
		EdgeAttrs: style.Edge,
		Options:   map[string]any{},
	}
	if out.Direction == "" {
		out.Direction = DirectionTB
	}

	// コンポーネントを名前で引けるようにする（重複名は最初のものを使う）
	byName := make(map[string]Component, len(spec.Components))
	order := make([]string, 0, len(spec.Components))
	for _, c := range spec.Components {
		if _, dup := byName[c.Name]; dup {
			diag(DiagnosticWarn, "duplicate component %q ignored", c.Name)
			continue
		}
		byName[c.Name] = c
		order = append(order, c.Name)
	}

	ids := make(map[string]string, len(order))
	addNode := func(name, cluster string) string {
		c := byName[name]
		id := fmt.Sprintf("n%d", len(out.Nodes))
		ids[name] = id
		out.Nodes = append(out.Nodes, Node{
			ID:        id,
			Component: c,
			Icon:      catalog.Resolve(c.Provider, c.Type, c.IconName),
			Cluster:   cluster,
			Style:     styler.ComponentStyle(c.Type),
		})
		return id
	}

	// クラスタが先にメンバーを取り出し、残りをトップレベルに置く
	for _, cl := range spec.Clusters {
		rc := ResolvedCluster{Name: cl.Name, Style: styler.ClusterStyle(cl.Name, spec.Type)}
		for _, member := range cl.Members {
			if _, ok := byName[member]; !ok {
				diag(DiagnosticWarn, "cluster %q references unknown component %q", cl.Name, member)
				continue
			}
			if _, taken := ids[member]; taken {
				continue
			}
			rc.NodeIDs = append(rc.NodeIDs, addNode(member, cl.Name))
		}
		if len(rc.NodeIDs) > 0 {
			out.Clusters = append(out.Clusters, rc)
		}
	}
	for _, name := range order {
		if _, taken := ids[name]; !taken {
			addNode(name, "")
		}
	}

	for _, conn := range spec.Connections {
		from, okFrom := ids[conn.Source]
		to, okTo := ids[conn.Target]
		if !okFrom || !okTo {
			diag(DiagnosticWarn, "cannot connect %s -> %s: component not found", conn.Source, conn.Target)
			continue
		}
		out.Edges = append(out.Edges, Edge{
			From:          from,
			To:            to,
			Kind:          conn.Kind,
			Label:         conn.Label,
			Bidirectional: conn.Kind == ConnectionBidirectional,
			Style:         styler.ConnectionStyle(conn.Kind),
		})
	}

	kept, dropped := FilterStyling(spec.Styling)
	if len(dropped) > 0 {
		diag(DiagnosticDebug, "filtering out invalid diagram parameters: %s", strings.Join(dropped, ", "))
	}
	for k, v := range kept {
		switch k {
		case "graph_attr":
			maps.Copy(out.Graph, attrsOf(v))
		case "node_attr":
			maps.Copy(out.NodeAttrs, attrsOf(v))
		case "edge_attr":
			maps.Copy(out.EdgeAttrs, attrsOf(v))
		case "direction":
			if s, ok := v.(string); ok {
				out.Direction = parseDirection(s)
			}
		default:
			out.Options[k] = v
		}
	}

	return out, diags
}

func attrsOf(v any) Attrs {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(Attrs, len(obj))
	for k, val := range obj {
		out[k] = fmt.Sprint(val)
	}
	return out
}
