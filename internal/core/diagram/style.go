package diagram

import (
	"fmt"
	"io"
	"maps"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultStyle はスタイル名が不明な場合に使うテンプレート名
const DefaultStyle = "keyrus_brand"

// Attrs はGraphviz形式の属性（キーと文字列値）
type Attrs map[string]string

// clone はnilでも空でないマップを返す
func (a Attrs) clone() Attrs {
	out := make(Attrs, len(a))
	maps.Copy(out, a)
	return out
}

// StyleTemplate はグラフ・ノード・エッジの既定属性の組
type StyleTemplate struct {
	Graph Attrs `yaml:"graph_attr"`
	Node  Attrs `yaml:"node_attr"`
	Edge  Attrs `yaml:"edge_attr"`
}

// LayoutConfig は図の種類ごとのレイアウト設定
type LayoutConfig struct {
	Direction    Direction
	ClusterStyle Attrs
	Spacing      Attrs
}

// StyleConfig はテンプレートとレイアウト設定を合成した最終的なスタイル
type StyleConfig struct {
	Graph     Attrs
	Node      Attrs
	Edge      Attrs
	Cluster   Attrs
	Direction Direction
}

// BrandColors はブランドの基本3色
type BrandColors struct {
	Primary   string
	Secondary string
	Accent    string
}

// Styler はブランドカラーに基づいて図のスタイルを決定する
type Styler struct {
	colors    map[string]string
	templates map[string]StyleTemplate
	layouts   map[Type]LayoutConfig
	dpi       int
}

// NewStyler は新しいStylerを作成します
func NewStyler(brand BrandColors, dpi int) *Styler {
	if dpi <= 0 {
		dpi = 300
	}
	s := &Styler{
		colors: map[string]string{
			"primary":     brand.Primary,
			"secondary":   brand.Secondary,
			"accent":      brand.Accent,
			"success":     "#28A745",
			"warning":     "#FFC107",
			"danger":      "#DC3545",
			"info":        "#17A2B8",
			"light_gray":  "#F8F9FA",
			"medium_gray": "#6C757D",
			"dark_gray":   "#343A40",
		},
		dpi: dpi,
	}
	s.templates = s.builtinTemplates()
	s.layouts = s.builtinLayouts()
	return s
}

// Color はパレットの色を返す（不明な名前はsecondary）
func (s *Styler) Color(name string) string {
	if c, ok := s.colors[name]; ok {
		return c
	}
	return s.colors["secondary"]
}

func (s *Styler) builtinTemplates() map[string]StyleTemplate {
	dpi := strconv.Itoa(s.dpi)
	return map[string]StyleTemplate{
		"keyrus_brand": {
			Graph: Attrs{
				"bgcolor":   "transparent",
				"fontname":  "Arial",
				"fontsize":  "16",
				"fontcolor": s.colors["secondary"],
				"dpi":       dpi,
				"margin":    "0.3",
				"nodesep":   "0.6",
				"ranksep":   "1.0",
				"splines":   "ortho",
			},
			Node: Attrs{
				"fontname":  "Arial",
				"fontsize":  "12",
				"fontcolor": s.colors["secondary"],
				"style":     "filled",
				"fillcolor": s.colors["accent"],
				"color":     s.colors["primary"],
				"penwidth":  "2",
			},
			Edge: Attrs{
				"fontname":  "Arial",
				"fontsize":  "10",
				"fontcolor": s.colors["secondary"],
				"color":     s.colors["primary"],
				"penwidth":  "2",
				"arrowsize": "0.8",
			},
		},
		"minimal": {
			Graph: Attrs{
				"bgcolor":  "white",
				"fontname": "Arial",
				"fontsize": "14",
				"dpi":      dpi,
				"margin":   "0.2",
				"nodesep":  "0.5",
				"ranksep":  "0.8",
			},
			Node: Attrs{
				"fontname":  "Arial",
				"fontsize":  "11",
				"style":     "rounded,filled",
				"fillcolor": "#F0F0F0",
				"color":     "#808080",
			},
			Edge: Attrs{
				"color":    "#606060",
				"penwidth": "1.5",
			},
		},
		"high_contrast": {
			Graph: Attrs{
				"bgcolor":  "white",
				"fontname": "Arial Bold",
				"fontsize": "18",
				"dpi":      dpi,
				"margin":   "0.4",
			},
			Node: Attrs{
				"fontname":  "Arial Bold",
				"fontsize":  "14",
				"style":     "filled,bold",
				"fillcolor": s.colors["accent"],
				"color":     s.colors["secondary"],
				"penwidth":  "3",
			},
			Edge: Attrs{
				"color":     s.colors["secondary"],
				"penwidth":  "3",
				"arrowsize": "1.0",
			},
		},
	}
}

func (s *Styler) builtinLayouts() map[Type]LayoutConfig {
	return map[Type]LayoutConfig{
		TypeMicroservices: {
			Direction: DirectionTB,
			ClusterStyle: Attrs{
				"style":     "rounded,filled",
				"fillcolor": s.colors["light_gray"],
				"color":     s.colors["primary"],
				"penwidth":  "2",
				"fontname":  "Arial Bold",
				"fontsize":  "14",
			},
			Spacing: Attrs{"nodesep": "0.8", "ranksep": "1.2"},
		},
		TypeDataPipeline: {
			Direction: DirectionLR,
			ClusterStyle: Attrs{
				"style":    "rounded,dashed",
				"color":    s.colors["info"],
				"penwidth": "2",
			},
			Spacing: Attrs{"nodesep": "1.0", "ranksep": "1.5"},
		},
		TypeCloudArchitecture: {
			Direction: DirectionTB,
			ClusterStyle: Attrs{
				"style":     "rounded,filled",
				"fillcolor": s.colors["light_gray"],
				"color":     s.colors["primary"],
				"penwidth":  "2",
			},
			Spacing: Attrs{"nodesep": "0.7", "ranksep": "1.0"},
		},
		TypeDatabaseSchema: {
			Direction: DirectionTB,
			ClusterStyle: Attrs{
				"style":     "rounded,filled",
				"fillcolor": "#E8F4FD",
				"color":     s.colors["info"],
				"penwidth":  "2",
			},
			Spacing: Attrs{"nodesep": "0.6", "ranksep": "0.8"},
		},
	}
}

// StyleConfig はテンプレート名と図の種類からスタイルを合成する
// 不明なテンプレート名はDefaultStyleとして扱う
func (s *Styler) StyleConfig(name string, t Type) StyleConfig {
	tmpl, ok := s.templates[name]
	if !ok {
		tmpl = s.templates[DefaultStyle]
	}

	cfg := StyleConfig{
		Graph:   tmpl.Graph.clone(),
		Node:    tmpl.Node.clone(),
		Edge:    tmpl.Edge.clone(),
		Cluster: Attrs{},
	}

	if layout, ok := s.layouts[t]; ok {
		maps.Copy(cfg.Graph, layout.Spacing)
		cfg.Cluster = layout.ClusterStyle.clone()
		cfg.Direction = layout.Direction
	}
	return cfg
}

var componentColorNames = map[ComponentType]string{
	ComponentAPI:          "primary",
	ComponentService:      "info",
	ComponentMicroservice: "info",
	ComponentDatabase:     "success",
	ComponentNoSQL:        "success",
	ComponentQueue:        "warning",
	ComponentNotification: "warning",
	ComponentStorage:      "medium_gray",
	ComponentCompute:      "primary",
	ComponentContainer:    "info",
	ComponentLoadBalancer: "danger",
}

var componentColorValues = map[ComponentType]string{
	ComponentAnalytics: "#8A2BE2",
	ComponentETL:       "#FF6347",
	ComponentStreaming: "#32CD32",
}

// ComponentStyle はコンポーネント種別ごとの枠線色などを返す
func (s *Styler) ComponentStyle(t ComponentType) Attrs {
	color := s.colors["secondary"]
	if name, ok := componentColorNames[t]; ok {
		color = s.colors[name]
	} else if v, ok := componentColorValues[t]; ok {
		color = v
	}
	return Attrs{
		"fillcolor": s.colors["accent"],
		"color":     color,
		"fontcolor": s.colors["secondary"],
		"penwidth":  "2",
		"style":     "filled,rounded",
	}
}

// clusterColorRules は先頭から順に評価する（"database" は "data" より先）
var clusterColorRules = []struct {
	pattern string
	color   string // パレット名または "#" 始まりの値
}{
	{"web", "primary"},
	{"api", "info"},
	{"database", "success"},
	{"data", "success"},
	{"queue", "warning"},
	{"cache", "danger"},
	{"analytics", "#8A2BE2"},
	{"processing", "#FF6347"},
	{"storage", "medium_gray"},
}

// ClusterStyle はクラスタ名の部分一致で色を決めたクラスタ属性を返す
func (s *Styler) ClusterStyle(name string, t Type) Attrs {
	layout, ok := s.layouts[t]
	if !ok {
		layout = s.layouts[TypeMicroservices]
	}
	style := layout.ClusterStyle.clone()

	color := s.colors["primary"]
	lower := strings.ToLower(name)
	for _, rule := range clusterColorRules {
		if strings.Contains(lower, rule.pattern) {
			color = rule.color
			if !strings.HasPrefix(color, "#") {
				color = s.colors[rule.color]
			}
			break
		}
	}
	style["color"] = color
	return style
}

// ConnectionStyle は接続の種類ごとのエッジ属性を返す
func (s *Styler) ConnectionStyle(kind ConnectionKind) Attrs {
	style := Attrs{
		"color":     s.colors["secondary"],
		"penwidth":  "2",
		"fontcolor": s.colors["secondary"],
		"fontsize":  "10",
	}
	switch kind {
	case ConnectionBidirectional:
		style["dir"] = "both"
		style["arrowhead"] = "normal"
		style["arrowtail"] = "normal"
		style["penwidth"] = "2.5"
	case ConnectionDataFlow:
		style["color"] = s.colors["info"]
		style["style"] = "bold"
		style["penwidth"] = "3"
	case ConnectionAsync:
		style["style"] = "dashed"
		style["color"] = s.colors["warning"]
	}
	return style
}

// Styles は利用可能なテンプレート名を名前順で返す
func (s *Styler) Styles() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DiagramTypes はレイアウト設定のある図の種類を返す
func (s *Styler) DiagramTypes() []Type {
	types := make([]Type, 0, len(s.layouts))
	for _, t := range Types() {
		if _, ok := s.layouts[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

// AddTemplates はテンプレートを追加する（同名は上書き）
// graph_attrにdpiが無い場合はStylerのDPIを補う
func (s *Styler) AddTemplates(templates map[string]StyleTemplate) {
	for name, tmpl := range templates {
		tmpl.Graph = tmpl.Graph.clone()
		tmpl.Node = tmpl.Node.clone()
		tmpl.Edge = tmpl.Edge.clone()
		if _, ok := tmpl.Graph["dpi"]; !ok {
			tmpl.Graph["dpi"] = strconv.Itoa(s.dpi)
		}
		s.templates[name] = tmpl
	}
}

// LoadStyleTemplates はYAMLからスタイルテンプレートを読み込む
//
//	corporate:
//	  graph_attr: {bgcolor: white, fontname: Helvetica}
//	  node_attr: {style: filled}
//	  edge_attr: {color: "#333333"}
func LoadStyleTemplates(r io.Reader) (map[string]StyleTemplate, error) {
	var templates map[string]StyleTemplate
	if err := yaml.NewDecoder(r).Decode(&templates); err != nil {
		if err == io.EOF {
			return map[string]StyleTemplate{}, nil
		}
		return nil, fmt.Errorf("failed to decode style templates: %w", err)
	}
	for name, tmpl := range templates {
		if len(tmpl.Graph) == 0 && len(tmpl.Node) == 0 && len(tmpl.Edge) == 0 {
			return nil, fmt.Errorf("style template %q has no attributes", name)
		}
	}
	return templates, nil
}
