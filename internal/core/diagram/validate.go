package diagram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jchntrl/power-point-assistant/internal/core/parser"
)

const (
	// MinComponents は図として成立する最小コンポーネント数
	MinComponents = 2

	// MaxComponents は1つの図に含められる最大コンポーネント数
	MaxComponents = 20
)

// Rejection は検証で除外された図とその理由
// 想定内のデータ品質の問題であり、エラーとしては扱わない
type Rejection struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

func (r *Rejection) String() string {
	return fmt.Sprintf("%s: %s", r.Title, r.Reason)
}

func reject(raw map[string]any, format string, args ...any) *Rejection {
	return &Rejection{
		Title:  parser.StringOf(raw, "title", "Unknown"),
		Reason: fmt.Sprintf(format, args...),
	}
}

// ValidateSpec はLLMが提案した図のオブジェクトを検証し、型付きのSpecに変換する
func ValidateSpec(raw map[string]any) (Spec, *Rejection) {
	for _, field := range []string{"diagram_type", "title", "components"} {
		if _, ok := raw[field]; !ok {
			return Spec{}, reject(raw, "missing required field %q", field)
		}
	}

	title := parser.StringOf(raw, "title", "")
	if title == "" {
		return Spec{}, reject(raw, "title is empty")
	}
	diagramType := parser.StringOf(raw, "diagram_type", "")
	if diagramType == "" {
		return Spec{}, reject(raw, "diagram_type is empty")
	}

	items, ok := raw["components"].([]any)
	if !ok {
		return Spec{}, reject(raw, "components is not a list")
	}
	if len(items) < MinComponents {
		return Spec{}, reject(raw, "too few components (%d < %d)", len(items), MinComponents)
	}
	if len(items) > MaxComponents {
		return Spec{}, reject(raw, "too many components (%d > %d)", len(items), MaxComponents)
	}

	components := make([]Component, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return Spec{}, reject(raw, "component %d is not an object", i)
		}
		for _, key := range []string{"name", "component_type", "icon_provider"} {
			if parser.StringOf(obj, key, "") == "" {
				return Spec{}, reject(raw, "component %d is missing %q", i, key)
			}
		}
		components = append(components, newComponent(obj))
	}

	connections := []Connection{}
	for _, obj := range parser.ObjectsOf(raw, "connections") {
		connections = append(connections, Connection{
			Source: parser.StringOf(obj, "source", ""),
			Target: parser.StringOf(obj, "target", ""),
			Kind:   ConnectionKind(strings.ToLower(parser.StringOf(obj, "connection_type", string(ConnectionArrow)))),
			Label:  parser.StringOf(obj, "label", ""),
		})
	}

	return Spec{
		Type:        Type(strings.ToLower(diagramType)),
		Title:       title,
		Components:  components,
		Connections: connections,
		Direction:   parseDirection(parser.StringOf(raw, "layout_direction", "")),
		Clusters:    parseClusters(parser.ObjectOf(raw, "clustering")),
		Styling:     parser.ObjectOf(raw, "styling"),
	}, nil
}

func newComponent(obj map[string]any) Component {
	componentType := strings.ToLower(parser.StringOf(obj, "component_type", string(ComponentService)))
	return Component{
		Name:         parser.StringOf(obj, "name", "Unknown"),
		Type:         ComponentType(componentType),
		Provider:     Provider(strings.ToLower(parser.StringOf(obj, "icon_provider", string(ProviderAWS)))),
		IconName:     parser.StringOf(obj, "icon_name", componentType),
		PositionHint: parser.StringOf(obj, "position_hint", ""),
	}
}

func parseDirection(s string) Direction {
	switch d := Direction(strings.ToUpper(s)); d {
	case DirectionTB, DirectionLR, DirectionBT, DirectionRL:
		return d
	default:
		return DirectionTB
	}
}

// parseClusters はクラスタ名の昇順で並べる（JSONオブジェクトのキー順は保持されないため）
func parseClusters(obj map[string]any) []Cluster {
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	clusters := make([]Cluster, 0, len(names))
	for _, name := range names {
		members := parser.StringsOf(obj, name)
		if len(members) == 0 {
			continue
		}
		clusters = append(clusters, Cluster{Name: name, Members: members})
	}
	return clusters
}
