package content

import (
	"strings"

	"github.com/jchntrl/power-point-assistant/internal/core/diagram"
)

// LayoutType はスライドのレイアウト種別
type LayoutType string

const (
	LayoutTitle   LayoutType = "title"
	LayoutBullet  LayoutType = "bullet"
	LayoutDiagram LayoutType = "diagram"
	LayoutSplit   LayoutType = "split"
	LayoutBlank   LayoutType = "blank"
)

// ParseLayoutType は文字列をレイアウト種別に変換する（不明な値はbullet）
func ParseLayoutType(s string) LayoutType {
	switch t := LayoutType(strings.ToLower(strings.TrimSpace(s))); t {
	case LayoutTitle, LayoutBullet, LayoutDiagram, LayoutSplit, LayoutBlank:
		return t
	default:
		return LayoutBullet
	}
}

// Slide は生成された1枚のスライド
// Titleは空でなく、Contentは1件以上
type Slide struct {
	Title   string             `json:"title"`
	Content []string           `json:"content"`
	Layout  LayoutType         `json:"layoutType"`
	Notes   string             `json:"notes,omitempty"`
	Diagram *diagram.Generated `json:"diagram,omitempty"`
}

// HasDiagram は図が割り当てられているかを返す
func (s Slide) HasDiagram() bool {
	return s.Diagram != nil
}

// GenerationResult はスライド生成ステージの結果
type GenerationResult struct {
	Slides     []Slide        `json:"slides"`
	Metadata   map[string]any `json:"metadata"`
	Confidence float64        `json:"confidence"`
}

// Titles はスライドタイトルの一覧を返す
func (r GenerationResult) Titles() []string {
	titles := make([]string, 0, len(r.Slides))
	for _, s := range r.Slides {
		titles = append(titles, s.Title)
	}
	return titles
}
