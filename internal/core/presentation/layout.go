package presentation

import (
	"fmt"
	"strings"
)

// LayoutMap はレイアウト名（小文字）と別名からレイアウト番号を引く
type LayoutMap struct {
	byName  map[string]int
	aliases map[string]int
	count   int
}

// MapLayouts はレイアウト名から別名を作る
//   - "title" + "slide" → title
//   - "title" + "content" → title_content
//   - "content" / "bullet" → bullet
//   - "blank" → blank
//   - "section" → section
//   - "two content" / "comparison" / "split" → split
//   - "title only" / "picture" / "diagram" → diagram
func MapLayouts(layouts []Layout) LayoutMap {
	m := LayoutMap{
		byName:  make(map[string]int, len(layouts)),
		aliases: make(map[string]int),
		count:   len(layouts),
	}
	for _, l := range layouts {
		name := strings.ToLower(strings.TrimSpace(l.Name))
		if _, ok := m.byName[name]; !ok {
			m.byName[name] = l.Index
		}

		switch {
		case strings.Contains(name, "title") && strings.Contains(name, "slide"):
			m.alias("title", l.Index)
		case strings.Contains(name, "title") && strings.Contains(name, "content"):
			m.alias("title_content", l.Index)
		case strings.Contains(name, "two content") || strings.Contains(name, "comparison") || strings.Contains(name, "split"):
			m.alias("split", l.Index)
		case strings.Contains(name, "content") || strings.Contains(name, "bullet"):
			m.alias("bullet", l.Index)
		case strings.Contains(name, "blank"):
			m.alias("blank", l.Index)
		case strings.Contains(name, "section"):
			m.alias("section", l.Index)
		}

		if strings.Contains(name, "title only") || strings.Contains(name, "picture") || strings.Contains(name, "diagram") {
			m.alias("diagram", l.Index)
		}
	}
	return m
}

// alias は最初に見つかったレイアウトを優先する
func (m LayoutMap) alias(key string, index int) {
	if _, ok := m.aliases[key]; !ok {
		m.aliases[key] = index
	}
}

// Lookup は名前または別名でレイアウト番号を返す
func (m LayoutMap) Lookup(name string) (int, bool) {
	key := strings.ToLower(name)
	if i, ok := m.byName[key]; ok {
		return i, true
	}
	i, ok := m.aliases[key]
	return i, ok
}

// Len はレイアウト数を返す
func (m LayoutMap) Len() int {
	return m.count
}

// Index はレイアウト種別からレイアウト番号を決める
// レイアウト名の完全一致 → 種別ごとの別名 → 一般的な本文レイアウト → 1番 の順にフォールバックする
func (m LayoutMap) Index(layoutType string) int {
	key := strings.ToLower(layoutType)
	if i, ok := m.byName[key]; ok {
		return i
	}

	switch key {
	case "title":
		return m.first(0, "title")
	case "blank":
		return m.first(6, "blank")
	case "split":
		return m.first(1, "split", "title_content", "bullet")
	case "diagram":
		return m.first(1, "diagram", "blank", "title_content", "bullet")
	case "section":
		return m.first(1, "section", "title_content", "bullet")
	default:
		return m.first(1, "title_content", "bullet")
	}
}

// first は候補の別名を順に探し、無ければ既定番号（範囲外なら最後のレイアウト）を返す
func (m LayoutMap) first(def int, keys ...string) int {
	for _, k := range keys {
		if i, ok := m.aliases[k]; ok {
			return i
		}
	}
	if def >= m.count {
		return max(m.count-1, 0)
	}
	return def
}

// ValidateTemplate はテンプレートにタイトル用と本文用のレイアウトがあるかを検証する
func ValidateTemplate(layouts []Layout) error {
	if len(layouts) == 0 {
		return ErrNoLayouts
	}
	var hasTitle, hasContent bool
	for _, l := range layouts {
		name := strings.ToLower(l.Name)
		if strings.Contains(name, "title") {
			hasTitle = true
		}
		if strings.Contains(name, "content") || strings.Contains(name, "bullet") {
			hasContent = true
		}
	}
	if !hasTitle || !hasContent {
		return fmt.Errorf("template missing required layouts (title, content)")
	}
	return nil
}
