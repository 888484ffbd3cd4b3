package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func officeLayouts() []Layout {
	names := []string{
		"Title Slide",
		"Title and Content",
		"Section Header",
		"Two Content",
		"Comparison",
		"Title Only",
		"Blank",
		"Content with Caption",
		"Picture with Caption",
	}
	layouts := make([]Layout, len(names))
	for i, n := range names {
		layouts[i] = Layout{Index: i, Name: n}
	}
	return layouts
}

func TestLayoutMap_Index(t *testing.T) {
	m := MapLayouts(officeLayouts())

	tests := []struct {
		layoutType string
		want       int
	}{
		{"title", 0},
		{"bullet", 1},
		{"section", 2},
		{"split", 3},
		{"diagram", 5},
		{"blank", 6},
		{"unknown", 1},
		// レイアウト名の完全一致を優先する
		{"Comparison", 4},
		{"picture with caption", 8},
	}
	for _, tt := range tests {
		t.Run(tt.layoutType, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Index(tt.layoutType))
		})
	}
}

func TestLayoutMap_Lookup(t *testing.T) {
	m := MapLayouts(officeLayouts())

	i, ok := m.Lookup("title_content")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	// 本文用の別名は最初に見つかったレイアウト
	i, ok = m.Lookup("bullet")
	require.True(t, ok)
	assert.Equal(t, 7, i)

	_, ok = m.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 9, m.Len())
}

func TestLayoutMap_Index_Fallback(t *testing.T) {
	// 別名が作れないテンプレートでは既定番号、範囲外なら最後のレイアウト
	m := MapLayouts([]Layout{{Index: 0, Name: "Cover"}, {Index: 1, Name: "Body"}, {Index: 2, Name: "End"}})

	assert.Equal(t, 0, m.Index("title"))
	assert.Equal(t, 1, m.Index("bullet"))
	assert.Equal(t, 2, m.Index("blank"))
	assert.Equal(t, 1, m.Index("diagram"))
}

func TestValidateTemplate(t *testing.T) {
	require.NoError(t, ValidateTemplate(officeLayouts()))

	assert.ErrorIs(t, ValidateTemplate(nil), ErrNoLayouts)

	err := ValidateTemplate([]Layout{{Index: 0, Name: "Title Slide"}, {Index: 1, Name: "Blank"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required layouts")
}
