package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	Lists:   []string{"technologies", "approaches"},
	Strings: []string{"summary"},
	Objects: []string{"metadata"},
}

func TestParse_NoBraces(t *testing.T) {
	res := Parse("I'm sorry, I cannot help with that.", testSchema)

	assert.False(t, res.OK())
	assert.Contains(t, res.Error, "no JSON object")
	assert.Equal(t, []string{}, res.Strings("technologies"))
	assert.Equal(t, []string{}, res.Strings("approaches"))
	assert.Equal(t, "", res.String("summary", ""))
	assert.Empty(t, res.Object("metadata"))
	// エラー理由がキーとして埋め込まれている
	assert.Equal(t, res.Error, res.String("error", ""))
}

func TestParse_SurroundingProse(t *testing.T) {
	text := "Here is the analysis:\n```json\n{\"technologies\": [\"Go\", \"PostgreSQL\"], \"summary\": \"ok\"}\n```\nThanks!"

	res := Parse(text, testSchema)
	require.True(t, res.OK())
	assert.Equal(t, []string{"Go", "PostgreSQL"}, res.Strings("technologies"))
	// 欠落したリストは空リストで補完される
	assert.True(t, res.Has("approaches"))
	assert.Equal(t, []string{}, res.Strings("approaches"))
	assert.Equal(t, "ok", res.String("summary", ""))
}

func TestParse_CoercesNonListValues(t *testing.T) {
	res := Parse(`{"technologies": "Kubernetes", "approaches": 3}`, testSchema)

	require.True(t, res.OK())
	assert.Equal(t, []string{"Kubernetes"}, res.Strings("technologies"))
	assert.Equal(t, []string{"3"}, res.Strings("approaches"))
}

func TestParse_RepairsTrailingCommas(t *testing.T) {
	res := Parse(`{"technologies": ["Go", "Rust",], "summary": “fine”,}`, testSchema)

	require.True(t, res.OK())
	assert.Equal(t, []string{"Go", "Rust"}, res.Strings("technologies"))
	assert.Equal(t, "fine", res.String("summary", ""))
}

func TestParse_InvalidJSON(t *testing.T) {
	res := Parse(`{this is not json}`, testSchema)

	assert.False(t, res.OK())
	assert.Contains(t, res.Error, "failed to decode JSON")
	assert.Equal(t, []string{}, res.Strings("technologies"))
}

func TestParse_Idempotent(t *testing.T) {
	malformed := `{"technologies": [unquoted, values]`

	first := Parse(malformed, testSchema)
	second := Parse(malformed, testSchema)
	assert.Equal(t, first, second)

	broken := `prefix {"a": } suffix`
	assert.Equal(t, Parse(broken, testSchema), Parse(broken, testSchema))
}

func TestParse_ObjectAccessors(t *testing.T) {
	text := `{"diagrams": [{"title": "A"}, "junk", {"title": "B"}], "metadata": {"confidence": "0.8", "enabled": true, "score": 0.5}}`
	res := Parse(text, Schema{Lists: []string{"diagrams"}, Objects: []string{"metadata"}})

	require.True(t, res.OK())
	diagrams := res.Objects("diagrams")
	require.Len(t, diagrams, 2)
	assert.Equal(t, "B", StringOf(diagrams[1], "title", ""))

	meta := res.Object("metadata")
	assert.Equal(t, 0.8, FloatOf(meta, "confidence", 0))
	assert.Equal(t, 0.5, FloatOf(meta, "score", 0))
	assert.Equal(t, 1.0, FloatOf(meta, "missing", 1.0))
	assert.True(t, BoolOf(meta, "enabled", false))
}

func TestParse_ObjectKeyWithWrongType(t *testing.T) {
	res := Parse(`{"metadata": ["not", "an", "object"]}`, testSchema)

	require.True(t, res.OK())
	assert.Empty(t, res.Object("metadata"))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "abc", "abc"},
		{"integral float", float64(3), "3"},
		{"fraction", 0.25, "0.25"},
		{"bool", true, "true"},
		{"nil", nil, ""},
		{"object", map[string]any{"a": "b"}, `{"a":"b"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestStringsOf_DropsBlankItems(t *testing.T) {
	m := map[string]any{"items": []any{"a", "  ", nil, float64(2)}}
	assert.Equal(t, []string{"a", "2"}, StringsOf(m, "items"))
	assert.Equal(t, []string{}, StringsOf(m, "missing"))
}
