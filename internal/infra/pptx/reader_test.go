package pptx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jchntrl/power-point-assistant/internal/core/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Read(t *testing.T) {
	tmpl, err := NewBlankTemplate()
	require.NoError(t, err)

	first, err := tmpl.AddSlide(1)
	require.NoError(t, err)
	require.NoError(t, tmpl.SetTitle(first, "Lakehouse Delivery"))
	require.NoError(t, tmpl.SetBody(first, []string{"Databricks on Azure", "Power BI reporting"}))

	// 文字のないスライドは飛ばす
	_, err = tmpl.AddSlide(5)
	require.NoError(t, err)

	// タイトルがないスライドは番号からタイトルを作る
	untitled, err := tmpl.AddSlide(1)
	require.NoError(t, err)
	require.NoError(t, tmpl.SetBody(untitled, []string{"Only body text"}))

	path := filepath.Join(t.TempDir(), "case-study.pptx")
	require.NoError(t, tmpl.Save(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	contents, err := NewReader(discardLogger()).Read(context.Background(), data, "case-study.pptx")
	require.NoError(t, err)
	require.Len(t, contents, 2)

	assert.Equal(t, document.ExtractedContent{
		Number:     1,
		Title:      "Lakehouse Delivery",
		Body:       "Lakehouse Delivery\nDatabricks on Azure\nPower BI reporting",
		LayoutType: "Title and Content",
		SourceFile: "case-study.pptx",
		Format:     document.FormatPPTX,
	}, contents[0])

	assert.Equal(t, 3, contents[1].Number)
	assert.Equal(t, "Slide 3", contents[1].Title)
	assert.Equal(t, "Only body text", contents[1].Body)
}

func TestReader_Read_Invalid(t *testing.T) {
	_, err := NewReader(discardLogger()).Read(context.Background(), []byte("%PDF-1.4"), "fake.pptx")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotPresentation)
	assert.Contains(t, err.Error(), "fake.pptx")
}

func TestReader_Read_Canceled(t *testing.T) {
	tmpl, err := NewBlankTemplate()
	require.NoError(t, err)
	i, err := tmpl.AddSlide(1)
	require.NoError(t, err)
	require.NoError(t, tmpl.SetTitle(i, "Title"))

	path := filepath.Join(t.TempDir(), "deck.pptx")
	require.NoError(t, tmpl.Save(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewReader(discardLogger()).Read(ctx, data, "deck.pptx")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractShapes(t *testing.T) {
	slide := `<p:sld xmlns:a="` + nsA + `" xmlns:p="` + nsP + `"><p:cSld><p:spTree>
<p:grpSp><p:nvGrpSpPr><p:cNvPr id="5" name="Group"/></p:nvGrpSpPr>
<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
<p:txBody><a:p><a:r><a:t>Hello</a:t></a:r><a:r><a:t> World</a:t></a:r></a:p></p:txBody></p:sp>
</p:grpSp>
<p:sp><p:nvSpPr><p:cNvPr id="3" name="Box"/><p:nvPr/></p:nvSpPr>
<p:txBody><a:p><a:r><a:t>line one</a:t></a:r><a:br/><a:r><a:t>line two</a:t></a:r></a:p><a:p><a:r><a:t>para two</a:t></a:r></a:p></p:txBody></p:sp>
</p:spTree></p:cSld></p:sld>`

	shapes, err := extractShapes([]byte(slide))
	require.NoError(t, err)
	require.Len(t, shapes, 2)

	assert.True(t, shapes[0].IsTitle())
	assert.Equal(t, "Title 1", shapes[0].Name)
	assert.Equal(t, "Hello World", shapes[0].Text)

	assert.False(t, shapes[1].IsPlaceholder)
	assert.Equal(t, "line one\nline two\npara two", shapes[1].Text)
}
