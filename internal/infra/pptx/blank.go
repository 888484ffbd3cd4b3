package pptx

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/jchntrl/power-point-assistant/internal/core/presentation"
)

var (
	//go:embed blank/slideMaster1.xml
	blankSlideMaster []byte

	//go:embed blank/theme1.xml
	blankTheme []byte
)

// blankLayout は組み込みテンプレートのレイアウト定義
type blankLayout struct {
	name         string
	kind         string
	placeholders []placeholderSpec
}

func rect(left, top, width, height float64) *presentation.Rect {
	return &presentation.Rect{Left: left, Top: top, Width: width, Height: height}
}

// 4:3（10 x 7.5インチ）のOffice既定レイアウト名に揃える
var blankLayouts = []blankLayout{
	{
		name: "Title Slide",
		kind: "title",
		placeholders: []placeholderSpec{
			{Name: "Title 1", Type: "ctrTitle", Rect: rect(0.75, 2.33, 8.5, 1.61)},
			{Name: "Subtitle 2", Type: "subTitle", Idx: "1", Rect: rect(1.5, 4.25, 7, 1.92)},
		},
	},
	{
		name: "Title and Content",
		kind: "obj",
		placeholders: []placeholderSpec{
			{Name: "Title 1", Type: "title", Rect: rect(0.5, 0.3, 9, 1.25)},
			{Name: "Content Placeholder 2", Idx: "1", Rect: rect(0.5, 1.75, 9, 4.95)},
		},
	},
	{
		name: "Section Header",
		kind: "secHead",
		placeholders: []placeholderSpec{
			{Name: "Title 1", Type: "title", Rect: rect(0.79, 2.5, 8.5, 1.5)},
			{Name: "Text Placeholder 2", Type: "body", Idx: "1", Rect: rect(0.79, 4.1, 8.5, 1)},
		},
	},
	{
		name: "Two Content",
		kind: "twoObj",
		placeholders: []placeholderSpec{
			{Name: "Title 1", Type: "title", Rect: rect(0.5, 0.3, 9, 1.25)},
			{Name: "Content Placeholder 2", Idx: "1", Rect: rect(0.5, 1.75, 4.4, 4.95)},
			{Name: "Content Placeholder 3", Idx: "2", Rect: rect(5.1, 1.75, 4.4, 4.95)},
		},
	},
	{
		name: "Title Only",
		kind: "titleOnly",
		placeholders: []placeholderSpec{
			{Name: "Title 1", Type: "title", Rect: rect(0.5, 0.3, 9, 1.25)},
		},
	},
	{
		name: "Blank",
		kind: "blank",
	},
}

// NewBlankTemplate はテンプレートファイルがない場合に使う組み込みテンプレートを作る
func NewBlankTemplate() (*Template, error) {
	pkg := &opcPackage{parts: make(map[string][]byte)}
	ct := contentTypes{
		Defaults: []ctDefault{
			{Extension: "rels", ContentType: ctRelationships},
			{Extension: "xml", ContentType: ctXML},
			{Extension: "png", ContentType: ctPNG},
		},
	}

	const (
		main   = "ppt/presentation.xml"
		master = "ppt/slideMasters/slideMaster1.xml"
		theme  = "ppt/theme/theme1.xml"
	)

	var root relationships
	root.add(relOfficeDocument, main)
	if err := pkg.setRels("", root); err != nil {
		return nil, err
	}

	var presRels relationships
	masterID := presRels.add(relSlideMaster, relativeTarget(main, master))
	presRels.add(relTheme, relativeTarget(main, theme))
	if err := pkg.setRels(main, presRels); err != nil {
		return nil, err
	}
	pkg.parts[main] = []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<p:presentation ` + nsDecl + ` saveSubsetFonts="1">` +
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="` + masterID + `"/></p:sldMasterIdLst>` +
		`<p:sldSz cx="9144000" cy="6858000" type="screen4x3"/><p:notesSz cx="6858000" cy="9144000"/>` +
		`</p:presentation>`)
	ct.setOverride(main, ctPresentation)

	// マスターのsldLayoutIdLstは rId1..rIdN でレイアウトを参照する
	var masterRels relationships
	for i, l := range blankLayouts {
		part := fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1)
		masterRels.add(relSlideLayout, relativeTarget(master, part))

		var layoutRels relationships
		layoutRels.add(relSlideMaster, relativeTarget(part, master))
		if err := pkg.setRels(part, layoutRels); err != nil {
			return nil, err
		}
		pkg.parts[part] = l.xml()
		ct.setOverride(part, ctSlideLayout)
	}
	masterRels.add(relTheme, relativeTarget(master, theme))
	if err := pkg.setRels(master, masterRels); err != nil {
		return nil, err
	}
	pkg.parts[master] = blankSlideMaster
	ct.setOverride(master, ctSlideMaster)

	pkg.parts[theme] = blankTheme
	ct.setOverride(theme, ctTheme)

	if err := pkg.setContentTypes(ct); err != nil {
		return nil, err
	}

	var buf strings.Builder
	if err := pkg.write(&buf); err != nil {
		return nil, err
	}
	return OpenBytes([]byte(buf.String()))
}

func (l blankLayout) xml() []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	fmt.Fprintf(&b, `<p:sldLayout %s type="%s" preserve="1"><p:cSld name="%s"><p:spTree>`, nsDecl, l.kind, escape(l.name))
	b.WriteString(groupShapeHeader)
	for i, ph := range l.placeholders {
		ph.ID = i + 2
		writePlaceholder(&b, ph)
	}
	b.WriteString(`</p:spTree></p:cSld>` + masterColorMapping + `</p:sldLayout>`)
	return []byte(b.String())
}
