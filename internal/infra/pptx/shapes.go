package pptx

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/jchntrl/power-point-assistant/internal/core/presentation"
)

// emuPerInch は1インチあたりのEMU
const emuPerInch = 914400

const nsDecl = `xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"`

const (
	groupShapeHeader = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`
	masterColorMapping = `<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`
)

func emu(inches float64) int64 {
	return int64(inches * emuPerInch)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func writeXfrm(b *strings.Builder, r presentation.Rect) {
	fmt.Fprintf(b, `<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		emu(r.Left), emu(r.Top), emu(r.Width), emu(r.Height))
}

// placeholderSpec はプレースホルダー図形を書き出すための情報
type placeholderSpec struct {
	ID   int
	Name string
	Type string
	Idx  string
	// Rect がnilの場合はレイアウトから位置を継承する
	Rect  *presentation.Rect
	Lines []string
}

func writePlaceholder(b *strings.Builder, ph placeholderSpec) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph`,
		ph.ID, escape(ph.Name))
	if ph.Type != "" {
		fmt.Fprintf(b, ` type="%s"`, ph.Type)
	}
	if ph.Idx != "" {
		fmt.Fprintf(b, ` idx="%s"`, ph.Idx)
	}
	b.WriteString(`/></p:nvPr></p:nvSpPr>`)

	if ph.Rect != nil {
		b.WriteString(`<p:spPr>`)
		writeXfrm(b, *ph.Rect)
		b.WriteString(`</p:spPr>`)
	} else {
		b.WriteString(`<p:spPr/>`)
	}

	writeTextBody(b, "p:txBody", ph.Lines)
	b.WriteString(`</p:sp>`)
}

// writeTextBody は1行を1段落として書き出す
func writeTextBody(b *strings.Builder, tag string, lines []string) {
	fmt.Fprintf(b, `<%s><a:bodyPr/><a:lstStyle/>`, tag)
	if len(lines) == 0 {
		b.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
	}
	for _, line := range lines {
		fmt.Fprintf(b, `<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>%s</a:t></a:r></a:p>`, escape(line))
	}
	fmt.Fprintf(b, `</%s>`, tag)
}

// pictureSpec はスライドに埋め込む画像
type pictureSpec struct {
	ID    int
	Name  string
	Descr string
	RelID string
	Rect  presentation.Rect
}

func writePicture(b *strings.Builder, pic pictureSpec) {
	fmt.Fprintf(b, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s" descr="%s"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`,
		pic.ID, escape(pic.Name), escape(pic.Descr))
	fmt.Fprintf(b, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, pic.RelID)
	b.WriteString(`<p:spPr>`)
	writeXfrm(b, pic.Rect)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)
}
