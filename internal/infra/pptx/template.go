package pptx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jchntrl/power-point-assistant/internal/core/presentation"
)

var (
	// ErrLayoutNotFound は存在しないレイアウト番号を指定した場合のエラー
	ErrLayoutNotFound = errors.New("slide layout not found")

	// ErrSlideNotFound は書き込めないスライド番号を指定した場合のエラー
	ErrSlideNotFound = errors.New("slide not found")

	// ErrNoPlaceholder はレイアウトに必要なプレースホルダーがない場合のエラー
	ErrNoPlaceholder = errors.New("placeholder not found")

	// ErrUnsupportedImage は埋め込めない画像形式のエラー
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// 書き込み時に複製しないプレースホルダー
var skippedPlaceholderTypes = []string{"dt", "ftr", "sldNum", "hdr"}

// 本文を入れるプレースホルダーの優先順位（空はobj）
var bodyPlaceholderTypes = []string{"body", "", "subTitle"}

// Template は .pptx テンプレートをメモリ上に展開し、スライドを書き込む
// スライド番号は既存スライドを含めた0始まりで、書き込めるのは AddSlide で追加したスライドだけ
type Template struct {
	pkg      *opcPackage
	main     string
	presRels relationships
	layouts  []layoutPart
	kept     []keptSlide
	slides   []*newSlide
	props    *presentation.CoreProperties

	slideSeq int
	mediaSeq int
}

type layoutPart struct {
	part         string
	name         string
	placeholders []shape
}

type keptSlide struct {
	id   string
	rid  string
	part string
}

type newSlide struct {
	part     string
	rid      string
	layout   int
	title    string
	body     []string
	notes    string
	pictures []newPicture
}

type newPicture struct {
	media string
	name  string
	rect  presentation.Rect
}

// Open は .pptx ファイルをテンプレートとして開く
func Open(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	t, err := OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid PowerPoint template %s: %w", path, err)
	}
	return t, nil
}

// OpenBytes はメモリ上の .pptx をテンプレートとして開く
func OpenBytes(data []byte) (*Template, error) {
	pkg, err := readPackage(data)
	if err != nil {
		return nil, err
	}

	main, err := pkg.mainPart()
	if err != nil {
		return nil, err
	}

	presRels, err := pkg.rels(main)
	if err != nil {
		return nil, err
	}

	layouts, err := pkg.layoutParts(main, presRels)
	if err != nil {
		return nil, err
	}

	refs, err := listRefs(pkg.parts[main], "sldId")
	if err != nil {
		return nil, err
	}
	kept := make([]keptSlide, 0, len(refs))
	for _, ref := range refs {
		if rel, ok := presRels.byID(ref.RID); ok {
			kept = append(kept, keptSlide{id: ref.ID, rid: ref.RID, part: resolve(main, rel.Target)})
		}
	}

	return &Template{
		pkg:      pkg,
		main:     main,
		presRels: presRels,
		layouts:  layouts,
		kept:     kept,
		slideSeq: pkg.maxPartNumber("ppt/slides/slide"),
		mediaSeq: pkg.maxPartNumber("ppt/media/image"),
	}, nil
}

// layoutParts はスライドマスターに登録された順でレイアウトを集める
// マスターから辿れない場合は ppt/slideLayouts 配下を番号順に使う
func (p *opcPackage) layoutParts(main string, presRels relationships) ([]layoutPart, error) {
	var parts []string

	masters, err := listRefs(p.parts[main], "sldMasterId")
	if err != nil {
		return nil, err
	}
	for _, m := range masters {
		rel, ok := presRels.byID(m.RID)
		if !ok {
			continue
		}
		master := resolve(main, rel.Target)
		masterRels, err := p.rels(master)
		if err != nil {
			return nil, err
		}
		refs, err := listRefs(p.parts[master], "sldLayoutId")
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			if lrel, ok := masterRels.byID(ref.RID); ok {
				part := resolve(master, lrel.Target)
				if _, ok := p.parts[part]; ok {
					parts = append(parts, part)
				}
			}
		}
	}

	if len(parts) == 0 {
		for name := range p.parts {
			if strings.HasPrefix(name, "ppt/slideLayouts/slideLayout") && strings.HasSuffix(name, ".xml") {
				parts = append(parts, name)
			}
		}
		slices.SortFunc(parts, func(a, b string) int {
			return partNumber(a, "ppt/slideLayouts/slideLayout") - partNumber(b, "ppt/slideLayouts/slideLayout")
		})
	}

	layouts := make([]layoutPart, 0, len(parts))
	for _, part := range parts {
		shapes, err := extractShapes(p.parts[part])
		if err != nil {
			return nil, fmt.Errorf("failed to read layout %s: %w", part, err)
		}
		placeholders := slices.DeleteFunc(shapes, func(s shape) bool {
			return !s.IsPlaceholder || slices.Contains(skippedPlaceholderTypes, s.PlaceholderType)
		})
		layouts = append(layouts, layoutPart{
			part:         part,
			name:         commonSlideName(p.parts[part]),
			placeholders: placeholders,
		})
	}
	return layouts, nil
}

// partNumber は prefix の直後にある番号を返す。番号がなければ0
func partNumber(name, prefix string) int {
	rest := strings.TrimPrefix(name, prefix)
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		rest = rest[:dot]
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0
	}
	return n
}

func (p *opcPackage) maxPartNumber(prefix string) int {
	n := 0
	for name := range p.parts {
		if strings.HasPrefix(name, prefix) {
			n = max(n, partNumber(name, prefix))
		}
	}
	return n
}

// Layouts はレイアウトを番号順に返す
func (t *Template) Layouts() []presentation.Layout {
	layouts := make([]presentation.Layout, len(t.layouts))
	for i, l := range t.layouts {
		layouts[i] = presentation.Layout{Index: i, Name: l.name}
	}
	return layouts
}

// LayoutDetail はレイアウトとプレースホルダーの一覧
type LayoutDetail struct {
	Index        int      `json:"index"`
	Name         string   `json:"name"`
	Placeholders []string `json:"placeholders"`
}

// LayoutDetails はレイアウトごとのプレースホルダーを "type#idx" の形で返す
func (t *Template) LayoutDetails() []LayoutDetail {
	details := make([]LayoutDetail, len(t.layouts))
	for i, l := range t.layouts {
		phs := make([]string, 0, len(l.placeholders))
		for _, ph := range l.placeholders {
			typ := ph.PlaceholderType
			if typ == "" {
				typ = "obj"
			}
			if ph.PlaceholderID != "" {
				typ += "#" + ph.PlaceholderID
			}
			phs = append(phs, typ)
		}
		details[i] = LayoutDetail{Index: i, Name: l.name, Placeholders: phs}
	}
	return details
}

// SlideCount は既存スライドと追加したスライドの合計を返す
func (t *Template) SlideCount() int {
	return len(t.kept) + len(t.slides)
}

// ClearSlides は既存スライドとそのノート・参照されなくなった画像を取り除く
func (t *Template) ClearSlides() {
	var media []string
	for _, s := range t.kept {
		media = append(media, t.pkg.removeSlide(s.part)...)
		t.presRels.remove(s.rid)
	}
	for _, s := range t.slides {
		for _, pic := range s.pictures {
			media = append(media, pic.media)
		}
		t.presRels.remove(s.rid)
	}
	t.kept = nil
	t.slides = nil

	for _, m := range media {
		if !t.pkg.referenced(m) {
			delete(t.pkg.parts, m)
		}
	}
}

// removeSlide はスライドとノートを削除し、スライドが参照していた画像を返す
func (p *opcPackage) removeSlide(part string) []string {
	var media []string
	if rels, err := p.rels(part); err == nil {
		for _, rel := range rels.Rels {
			target := resolve(part, rel.Target)
			switch rel.Type {
			case relNotesSlide:
				delete(p.parts, target)
				delete(p.parts, relsPart(target))
			case relImage:
				media = append(media, target)
			}
		}
	}
	delete(p.parts, part)
	delete(p.parts, relsPart(part))
	return media
}

// referenced はいずれかの .rels が part を参照しているかを返す
func (p *opcPackage) referenced(part string) bool {
	for name := range p.parts {
		if !strings.HasSuffix(name, ".rels") {
			continue
		}
		source := relsSource(name)
		rels, err := p.rels(source)
		if err != nil {
			continue
		}
		for _, rel := range rels.Rels {
			if rel.TargetMode != "External" && resolve(source, rel.Target) == part {
				return true
			}
		}
	}
	return false
}

// relsSource は .rels のパーツ名から元のパーツ名を返す
func relsSource(name string) string {
	dir, file := path.Split(name)
	dir = strings.TrimSuffix(strings.TrimSuffix(dir, "/"), "_rels")
	return strings.TrimPrefix(dir+strings.TrimSuffix(file, ".rels"), "/")
}

// AddSlide はレイアウトからスライドを追加し、スライド番号を返す
func (t *Template) AddSlide(layoutIndex int) (int, error) {
	if layoutIndex < 0 || layoutIndex >= len(t.layouts) {
		return 0, fmt.Errorf("%w: index %d of %d", ErrLayoutNotFound, layoutIndex, len(t.layouts))
	}

	t.slideSeq++
	part := fmt.Sprintf("ppt/slides/slide%d.xml", t.slideSeq)
	rid := t.presRels.add(relSlide, relativeTarget(t.main, part))

	t.slides = append(t.slides, &newSlide{part: part, rid: rid, layout: layoutIndex})
	return t.SlideCount() - 1, nil
}

func (t *Template) slide(index int) (*newSlide, error) {
	i := index - len(t.kept)
	if i < 0 || i >= len(t.slides) {
		return nil, fmt.Errorf("%w: %d", ErrSlideNotFound, index)
	}
	return t.slides[i], nil
}

func (l layoutPart) titleIndex() int {
	return slices.IndexFunc(l.placeholders, shape.IsTitle)
}

func (l layoutPart) bodyIndex() int {
	for _, typ := range bodyPlaceholderTypes {
		if i := slices.IndexFunc(l.placeholders, func(s shape) bool { return s.PlaceholderType == typ }); i >= 0 {
			return i
		}
	}
	return -1
}

// SetTitle はタイトルプレースホルダーに文字列を設定する
func (t *Template) SetTitle(slide int, text string) error {
	s, err := t.slide(slide)
	if err != nil {
		return err
	}
	if l := t.layouts[s.layout]; l.titleIndex() < 0 {
		return fmt.Errorf("%w: layout %q has no title", ErrNoPlaceholder, l.name)
	}
	s.title = text
	return nil
}

// SetBody は本文プレースホルダーに1行1段落で設定する
// タイトルスライドではサブタイトルに入る
func (t *Template) SetBody(slide int, lines []string) error {
	s, err := t.slide(slide)
	if err != nil {
		return err
	}
	if l := t.layouts[s.layout]; l.bodyIndex() < 0 {
		return fmt.Errorf("%w: layout %q has no body", ErrNoPlaceholder, l.name)
	}
	s.body = slices.Clone(lines)
	return nil
}

// SetNotes はスピーカーノートを設定する
func (t *Template) SetNotes(slide int, text string) error {
	s, err := t.slide(slide)
	if err != nil {
		return err
	}
	s.notes = text
	return nil
}

// AddPicture は画像を埋め込み、縦横比を保ったまま rect の中央に収める
func (t *Template) AddPicture(slide int, imagePath string, rect presentation.Rect) error {
	s, err := t.slide(slide)
	if err != nil {
		return err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(imagePath), "."))
	if ext != "png" && ext != "jpg" && ext != "jpeg" {
		return fmt.Errorf("%w: %s", ErrUnsupportedImage, imagePath)
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	t.mediaSeq++
	media := fmt.Sprintf("ppt/media/image%d.%s", t.mediaSeq, ext)
	t.pkg.parts[media] = data

	s.pictures = append(s.pictures, newPicture{
		media: media,
		name:  filepath.Base(imagePath),
		rect:  fitRect(rect, cfg.Width, cfg.Height),
	})
	return nil
}

// fitRect は width x height の画像を縦横比を保って rect に収める
func fitRect(rect presentation.Rect, width, height int) presentation.Rect {
	if width <= 0 || height <= 0 || rect.Width <= 0 || rect.Height <= 0 {
		return rect
	}
	scale := min(rect.Width/float64(width), rect.Height/float64(height))
	w := float64(width) * scale
	h := float64(height) * scale
	return presentation.Rect{
		Left:   rect.Left + (rect.Width-w)/2,
		Top:    rect.Top + (rect.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

// SetCoreProperties は保存時に書き出す文書プロパティを設定する
func (t *Template) SetCoreProperties(props presentation.CoreProperties) {
	t.props = &props
}

// Save はプレゼンテーションを書き出す
// 一時ファイルに書いてから置き換えるため、途中で失敗しても既存ファイルは壊れない
func (t *Template) Save(path string) error {
	out, err := t.render()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".pptx-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := out.write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to save presentation: %w", err)
	}
	return nil
}

// render は現在の状態を反映したパッケージを作る。テンプレート自体は変更しない
func (t *Template) render() (*opcPackage, error) {
	pkg := t.pkg.clone()
	ct, err := pkg.contentTypes()
	if err != nil {
		return nil, err
	}
	presRels := relationships{Rels: slices.Clone(t.presRels.Rels)}

	var notesMaster string
	if slices.ContainsFunc(t.slides, func(s *newSlide) bool { return s.notes != "" }) {
		notesMaster, err = pkg.ensureNotesMaster(t.main, &presRels, &ct)
		if err != nil {
			return nil, err
		}
	}

	for _, s := range t.slides {
		if err := t.renderSlide(pkg, &ct, s, notesMaster); err != nil {
			return nil, err
		}
	}

	ids := make([]idRef, 0, len(t.kept)+len(t.slides))
	next := 255
	for _, s := range t.kept {
		ids = append(ids, idRef{ID: s.id, RID: s.rid})
		if n, err := strconv.Atoi(s.id); err == nil {
			next = max(next, n)
		}
	}
	for _, s := range t.slides {
		next++
		ids = append(ids, idRef{ID: strconv.Itoa(next), RID: s.rid})
	}
	main, err := replaceSlideIDList(pkg.parts[t.main], ids)
	if err != nil {
		return nil, err
	}
	pkg.parts[t.main] = main

	if err := pkg.setRels(t.main, presRels); err != nil {
		return nil, err
	}

	if t.props != nil {
		if err := pkg.writeCoreProperties(&ct, *t.props); err != nil {
			return nil, err
		}
	}

	ct.Overrides = slices.DeleteFunc(ct.Overrides, func(o ctOverride) bool {
		_, ok := pkg.parts[strings.TrimPrefix(o.PartName, "/")]
		return !ok
	})
	if err := pkg.setContentTypes(ct); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (t *Template) renderSlide(pkg *opcPackage, ct *contentTypes, s *newSlide, notesMaster string) error {
	layout := t.layouts[s.layout]

	var rels relationships
	rels.add(relSlideLayout, relativeTarget(s.part, layout.part))

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<p:sld ` + nsDecl + `><p:cSld><p:spTree>` + groupShapeHeader)

	id := 2
	titleIdx, bodyIdx := layout.titleIndex(), layout.bodyIndex()
	for i, ph := range layout.placeholders {
		spec := placeholderSpec{ID: id, Name: ph.Name, Type: ph.PlaceholderType, Idx: ph.PlaceholderID}
		switch {
		case i == titleIdx && s.title != "":
			spec.Lines = []string{s.title}
		case i == bodyIdx:
			spec.Lines = s.body
		}
		writePlaceholder(&b, spec)
		id++
	}

	for _, pic := range s.pictures {
		rid := rels.add(relImage, relativeTarget(s.part, pic.media))
		writePicture(&b, pictureSpec{ID: id, Name: fmt.Sprintf("Picture %d", id-1), Descr: pic.name, RelID: rid, Rect: pic.rect})
		ct.ensureDefault(strings.TrimPrefix(path.Ext(pic.media), "."), mediaContentType(pic.media))
		id++
	}
	b.WriteString(`</p:spTree></p:cSld>` + masterColorMapping + `</p:sld>`)

	if s.notes != "" {
		notesPart := strings.Replace(s.part, "ppt/slides/slide", "ppt/notesSlides/notesSlide", 1)
		rels.add(relNotesSlide, relativeTarget(s.part, notesPart))

		var notesRels relationships
		notesRels.add(relNotesMaster, relativeTarget(notesPart, notesMaster))
		notesRels.add(relSlide, relativeTarget(notesPart, s.part))
		if err := pkg.setRels(notesPart, notesRels); err != nil {
			return err
		}
		pkg.parts[notesPart] = notesSlideXML(s.notes)
		ct.setOverride(notesPart, ctNotesSlide)
	}

	pkg.parts[s.part] = []byte(b.String())
	ct.setOverride(s.part, ctSlide)
	return pkg.setRels(s.part, rels)
}

func mediaContentType(name string) string {
	if strings.HasSuffix(name, ".png") {
		return ctPNG
	}
	return "image/jpeg"
}

var (
	slideIDListPattern = regexp.MustCompile(`(?s)<p:sldIdLst\s*/>|<p:sldIdLst>.*?</p:sldIdLst>`)
	masterListEnd      = regexp.MustCompile(`</p:(sldMasterIdLst|notesMasterIdLst|handoutMasterIdLst)>`)
)

// replaceSlideIDList は presentation.xml の sldIdLst を書き換える
// スライドがない場合は要素ごと取り除く
func replaceSlideIDList(data []byte, ids []idRef) ([]byte, error) {
	var b strings.Builder
	if len(ids) > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for _, id := range ids {
			fmt.Fprintf(&b, `<p:sldId id="%s" r:id="%s"/>`, id.ID, id.RID)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	list := []byte(b.String())

	if slideIDListPattern.Match(data) {
		return slideIDListPattern.ReplaceAllLiteral(data, list), nil
	}
	if len(list) == 0 {
		return data, nil
	}

	// sldIdLst はマスター系リストの直後、sldSz の直前に置く
	if i := bytes.Index(data, []byte("<p:sldSz")); i >= 0 {
		return slices.Concat(data[:i], list, data[i:]), nil
	}
	if locs := masterListEnd.FindAllIndex(data, -1); len(locs) > 0 {
		end := locs[len(locs)-1][1]
		return slices.Concat(data[:end], list, data[end:]), nil
	}
	return nil, fmt.Errorf("%w: cannot locate slide id list", ErrNotPresentation)
}

// ensureNotesMaster はノートマスターがなければ追加し、そのパーツ名を返す
func (p *opcPackage) ensureNotesMaster(main string, presRels *relationships, ct *contentTypes) (string, error) {
	if rel, ok := presRels.byType(relNotesMaster); ok {
		return resolve(main, rel.Target), nil
	}

	part := p.nextPartName("ppt/notesMasters/notesMaster", ".xml")
	var rels relationships
	if theme, ok := presRels.byType(relTheme); ok {
		rels.add(relTheme, relativeTarget(part, resolve(main, theme.Target)))
	}
	if err := p.setRels(part, rels); err != nil {
		return "", err
	}
	p.parts[part] = []byte(notesMasterXML)
	ct.setOverride(part, ctNotesMaster)

	rid := presRels.add(relNotesMaster, relativeTarget(main, part))
	list := []byte(`<p:notesMasterIdLst><p:notesMasterId r:id="` + rid + `"/></p:notesMasterIdLst>`)
	data := p.parts[main]
	end := bytes.Index(data, []byte("</p:sldMasterIdLst>"))
	if end < 0 {
		return "", fmt.Errorf("%w: missing slide master list", ErrNotPresentation)
	}
	end += len("</p:sldMasterIdLst>")
	p.parts[main] = slices.Concat(data[:end], list, data[end:])
	return part, nil
}

const notesMasterXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:notesMaster ` + nsDecl + `><p:cSld><p:spTree>` + groupShapeHeader +
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Notes Placeholder 1"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>` +
	`<p:spPr><a:xfrm><a:off x="685800" y="4400550"/><a:ext cx="5486400" cy="3600450"/></a:xfrm></p:spPr>` +
	`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:endParaRPr lang="en-US"/></a:p></p:txBody></p:sp>` +
	`</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`</p:notesMaster>`

func notesSlideXML(notes string) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<p:notes ` + nsDecl + `><p:cSld><p:spTree>` + groupShapeHeader)
	writePlaceholder(&b, placeholderSpec{ID: 2, Name: "Notes Placeholder 1", Type: "body", Idx: "1", Lines: strings.Split(notes, "\n")})
	b.WriteString(`</p:spTree></p:cSld>` + masterColorMapping + `</p:notes>`)
	return []byte(b.String())
}

const corePropertiesPart = "docProps/core.xml"

// writeCoreProperties は docProps/core.xml を書き出し、パッケージから参照させる
func (p *opcPackage) writeCoreProperties(ct *contentTypes, props presentation.CoreProperties) error {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, escape(props.Title))
	fmt.Fprintf(&b, `<dc:subject>%s</dc:subject>`, escape(props.Subject))
	fmt.Fprintf(&b, `<dc:creator>%s</dc:creator>`, escape(props.Author))
	fmt.Fprintf(&b, `<cp:keywords>%s</cp:keywords>`, escape(props.Keywords))
	fmt.Fprintf(&b, `<dc:description>%s</dc:description>`, escape(props.Comments))
	fmt.Fprintf(&b, `<cp:category>%s</cp:category>`, escape(props.Category))
	if !props.Created.IsZero() {
		fmt.Fprintf(&b, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, props.Created.UTC().Format(time.RFC3339))
	}
	if !props.Modified.IsZero() {
		fmt.Fprintf(&b, `<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`, props.Modified.UTC().Format(time.RFC3339))
	}
	b.WriteString(`</cp:coreProperties>`)

	root, err := p.rels("")
	if err != nil {
		return err
	}
	part := corePropertiesPart
	if rel, ok := root.byType(relCoreProperties); ok {
		part = resolve("", rel.Target)
	} else {
		root.add(relCoreProperties, part)
		if err := p.setRels("", root); err != nil {
			return err
		}
	}

	p.parts[part] = []byte(b.String())
	ct.setOverride(part, ctCoreProperties)
	return nil
}

var _ presentation.Template = (*Template)(nil)
