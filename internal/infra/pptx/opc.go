package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strconv"
	"strings"
)

const (
	nsA             = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR             = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP             = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"

	relOfficeDocument = nsR + "/officeDocument"
	relSlide          = nsR + "/slide"
	relSlideLayout    = nsR + "/slideLayout"
	relSlideMaster    = nsR + "/slideMaster"
	relNotesSlide     = nsR + "/notesSlide"
	relNotesMaster    = nsR + "/notesMaster"
	relImage          = nsR + "/image"
	relTheme          = nsR + "/theme"
	relCoreProperties = nsRelationships + "/metadata/core-properties"

	ctPresentation   = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide          = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideLayout    = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlideMaster    = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctNotesSlide     = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"
	ctNotesMaster    = "application/vnd.openxmlformats-officedocument.presentationml.notesMaster+xml"
	ctTheme          = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctCoreProperties = "application/vnd.openxmlformats-package.core-properties+xml"
	ctRelationships  = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML            = "application/xml"
	ctPNG            = "image/png"

	contentTypesPart = "[Content_Types].xml"
)

// ErrNotPresentation は .pptx として読めないファイルのエラー
var ErrNotPresentation = errors.New("not a valid PowerPoint presentation")

// opcPackage はzipを展開したパーツの集合
// パーツ名は先頭の "/" を含まない
type opcPackage struct {
	parts map[string][]byte
}

func readPackage(data []byte) (*opcPackage, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPresentation, err)
	}

	p := &opcPackage{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open part %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", f.Name, err)
		}
		p.parts[strings.TrimPrefix(f.Name, "/")] = b
	}

	if _, ok := p.parts[contentTypesPart]; !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrNotPresentation, contentTypesPart)
	}
	return p, nil
}

func (p *opcPackage) clone() *opcPackage {
	parts := make(map[string][]byte, len(p.parts))
	for k, v := range p.parts {
		parts[k] = v
	}
	return &opcPackage{parts: parts}
}

// write は [Content_Types].xml を先頭にしてzipを書き出す
func (p *opcPackage) write(w io.Writer) error {
	zw := zip.NewWriter(w)

	names := make([]string, 0, len(p.parts))
	for name := range p.parts {
		if name != contentTypesPart {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	names = append([]string{contentTypesPart}, names...)

	for _, name := range names {
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create zip entry %s: %w", name, err)
		}
		if _, err := fw.Write(p.parts[name]); err != nil {
			return fmt.Errorf("failed to write zip entry %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize zip: %w", err)
	}
	return nil
}

// nextPartName は prefix+N+suffix の形で未使用のパーツ名を返す
func (p *opcPackage) nextPartName(prefix, suffix string) string {
	n := 0
	for name := range p.parts {
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		if v, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)); err == nil && v > n {
			n = v
		}
	}
	return prefix + strconv.Itoa(n+1) + suffix
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

type relationships struct {
	XMLName xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

// relsPart はパーツに対応する .rels のパーツ名を返す
// 空文字はパッケージ自体を表す
func relsPart(part string) string {
	if part == "" {
		return "_rels/.rels"
	}
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

// rels はパーツのリレーションシップを読む。.rels がなければ空を返す
func (p *opcPackage) rels(part string) (relationships, error) {
	var r relationships
	data, ok := p.parts[relsPart(part)]
	if !ok {
		return r, nil
	}
	if err := xml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("failed to parse relationships of %q: %w", part, err)
	}
	return r, nil
}

func (p *opcPackage) setRels(part string, r relationships) error {
	data, err := marshalXML(r)
	if err != nil {
		return fmt.Errorf("failed to marshal relationships of %q: %w", part, err)
	}
	p.parts[relsPart(part)] = data
	return nil
}

// resolve はリレーションシップのターゲットをパーツ名に変換する
func resolve(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	base := ""
	if source != "" {
		base = path.Dir(source)
	}
	return strings.TrimPrefix(path.Join(base, target), "/")
}

// relativeTarget は source から target パーツへの相対パスを返す
func relativeTarget(source, target string) string {
	from := strings.Split(path.Dir(source), "/")
	to := strings.Split(target, "/")
	if path.Dir(source) == "." {
		from = nil
	}

	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	var b strings.Builder
	for range from[i:] {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(to[i:], "/"))
	return b.String()
}

// byType は指定した種類の最初のリレーションシップを返す
func (r relationships) byType(typ string) (relationship, bool) {
	for _, rel := range r.Rels {
		if rel.Type == typ {
			return rel, true
		}
	}
	return relationship{}, false
}

func (r relationships) byID(id string) (relationship, bool) {
	for _, rel := range r.Rels {
		if rel.ID == id {
			return rel, true
		}
	}
	return relationship{}, false
}

// add は未使用のIDでリレーションシップを追加し、そのIDを返す
func (r *relationships) add(typ, target string) string {
	n := 0
	for _, rel := range r.Rels {
		if v, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil && v > n {
			n = v
		}
	}
	id := "rId" + strconv.Itoa(n+1)
	r.Rels = append(r.Rels, relationship{ID: id, Type: typ, Target: target})
	return id
}

func (r *relationships) remove(id string) {
	r.Rels = slices.DeleteFunc(r.Rels, func(rel relationship) bool { return rel.ID == id })
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypes struct {
	XMLName   xml.Name     `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

func (p *opcPackage) contentTypes() (contentTypes, error) {
	var ct contentTypes
	if err := xml.Unmarshal(p.parts[contentTypesPart], &ct); err != nil {
		return ct, fmt.Errorf("failed to parse content types: %w", err)
	}
	return ct, nil
}

func (p *opcPackage) setContentTypes(ct contentTypes) error {
	data, err := marshalXML(ct)
	if err != nil {
		return fmt.Errorf("failed to marshal content types: %w", err)
	}
	p.parts[contentTypesPart] = data
	return nil
}

func (ct *contentTypes) setOverride(part, contentType string) {
	name := "/" + part
	for i, o := range ct.Overrides {
		if o.PartName == name {
			ct.Overrides[i].ContentType = contentType
			return
		}
	}
	ct.Overrides = append(ct.Overrides, ctOverride{PartName: name, ContentType: contentType})
}

func (ct *contentTypes) ensureDefault(ext, contentType string) {
	for _, d := range ct.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return
		}
	}
	ct.Defaults = append(ct.Defaults, ctDefault{Extension: ext, ContentType: contentType})
}

func marshalXML(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

// mainPart はパッケージのメインパーツ（通常は ppt/presentation.xml）を返す
func (p *opcPackage) mainPart() (string, error) {
	root, err := p.rels("")
	if err != nil {
		return "", err
	}
	rel, ok := root.byType(relOfficeDocument)
	if !ok {
		return "", fmt.Errorf("%w: missing officeDocument relationship", ErrNotPresentation)
	}
	part := resolve("", rel.Target)
	if _, ok := p.parts[part]; !ok {
		return "", fmt.Errorf("%w: missing %s", ErrNotPresentation, part)
	}
	return part, nil
}
