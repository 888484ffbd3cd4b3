package pptx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// idRef は sldId / sldLayoutId / sldMasterId 要素の id と r:id
type idRef struct {
	ID  string
	RID string
}

func attr(se xml.StartElement, space, local string) string {
	for _, a := range se.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// listRefs は指定したローカル名の要素を文書順に集める
func listRefs(data []byte, local string) ([]idRef, error) {
	var refs []idRef
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return refs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", local, err)
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == local {
			refs = append(refs, idRef{ID: attr(se, "", "id"), RID: attr(se, nsR, "id")})
		}
	}
}

// commonSlideName は cSld 要素の name 属性（レイアウト名）を返す
func commonSlideName(data []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "cSld" {
			return attr(se, "", "name")
		}
	}
}

// shape はスライド上の図形1つ分のテキストとプレースホルダー情報
type shape struct {
	Name          string
	IsPlaceholder bool
	PlaceholderID string
	// PlaceholderType は ph 要素の type（省略時は空でobjを表す）
	PlaceholderType string
	Text            string
}

// IsTitle はタイトル用プレースホルダーかを返す
func (s shape) IsTitle() bool {
	return s.IsPlaceholder && (s.PlaceholderType == "title" || s.PlaceholderType == "ctrTitle")
}

// extractShapes は sp と graphicFrame を文書順に走査し、段落を改行でつないだテキストを集める
// グループ内の図形も対象にする
func extractShapes(data []byte) ([]shape, error) {
	var (
		shapes []shape
		cur    *shape
		owner  string
		paras  []string
		para   strings.Builder
		inText bool
	)

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return shapes, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse slide xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp", "graphicFrame", "pic":
				if cur == nil {
					cur = &shape{}
					owner = t.Name.Local
					paras = paras[:0]
					para.Reset()
				}
			case "cNvPr":
				if cur != nil && cur.Name == "" {
					cur.Name = attr(t, "", "name")
				}
			case "ph":
				if cur != nil {
					cur.IsPlaceholder = true
					cur.PlaceholderType = attr(t, "", "type")
					cur.PlaceholderID = attr(t, "", "idx")
				}
			case "t":
				inText = cur != nil && t.Name.Space == nsA
			case "br":
				if cur != nil && t.Name.Space == nsA {
					para.WriteString("\n")
				}
			}

		case xml.CharData:
			if inText {
				para.Write(t)
			}

		case xml.EndElement:
			switch {
			case t.Name.Local == "t":
				inText = false
			case t.Name.Local == "p" && t.Name.Space == nsA && cur != nil:
				paras = append(paras, para.String())
				para.Reset()
			case cur != nil && t.Name.Local == owner:
				cur.Text = strings.TrimSpace(strings.Join(paras, "\n"))
				shapes = append(shapes, *cur)
				cur = nil
			}
		}
	}
}
