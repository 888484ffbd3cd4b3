package pptx

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jchntrl/power-point-assistant/internal/core/document"
)

// UnknownLayout はレイアウトが解決できないスライドのレイアウト名
const UnknownLayout = "unknown"

// Reader は .pptx からスライドごとのタイトル・本文・レイアウト名を抽出する
// ノートは読まない
type Reader struct {
	logger *slog.Logger
}

// NewReader は新しいReaderを作成する
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// Read はスライドを表示順に読み出す
// タイトルも本文もないスライドは飛ばし、番号は元のスライド番号を保つ
func (r *Reader) Read(ctx context.Context, data []byte, filename string) ([]document.ExtractedContent, error) {
	pkg, err := readPackage(data)
	if err != nil {
		return nil, fmt.Errorf("file %s is not a valid PowerPoint presentation: %w", filename, err)
	}

	main, err := pkg.mainPart()
	if err != nil {
		return nil, fmt.Errorf("file %s is not a valid PowerPoint presentation: %w", filename, err)
	}

	slides, err := pkg.slideParts(main)
	if err != nil {
		return nil, fmt.Errorf("failed to list slides in %s: %w", filename, err)
	}

	contents := make([]document.ExtractedContent, 0, len(slides))
	for i, part := range slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		number := i + 1
		shapes, err := extractShapes(pkg.parts[part])
		if err != nil {
			r.logger.Warn("skipping unreadable slide", "file", filename, "slide", number, "error", err)
			continue
		}

		title := ""
		texts := make([]string, 0, len(shapes))
		for _, s := range shapes {
			if title == "" && s.IsTitle() {
				title = s.Text
			}
			if s.Text != "" {
				texts = append(texts, s.Text)
			}
		}
		body := strings.Join(texts, "\n")

		if title == "" && body == "" {
			continue
		}
		if title == "" {
			title = fmt.Sprintf("Slide %d", number)
		}

		contents = append(contents, document.ExtractedContent{
			Number:     number,
			Title:      title,
			Body:       body,
			LayoutType: pkg.slideLayoutName(part),
			SourceFile: filename,
			Format:     document.FormatPPTX,
		})
	}

	r.logger.Info("extracted slides", "file", filename, "count", len(contents))
	return contents, nil
}

// slideParts はプレゼンテーションの表示順でスライドのパーツ名を返す
func (p *opcPackage) slideParts(main string) ([]string, error) {
	refs, err := listRefs(p.parts[main], "sldId")
	if err != nil {
		return nil, err
	}
	rels, err := p.rels(main)
	if err != nil {
		return nil, err
	}

	parts := make([]string, 0, len(refs))
	for _, ref := range refs {
		rel, ok := rels.byID(ref.RID)
		if !ok || rel.Type != relSlide {
			continue
		}
		part := resolve(main, rel.Target)
		if _, ok := p.parts[part]; ok {
			parts = append(parts, part)
		}
	}
	return parts, nil
}

// slideLayoutName はスライドが使っているレイアウトの名前を返す
func (p *opcPackage) slideLayoutName(slidePart string) string {
	rels, err := p.rels(slidePart)
	if err != nil {
		return UnknownLayout
	}
	rel, ok := rels.byType(relSlideLayout)
	if !ok {
		return UnknownLayout
	}
	if name := commonSlideName(p.parts[resolve(slidePart, rel.Target)]); name != "" {
		return name
	}
	return UnknownLayout
}

var _ document.Reader = (*Reader)(nil)
