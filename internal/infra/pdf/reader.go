package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/jchntrl/power-point-assistant/internal/core/document"
	"github.com/ledongthuc/pdf"
)

const (
	// PageLayout はPDFページに付けるレイアウト名
	PageLayout = "pdf_page"

	// maxTitleLength は1行目をタイトルとみなす最大文字数
	maxTitleLength = 100
)

// Reader はPDFからページごとのテキストを抽出する
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

// Read はテキストのあるページだけを抽出する
// 読めないページは警告を出して飛ばす
func (r *Reader) Read(ctx context.Context, data []byte, filename string) ([]document.ExtractedContent, error) {
	pr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", filename, err)
	}

	contents := make([]document.ExtractedContent, 0, pr.NumPage())
	for i := 1; i <= pr.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := pageText(pr.Page(i))
		if err != nil {
			r.logger.Warn("skipping unreadable page", "file", filename, "page", i, "error", err)
			continue
		}

		c, ok := PageContent(i, text)
		if !ok {
			continue
		}
		c.SourceFile = filename
		contents = append(contents, c)
	}

	r.logger.Info("extracted pages", "file", filename, "count", len(contents))
	return contents, nil
}

func pageText(p pdf.Page) (string, error) {
	if p.V.IsNull() {
		return "", nil
	}
	fonts := make(map[string]*pdf.Font)
	for _, name := range p.Fonts() {
		f := p.Font(name)
		fonts[name] = &f
	}
	return p.GetPlainText(fonts)
}

// PageContent はページのテキストを抽出コンテンツにする
// 2行以上あり1行目が短ければ1行目をタイトルにし、それ以外は "Page N" をタイトルにする
func PageContent(number int, text string) (document.ExtractedContent, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return document.ExtractedContent{}, false
	}

	c := document.ExtractedContent{
		Number:     number,
		Title:      fmt.Sprintf("Page %d", number),
		Body:       text,
		LayoutType: PageLayout,
		Format:     document.FormatPDF,
	}

	lines := strings.Split(text, "\n")
	first := strings.TrimSpace(lines[0])
	if len(lines) > 1 && first != "" && utf8.RuneCountInString(first) <= maxTitleLength {
		c.Title = first
		c.Body = strings.TrimSpace(strings.Join(lines[1:], "\n"))
	}
	return c, true
}

var _ document.Reader = (*Reader)(nil)
