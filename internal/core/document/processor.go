package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoReaders はドキュメントリーダーが1つも登録されていない場合のエラー
var ErrNoReaders = errors.New("no document readers configured")

// FileFailure はファイル単位の読み込み失敗
type FileFailure struct {
	Name string
	Err  error
}

// Processor は形式ごとのReaderにファイルを振り分けてコンテンツを抽出する
type Processor struct {
	readers     map[Format]Reader
	maxFileSize int64
	logger      *slog.Logger
}

// NewProcessor は新しいProcessorを作成する
// maxFileSizeが0以下の場合はサイズを検査しない
func NewProcessor(readers map[Format]Reader, maxFileSize int64, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		readers:     readers,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Process はファイルを1つずつ読み込む
// 個々のファイルの失敗は記録して残りの処理を続ける
func (p *Processor) Process(ctx context.Context, files []File) ([]ExtractedContent, []FileFailure, error) {
	if len(files) == 0 {
		p.logger.Warn("no documents provided for processing")
		return []ExtractedContent{}, nil, nil
	}
	if len(p.readers) == 0 {
		return nil, nil, ErrNoReaders
	}

	var all []ExtractedContent
	var failures []FileFailure

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		contents, err := p.processFile(ctx, f)
		if err != nil {
			p.logger.Error("failed to process document", "file", f.Name, "error", err)
			failures = append(failures, FileFailure{Name: f.Name, Err: err})
			continue
		}

		p.logger.Info("extracted document content", "file", f.Name, "items", len(contents))
		all = append(all, contents...)
	}

	p.logger.Info("document processing completed",
		"items", len(all),
		"documents", len(files),
		"failed", len(failures))

	return all, failures, nil
}

func (p *Processor) processFile(ctx context.Context, f File) ([]ExtractedContent, error) {
	if p.maxFileSize > 0 && int64(len(f.Data)) > p.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", len(f.Data), p.maxFileSize)
	}

	format, err := DetectFormat(f)
	if err != nil {
		return nil, err
	}

	reader, ok := p.readers[format]
	if !ok {
		return nil, fmt.Errorf("no reader for format %s", format)
	}

	contents, err := reader.Read(ctx, f.Data, f.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return contents, nil
}

// DetectFormat は拡張子、次にマジックバイトからファイル形式を判定する
func DetectFormat(f File) (Format, error) {
	switch f.Ext() {
	case "pptx":
		return FormatPPTX, nil
	case "pdf":
		return FormatPDF, nil
	}

	switch {
	case bytes.HasPrefix(f.Data, []byte("%PDF-")):
		return FormatPDF, nil
	case bytes.HasPrefix(f.Data, []byte("PK\x03\x04")):
		return FormatPPTX, nil
	}

	return "", fmt.Errorf("unsupported file type: %s", f.Name)
}
