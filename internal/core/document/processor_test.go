package document

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	ReadFunc func(ctx context.Context, data []byte, filename string) ([]ExtractedContent, error)
}

func (r *stubReader) Read(ctx context.Context, data []byte, filename string) ([]ExtractedContent, error) {
	return r.ReadFunc(ctx, data, filename)
}

func TestProcessor_Process_ContinuesAfterFailure(t *testing.T) {
	pptx := &stubReader{ReadFunc: func(ctx context.Context, data []byte, filename string) ([]ExtractedContent, error) {
		if filename == "broken.pptx" {
			return nil, errors.New("corrupt archive")
		}
		return []ExtractedContent{{Number: 1, Title: "Intro", SourceFile: filename, Format: FormatPPTX}}, nil
	}}
	pdf := &stubReader{ReadFunc: func(ctx context.Context, data []byte, filename string) ([]ExtractedContent, error) {
		return []ExtractedContent{
			{Number: 1, SourceFile: filename, Format: FormatPDF},
			{Number: 2, SourceFile: filename, Format: FormatPDF},
		}, nil
	}}

	p := NewProcessor(map[Format]Reader{FormatPPTX: pptx, FormatPDF: pdf}, 0, discardLogger())
	contents, failures, err := p.Process(context.Background(), []File{
		{Name: "broken.pptx"},
		{Name: "deck.pptx"},
		{Name: "report.pdf"},
		{Name: "notes.txt", Data: []byte("plain")},
	})
	require.NoError(t, err)

	assert.Len(t, contents, 3)
	require.Len(t, failures, 2)
	assert.Equal(t, "broken.pptx", failures[0].Name)
	assert.Equal(t, "notes.txt", failures[1].Name)
	assert.Contains(t, failures[1].Err.Error(), "unsupported file type")
}

func TestProcessor_Process_NoFiles(t *testing.T) {
	p := NewProcessor(nil, 0, discardLogger())
	contents, failures, err := p.Process(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, contents)
	assert.Empty(t, failures)
}

func TestProcessor_Process_NoReaders(t *testing.T) {
	p := NewProcessor(nil, 0, discardLogger())
	_, _, err := p.Process(context.Background(), []File{{Name: "a.pdf"}})

	assert.ErrorIs(t, err, ErrNoReaders)
}

func TestProcessor_Process_FileTooLarge(t *testing.T) {
	reader := &stubReader{ReadFunc: func(ctx context.Context, data []byte, filename string) ([]ExtractedContent, error) {
		return []ExtractedContent{{Number: 1}}, nil
	}}
	p := NewProcessor(map[Format]Reader{FormatPDF: reader}, 4, discardLogger())

	contents, failures, err := p.Process(context.Background(), []File{{Name: "big.pdf", Data: []byte("%PDF-1.7")}})
	require.NoError(t, err)
	assert.Empty(t, contents)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Err.Error(), "file too large")
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		file    File
		want    Format
		wantErr bool
	}{
		{"pptx extension", File{Name: "Deck.PPTX"}, FormatPPTX, false},
		{"pdf extension", File{Name: "a.pdf"}, FormatPDF, false},
		{"pdf magic", File{Name: "upload", Data: []byte("%PDF-1.4 ...")}, FormatPDF, false},
		{"zip magic", File{Name: "upload.bin", Data: []byte("PK\x03\x04rest")}, FormatPPTX, false},
		{"unknown", File{Name: "a.docx", Data: []byte("hello")}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.file)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
