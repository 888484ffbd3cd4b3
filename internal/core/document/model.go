package document

import (
	"context"
	"strings"
)

// Format は参照ドキュメントの形式
type Format string

const (
	FormatPPTX Format = "pptx"
	FormatPDF  Format = "pdf"
)

// ExtractedContent はドキュメントから抽出した1単位（スライドまたはページ）のテキスト
type ExtractedContent struct {
	Number     int    `json:"number"` // 1始まりのスライド番号/ページ番号
	Title      string `json:"title"`
	Body       string `json:"body"`
	LayoutType string `json:"layoutType"`
	SourceFile string `json:"sourceFile"`
	Format     Format `json:"format"`
}

// AnalysisResult は全ドキュメントを横断した分析結果
// リスト型のフィールドは常に非nil
type AnalysisResult struct {
	Summary                string   `json:"summary"`
	SourceDocuments        int      `json:"sourceDocuments"`
	Technologies           []string `json:"technologies"`
	Approaches             []string `json:"approaches"`
	CaseStudies            []string `json:"caseStudies"`
	KeyThemes              []string `json:"keyThemes"`
	BusinessBenefits       []string `json:"businessBenefits"`
	ChallengesAddressed    []string `json:"challengesAddressed"`
	ImplementationPatterns []string `json:"implementationPatterns"`
	ClientExamples         []string `json:"clientExamples"`
}

// NewAnalysisResult は全リストが空の分析結果を作成する
func NewAnalysisResult(summary string, sourceDocuments int) AnalysisResult {
	return AnalysisResult{
		Summary:                summary,
		SourceDocuments:        sourceDocuments,
		Technologies:           []string{},
		Approaches:             []string{},
		CaseStudies:            []string{},
		KeyThemes:              []string{},
		BusinessBenefits:       []string{},
		ChallengesAddressed:    []string{},
		ImplementationPatterns: []string{},
		ClientExamples:         []string{},
	}
}

// Reader はファイルの生データから抽出コンテンツを読み出す
type Reader interface {
	Read(ctx context.Context, data []byte, filename string) ([]ExtractedContent, error)
}

// File はアップロードされた参照ファイル
type File struct {
	Name string
	Data []byte
}

// Ext はファイル名の拡張子を小文字・ドットなしで返す
func (f File) Ext() string {
	idx := strings.LastIndex(f.Name, ".")
	if idx == -1 || idx == len(f.Name)-1 {
		return ""
	}
	return strings.ToLower(f.Name[idx+1:])
}
