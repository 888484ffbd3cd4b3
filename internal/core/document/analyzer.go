package document

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/jchntrl/power-point-assistant/internal/core/parser"
)

// DefaultMaxDocumentTokens はプロンプトに含めるドキュメント部分のトークン上限
const DefaultMaxDocumentTokens = 12000

var analysisSchema = parser.Schema{
	Lists: []string{
		"technologies",
		"approaches",
		"case_studies",
		"key_themes",
		"business_benefits",
		"challenges_addressed",
		"implementation_patterns",
		"client_examples",
	},
}

// TokenCounter はテキストのトークン数を数える
type TokenCounter interface {
	CountTokens(text string) int
}

// AnalyzerConfig はAnalyzerの設定
type AnalyzerConfig struct {
	Temperature       float64
	MaxTokens         int
	MaxDocumentTokens int
}

// Analyzer は参照ドキュメントを分析して技術・アプローチ・事例を抽出する
type Analyzer struct {
	llm     llm.Client
	counter TokenCounter
	cfg     AnalyzerConfig
	logger  *slog.Logger
}

// NewAnalyzer は新しいAnalyzerを作成する
// counterがnilの場合は文字数からの推定値を使用する
func NewAnalyzer(client llm.Client, counter TokenCounter, cfg AnalyzerConfig, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxDocumentTokens <= 0 {
		cfg.MaxDocumentTokens = DefaultMaxDocumentTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	return &Analyzer{
		llm:     client,
		counter: counter,
		cfg:     cfg,
		logger:  logger,
	}
}

// Analyze は抽出コンテンツ群をLLMで分析する
// このステージは失敗してもエラーを返さず、理由をSummaryに埋め込んだ結果を返す
func (a *Analyzer) Analyze(ctx context.Context, contents []ExtractedContent, projectDescription string) AnalysisResult {
	if len(contents) == 0 {
		a.logger.Warn("no documents provided for analysis")
		return NewAnalysisResult("No documents provided for analysis", 0)
	}

	result, err := a.analyze(ctx, contents, projectDescription)
	if err != nil {
		a.logger.Error("document analysis failed", "error", err)
		return NewAnalysisResult(fmt.Sprintf("Analysis failed: %v", err), len(contents))
	}

	a.logger.Info("document analysis completed",
		"technologies", len(result.Technologies),
		"approaches", len(result.Approaches))

	return result
}

func (a *Analyzer) analyze(ctx context.Context, contents []ExtractedContent, projectDescription string) (AnalysisResult, error) {
	payload := a.formatContents(contents)

	a.logger.Info("analyzing documents", "count", len(contents))

	resp, err := a.llm.GenerateCompletion(llm.WithStage(ctx, llm.StageDocumentAnalysis), llm.CompletionRequest{
		Prompt:         BuildAnalysisPrompt(projectDescription, payload),
		Temperature:    a.cfg.Temperature,
		MaxTokens:      a.cfg.MaxTokens,
		ResponseFormat: "json",
	})
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to generate document analysis: %w", err)
	}

	parsed := parser.Parse(resp.Content, analysisSchema)
	if !parsed.OK() {
		return AnalysisResult{}, fmt.Errorf("failed to parse document analysis: %s", parsed.Error)
	}

	result := NewAnalysisResult(
		fmt.Sprintf("Analyzed %d documents for project: %s...", len(contents), truncate(projectDescription, 100)),
		len(contents),
	)
	result.Technologies = parsed.Strings("technologies")
	result.Approaches = parsed.Strings("approaches")
	result.CaseStudies = parsed.Strings("case_studies")
	result.KeyThemes = parsed.Strings("key_themes")
	result.BusinessBenefits = parsed.Strings("business_benefits")
	result.ChallengesAddressed = parsed.Strings("challenges_addressed")
	result.ImplementationPatterns = parsed.Strings("implementation_patterns")
	result.ClientExamples = parsed.Strings("client_examples")

	return result, nil
}

// formatContents はコンテンツをトークン上限内でプロンプト用に整形する
// 上限を超えた分は末尾から切り捨てる
func (a *Analyzer) formatContents(contents []ExtractedContent) string {
	var sb strings.Builder
	used := 0

	for i, c := range contents {
		block := FormatContent(c)
		tokens := a.countTokens(block)
		if used+tokens > a.cfg.MaxDocumentTokens && i > 0 {
			remaining := len(contents) - i
			a.logger.Warn("document payload truncated",
				"included", i,
				"omitted", remaining,
				"token_budget", a.cfg.MaxDocumentTokens)
			sb.WriteString(fmt.Sprintf("\n... (%d more sections truncated)\n", remaining))
			break
		}
		sb.WriteString(block)
		used += tokens
	}

	return sb.String()
}

func (a *Analyzer) countTokens(text string) int {
	if a.counter != nil {
		return a.counter.CountTokens(text)
	}
	// 約3文字で1トークンとして推定
	return len([]rune(text)) / 3
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
