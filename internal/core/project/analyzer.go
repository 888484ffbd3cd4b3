package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/jchntrl/power-point-assistant/internal/core/parser"
)

var analysisSchema = parser.Schema{
	Lists: []string{
		"requirements",
		"technologies",
		"solution_approaches",
		"key_objectives",
		"business_drivers",
		"technical_challenges",
		"success_criteria",
		"presentation_focus",
		"value_propositions",
	},
	Strings: []string{"target_audience"},
}

// AnalyzerConfig はAnalyzerの設定
type AnalyzerConfig struct {
	Temperature float64
	MaxTokens   int
}

// Analyzer は案件説明から要件・技術・目的を抽出する
type Analyzer struct {
	llm    llm.Client
	cfg    AnalyzerConfig
	logger *slog.Logger
}

// NewAnalyzer は新しいAnalyzerを作成する
func NewAnalyzer(client llm.Client, cfg AnalyzerConfig, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	return &Analyzer{
		llm:    client,
		cfg:    cfg,
		logger: logger,
	}
}

// Analyze は案件説明をLLMで分析する
// 失敗時はrequirementsに失敗理由を1件だけ持つ結果を返す（Degradedで判定可能）
func (a *Analyzer) Analyze(ctx context.Context, d Description) AnalysisResult {
	a.logger.Info("analyzing project", "client", d.ClientName)

	result, err := a.analyze(ctx, d)
	if err != nil {
		a.logger.Error("project analysis failed", "error", err)
		fallback := NewAnalysisResult()
		fallback.Requirements = []string{failurePrefix + err.Error()}
		return fallback
	}

	a.logger.Info("project analysis completed",
		"requirements", len(result.Requirements),
		"technologies", len(result.Technologies))

	return result
}

func (a *Analyzer) analyze(ctx context.Context, d Description) (AnalysisResult, error) {
	resp, err := a.llm.GenerateCompletion(llm.WithStage(ctx, llm.StageProjectAnalysis), llm.CompletionRequest{
		Prompt:         BuildAnalysisPrompt(d),
		Temperature:    a.cfg.Temperature,
		MaxTokens:      a.cfg.MaxTokens,
		ResponseFormat: "json",
	})
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to generate project analysis: %w", err)
	}

	parsed := parser.Parse(resp.Content, analysisSchema)
	if !parsed.OK() {
		return AnalysisResult{}, fmt.Errorf("failed to parse project analysis: %s", parsed.Error)
	}

	return AnalysisResult{
		Requirements:        parsed.Strings("requirements"),
		Technologies:        parsed.Strings("technologies"),
		SolutionApproaches:  parsed.Strings("solution_approaches"),
		TargetAudience:      parsed.String("target_audience", DefaultTargetAudience),
		KeyObjectives:       parsed.Strings("key_objectives"),
		BusinessDrivers:     parsed.Strings("business_drivers"),
		TechnicalChallenges: parsed.Strings("technical_challenges"),
		SuccessCriteria:     parsed.Strings("success_criteria"),
		PresentationFocus:   parsed.Strings("presentation_focus"),
		ValuePropositions:   parsed.Strings("value_propositions"),
	}, nil
}
