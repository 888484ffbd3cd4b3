package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jchntrl/power-point-assistant/internal/core/document"
	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/jchntrl/power-point-assistant/internal/core/parser"
	"github.com/jchntrl/power-point-assistant/internal/core/project"
)

const (
	// DefaultFocus はプレゼンテーションの既定の焦点
	DefaultFocus = "technical solution and business value"

	// FailureConfidence は生成に失敗した場合の信頼度
	FailureConfidence = 0.3
)

var generationSchema = parser.Schema{
	Lists:   []string{"slides"},
	Objects: []string{"presentation_metadata"},
}

// GeneratorConfig はGeneratorの設定
type GeneratorConfig struct {
	MinSlides   int
	MaxSlides   int
	Target      int
	Temperature float64
	MaxTokens   int
}

// Request はスライド生成の入力
type Request struct {
	Project          project.Description
	ProjectAnalysis  project.AnalysisResult
	DocumentAnalysis document.AnalysisResult
	TargetSlideCount int    // 0 なら設定値
	Focus            string // 空ならDefaultFocus
}

// Generator は分析結果からスライド構成を生成する
type Generator struct {
	llm    llm.Client
	cfg    GeneratorConfig
	logger *slog.Logger
}

// NewGenerator は新しいGeneratorを作成します
func NewGenerator(client llm.Client, cfg GeneratorConfig, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinSlides <= 0 {
		cfg.MinSlides = 3
	}
	if cfg.MaxSlides < cfg.MinSlides {
		cfg.MaxSlides = 15
		if cfg.MaxSlides < cfg.MinSlides {
			cfg.MaxSlides = cfg.MinSlides
		}
	}
	if cfg.Target <= 0 {
		cfg.Target = 8
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	return &Generator{
		llm:    client,
		cfg:    cfg,
		logger: logger,
	}
}

// Generate はスライドを生成する
// 結果のスライド数は常に MinSlides 以上 MaxSlides 以下で、エラーは返さない
func (g *Generator) Generate(ctx context.Context, req Request) GenerationResult {
	target := req.TargetSlideCount
	if target <= 0 {
		target = g.cfg.Target
	}
	focus := req.Focus
	if strings.TrimSpace(focus) == "" {
		focus = DefaultFocus
	}
	title := ProjectTitle(req.Project.Description)

	g.logger.Info("generating slides", "client", req.Project.ClientName, "target", target)

	parsed, err := g.request(ctx, req, target, focus)
	if err != nil {
		g.logger.Error("content generation failed", "error", err)
		return GenerationResult{
			Slides:     g.truncate(FallbackSlides(title, req.Project.ClientName, max(target, g.cfg.MinSlides))),
			Metadata:   map[string]any{"error": err.Error()},
			Confidence: FailureConfidence,
		}
	}

	meta := parsed.Object("presentation_metadata")
	if !parsed.OK() {
		// 解析できない応答は空のスライド一覧として扱い、理由をメタデータに残す
		g.logger.Warn("failed to parse slide content", "error", parsed.Error)
		meta = map[string]any{"error": "failed to parse slide content: " + parsed.Error}
	}

	slides := g.collectSlides(parsed)

	if len(slides) < g.cfg.MinSlides {
		missing := g.cfg.MinSlides - len(slides)
		g.logger.Info("adding fallback slides", "count", missing)
		slides = append(slides, FallbackSlides(title, req.Project.ClientName, missing)...)
	}
	slides = g.truncate(slides)

	result := GenerationResult{
		Slides:     slides,
		Metadata:   meta,
		Confidence: Confidence(slides, meta),
	}

	g.logger.Info("content generation completed",
		"slides", len(result.Slides),
		"confidence", result.Confidence)

	return result
}

func (g *Generator) request(ctx context.Context, req Request, target int, focus string) (parser.Result, error) {
	prompt := fmt.Sprintf(generationPromptTemplate,
		req.Project.ClientName,
		req.Project.Description,
		project.Summarize(req.ProjectAnalysis),
		SummarizeDocuments(req.DocumentAnalysis),
		target,
		focus,
	)

	resp, err := g.llm.GenerateCompletion(llm.WithStage(ctx, llm.StageContentGeneration), llm.CompletionRequest{
		Prompt:         prompt,
		Temperature:    g.cfg.Temperature,
		MaxTokens:      g.cfg.MaxTokens,
		ResponseFormat: "json",
	})
	if err != nil {
		return parser.Result{}, fmt.Errorf("failed to generate slide content: %w", err)
	}

	return parser.Parse(resp.Content, generationSchema), nil
}

// collectSlides はタイトルと内容の両方を持つスライドだけを採用する
func (g *Generator) collectSlides(parsed parser.Result) []Slide {
	slides := []Slide{}
	for i, item := range parsed.Items("slides") {
		obj, ok := item.(map[string]any)
		if !ok {
			g.logger.Warn("invalid slide data", "index", i, "reason", "not an object")
			continue
		}
		title := parser.StringOf(obj, "title", "")
		content := parser.StringsOf(obj, "content")
		if title == "" || len(content) == 0 {
			g.logger.Warn("invalid slide data", "index", i, "reason", "missing title or content")
			continue
		}
		slides = append(slides, Slide{
			Title:   title,
			Content: content,
			Layout:  ParseLayoutType(parser.StringOf(obj, "layout_type", string(LayoutBullet))),
			Notes:   parser.StringOf(obj, "notes", ""),
		})
	}
	return slides
}

// truncate は先頭から MaxSlides 枚を残す
func (g *Generator) truncate(slides []Slide) []Slide {
	if len(slides) > g.cfg.MaxSlides {
		g.logger.Info("truncating slides", "from", len(slides), "to", g.cfg.MaxSlides)
		return slides[:g.cfg.MaxSlides]
	}
	return slides
}
