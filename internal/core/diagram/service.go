package diagram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jchntrl/power-point-assistant/internal/core/document"
	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/jchntrl/power-point-assistant/internal/core/parser"
	"github.com/jchntrl/power-point-assistant/internal/core/project"
)

var specSchema = parser.Schema{
	Lists:   []string{"diagrams"},
	Objects: []string{"analysis_metadata"},
}

// ServiceConfig はServiceの設定
type ServiceConfig struct {
	Enabled       bool
	MaxComponents int
	Temperature   float64
	MaxTokens     int
	Model         string
}

// Service はLLMに図の仕様を提案させ、検証・レンダリングする
type Service struct {
	llm       llm.Client
	generator *Generator
	catalog   *IconCatalog
	styler    *Styler
	cfg       ServiceConfig
	logger    *slog.Logger
}

// NewService は新しいServiceを作成します
func NewService(client llm.Client, generator *Generator, catalog *IconCatalog, styler *Styler, cfg ServiceConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxComponents <= 0 {
		cfg.MaxComponents = 15
	}
	return &Service{
		llm:       client,
		generator: generator,
		catalog:   catalog,
		styler:    styler,
		cfg:       cfg,
		logger:    logger,
	}
}

// Generate は案件に合った図を生成する
// 個々の図の失敗は除外するだけで、呼び出し元にはエラーを返さない
func (s *Service) Generate(ctx context.Context, desc project.Description, pa project.AnalysisResult, da document.AnalysisResult) GenerationResult {
	start := time.Now()

	if !s.cfg.Enabled {
		s.logger.Info("diagram generation is disabled")
		return GenerationResult{
			Diagrams: []Generated{},
			Metadata: map[string]any{"disabled": true},
		}
	}

	s.logger.Info("generating diagram specifications", "client", desc.ClientName)

	parsed, err := s.requestSpecs(ctx, desc, pa, da)
	if err != nil {
		msg := fmt.Sprintf("Diagram generation failed: %v", err)
		s.logger.Error("diagram generation failed", "error", err)
		return GenerationResult{
			Diagrams:            []Generated{},
			TotalGenerationTime: time.Since(start),
			Metadata:            map[string]any{"error": msg},
		}
	}

	diagrams := []Generated{}
	for i, item := range parsed.Items("diagrams") {
		raw, ok := item.(map[string]any)
		if !ok {
			s.logger.Warn("invalid diagram specification", "index", i, "reason", "not an object")
			continue
		}

		spec, rejection := ValidateSpec(raw)
		if rejection != nil {
			s.logger.Warn("invalid diagram specification", "title", rejection.Title, "reason", rejection.Reason)
			continue
		}

		generated, err := s.generator.Generate(ctx, spec)
		if err != nil {
			s.logger.Error("failed to generate diagram", "title", spec.Title, "error", err)
			continue
		}
		diagrams = append(diagrams, generated)
	}

	meta := parsed.Object("analysis_metadata")
	technicalConfidence := parser.FloatOf(meta, "technical_confidence", DefaultTechnicalConfidence)
	result := GenerationResult{
		Diagrams:            diagrams,
		SuccessCount:        len(diagrams),
		TotalGenerationTime: time.Since(start),
		Confidence:          Confidence(diagrams, technicalConfidence),
		Metadata: map[string]any{
			"architecture_pattern": parser.StringOf(meta, "architecture_pattern", "unknown"),
			"complexity_level":     parser.StringOf(meta, "complexity_level", "medium"),
			"technical_confidence": technicalConfidence,
			"recommended_slides":   parser.StringsOf(meta, "recommended_slides"),
			"source":               "ai_generated",
			"model":                s.cfg.Model,
		},
	}

	s.logger.Info("diagram generation completed",
		"diagrams", result.SuccessCount,
		"duration", result.TotalGenerationTime,
		"confidence", result.Confidence)

	return result
}

func (s *Service) requestSpecs(ctx context.Context, desc project.Description, pa project.AnalysisResult, da document.AnalysisResult) (parser.Result, error) {
	prompt := BuildPrompt(PromptInput{
		ClientName:         desc.ClientName,
		ProjectDescription: desc.Description,
		ProjectSummary:     project.Summarize(pa),
		DocumentSummary:    SummarizeDocuments(da),
		MaxComponents:      s.cfg.MaxComponents,
	}, s.catalog, s.styler.DiagramTypes())

	resp, err := s.llm.GenerateCompletion(llm.WithStage(ctx, llm.StageDiagramGeneration), llm.CompletionRequest{
		Prompt:         prompt,
		Temperature:    s.cfg.Temperature,
		MaxTokens:      s.cfg.MaxTokens,
		ResponseFormat: "json",
	})
	if err != nil {
		return parser.Result{}, fmt.Errorf("failed to request diagram specs: %w", err)
	}

	parsed := parser.Parse(resp.Content, specSchema)
	if !parsed.OK() {
		return parser.Result{}, fmt.Errorf("failed to parse diagram specs: %s", parsed.Error)
	}
	return parsed, nil
}

// Cleanup は古い図の画像を削除する
func (s *Service) Cleanup(maxAge time.Duration) (int, error) {
	return s.generator.Cleanup(maxAge)
}
