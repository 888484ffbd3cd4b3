package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jchntrl/power-point-assistant/internal/core/content"
	"github.com/jchntrl/power-point-assistant/internal/core/diagram"
	"github.com/jchntrl/power-point-assistant/internal/core/document"
	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/jchntrl/power-point-assistant/internal/core/pipeline"
	"github.com/jchntrl/power-point-assistant/internal/core/presentation"
	"github.com/jchntrl/power-point-assistant/internal/core/project"
	"github.com/jchntrl/power-point-assistant/internal/infra/gemini"
	"github.com/jchntrl/power-point-assistant/internal/infra/llmadapter"
	"github.com/jchntrl/power-point-assistant/internal/infra/llmfake"
	"github.com/jchntrl/power-point-assistant/internal/infra/objectstore"
	"github.com/jchntrl/power-point-assistant/internal/infra/openai"
	"github.com/jchntrl/power-point-assistant/internal/infra/pdf"
	"github.com/jchntrl/power-point-assistant/internal/infra/postgres"
	"github.com/jchntrl/power-point-assistant/internal/infra/pptx"
	"github.com/jchntrl/power-point-assistant/internal/infra/render"
	"github.com/jchntrl/power-point-assistant/internal/platform/database"
	"github.com/jchntrl/power-point-assistant/pkg/config"
)

// LLMプロバイダ名
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderFake   = "fake"
)

// ServiceContainer は生成パイプラインの依存関係を保持する
type ServiceContainer struct {
	Orchestrator *pipeline.Orchestrator
	Templates    *pptx.Loader
	Metrics      *llmadapter.Metrics
	Runs         *postgres.RunRepository // DB未設定ならnil

	cfg      *config.Config
	logger   *slog.Logger
	database *database.Database
	errorLog *llmadapter.ErrorLogger
}

type containerOptions struct {
	logger    *slog.Logger
	llmClient llm.Client
	renderer  diagram.Renderer
	skipDB    bool
	skipStore bool
}

// ContainerOption は ServiceContainer 構築時のオプション
type ContainerOption func(*containerOptions)

// WithContainerLogger はロガーを差し替える
func WithContainerLogger(logger *slog.Logger) ContainerOption {
	return func(opts *containerOptions) {
		opts.logger = logger
	}
}

// WithContainerLLMClient は LLM クライアントを差し替える
// 差し替えたクライアントにもメトリクスとレート制御は重ねる
func WithContainerLLMClient(client llm.Client) ContainerOption {
	return func(opts *containerOptions) {
		opts.llmClient = client
	}
}

// WithContainerRenderer は図のレンダラーを差し替える
func WithContainerRenderer(renderer diagram.Renderer) ContainerOption {
	return func(opts *containerOptions) {
		opts.renderer = renderer
	}
}

// WithoutPersistence はDBとオブジェクトストレージへの接続を行わない
// validate や preview のように保存を伴わないコマンドで使う
func WithoutPersistence() ContainerOption {
	return func(opts *containerOptions) {
		opts.skipDB = true
		opts.skipStore = true
	}
}

// NewContainer は設定からコンテナを生成する。
func NewContainer(ctx context.Context, cfg *config.Config, opts ...ContainerOption) (*ServiceContainer, error) {
	options := containerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	logger := options.logger

	c := &ServiceContainer{cfg: cfg, logger: logger}

	// LLMClient
	baseClient := options.llmClient
	apiKeyConfigured := true
	if baseClient == nil {
		var err error
		baseClient, apiKeyConfigured, err = newLLMClient(ctx, cfg.LLM)
		if err != nil {
			return nil, err
		}
	}

	// TokenCounter (tiktoken)
	counter, err := llmadapter.NewTokenCounter()
	if err != nil {
		logger.Warn("token counter unavailable, falling back to estimates", "error", err)
		counter = nil
	}

	llmClient, err := c.wrapLLMClient(baseClient, counter, cfg.LLM)
	if err != nil {
		return nil, err
	}

	// Document readers
	processor := document.NewProcessor(map[document.Format]document.Reader{
		document.FormatPPTX: pptx.NewReader(logger),
		document.FormatPDF:  pdf.NewReader(logger),
	}, cfg.Files.MaxFileSizeBytes(), logger)

	var docCounter document.TokenCounter
	if counter != nil {
		docCounter = counter
	}
	documents := document.NewAnalyzer(llmClient, docCounter, document.AnalyzerConfig{
		MaxTokens: cfg.LLM.MaxTokens,
	}, logger)

	projects := project.NewAnalyzer(llmClient, project.AnalyzerConfig{
		MaxTokens: cfg.LLM.MaxTokens,
	}, logger)

	generator := content.NewGenerator(llmClient, content.GeneratorConfig{
		MinSlides:   cfg.Slides.Min,
		MaxSlides:   cfg.Slides.Max,
		Target:      cfg.Slides.Target,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}, logger)

	// Diagrams
	// 無効時も古い画像のクリーンアップに使うため常に組み立てる
	diagrams, err := newDiagramService(llmClient, cfg, options.renderer, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	// Templates
	c.Templates = pptx.NewLoader(cfg.DefaultTemplatePath(), logger)

	deps := pipeline.Dependencies{
		Processor: processor,
		Documents: documents,
		Projects:  projects,
		Diagrams:  diagrams,
		Content:   generator,
		Assembler: presentation.NewAssembler(logger),
		Templates: c.Templates,
	}

	// Run history (PostgreSQL)
	if cfg.Database.Enabled() && !options.skipDB {
		db, err := database.New(ctx, cfg.Database.ConnString())
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("データベース初期化に失敗しました: %w", err)
		}
		c.database = db
		if err := database.Migrate(ctx, database.NewTransactionProvider(db.Pool)); err != nil {
			c.Close()
			return nil, err
		}
		c.Runs = postgres.NewRunRepository(db.Pool)
		deps.Runs = c.Runs
	}

	// Artifacts (S3 compatible)
	if cfg.Storage.Enabled() && !options.skipStore {
		store, err := objectstore.New(objectstore.Config{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		}, logger)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("ストレージ初期化に失敗しました: %w", err)
		}
		deps.Artifacts = store
	}

	orchestrator, err := pipeline.NewOrchestrator(deps, pipeline.Config{
		MinSlides:           cfg.Slides.Min,
		MaxSlides:           cfg.Slides.Max,
		TargetSlides:        cfg.Slides.Target,
		OutputDir:           cfg.OutputDir,
		DefaultTemplatePath: cfg.DefaultTemplatePath(),
		DiagramsEnabled:     cfg.Diagram.Enabled,
		Validation: pipeline.ValidationConfig{
			MaxFiles:            cfg.Files.MaxFiles,
			AllowedTypes:        cfg.Files.AllowedTypes,
			Provider:            cfg.LLM.Provider,
			APIKeyConfigured:    apiKeyConfigured,
			DefaultTemplatePath: cfg.DefaultTemplatePath(),
		},
	}, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Orchestrator = orchestrator

	return c, nil
}

// newLLMClient は設定されたプロバイダのクライアントを作る
// APIキーが無い場合は呼び出し時にエラーを返すクライアントにし、検証で報告できるようにする
func newLLMClient(ctx context.Context, cfg config.LLMConfig) (llm.Client, bool, error) {
	var (
		client llm.Client
		err    error
	)
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI, "":
		client, err = openai.NewClient(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.Timeout,
		})
		if errors.Is(err, openai.ErrAPIKeyNotSet) {
			return unavailableClient(err), false, nil
		}
	case ProviderGemini:
		client, err = gemini.NewClient(ctx, gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.Timeout,
		})
		if errors.Is(err, gemini.ErrAPIKeyNotSet) {
			return unavailableClient(err), false, nil
		}
	case ProviderFake:
		return llmfake.New(), true, nil
	default:
		return nil, false, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, false, fmt.Errorf("LLMクライアント初期化に失敗しました: %w", err)
	}
	return client, true, nil
}

func unavailableClient(err error) llm.Client {
	return llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		return llm.CompletionResponse{}, err
	})
}

// wrapLLMClient はエラーログ・メトリクス・キャッシュ・レート制御を重ねる
// 外側から順にレート制御、キャッシュ、メトリクス、エラーログとなる
func (c *ServiceContainer) wrapLLMClient(client llm.Client, counter *llmadapter.TokenCounter, cfg config.LLMConfig) (llm.Client, error) {
	errorLog, err := llmadapter.NewErrorLogger(cfg.ErrorLogPath, c.logger)
	if err != nil {
		return nil, fmt.Errorf("エラーログ初期化に失敗しました: %w", err)
	}
	c.errorLog = errorLog
	client = llmadapter.NewLoggingClient(client, errorLog)

	c.Metrics = llmadapter.NewMetrics()
	client = llmadapter.NewInstrumentedClient(client, c.Metrics, counter)

	if cfg.CacheSize > 0 {
		cached, err := llmadapter.NewCachedClient(client, cfg.CacheSize, c.Metrics)
		if err != nil {
			return nil, fmt.Errorf("キャッシュ初期化に失敗しました: %w", err)
		}
		client = cached
	}

	if cfg.RequestsPerMinute > 0 {
		client = llmadapter.NewThrottledClient(client, cfg.RequestsPerMinute)
	}
	return client, nil
}

// newDiagramService はレンダラーとスタイルを組み立てる
func newDiagramService(client llm.Client, cfg *config.Config, renderer diagram.Renderer, logger *slog.Logger) (*diagram.Service, error) {
	styler := diagram.NewStyler(diagram.BrandColors{
		Primary:   cfg.Brand.PrimaryColor,
		Secondary: cfg.Brand.SecondaryColor,
		Accent:    cfg.Brand.AccentColor,
	}, cfg.Diagram.DPI)

	if cfg.Diagram.StyleFile != "" {
		f, err := os.Open(cfg.Diagram.StyleFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open diagram style file: %w", err)
		}
		templates, err := diagram.LoadStyleTemplates(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to load diagram style file: %w", err)
		}
		styler.AddTemplates(templates)
	}

	if renderer == nil {
		var err error
		renderer, err = newRenderer(cfg.Diagram, logger)
		if err != nil {
			return nil, err
		}
	}

	catalog := diagram.NewIconCatalog()
	generator, err := diagram.NewGenerator(renderer, catalog, styler, diagram.GeneratorConfig{
		OutputDir:     cfg.Diagram.OutputDir,
		Style:         cfg.Diagram.Style,
		RenderTimeout: cfg.Diagram.RenderTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	return diagram.NewService(client, generator, catalog, styler, diagram.ServiceConfig{
		Enabled:       cfg.Diagram.Enabled,
		MaxComponents: cfg.Diagram.MaxComponents,
		MaxTokens:     cfg.LLM.MaxTokens,
		Model:         modelName(cfg.LLM),
	}, logger), nil
}

// modelName は選択中のプロバイダーのモデル名を返す
func modelName(cfg config.LLMConfig) string {
	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini:
		return cfg.GeminiModel
	case ProviderFake:
		return ProviderFake
	default:
		return cfg.OpenAIModel
	}
}

// newRenderer は設定に応じてレンダラーを選ぶ
// graphviz が見つからない場合は組み込みのレンダラーを使う
func newRenderer(cfg config.DiagramConfig, logger *slog.Logger) (diagram.Renderer, error) {
	if strings.EqualFold(cfg.Renderer, "graphviz") {
		gv := render.NewGraphvizRenderer("", logger)
		if gv.Available() {
			return gv, nil
		}
		logger.Warn("graphviz not found, using native renderer")
	}
	native, err := render.NewNativeRenderer(cfg.DPI, logger)
	if err != nil {
		return nil, fmt.Errorf("レンダラー初期化に失敗しました: %w", err)
	}
	return native, nil
}

// Close は内部リソースを解放する。
func (c *ServiceContainer) Close() {
	if c == nil {
		return
	}
	if c.database != nil {
		c.database.Close()
	}
	if c.errorLog != nil {
		if err := c.errorLog.Close(); err != nil {
			c.Logger().Warn("failed to close error log", "error", err)
		}
	}
}

// Logger はロガーを返す。
func (c *ServiceContainer) Logger() *slog.Logger {
	if c == nil || c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Config は設定を返す。
func (c *ServiceContainer) Config() *config.Config {
	return c.cfg
}

// Database はデータベースを返す。DB未設定ならnil。
func (c *ServiceContainer) Database() *database.Database {
	if c == nil {
		return nil
	}
	return c.database
}
