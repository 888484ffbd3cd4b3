package container

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jchntrl/power-point-assistant/internal/core/diagram"
	"github.com/jchntrl/power-point-assistant/internal/core/document"
	"github.com/jchntrl/power-point-assistant/internal/core/pipeline"
	"github.com/jchntrl/power-point-assistant/internal/core/project"
	"github.com/jchntrl/power-point-assistant/internal/infra/pptx"
	"github.com/jchntrl/power-point-assistant/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// pngRenderer は図の内容に関係なく単色のPNGを書き出す
type pngRenderer struct {
	calls int
}

func (r *pngRenderer) Render(ctx context.Context, graph diagram.Resolved, outputPath string) error {
	r.calls++
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: 0, G: 102, B: 204, A: 255})
		}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		LLM: config.LLMConfig{
			Provider:          ProviderFake,
			MaxTokens:         2000,
			RequestsPerMinute: 0,
			CacheSize:         16,
		},
		Files: config.FileConfig{
			MaxFiles:      5,
			MaxFileSizeMB: 10,
			AllowedTypes:  []string{"pptx", "pdf"},
		},
		Slides: config.SlideConfig{Min: 3, Max: 15, Target: 6},
		Diagram: config.DiagramConfig{
			Enabled:       true,
			OutputDir:     filepath.Join(dir, "diagrams"),
			Renderer:      "native",
			MaxComponents: 15,
			DPI:           150,
			Style:         "keyrus_brand",
		},
		Brand: config.BrandConfig{
			PrimaryColor:   "#0066CC",
			SecondaryColor: "#333333",
			AccentColor:    "#FFFFFF",
		},
		TemplateDir:     filepath.Join(dir, "templates"),
		DefaultTemplate: "missing.pptx",
		OutputDir:       filepath.Join(dir, "generated"),
	}
}

// referenceDeck は参照資料として使う1枚のpptxを作る
func referenceDeck(t *testing.T) document.File {
	t.Helper()
	tmpl, err := pptx.NewBlankTemplate()
	require.NoError(t, err)

	idx, err := tmpl.AddSlide(1)
	require.NoError(t, err)
	require.NoError(t, tmpl.SetTitle(idx, "Data Platform Modernisation"))
	require.NoError(t, tmpl.SetBody(idx, []string{"Migrated 40 TB to Azure Databricks", "Reduced costs by 30%"}))

	path := filepath.Join(t.TempDir(), "case-study.pptx")
	require.NoError(t, tmpl.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return document.File{Name: "case-study.pptx", Data: data}
}

func TestNewContainer_GenerateWithFakeProvider(t *testing.T) {
	cfg := testConfig(t)
	renderer := &pngRenderer{}

	c, err := NewContainer(context.Background(), cfg,
		WithContainerLogger(discardLogger()),
		WithContainerRenderer(renderer),
	)
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Runs)
	assert.Nil(t, c.Database())

	var stages []pipeline.Stage
	result := c.Orchestrator.Generate(context.Background(), pipeline.Request{
		Project: project.Description{
			Description: "Migrate the on-premise data warehouse to a cloud lakehouse",
			ClientName:  "Acme Retail",
		},
		Files: []document.File{referenceDeck(t)},
		Observer: pipeline.ObserverFunc(func(s pipeline.Snapshot) {
			stages = append(stages, s.Stage)
		}),
	})

	require.True(t, result.Success, result.Error)
	assert.FileExists(t, result.PresentationPath)
	assert.Positive(t, result.FinalSlideCount)
	assert.Equal(t, pipeline.StageCompleted, stages[len(stages)-1])

	// すべての段階でLLMが呼ばれメトリクスに記録される
	snapshot := c.Metrics.Snapshot()
	assert.Positive(t, snapshot.TotalRequests)
}

func TestNewContainer_UnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.Provider = "anthropic"

	_, err := NewContainer(context.Background(), cfg, WithContainerLogger(discardLogger()))
	require.Error(t, err)
}

func TestNewContainer_MissingAPIKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.Provider = ProviderOpenAI
	cfg.Diagram.Enabled = false

	c, err := NewContainer(context.Background(), cfg, WithContainerLogger(discardLogger()))
	require.NoError(t, err)
	defer c.Close()

	// APIキーの欠落は検証エラーとして報告される
	v := c.Orchestrator.ValidateInputs(project.Description{
		Description: "Migrate the on-premise data warehouse to a cloud lakehouse",
		ClientName:  "Acme Retail",
	}, nil)
	assert.False(t, v.Valid)
	assert.Contains(t, v.Errors, "OpenAI API key not properly configured")
}

func TestNewRenderer_FallsBackToNative(t *testing.T) {
	r, err := newRenderer(config.DiagramConfig{Renderer: "native", DPI: 150}, discardLogger())
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestNewContainer_CleanupWhenDiagramsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Diagram.Enabled = false
	require.NoError(t, os.MkdirAll(cfg.Diagram.OutputDir, 0o755))

	// 有効だった頃の実行で残った古い画像
	stale := filepath.Join(cfg.Diagram.OutputDir, "old_architecture_1700000000000.png")
	require.NoError(t, os.WriteFile(stale, []byte("png"), 0o644))
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	c, err := NewContainer(context.Background(), cfg,
		WithContainerLogger(discardLogger()),
		WithContainerRenderer(&pngRenderer{}),
		WithoutPersistence(),
	)
	require.NoError(t, err)
	defer c.Close()

	removed, err := c.Orchestrator.CleanupDiagrams(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, stale)
}

func TestModelName(t *testing.T) {
	cfg := config.LLMConfig{OpenAIModel: "gpt-4o-mini", GeminiModel: "gemini-2.0-flash"}

	tests := []struct {
		provider string
		want     string
	}{
		{provider: "", want: "gpt-4o-mini"},
		{provider: ProviderOpenAI, want: "gpt-4o-mini"},
		{provider: "Gemini", want: "gemini-2.0-flash"},
		{provider: ProviderFake, want: ProviderFake},
	}
	for _, tt := range tests {
		cfg.Provider = tt.provider
		assert.Equal(t, tt.want, modelName(cfg), tt.provider)
	}
}
