package diagram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrInvalidSpec は仕様がレンダリングできない場合のエラー
	ErrInvalidSpec = errors.New("invalid diagram spec")

	// ErrArtifactMissing はレンダラーが成功を返したのに画像が存在しない場合のエラー
	ErrArtifactMissing = errors.New("diagram artifact missing after render")
)

// GeneratorConfig はGeneratorの設定
type GeneratorConfig struct {
	OutputDir     string
	Style         string
	RenderTimeout time.Duration // 0 はタイムアウトなし
}

// Generator は図の仕様を解決してレンダラーで画像化する
type Generator struct {
	renderer Renderer
	catalog  *IconCatalog
	styler   *Styler
	cfg      GeneratorConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewGenerator は新しいGeneratorを作成し、出力ディレクトリを用意します
func NewGenerator(renderer Renderer, catalog *IconCatalog, styler *Styler, cfg GeneratorConfig, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Style == "" {
		cfg.Style = DefaultStyle
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create diagram output dir: %w", err)
	}
	return &Generator{
		renderer: renderer,
		catalog:  catalog,
		styler:   styler,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// FileName はタイトルと時刻から画像ファイル名を作る
// 英数字以外の文字は "_" に置き換え、パス区切りや ".." を含まない名前にする
func FileName(title string, at time.Time) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return '_'
	}, title)
	if safe == "" {
		safe = "diagram"
	}
	return fmt.Sprintf("%s_%d.png", safe, at.UnixMilli())
}

// Generate は1つの図をレンダリングする
// 成功時のみGeneratedを返し、部分的な結果は作らない
func (g *Generator) Generate(ctx context.Context, spec Spec) (Generated, error) {
	start := g.now()

	if len(spec.Components) < MinComponents {
		return Generated{}, fmt.Errorf("%w: %s has %d components", ErrInvalidSpec, spec.Title, len(spec.Components))
	}

	g.logger.Info("starting diagram generation", "title", spec.Title, "type", spec.Type)

	resolved, diags := Resolve(spec, g.catalog, g.styler, g.cfg.Style)
	for _, d := range diags {
		switch d.Level {
		case DiagnosticWarn:
			g.logger.Warn(d.Message, "title", spec.Title)
		default:
			g.logger.Debug(d.Message, "title", spec.Title)
		}
	}

	path := filepath.Join(g.cfg.OutputDir, FileName(spec.Title, start))
	if filepath.Dir(path) != filepath.Clean(g.cfg.OutputDir) {
		return Generated{}, fmt.Errorf("%w: %s resolves outside output dir", ErrInvalidSpec, spec.Title)
	}

	if err := g.render(ctx, resolved, path); err != nil {
		return Generated{}, fmt.Errorf("failed to render diagram %q: %w", spec.Title, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Generated{}, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return Generated{}, fmt.Errorf("failed to stat diagram: %w", err)
	}

	generated := Generated{
		Spec:           spec,
		ImagePath:      path,
		FileSizeKB:     info.Size() / 1024,
		GenerationTime: g.now().Sub(start),
		SlideTarget:    DefaultSlideTarget,
		Placement:      DefaultPlacement(spec.Type),
	}

	g.logger.Info("diagram generated",
		"file", filepath.Base(path),
		"sizeKB", generated.FileSizeKB,
		"duration", generated.GenerationTime)

	return generated, nil
}

// render はレンダラーを別goroutineで実行し、タイムアウトかキャンセルで待機をやめる
func (g *Generator) render(ctx context.Context, resolved Resolved, path string) error {
	if g.cfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.RenderTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- g.renderer.Render(ctx, resolved, path)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cleanup は出力ディレクトリ内でmaxAgeより古いPNGを削除し、削除数を返す
func (g *Generator) Cleanup(maxAge time.Duration) (int, error) {
	files, err := filepath.Glob(filepath.Join(g.cfg.OutputDir, "*.png"))
	if err != nil {
		return 0, fmt.Errorf("failed to list diagrams: %w", err)
	}

	cutoff := g.now().Add(-maxAge)
	removed := 0
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(f); err != nil {
			g.logger.Warn("failed to remove old diagram", "file", f, "error", err)
			continue
		}
		removed++
		g.logger.Debug("cleaned up old diagram", "file", filepath.Base(f))
	}

	if removed > 0 {
		g.logger.Info("cleaned up old diagram files", "count", removed)
	}
	return removed, nil
}

// OutputDir は出力ディレクトリを返す
func (g *Generator) OutputDir() string {
	return g.cfg.OutputDir
}
