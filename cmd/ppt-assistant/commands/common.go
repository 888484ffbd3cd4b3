package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jchntrl/power-point-assistant/internal/platform/container"
	"github.com/jchntrl/power-point-assistant/internal/platform/logger"
	"github.com/jchntrl/power-point-assistant/pkg/config"
)

// AppContext はコマンド実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config    *config.Config
	Container *container.ServiceContainer
}

// NewAppContext は設定ファイルを読み込み、コンテナを作成する
func NewAppContext(ctx context.Context, envFile string, opts ...container.ContainerOption) (*AppContext, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	appLogger := logger.New(logger.FromSettings(cfg.LogLevel, cfg.LogFormat))

	opts = append([]container.ContainerOption{container.WithContainerLogger(appLogger)}, opts...)
	cont, err := container.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("コンテナの初期化に失敗: %w", err)
	}

	return &AppContext{
		Config:    cfg,
		Container: cont,
	}, nil
}

// Close はAppContextが保持するリソースをクリーンアップする
func (ac *AppContext) Close() {
	if ac.Container != nil {
		ac.Container.Close()
	}
}

// Logger はAppContextのロガーを返す
func (ac *AppContext) Logger() *slog.Logger {
	if ac.Container != nil {
		return ac.Container.Logger()
	}
	return slog.Default()
}

// truncateString は文字列を指定された長さで切り詰める
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
