package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ログ形式
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config はロガーの設定
type Config struct {
	Level     slog.Level
	Format    string    // "json" or "text"
	Output    io.Writer // nil なら標準エラー
	AddSource bool
}

// FromSettings は LOG_LEVEL / LOG_FORMAT の値から設定を作る
// 標準出力はコマンドの結果に使うため、ログは標準エラーに出す
func FromSettings(level, format string) Config {
	return Config{
		Level:     ParseLevel(level),
		Format:    ParseFormat(format),
		AddSource: ParseLevel(level) == slog.LevelDebug,
	}
}

// ParseLevel は設定値の文字列をslog.Levelに変換します
// 不明な値はINFOとして扱う
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR", "CRITICAL":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat は不明な形式を json として扱う
func ParseFormat(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), FormatText) {
		return FormatText
	}
	return FormatJSON
}

// New は新しいロガーを作成し、デフォルトロガーとして設定します
func New(cfg Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	switch cfg.Format {
	case FormatText:
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
