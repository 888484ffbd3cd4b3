package pptx

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/jchntrl/power-point-assistant/internal/core/presentation"
)

// Loader はパスからテンプレートを開く
// 既定のテンプレートが見つからない場合だけ組み込みテンプレートを使う
type Loader struct {
	defaultPath string
	logger      *slog.Logger
}

// NewLoader は新しいLoaderを作成する
func NewLoader(defaultPath string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{defaultPath: defaultPath, logger: logger}
}

// Load はテンプレートを開く
func (l *Loader) Load(path string) (presentation.Template, error) {
	t, err := Open(path)
	if err == nil {
		l.logger.Info("loaded template", "path", path, "layouts", len(t.Layouts()))
		return t, nil
	}

	if errors.Is(err, fs.ErrNotExist) && (path == "" || path == l.defaultPath) {
		l.logger.Warn("default template not found, using built-in template", "path", path)
		blank, err := NewBlankTemplate()
		if err != nil {
			return nil, err
		}
		return blank, nil
	}
	return nil, err
}
