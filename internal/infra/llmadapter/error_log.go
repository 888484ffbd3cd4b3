package llmadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
)

// maxLoggedPromptLength はエラーログに残すプロンプトの最大長
const maxLoggedPromptLength = 2000

// ErrorRecord は失敗したLLM呼び出しのログレコード
type ErrorRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	ErrorType    ErrorType `json:"error_type"`
	Stage        llm.Stage `json:"stage"`
	Prompt       string    `json:"prompt"`
	ErrorMessage string    `json:"error_message"`
}

// ErrorLogger は失敗したLLM呼び出しをJSONLで追記する
type ErrorLogger struct {
	mu      sync.Mutex
	file    *os.File
	enabled bool
	logger  *slog.Logger
}

// NewErrorLogger は新しいErrorLoggerを作成する
// pathが空の場合は何も書き出さない
func NewErrorLogger(path string, logger *slog.Logger) (*ErrorLogger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return &ErrorLogger{logger: logger}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &ErrorLogger{file: file, enabled: true, logger: logger}, nil
}

// Close はログファイルを閉じる
func (l *ErrorLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Log はエラーを1行のJSONとして記録する
func (l *ErrorLogger) Log(record ErrorRecord) error {
	l.logger.Warn("llm call failed",
		"stage", record.Stage,
		"errorType", record.ErrorType,
		"error", record.ErrorMessage)

	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal error record: %w", err)
	}
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write log: %w", err)
	}
	return nil
}

// LoggingClient は失敗した呼び出しをErrorLoggerに記録するLLMクライアント
type LoggingClient struct {
	client llm.Client
	log    *ErrorLogger
}

// NewLoggingClient は新しいLoggingClientを作成する
func NewLoggingClient(client llm.Client, log *ErrorLogger) *LoggingClient {
	return &LoggingClient{client: client, log: log}
}

// GenerateCompletion はLLMを呼び出し、失敗を記録してそのまま返す
func (c *LoggingClient) GenerateCompletion(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	resp, err := c.client.GenerateCompletion(ctx, req)
	if err != nil {
		if logErr := c.log.Log(ErrorRecord{
			Timestamp:    time.Now(),
			ErrorType:    ClassifyError(err),
			Stage:        llm.StageFrom(ctx),
			Prompt:       truncateString(req.Prompt, maxLoggedPromptLength),
			ErrorMessage: err.Error(),
		}); logErr != nil {
			c.log.logger.Warn("failed to write llm error log", "error", logErr)
		}
	}
	return resp, err
}

// truncateString は文字列を指定された長さに切り詰める
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "... (truncated)"
}

var _ llm.Client = (*LoggingClient)(nil)
