package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"google.golang.org/genai"
)

// DefaultModel はデフォルトで使用するGeminiモデル
const DefaultModel = "gemini-2.0-flash"

var (
	// ErrAPIKeyNotSet はAPIキーが設定されていない場合のエラー
	ErrAPIKeyNotSet = errors.New("Gemini API key not set: please set GEMINI_API_KEY environment variable")

	// ErrEmptyResponse は候補が1つも返らなかった場合のエラー
	ErrEmptyResponse = errors.New("gemini returned no candidates")
)

// Config はClientの設定
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration // 0 はタイムアウトなし
	BaseURL string        // 空なら公式エンドポイント
}

// Client は Gemini API を使用した llm.Client 実装
// リトライやレート制御はllmadapterで重ねる
type Client struct {
	cli     *genai.Client
	model   string
	timeout time.Duration
}

// NewClient は新しい Client を作成する
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{cli: cli, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// ModelName はモデル名を返す
func (c *Client) ModelName() string {
	return c.model
}

// GenerateCompletion は Gemini API を使用してテキストを生成する
func (c *Client) GenerateCompletion(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	model := c.model
	if req.Model != "" {
		model = req.Model
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.ResponseFormat == "json" {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.cli.Models.GenerateContent(ctx, model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: req.Prompt}}}},
		config,
	)
	if err != nil {
		return llm.CompletionResponse{}, fmt.Errorf("Gemini API call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return llm.CompletionResponse{}, ErrEmptyResponse
	}

	var tokens int
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return llm.CompletionResponse{
		Content:    resp.Candidates[0].Content.Parts[0].Text,
		TokensUsed: tokens,
		Model:      model,
	}, nil
}

// インターフェース実装の確認
var _ llm.Client = (*Client)(nil)
