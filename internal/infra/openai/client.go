package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	// DefaultModel はデフォルトで使用するOpenAIモデル
	DefaultModel = "gpt-4o-mini"

	// MaxRetries はレート制限エラー時の最大リトライ回数
	MaxRetries = 3

	// BaseBackoff はExponential Backoffの基底時間
	BaseBackoff = 2 * time.Second

	// MaxBackoff はExponential Backoffの最大待機時間
	MaxBackoff = 32 * time.Second

	// JSONParseMaxRetries はJSONとして解釈できない応答を再生成する回数
	JSONParseMaxRetries = 1
)

var (
	// ErrAPIKeyNotSet はAPIキーが設定されていない場合のエラー
	ErrAPIKeyNotSet = errors.New("OpenAI API key not set: please set OPENAI_API_KEY environment variable")

	// ErrMaxRetriesExceeded は最大リトライ回数を超過した場合のエラー
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// Config はClientの設定
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration // 0 はタイムアウトなし
	BaseURL string        // 空なら公式エンドポイント
}

// Client は OpenAI API を使用した llm.Client 実装
type Client struct {
	client  openai.Client
	model   string
	timeout time.Duration
	backoff func(attempt int) time.Duration
}

// NewClient は新しい Client を作成する
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	// リトライはこのクライアントで制御する
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		backoff: exponentialBackoff,
	}, nil
}

// ModelName はモデル名を返す
func (c *Client) ModelName() string {
	return c.model
}

// GenerateCompletion は OpenAI API を使用してテキストを生成する
// JSON形式を要求した応答が壊れている場合は1回だけ再生成し、それでも壊れていればそのまま返す
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

	var jsonParseRetries int
	for {
		resp, err := c.generateWithRetry(ctx, model, req)
		if err != nil {
			return llm.CompletionResponse{}, err
		}

		if req.ResponseFormat == "json" && !isValidJSON(resp.Content) && jsonParseRetries < JSONParseMaxRetries {
			jsonParseRetries++
			continue
		}

		return resp, nil
	}
}

func (c *Client) generateWithRetry(ctx context.Context, model string, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return llm.CompletionResponse{}, ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}

		params := openai.ChatCompletionNewParams{
			Model: shared.ChatModel(model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(req.Prompt),
			},
			Temperature: openai.Float(req.Temperature),
		}

		if req.MaxTokens > 0 {
			params.MaxTokens = openai.Int(int64(req.MaxTokens))
		}

		if req.ResponseFormat == "json" {
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{
					Type: "json_object",
				},
			}
		}

		completion, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			lastErr = err

			if isRateLimitError(err) {
				continue
			}

			return llm.CompletionResponse{}, fmt.Errorf("OpenAI API call failed: %w", err)
		}

		if len(completion.Choices) == 0 {
			return llm.CompletionResponse{}, fmt.Errorf("no completion choices returned")
		}

		return llm.CompletionResponse{
			Content:    completion.Choices[0].Message.Content,
			TokensUsed: int(completion.Usage.TotalTokens),
			Model:      string(completion.Model),
		}, nil
	}

	return llm.CompletionResponse{}, fmt.Errorf("%w: %v", ErrMaxRetriesExceeded, lastErr)
}

func exponentialBackoff(attempt int) time.Duration {
	d := time.Duration(math.Pow(2, float64(attempt-1))) * BaseBackoff
	return min(d, MaxBackoff)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}

	return false
}

func isValidJSON(s string) bool {
	var js json.RawMessage
	return json.Unmarshal([]byte(s), &js) == nil
}

// インターフェース実装の確認
var _ llm.Client = (*Client)(nil)
