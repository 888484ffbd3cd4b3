package llmadapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"golang.org/x/sync/singleflight"
)

// CachedClient は同じリクエストへの応答をLRUで再利用するLLMクライアント
// 同時に発行された同一リクエストは1回の呼び出しにまとめる
type CachedClient struct {
	client  llm.Client
	cache   *lru.Cache[string, llm.CompletionResponse]
	group   singleflight.Group
	metrics *Metrics
}

// NewCachedClient は新しいCachedClientを作成する
// metricsがnilの場合はキャッシュヒットを記録しない
func NewCachedClient(client llm.Client, size int, metrics *Metrics) (*CachedClient, error) {
	cache, err := lru.New[string, llm.CompletionResponse](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create response cache: %w", err)
	}
	return &CachedClient{client: client, cache: cache, metrics: metrics}, nil
}

// GenerateCompletion はキャッシュにあればその応答を返し、なければLLMを呼び出す
// 失敗した応答はキャッシュしない
func (c *CachedClient) GenerateCompletion(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	key := cacheKey(req)
	if resp, ok := c.cache.Get(key); ok {
		if c.metrics != nil {
			c.metrics.RecordCacheHit()
		}
		return resp, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		resp, err := c.client.GenerateCompletion(ctx, req)
		if err != nil {
			return llm.CompletionResponse{}, err
		}
		c.cache.Add(key, resp)
		return resp, nil
	})
	if err != nil {
		return llm.CompletionResponse{}, err
	}
	return v.(llm.CompletionResponse), nil
}

// Len はキャッシュ件数を返す
func (c *CachedClient) Len() int {
	return c.cache.Len()
}

func cacheKey(req llm.CompletionRequest) string {
	h := sha256.New()
	for _, part := range []string{
		req.Model,
		req.ResponseFormat,
		strconv.FormatFloat(req.Temperature, 'f', -1, 64),
		strconv.Itoa(req.MaxTokens),
		req.Prompt,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

var _ llm.Client = (*CachedClient)(nil)
