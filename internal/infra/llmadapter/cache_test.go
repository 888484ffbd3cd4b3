package llmadapter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedClient_ReusesResponse(t *testing.T) {
	var calls atomic.Int32
	inner := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		calls.Add(1)
		return llm.CompletionResponse{Content: "answer:" + req.Prompt}, nil
	})

	metrics := NewMetrics()
	cc, err := NewCachedClient(inner, 8, metrics)
	require.NoError(t, err)

	req := llm.CompletionRequest{Prompt: "hello", Temperature: 0.3, MaxTokens: 100, ResponseFormat: "json"}
	first, err := cc.GenerateCompletion(context.Background(), req)
	require.NoError(t, err)
	second, err := cc.GenerateCompletion(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, metrics.Snapshot().CacheHits)

	// パラメータが異なれば別のエントリになる
	req.Temperature = 0.7
	_, err = cc.GenerateCompletion(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, cc.Len())
}

func TestCachedClient_ErrorsNotCached(t *testing.T) {
	var calls atomic.Int32
	inner := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		if calls.Add(1) == 1 {
			return llm.CompletionResponse{}, errors.New("boom")
		}
		return llm.CompletionResponse{Content: "ok"}, nil
	})

	cc, err := NewCachedClient(inner, 8, nil)
	require.NoError(t, err)

	_, err = cc.GenerateCompletion(context.Background(), llm.CompletionRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, 0, cc.Len())

	resp, err := cc.GenerateCompletion(context.Background(), llm.CompletionRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
}

func TestCachedClient_CoalescesConcurrentCalls(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	inner := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		calls.Add(1)
		<-release
		return llm.CompletionResponse{Content: "ok"}, nil
	})

	cc, err := NewCachedClient(inner, 8, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := cc.GenerateCompletion(context.Background(), llm.CompletionRequest{Prompt: "same"})
			assert.NoError(t, err)
			assert.Equal(t, "ok", resp.Content)
		}()
	}

	// すべてのゴルーチンが待機に入るまで少し待つ
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(5))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestNewCachedClient_InvalidSize(t *testing.T) {
	_, err := NewCachedClient(llm.ClientFunc(nil), 0, nil)
	assert.Error(t, err)
}
