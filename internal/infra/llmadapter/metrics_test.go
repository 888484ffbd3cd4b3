package llmadapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/jchntrl/power-point-assistant/internal/infra/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), ErrorTypeTimeout},
		{"canceled", context.Canceled, ErrorTypeCanceled},
		{"rate limit", fmt.Errorf("x: %w", openai.ErrMaxRetriesExceeded), ErrorTypeRateLimitExceeded},
		{"other", errors.New("boom"), ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.Record(RequestMetric{
		Stage:   llm.StageDocumentAnalysis,
		Model:   "gpt-4o",
		Usage:   TokenUsage{PromptTokens: 100, ResponseTokens: 20, TotalTokens: 120},
		Latency: 200 * time.Millisecond,
		Success: true,
	})
	m.Record(RequestMetric{
		Stage:   llm.StageDocumentAnalysis,
		Model:   "gpt-4o",
		Usage:   TokenUsage{PromptTokens: 50, ResponseTokens: 10, TotalTokens: 60},
		Latency: 400 * time.Millisecond,
		Success: true,
	})
	m.Record(RequestMetric{
		Stage:     llm.StageContentGeneration,
		Latency:   time.Second,
		ErrorType: ErrorTypeTimeout,
	})

	s := m.Snapshot()
	assert.Equal(t, 3, s.TotalRequests)
	assert.Equal(t, 1, s.FailedRequests)
	assert.Equal(t, 180, s.TotalTokens.TotalTokens)
	assert.Equal(t, 150, s.TokensByStage[llm.StageDocumentAnalysis].PromptTokens)
	assert.Equal(t, 300*time.Millisecond, s.AverageLatency[llm.StageDocumentAnalysis])
	assert.Equal(t, 1, s.ErrorsByType[ErrorTypeTimeout])
	assert.Equal(t, 2, s.RequestsByModel["gpt-4o"])

	var buf bytes.Buffer
	m.WriteSummary(&buf)
	assert.Contains(t, buf.String(), "Requests: 3 (failed: 1, cache hits: 0)")
	assert.Contains(t, buf.String(), "document_analysis")
}

func TestInstrumentedClient_GenerateCompletion(t *testing.T) {
	inner := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		if req.Prompt == "fail" {
			return llm.CompletionResponse{}, context.DeadlineExceeded
		}
		return llm.CompletionResponse{Content: "response text", Model: "gpt-4o"}, nil
	})

	m := NewMetrics()
	// counterがnilの場合は推定値を使う
	c := NewInstrumentedClient(inner, m, nil)
	ctx := llm.WithStage(context.Background(), llm.StageProjectAnalysis)

	_, err := c.GenerateCompletion(ctx, llm.CompletionRequest{Prompt: "a prompt of some length"})
	require.NoError(t, err)
	_, err = c.GenerateCompletion(ctx, llm.CompletionRequest{Prompt: "fail"})
	require.Error(t, err)

	s := m.Snapshot()
	assert.Equal(t, 2, s.RequestsByStage[llm.StageProjectAnalysis])
	assert.Equal(t, 1, s.FailedRequests)
	assert.Equal(t, 1, s.ErrorsByType[ErrorTypeTimeout])

	usage := s.TokensByStage[llm.StageProjectAnalysis]
	assert.Equal(t, EstimateTokens("a prompt of some length"), usage.PromptTokens)
	assert.Equal(t, EstimateTokens("response text"), usage.ResponseTokens)
}

func TestTokenCounter_NilFallsBackToEstimate(t *testing.T) {
	var tc *TokenCounter
	assert.Equal(t, 3, tc.CountTokens("abcdefghi"))

	usage := tc.CountPromptAndResponse("abcdef", "abc")
	assert.Equal(t, TokenUsage{PromptTokens: 2, ResponseTokens: 1, TotalTokens: 3}, usage)
}
