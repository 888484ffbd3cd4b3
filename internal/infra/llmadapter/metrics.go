package llmadapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/jchntrl/power-point-assistant/internal/infra/openai"
)

// ErrorType はLLM呼び出しの失敗の種類
type ErrorType string

const (
	ErrorTypeRateLimitExceeded ErrorType = "rate_limit_exceeded"
	ErrorTypeTimeout           ErrorType = "timeout"
	ErrorTypeCanceled          ErrorType = "canceled"
	ErrorTypeUnknown           ErrorType = "unknown"
)

// ClassifyError はエラーの種類を判定する
func ClassifyError(err error) ErrorType {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	case errors.Is(err, context.Canceled):
		return ErrorTypeCanceled
	case errors.Is(err, openai.ErrMaxRetriesExceeded):
		return ErrorTypeRateLimitExceeded
	default:
		return ErrorTypeUnknown
	}
}

// Metrics はLLM APIの使用状況を段階ごとに集計する
type Metrics struct {
	mu sync.RWMutex

	requests   map[llm.Stage]int
	failures   map[llm.Stage]int
	tokens     map[llm.Stage]TokenUsage
	latency    map[llm.Stage]time.Duration
	errors     map[ErrorType]int
	models     map[string]int
	cacheHits  int
	startTime  time.Time
	lastRecord time.Time
}

// NewMetrics は新しいMetricsを作成する
func NewMetrics() *Metrics {
	return &Metrics{
		requests:  make(map[llm.Stage]int),
		failures:  make(map[llm.Stage]int),
		tokens:    make(map[llm.Stage]TokenUsage),
		latency:   make(map[llm.Stage]time.Duration),
		errors:    make(map[ErrorType]int),
		models:    make(map[string]int),
		startTime: time.Now(),
	}
}

// RequestMetric は単一のリクエストのメトリクス
type RequestMetric struct {
	Stage     llm.Stage
	Model     string
	Usage     TokenUsage
	Latency   time.Duration
	Success   bool
	ErrorType ErrorType
}

// Record はリクエストのメトリクスを記録する
func (m *Metrics) Record(metric RequestMetric) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests[metric.Stage]++
	m.latency[metric.Stage] += metric.Latency
	m.lastRecord = time.Now()

	if !metric.Success {
		m.failures[metric.Stage]++
		m.errors[metric.ErrorType]++
		return
	}

	if metric.Model != "" {
		m.models[metric.Model]++
	}
	usage := m.tokens[metric.Stage]
	usage.PromptTokens += metric.Usage.PromptTokens
	usage.ResponseTokens += metric.Usage.ResponseTokens
	usage.TotalTokens += metric.Usage.TotalTokens
	m.tokens[metric.Stage] = usage
}

// RecordCacheHit はキャッシュから応答した回数を数える
func (m *Metrics) RecordCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

// MetricsSnapshot はメトリクスのスナップショット
type MetricsSnapshot struct {
	CapturedAt      time.Time                   `json:"captured_at"`
	ElapsedTime     time.Duration               `json:"elapsed_time"`
	TotalRequests   int                         `json:"total_requests"`
	FailedRequests  int                         `json:"failed_requests"`
	CacheHits       int                         `json:"cache_hits"`
	TotalTokens     TokenUsage                  `json:"total_tokens"`
	RequestsByStage map[llm.Stage]int           `json:"requests_by_stage"`
	TokensByStage   map[llm.Stage]TokenUsage    `json:"tokens_by_stage"`
	AverageLatency  map[llm.Stage]time.Duration `json:"average_latency"`
	ErrorsByType    map[ErrorType]int           `json:"errors_by_type"`
	RequestsByModel map[string]int              `json:"requests_by_model"`
}

// Snapshot は現在のメトリクスのスナップショットを返す
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := MetricsSnapshot{
		CapturedAt:      time.Now(),
		ElapsedTime:     time.Since(m.startTime),
		CacheHits:       m.cacheHits,
		RequestsByStage: maps.Clone(m.requests),
		TokensByStage:   maps.Clone(m.tokens),
		AverageLatency:  make(map[llm.Stage]time.Duration, len(m.latency)),
		ErrorsByType:    maps.Clone(m.errors),
		RequestsByModel: maps.Clone(m.models),
	}

	for stage, n := range m.requests {
		s.TotalRequests += n
		if n > 0 {
			s.AverageLatency[stage] = m.latency[stage] / time.Duration(n)
		}
	}
	for _, n := range m.failures {
		s.FailedRequests += n
	}
	for _, u := range m.tokens {
		s.TotalTokens.PromptTokens += u.PromptTokens
		s.TotalTokens.ResponseTokens += u.ResponseTokens
		s.TotalTokens.TotalTokens += u.TotalTokens
	}

	return s
}

// WriteSummary は簡潔なサマリーを書き出す
func (m *Metrics) WriteSummary(w io.Writer) {
	s := m.Snapshot()

	var b strings.Builder
	b.WriteString("\n=== LLM API Metrics Summary ===\n")
	fmt.Fprintf(&b, "Requests: %d (failed: %d, cache hits: %d)\n", s.TotalRequests, s.FailedRequests, s.CacheHits)
	fmt.Fprintf(&b, "Tokens: %d (prompt: %d, response: %d)\n", s.TotalTokens.TotalTokens, s.TotalTokens.PromptTokens, s.TotalTokens.ResponseTokens)

	stages := slices.Sorted(maps.Keys(s.RequestsByStage))
	for _, stage := range stages {
		fmt.Fprintf(&b, "  %-20s requests=%d tokens=%d avg=%s\n",
			stage,
			s.RequestsByStage[stage],
			s.TokensByStage[stage].TotalTokens,
			s.AverageLatency[stage].Round(time.Millisecond))
	}
	b.WriteString("===============================\n")

	_, _ = io.WriteString(w, b.String())
}

// InstrumentedClient は呼び出しごとにメトリクスを記録するLLMクライアント
type InstrumentedClient struct {
	client  llm.Client
	metrics *Metrics
	counter *TokenCounter
}

// NewInstrumentedClient は新しいInstrumentedClientを作成する
// counterがnilの場合は推定値でトークン数を数える
func NewInstrumentedClient(client llm.Client, metrics *Metrics, counter *TokenCounter) *InstrumentedClient {
	return &InstrumentedClient{client: client, metrics: metrics, counter: counter}
}

// GenerateCompletion はLLMを呼び出して結果を記録する
func (c *InstrumentedClient) GenerateCompletion(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	start := time.Now()
	resp, err := c.client.GenerateCompletion(ctx, req)

	metric := RequestMetric{
		Stage:   llm.StageFrom(ctx),
		Model:   resp.Model,
		Latency: time.Since(start),
		Success: err == nil,
	}
	if err != nil {
		metric.ErrorType = ClassifyError(err)
	} else {
		metric.Usage = c.counter.CountPromptAndResponse(req.Prompt, resp.Content)
	}
	c.metrics.Record(metric)

	return resp, err
}

var _ llm.Client = (*InstrumentedClient)(nil)
