// Package llmfake はパイプラインの各段階に決まった応答を返すLLMクライアントを提供する
// APIキーなしでの動作確認とテストに使う
package llmfake

import (
	"context"
	"sync"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
)

// Model はフェイククライアントが返すモデル名
const Model = "fake"

// Call は記録されたリクエスト
type Call struct {
	Stage   llm.Stage
	Request llm.CompletionRequest
}

// Client は処理段階ごとに固定の応答を返すllm.Client
type Client struct {
	mu        sync.Mutex
	responses map[llm.Stage]string
	errs      map[llm.Stage]error
	calls     []Call
}

// New は既定の応答を持つClientを作成する
func New() *Client {
	return &Client{
		responses: map[llm.Stage]string{
			llm.StageDocumentAnalysis:  DocumentAnalysisResponse,
			llm.StageProjectAnalysis:   ProjectAnalysisResponse,
			llm.StageDiagramGeneration: DiagramResponse,
			llm.StageContentGeneration: ContentResponse,
		},
		errs: make(map[llm.Stage]error),
	}
}

// WithResponse は段階の応答を差し替える
func (c *Client) WithResponse(stage llm.Stage, content string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[stage] = content
	delete(c.errs, stage)
	return c
}

// WithError は段階の呼び出しをエラーにする
func (c *Client) WithError(stage llm.Stage, err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs[stage] = err
	return c
}

// GenerateCompletion はコンテキストの処理段階に対応する応答を返す
func (c *Client) GenerateCompletion(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return llm.CompletionResponse{}, err
	}

	stage := llm.StageFrom(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, Call{Stage: stage, Request: req})

	if err, ok := c.errs[stage]; ok {
		return llm.CompletionResponse{}, err
	}
	content, ok := c.responses[stage]
	if !ok {
		content = "{}"
	}

	return llm.CompletionResponse{
		Content:    content,
		TokensUsed: len(req.Prompt)/4 + len(content)/4,
		Model:      Model,
	}, nil
}

// Calls は記録されたリクエストのコピーを返す
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// CallCount は段階ごとの呼び出し回数を返す
func (c *Client) CallCount(stage llm.Stage) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, call := range c.calls {
		if call.Stage == stage {
			n++
		}
	}
	return n
}
