package llmfake

import (
	"context"
	"errors"
	"testing"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GenerateCompletion(t *testing.T) {
	c := New()

	resp, err := c.GenerateCompletion(llm.WithStage(context.Background(), llm.StageContentGeneration), llm.CompletionRequest{Prompt: "slides"})
	require.NoError(t, err)
	assert.Equal(t, ContentResponse, resp.Content)
	assert.Equal(t, Model, resp.Model)

	// 段階が指定されていない場合は空のJSON
	resp, err = c.GenerateCompletion(context.Background(), llm.CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "{}", resp.Content)

	assert.Equal(t, 1, c.CallCount(llm.StageContentGeneration))
	assert.Equal(t, 1, c.CallCount(llm.StageUnknown))
	assert.Len(t, c.Calls(), 2)
}

func TestClient_WithError(t *testing.T) {
	boom := errors.New("rate limited")
	c := New().WithError(llm.StageProjectAnalysis, boom)

	_, err := c.GenerateCompletion(llm.WithStage(context.Background(), llm.StageProjectAnalysis), llm.CompletionRequest{})
	assert.ErrorIs(t, err, boom)

	// 応答を差し替えるとエラーは解除される
	c.WithResponse(llm.StageProjectAnalysis, `{"requirements": []}`)
	resp, err := c.GenerateCompletion(llm.WithStage(context.Background(), llm.StageProjectAnalysis), llm.CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, `{"requirements": []}`, resp.Content)
}

func TestClient_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().GenerateCompletion(ctx, llm.CompletionRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, New().Calls())
}
