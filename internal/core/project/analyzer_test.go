package project

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleDescription() Description {
	return Description{
		Description: "Migrate the on-premise data warehouse to a cloud lakehouse",
		ClientName:  "Acme Retail",
		Industry:    "Retail",
	}
}

func TestAnalyzer_Analyze_Success(t *testing.T) {
	var prompt string
	client := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		prompt = req.Prompt
		assert.Equal(t, llm.StageProjectAnalysis, llm.StageFrom(ctx))
		return llm.CompletionResponse{Content: `Sure! {"requirements": ["Migrate 40 TB"], "technologies": ["Databricks", "Azure"], "target_audience": "CIO and data team", "key_objectives": ["Cut costs"]}`}, nil
	})

	result := NewAnalyzer(client, AnalyzerConfig{}, discardLogger()).Analyze(context.Background(), sampleDescription())

	// 未入力の項目は "Not specified" で埋める
	assert.Contains(t, prompt, "Industry: Retail")
	assert.Contains(t, prompt, "Timeline: Not specified")
	assert.Contains(t, prompt, "Budget Range: Not specified")
	assert.Contains(t, prompt, "Key Technologies: Not specified")

	assert.False(t, result.Degraded())
	assert.Equal(t, []string{"Migrate 40 TB"}, result.Requirements)
	assert.Equal(t, []string{"Databricks", "Azure"}, result.Technologies)
	assert.Equal(t, "CIO and data team", result.TargetAudience)
	assert.NotNil(t, result.SolutionApproaches)
	assert.Empty(t, result.ValuePropositions)
}

func TestAnalyzer_Analyze_DefaultAudience(t *testing.T) {
	client := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		return llm.CompletionResponse{Content: `{"requirements": ["A"]}`}, nil
	})

	result := NewAnalyzer(client, AnalyzerConfig{}, discardLogger()).Analyze(context.Background(), sampleDescription())
	assert.Equal(t, DefaultTargetAudience, result.TargetAudience)
}

func TestAnalyzer_Analyze_Failure(t *testing.T) {
	tests := []struct {
		name   string
		client llm.Client
	}{
		{
			name: "llm error",
			client: llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
				return llm.CompletionResponse{}, errors.New("timeout")
			}),
		},
		{
			name: "unparseable",
			client: llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
				return llm.CompletionResponse{Content: "not json"}, nil
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewAnalyzer(tt.client, AnalyzerConfig{}, discardLogger()).Analyze(context.Background(), sampleDescription())

			require.Len(t, result.Requirements, 1)
			assert.True(t, result.Degraded())
			assert.Empty(t, result.Technologies)
			assert.Equal(t, DefaultTargetAudience, result.TargetAudience)
		})
	}
}

func TestDescription_Title(t *testing.T) {
	short := Description{Description: "Short"}
	assert.Equal(t, "Short", short.Title())

	long := Description{Description: "This description is definitely longer than fifty characters in total"}
	assert.Equal(t, "This description is definitely longer than fifty ...", long.Title())
}

func TestSummarize(t *testing.T) {
	r := NewAnalysisResult()
	assert.Equal(t, "Audience: Business stakeholders", Summarize(r))

	r.Requirements = []string{"a", "b", "c", "d", "e", "f"}
	r.SolutionApproaches = []string{"x", "y", "z", "w"}
	got := Summarize(r)
	assert.Equal(t, "Requirements: a, b, c, d, e | Approaches: x, y, z | Audience: Business stakeholders", got)

	assert.Equal(t, "No project analysis available", Summarize(AnalysisResult{}))
}
