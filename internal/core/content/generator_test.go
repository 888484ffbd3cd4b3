package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jchntrl/power-point-assistant/internal/core/document"
	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/jchntrl/power-point-assistant/internal/core/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRequest() Request {
	return Request{
		Project: project.Description{
			Description: "Modernise the customer data platform with a streaming architecture on Azure",
			ClientName:  "Contoso",
		},
		ProjectAnalysis:  project.NewAnalysisResult(),
		DocumentAnalysis: document.NewAnalysisResult("", 2),
	}
}

// slidesResponse はn枚の有効なスライドを含むLLM応答を作る
func slidesResponse(n int) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf(`{"title": "Generated slide %d", "content": ["point a", "point b"], "layout_type": "bullet", "notes": "Talk about slide %d in detail"}`, i+1, i+1))
	}
	return `{"slides": [` + strings.Join(items, ",") + `], "presentation_metadata": {"presentation_flow": "problem to solution", "key_messages": ["speed"]}}`
}

func fixedClient(content string) llm.Client {
	return llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		return llm.CompletionResponse{Content: content}, nil
	})
}

func TestGenerator_Generate_SlideCountBounds(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 20} {
		t.Run(fmt.Sprintf("%d raw slides", n), func(t *testing.T) {
			g := NewGenerator(fixedClient(slidesResponse(n)), GeneratorConfig{MinSlides: 3, MaxSlides: 15}, discardLogger())

			result := g.Generate(context.Background(), sampleRequest())

			assert.GreaterOrEqual(t, len(result.Slides), 3)
			assert.LessOrEqual(t, len(result.Slides), 15)
			for _, s := range result.Slides {
				assert.NotEmpty(t, s.Title)
				assert.NotEmpty(t, s.Content)
			}
			assert.GreaterOrEqual(t, result.Confidence, 0.0)
			assert.LessOrEqual(t, result.Confidence, 1.0)
		})
	}
}

func TestGenerator_Generate_PadsWithDefaultSlides(t *testing.T) {
	g := NewGenerator(fixedClient(slidesResponse(1)), GeneratorConfig{}, discardLogger())

	result := g.Generate(context.Background(), sampleRequest())

	require.Len(t, result.Slides, 3)
	assert.Equal(t, "Generated slide 1", result.Slides[0].Title)
	// 定型スライドの先頭から補う
	assert.Equal(t, "Modernise the customer data platform with a stream...", result.Slides[1].Title)
	assert.Equal(t, []string{"Proposal for Contoso", "Prepared by Keyrus"}, result.Slides[1].Content)
	assert.Equal(t, "Executive Summary", result.Slides[2].Title)
}

func TestGenerator_Generate_TruncatesTail(t *testing.T) {
	g := NewGenerator(fixedClient(slidesResponse(20)), GeneratorConfig{MaxSlides: 15}, discardLogger())

	result := g.Generate(context.Background(), sampleRequest())

	require.Len(t, result.Slides, 15)
	assert.Equal(t, "Generated slide 1", result.Slides[0].Title)
	assert.Equal(t, "Generated slide 15", result.Slides[14].Title)
}

func TestGenerator_Generate_DropsInvalidSlides(t *testing.T) {
	response := `{"slides": [
		{"title": "Valid", "content": "single bullet"},
		{"title": "No content"},
		{"content": ["no title"]},
		{"title": "Empty list", "content": []},
		"junk",
		{"title": "Also valid", "content": ["a", "b"], "layout_type": "SPLIT"}
	]}`
	g := NewGenerator(fixedClient(response), GeneratorConfig{}, discardLogger())

	result := g.Generate(context.Background(), sampleRequest())

	require.Len(t, result.Slides, 3)
	assert.Equal(t, "Valid", result.Slides[0].Title)
	// 単一値はリストに変換される
	assert.Equal(t, []string{"single bullet"}, result.Slides[0].Content)
	assert.Equal(t, LayoutBullet, result.Slides[0].Layout)
	assert.Equal(t, LayoutSplit, result.Slides[1].Layout)
	assert.NotContains(t, result.Metadata, "error")
}

func TestGenerator_Generate_Failure(t *testing.T) {
	var calls int
	client := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		calls++
		assert.Equal(t, llm.StageContentGeneration, llm.StageFrom(ctx))
		return llm.CompletionResponse{}, errors.New("connection reset")
	})
	g := NewGenerator(client, GeneratorConfig{MaxSlides: 15}, discardLogger())

	result := g.Generate(context.Background(), sampleRequest())

	assert.Equal(t, 1, calls)
	assert.Equal(t, FailureConfidence, result.Confidence)
	assert.Contains(t, result.Metadata["error"], "connection reset")
	// 既定の目標8枚：定型5枚 + 汎用3枚
	require.Len(t, result.Slides, 8)
	assert.Equal(t, "Next Steps", result.Slides[4].Title)
	assert.Equal(t, "Additional Topic 1", result.Slides[5].Title)
	assert.Equal(t, "Additional Topic 3", result.Slides[7].Title)
}

func TestGenerator_Generate_FailureRespectsMaxSlides(t *testing.T) {
	client := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		return llm.CompletionResponse{}, errors.New("timeout")
	})
	g := NewGenerator(client, GeneratorConfig{MaxSlides: 6}, discardLogger())

	req := sampleRequest()
	req.TargetSlideCount = 12
	result := g.Generate(context.Background(), req)

	assert.Len(t, result.Slides, 6)
	assert.Equal(t, FailureConfidence, result.Confidence)
}

func TestGenerator_Generate_MalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		reason   string
	}{
		{name: "壊れたJSON", response: `{"slides": [{"title": "Broken" "content": ["x"]}`, reason: "failed to parse slide content"},
		{name: "JSONなし", response: "not json at all", reason: "no JSON object found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(fixedClient(tt.response), GeneratorConfig{MaxSlides: 15}, discardLogger())

			result := g.Generate(context.Background(), sampleRequest())

			// 呼び出し自体は成功しているので最小枚数まで定型スライドで補う
			require.Len(t, result.Slides, 3)
			assert.Equal(t, "Executive Summary", result.Slides[1].Title)
			assert.Contains(t, result.Metadata["error"], tt.reason)
			// 信頼度は固定値ではなくスライドから算出される
			assert.InDelta(t, Confidence(result.Slides, result.Metadata), result.Confidence, 1e-9)
			assert.NotEqual(t, FailureConfidence, result.Confidence)
		})
	}
}

func TestGenerator_Generate_Prompt(t *testing.T) {
	var prompt string
	var temperature float64
	client := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		prompt = req.Prompt
		temperature = req.Temperature
		return llm.CompletionResponse{Content: slidesResponse(5)}, nil
	})
	g := NewGenerator(client, GeneratorConfig{}, discardLogger())

	req := sampleRequest()
	req.DocumentAnalysis.KeyThemes = []string{"cost", "speed"}
	g.Generate(context.Background(), req)

	assert.Equal(t, 0.3, temperature)
	assert.Contains(t, prompt, "Client: Contoso")
	assert.Contains(t, prompt, "TARGET: Create 8 slides")
	assert.Contains(t, prompt, "FOCUS: "+DefaultFocus)
	assert.Contains(t, prompt, "Documents analyzed: 2 | Key themes: cost, speed")
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 0.0, Confidence(nil, nil))

	// 3枚：存在 0.3 + 枚数 0.1 + 1枚ごとにタイトル・内容・ノートで 0.12
	slides := FallbackSlides("Project title...", "Client", 3)
	assert.InDelta(t, 0.3+0.1+3*0.12, Confidence(slides, nil), 1e-9)

	short := []Slide{{Title: "Hi", Content: []string{"a"}}}
	assert.InDelta(t, 0.3+0.1, Confidence(short, map[string]any{"presentation_flow": "x", "key_messages": []any{}}), 1e-9)

	many := FallbackSlides("t", "c", 50)
	assert.Equal(t, 1.0, Confidence(many, map[string]any{"presentation_flow": "x", "key_messages": []any{"m"}}))
}
