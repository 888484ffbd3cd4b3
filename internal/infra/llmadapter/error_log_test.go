package llmadapter

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoggingClient_WritesFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "llm_errors.jsonl")
	el, err := NewErrorLogger(path, discardLogger())
	require.NoError(t, err)

	inner := llm.ClientFunc(func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		if req.Prompt == "ok" {
			return llm.CompletionResponse{Content: "{}"}, nil
		}
		return llm.CompletionResponse{}, context.DeadlineExceeded
	})
	c := NewLoggingClient(inner, el)
	ctx := llm.WithStage(context.Background(), llm.StageDiagramGeneration)

	_, err = c.GenerateCompletion(ctx, llm.CompletionRequest{Prompt: "ok"})
	require.NoError(t, err)
	_, err = c.GenerateCompletion(ctx, llm.CompletionRequest{Prompt: strings.Repeat("x", maxLoggedPromptLength+10)})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NoError(t, el.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	// 失敗した呼び出しだけが1行ずつ記録される
	var records []ErrorRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var r ErrorRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		records = append(records, r)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, records, 1)

	assert.Equal(t, ErrorTypeTimeout, records[0].ErrorType)
	assert.Equal(t, llm.StageDiagramGeneration, records[0].Stage)
	assert.True(t, strings.HasSuffix(records[0].Prompt, "... (truncated)"))
	assert.Contains(t, records[0].ErrorMessage, "deadline exceeded")
}

func TestNewErrorLogger_Disabled(t *testing.T) {
	el, err := NewErrorLogger("", discardLogger())
	require.NoError(t, err)
	assert.NoError(t, el.Log(ErrorRecord{ErrorType: ErrorTypeUnknown}))
	assert.NoError(t, el.Close())
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", truncateString("abc", 5))
	assert.Equal(t, "ab... (truncated)", truncateString("abcdef", 2))
}
