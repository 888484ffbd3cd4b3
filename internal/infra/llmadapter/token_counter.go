package llmadapter

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter はトークン数をカウントする
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTokenCounter は新しいTokenCounterを作成する
// cl100k_baseエンコーディングを使用する
func NewTokenCounter() (*TokenCounter, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding: %w", err)
	}

	return &TokenCounter{encoding: encoding}, nil
}

// CountTokens はテキストのトークン数をカウントする
// エンコーディングが使えない場合は文字数からの推定値を返す
func (tc *TokenCounter) CountTokens(text string) int {
	if tc == nil || tc.encoding == nil {
		return EstimateTokens(text)
	}
	return len(tc.encoding.Encode(text, nil, nil))
}

// CountPromptAndResponse はプロンプトとレスポンスのトークン数を返す
func (tc *TokenCounter) CountPromptAndResponse(prompt, response string) TokenUsage {
	promptTokens := tc.CountTokens(prompt)
	responseTokens := tc.CountTokens(response)

	return TokenUsage{
		PromptTokens:   promptTokens,
		ResponseTokens: responseTokens,
		TotalTokens:    promptTokens + responseTokens,
	}
}

// TokenUsage はトークン使用量
type TokenUsage struct {
	PromptTokens   int `json:"prompt_tokens"`
	ResponseTokens int `json:"response_tokens"`
	TotalTokens    int `json:"total_tokens"`
}

// EstimateTokens はテキストの推定トークン数を返す（3文字で1トークン）
func EstimateTokens(text string) int {
	return len([]rune(text)) / 3
}
