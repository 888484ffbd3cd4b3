package llmadapter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
)

// RateLimiter はAPI呼び出しのレート制限を管理する
type RateLimiter struct {
	mu sync.Mutex

	// maxRequestsPerMinute は1分あたりの最大リクエスト数
	maxRequestsPerMinute int

	// tokens はトークンバケット
	tokens int

	// lastRefill は最後にトークンを補充した時刻
	lastRefill time.Time

	// waiting は待機中のリクエスト数
	waiting int

	// semaphore は並列実行を制御するセマフォ
	semaphore chan struct{}

	// pollInterval はトークン切れの間の再確認間隔
	pollInterval time.Duration
	now          func() time.Time
}

// NewRateLimiter は新しいRateLimiterを作成する
func NewRateLimiter(maxRequestsPerMinute int) *RateLimiter {
	if maxRequestsPerMinute <= 0 {
		maxRequestsPerMinute = 60
	}
	return &RateLimiter{
		maxRequestsPerMinute: maxRequestsPerMinute,
		tokens:               maxRequestsPerMinute,
		lastRefill:           time.Now(),
		semaphore:            make(chan struct{}, maxRequestsPerMinute),
		pollInterval:         time.Second,
		now:                  time.Now,
	}
}

// Wait はレート制限に従って待機し、実行権限を取得する
// contextがキャンセルされた場合はエラーを返す
func (rl *RateLimiter) Wait(ctx context.Context) error {
	select {
	case rl.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for {
		rl.refill()

		if rl.tokens > 0 {
			rl.tokens--
			return nil
		}

		rl.waiting++
		rl.mu.Unlock()

		select {
		case <-time.After(rl.pollInterval):
		case <-ctx.Done():
			rl.mu.Lock()
			rl.waiting--
			<-rl.semaphore
			return ctx.Err()
		}

		rl.mu.Lock()
		rl.waiting--
	}
}

// Release は実行権限を解放する
// Wait()の後に必ずRelease()を呼ぶこと
func (rl *RateLimiter) Release() {
	<-rl.semaphore
}

// refill は経過した分だけトークンを補充する
// 呼び出し側でロックを取得していること
func (rl *RateLimiter) refill() {
	elapsed := rl.now().Sub(rl.lastRefill)
	if elapsed < time.Minute {
		return
	}

	minutes := int(elapsed.Minutes())
	rl.tokens = min(rl.tokens+minutes*rl.maxRequestsPerMinute, rl.maxRequestsPerMinute)
	rl.lastRefill = rl.lastRefill.Add(time.Duration(minutes) * time.Minute)
}

// Status は現在の状態を返す
func (rl *RateLimiter) Status() RateLimiterStatus {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	return RateLimiterStatus{
		MaxRequestsPerMinute: rl.maxRequestsPerMinute,
		AvailableTokens:      rl.tokens,
		WaitingRequests:      rl.waiting,
		ActiveRequests:       len(rl.semaphore),
	}
}

// RateLimiterStatus はレート制限の状態
type RateLimiterStatus struct {
	MaxRequestsPerMinute int
	AvailableTokens      int
	WaitingRequests      int
	ActiveRequests       int
}

// String はステータスを文字列表現で返す
func (s RateLimiterStatus) String() string {
	return fmt.Sprintf(
		"RateLimiter: max=%d/min, available=%d, waiting=%d, active=%d",
		s.MaxRequestsPerMinute,
		s.AvailableTokens,
		s.WaitingRequests,
		s.ActiveRequests,
	)
}

// ThrottledClient はレート制限付きのLLMクライアント
type ThrottledClient struct {
	client      llm.Client
	rateLimiter *RateLimiter
}

// NewThrottledClient はレート制限付きのLLMクライアントを作成する
func NewThrottledClient(client llm.Client, maxRequestsPerMinute int) *ThrottledClient {
	return &ThrottledClient{
		client:      client,
		rateLimiter: NewRateLimiter(maxRequestsPerMinute),
	}
}

// GenerateCompletion はレート制限に従ってLLM APIを呼び出す
func (tc *ThrottledClient) GenerateCompletion(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	if err := tc.rateLimiter.Wait(ctx); err != nil {
		return llm.CompletionResponse{}, fmt.Errorf("rate limiter wait failed: %w", err)
	}
	defer tc.rateLimiter.Release()

	return tc.client.GenerateCompletion(ctx, req)
}

// RateLimiterStatus はレート制限の状態を返す
func (tc *ThrottledClient) RateLimiterStatus() RateLimiterStatus {
	return tc.rateLimiter.Status()
}

var _ llm.Client = (*ThrottledClient)(nil)
