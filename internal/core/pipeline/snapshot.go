package pipeline

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// TotalSteps は進捗表示上のステップ数
const TotalSteps = 6

// Snapshot はある時点の進捗
// 遷移のたびに新しい値を作り、既存の値は書き換えない
type Snapshot struct {
	RunID          uuid.UUID `json:"runId"`
	Stage          Stage     `json:"status"`
	Progress       float64   `json:"progress"`
	Message        string    `json:"message"`
	Error          string    `json:"error,omitempty"`
	CurrentStep    string    `json:"currentStep"`
	TotalSteps     int       `json:"totalSteps"`
	CompletedSteps int       `json:"completedSteps"`
	Timestamp      time.Time `json:"timestamp"`
}

// Observer は進捗の通知を受け取る
// 通知は段階の処理を始める前に同期的に行われる
type Observer interface {
	OnProgress(s Snapshot)
}

// ObserverFunc は関数をObserverとして扱うためのアダプタ
type ObserverFunc func(s Snapshot)

// OnProgress はfを呼び出す
func (f ObserverFunc) OnProgress(s Snapshot) {
	f(s)
}

// tracker は1回の実行の段階遷移を管理する
type tracker struct {
	current  Snapshot
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

func newTracker(runID uuid.UUID, observer Observer, logger *slog.Logger, now func() time.Time) *tracker {
	t := &tracker{observer: observer, logger: logger, now: now}
	t.current = t.snapshot(runID, StageInitialized, stages[StageInitialized].message, "")
	return t
}

func (t *tracker) snapshot(runID uuid.UUID, stage Stage, message, errMsg string) Snapshot {
	progress := stage.Progress()
	return Snapshot{
		RunID:          runID,
		Stage:          stage,
		Progress:       progress,
		Message:        message,
		Error:          errMsg,
		CurrentStep:    message,
		TotalSteps:     TotalSteps,
		CompletedSteps: int(progress * TotalSteps),
		Timestamp:      t.now(),
	}
}

// advance はstageへ遷移して通知する
func (t *tracker) advance(stage Stage, message string) error {
	if !t.current.Stage.CanTransition(stage) {
		return illegalTransition(t.current.Stage, stage)
	}
	if message == "" {
		message = stages[stage].message
	}
	t.current = t.snapshot(t.current.RunID, stage, message, "")
	t.notify()
	return nil
}

// fail はerrorへ遷移して通知する
// すでに終端にいる場合は何もしない
func (t *tracker) fail(message string) {
	if t.current.Stage.Terminal() {
		return
	}
	t.current = t.snapshot(t.current.RunID, StageError, message, message)
	t.notify()
}

func (t *tracker) notify() {
	if t.observer == nil {
		return
	}
	defer func() {
		// 通知側の不具合でパイプラインを止めない
		if r := recover(); r != nil {
			t.logger.Warn("progress observer panicked", "stage", t.current.Stage, "panic", r)
		}
	}()
	t.observer.OnProgress(t.current)
}

func (t *tracker) last() Snapshot {
	return t.current
}
