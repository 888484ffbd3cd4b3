package llm

import "context"

// Stage はLLM呼び出しがどの処理段階から発行されたかを表す
type Stage string

const (
	StageDocumentAnalysis  Stage = "document_analysis"
	StageProjectAnalysis   Stage = "project_analysis"
	StageDiagramGeneration Stage = "diagram_generation"
	StageContentGeneration Stage = "content_generation"
	StageUnknown           Stage = "unknown"
)

type stageKey struct{}

// WithStage はコンテキストに処理段階を設定する
func WithStage(ctx context.Context, stage Stage) context.Context {
	return context.WithValue(ctx, stageKey{}, stage)
}

// StageFrom はコンテキストから処理段階を取り出す
func StageFrom(ctx context.Context) Stage {
	if s, ok := ctx.Value(stageKey{}).(Stage); ok && s != "" {
		return s
	}
	return StageUnknown
}
