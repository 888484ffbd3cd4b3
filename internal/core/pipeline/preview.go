package pipeline

import (
	"context"
	"fmt"
)

const (
	previewFileLimit = 2

	// DefaultEstimatedTime はプレビューに失敗した場合の見積もり時間（秒）
	DefaultEstimatedTime = 60.0
)

// EstimateProcessingTime はファイル数から処理時間（秒）を見積もる
func EstimateProcessingTime(fileCount int) float64 {
	const (
		base       = 30.0
		perDoc     = 15.0
		generation = 20.0
		building   = 10.0
		minimum    = 45.0
	)
	return max(minimum, base+float64(fileCount)*perDoc+generation+building)
}

// Preview は先頭のファイルと案件分析だけで生成結果を見積もる
func (o *Orchestrator) Preview(ctx context.Context, req Request) PreviewResult {
	files := req.Files
	if len(files) > previewFileLimit {
		files = files[:previewFileLimit]
	}

	contents, _, err := o.deps.Processor.Process(ctx, files)
	if err != nil {
		o.logger.Error("failed to generate preview", "error", err)
		return PreviewResult{
			Error:                   fmt.Sprintf("failed to process documents: %v", err),
			EstimatedProcessingTime: DefaultEstimatedTime,
		}
	}

	pa := o.deps.Projects.Analyze(ctx, req.Project)
	if err := ctx.Err(); err != nil {
		return PreviewResult{Error: err.Error(), EstimatedProcessingTime: DefaultEstimatedTime}
	}

	return PreviewResult{
		Success:                 true,
		EstimatedProcessingTime: EstimateProcessingTime(len(req.Files)),
		DocumentCount:           len(req.Files),
		ExtractedItemsPreview:   len(contents),
		IdentifiedTechnologies:  firstN(pa.Technologies, 5),
		TargetAudience:          pa.TargetAudience,
		EstimatedSlides:         max(5, min(10, len(pa.Requirements)+3)),
		KeyRequirements:         firstN(pa.Requirements, 3),
	}
}
