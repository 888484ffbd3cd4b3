package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/jchntrl/power-point-assistant/internal/core/pipeline"
	"github.com/jchntrl/power-point-assistant/internal/platform/container"
)

// PreviewAction は資料を生成せずに分析結果と見積もりを表示するコマンドのアクション
func PreviewAction(ctx context.Context, cmd *cli.Command) error {
	desc, err := projectFromCommand(cmd)
	if err != nil {
		return err
	}
	files, err := readFiles(cmd.StringSlice("file"))
	if err != nil {
		return err
	}

	appCtx, err := NewAppContext(ctx, cmd.String("env"), container.WithoutPersistence())
	if err != nil {
		return err
	}
	defer appCtx.Close()

	preview := appCtx.Container.Orchestrator.Preview(ctx, pipeline.Request{
		Project:          desc,
		Files:            files,
		TargetSlideCount: int(cmd.Int("slides")),
	})
	if !preview.Success {
		return errors.New(preview.Error)
	}

	headerColor.Println("=== Preview ===")
	fmt.Printf("Documents:             %d\n", preview.DocumentCount)
	fmt.Printf("Extracted items:       %d\n", preview.ExtractedItemsPreview)
	fmt.Printf("Estimated slides:      %d\n", preview.EstimatedSlides)
	fmt.Printf("Estimated time:        %.0fs\n", preview.EstimatedProcessingTime)
	fmt.Printf("Target audience:       %s\n", preview.TargetAudience)
	if len(preview.IdentifiedTechnologies) > 0 {
		fmt.Printf("Technologies:          %s\n", strings.Join(preview.IdentifiedTechnologies, ", "))
	}
	if len(preview.KeyRequirements) > 0 {
		fmt.Println("Key requirements:")
		for _, r := range preview.KeyRequirements {
			fmt.Printf("  - %s\n", r)
		}
	}

	if path := cmd.String("output-json"); path != "" {
		return writeJSON(path, preview)
	}
	return nil
}
