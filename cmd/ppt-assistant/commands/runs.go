package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/jchntrl/power-point-assistant/internal/core/pipeline"
)

// errRunHistoryDisabled はDBが設定されていない場合のエラー
var errRunHistoryDisabled = errors.New("生成履歴を参照するには DATABASE_URL または DB_HOST を設定してください")

// RunsListAction は生成履歴を一覧表示するコマンドのアクション
func RunsListAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if appCtx.Container.Runs == nil {
		return errRunHistoryDisabled
	}

	runs, err := appCtx.Container.Runs.List(ctx, int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("生成履歴の取得に失敗: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("生成履歴はありません")
		return nil
	}

	renderRunsTable(runs)
	return nil
}

// RunsShowAction は生成履歴の詳細を表示するコマンドのアクション
func RunsShowAction(ctx context.Context, cmd *cli.Command) error {
	id, err := uuid.Parse(cmd.String("id"))
	if err != nil {
		return fmt.Errorf("--id が不正です: %w", err)
	}

	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if appCtx.Container.Runs == nil {
		return errRunHistoryDisabled
	}

	found, err := appCtx.Container.Runs.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("生成履歴の取得に失敗: %w", err)
	}
	run, ok := found.Get()
	if !ok {
		return fmt.Errorf("生成履歴が見つかりません: %s", id)
	}

	renderRunDetail(run)
	return nil
}

// renderRunsTable は生成履歴をテーブル形式で表示します
func renderRunsTable(runs []*pipeline.RunRecord) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Run ID", "Client", "Status", "Slides", "Diagrams", "Confidence", "Started At", "Duration")

	for _, run := range runs {
		table.Append(
			run.ID.String(),
			truncateString(run.ClientName, 30),
			runStatus(run),
			fmt.Sprintf("%d", run.SlideCount),
			fmt.Sprintf("%d", run.DiagramCount),
			fmt.Sprintf("%.2f", run.Confidence),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
		)
	}

	table.Render()
}

// renderRunDetail は生成履歴の詳細を表示します
func renderRunDetail(run *pipeline.RunRecord) {
	fmt.Printf("\n=== 生成履歴 ===\n\n")
	fmt.Printf("Run ID:              %s\n", run.ID)
	fmt.Printf("Client:              %s\n", run.ClientName)
	fmt.Printf("Status:              %s\n", runStatus(run))
	fmt.Printf("Started At:          %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Printf("Finished At:         %s\n", run.FinishedAt.Format(time.RFC3339))
	fmt.Printf("Slides:              %d\n", run.SlideCount)
	fmt.Printf("Diagrams:            %d\n", run.DiagramCount)
	fmt.Printf("Confidence:          %.2f\n", run.Confidence)

	if run.PresentationPath != "" {
		fmt.Printf("Presentation:        %s\n", run.PresentationPath)
	}
	if run.ArtifactURL != "" {
		fmt.Printf("Artifact URL:        %s\n", run.ArtifactURL)
	}
	if run.Error != "" {
		fmt.Printf("Error:               %s\n", run.Error)
	}

	fmt.Printf("\n説明:\n%s\n", run.ProjectDescription)

	if s := run.Summary; s != nil && len(s.SlideTitles) > 0 {
		fmt.Printf("\nスライド:\n")
		for i, title := range s.SlideTitles {
			fmt.Printf("  %2d. %s\n", i+1, title)
		}
		if len(s.KeyTechnologies) > 0 {
			fmt.Printf("\n技術: %s\n", strings.Join(s.KeyTechnologies, ", "))
		}
	}
}

func runStatus(run *pipeline.RunRecord) string {
	if run.Success {
		return "success"
	}
	return "failed"
}
