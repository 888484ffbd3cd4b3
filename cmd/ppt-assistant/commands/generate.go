package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/jchntrl/power-point-assistant/internal/core/pipeline"
)

// GenerateAction は提案資料を生成するコマンドのアクション
func GenerateAction(ctx context.Context, cmd *cli.Command) error {
	desc, err := projectFromCommand(cmd)
	if err != nil {
		return err
	}
	files, err := readFiles(cmd.StringSlice("file"))
	if err != nil {
		return err
	}

	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	orchestrator := appCtx.Container.Orchestrator

	validation := orchestrator.ValidateInputs(desc, files)
	printValidation(os.Stdout, validation)
	if !validation.Valid {
		return errors.New("入力の検証に失敗しました")
	}

	req := pipeline.Request{
		Project:          desc,
		Files:            files,
		TargetSlideCount: int(cmd.Int("slides")),
		TemplatePath:     cmd.String("template"),
	}
	if !cmd.Bool("quiet") {
		req.Observer = newProgressPrinter(os.Stdout)
	}

	result := orchestrator.Generate(ctx, req)

	if path := cmd.String("output-json"); path != "" {
		if err := writeJSON(path, result); err != nil {
			return err
		}
	}

	if !result.Success {
		return errors.New(result.Error)
	}

	printSummary(os.Stdout, result)

	if cmd.Bool("metrics") {
		fmt.Println()
		appCtx.Container.Metrics.WriteSummary(os.Stdout)
	}
	return nil
}

// writeJSON は結果をJSONファイルに書き出す
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("JSONの生成に失敗: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("JSONの書き込みに失敗: %w", err)
	}
	return nil
}
