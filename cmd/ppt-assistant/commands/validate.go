package commands

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/jchntrl/power-point-assistant/internal/platform/container"
)

// ValidateAction は生成を行わずに入力を検証するコマンドのアクション
func ValidateAction(ctx context.Context, cmd *cli.Command) error {
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

	v := appCtx.Container.Orchestrator.ValidateInputs(desc, files)
	printValidation(os.Stdout, v)
	if !v.Valid {
		return errors.New("入力の検証に失敗しました")
	}
	return nil
}
