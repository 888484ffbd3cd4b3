package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/jchntrl/power-point-assistant/internal/platform/container"
)

// CleanupAction は古い図の画像を削除するコマンドのアクション
func CleanupAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"), container.WithoutPersistence())
	if err != nil {
		return err
	}
	defer appCtx.Close()

	hours := int(cmd.Int("max-age-hours"))
	if hours <= 0 {
		hours = appCtx.Config.Diagram.MaxAgeHours
	}

	removed, err := appCtx.Container.Orchestrator.CleanupDiagrams(time.Duration(hours) * time.Hour)
	if err != nil {
		return fmt.Errorf("図の削除に失敗: %w", err)
	}

	successColor.Printf("✓ Removed %d diagram file(s) older than %dh\n", removed, hours)
	return nil
}
