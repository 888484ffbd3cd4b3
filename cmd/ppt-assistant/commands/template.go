package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/jchntrl/power-point-assistant/internal/core/presentation"
	"github.com/jchntrl/power-point-assistant/internal/infra/pptx"
	"github.com/jchntrl/power-point-assistant/pkg/config"
)

// layoutTypes はスライド生成で使うレイアウト種別
var layoutTypes = []string{"title", "title_content", "bullet", "split", "section", "diagram", "blank"}

// TemplateInspectAction はテンプレートのレイアウトと検証結果を表示するコマンドのアクション
func TemplateInspectAction(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		cfg, err := config.Load(cmd.String("env"))
		if err != nil {
			return fmt.Errorf("設定の読み込みに失敗: %w", err)
		}
		path = cfg.DefaultTemplatePath()
	}

	tmpl, err := pptx.Open(path)
	if err != nil {
		return fmt.Errorf("テンプレートを開けません: %w", err)
	}

	headerColor.Printf("=== %s ===\n", path)
	fmt.Printf("Existing slides: %d\n\n", tmpl.SlideCount())

	renderLayoutTable(tmpl.LayoutDetails())

	layouts := tmpl.Layouts()
	m := presentation.MapLayouts(layouts)
	fmt.Println()
	mapping := tablewriter.NewWriter(os.Stdout)
	mapping.Header("Layout Type", "Index", "Layout")
	for _, lt := range layoutTypes {
		idx := m.Index(lt)
		name := ""
		if idx >= 0 && idx < len(layouts) {
			name = layouts[idx].Name
		}
		mapping.Append(lt, fmt.Sprintf("%d", idx), name)
	}
	mapping.Render()

	if err := presentation.ValidateTemplate(layouts); err != nil {
		errorColor.Printf("✗ %v\n", err)
		return err
	}
	successColor.Println("✓ Template is valid")
	return nil
}

// renderLayoutTable はレイアウト一覧をテーブル形式で表示します
func renderLayoutTable(details []pptx.LayoutDetail) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Index", "Name", "Placeholders")
	for _, d := range details {
		table.Append(fmt.Sprintf("%d", d.Index), d.Name, strings.Join(d.Placeholders, ", "))
	}
	table.Render()
}
