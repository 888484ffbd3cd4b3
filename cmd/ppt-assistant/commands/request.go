package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/jchntrl/power-point-assistant/internal/core/document"
	"github.com/jchntrl/power-point-assistant/internal/core/project"
)

// ProjectFlags は generate / validate / preview で共通の入力フラグ
func ProjectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "env",
			Usage: "環境変数ファイルパス",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "案件の説明",
		},
		&cli.StringFlag{
			Name:  "description-file",
			Usage: "案件の説明を記載したテキストファイル",
		},
		&cli.StringFlag{
			Name:     "client",
			Usage:    "クライアント名",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "industry",
			Usage: "業種",
		},
		&cli.StringFlag{
			Name:  "timeline",
			Usage: "期間",
		},
		&cli.StringFlag{
			Name:  "budget",
			Usage: "予算感",
		},
		&cli.StringSliceFlag{
			Name:  "tech",
			Usage: "想定技術（複数指定可）",
		},
		&cli.StringSliceFlag{
			Name:  "file",
			Usage: "参照資料（pptx / pdf、複数指定可）",
		},
	}
}

// projectFromCommand はフラグから案件情報を組み立てる
func projectFromCommand(cmd *cli.Command) (project.Description, error) {
	desc := cmd.String("description")
	if path := cmd.String("description-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return project.Description{}, fmt.Errorf("説明ファイルの読み込みに失敗: %w", err)
		}
		desc = string(data)
	}

	return project.Description{
		Description:  strings.TrimSpace(desc),
		ClientName:   strings.TrimSpace(cmd.String("client")),
		Industry:     cmd.String("industry"),
		Timeline:     cmd.String("timeline"),
		BudgetRange:  cmd.String("budget"),
		Technologies: splitList(cmd.StringSlice("tech")),
	}, nil
}

// readFiles は参照資料を読み込む
func readFiles(paths []string) ([]document.File, error) {
	files := make([]document.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("ファイルの読み込みに失敗 (%s): %w", p, err)
		}
		files = append(files, document.File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

// splitList はカンマ区切りと複数指定の両方を受け付ける
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
