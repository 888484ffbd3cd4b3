package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/jchntrl/power-point-assistant/cmd/ppt-assistant/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:  "env",
			Usage: "環境変数ファイルパス",
			Value: ".env",
		}
	}

	app := &cli.Command{
		Name:  "ppt-assistant",
		Usage: "参照資料と案件説明から提案資料（PowerPoint）を生成するツール",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "提案資料を生成",
				Flags: append(commands.ProjectFlags(),
					&cli.StringFlag{
						Name:  "template",
						Usage: "テンプレートファイル（省略時は既定のテンプレート）",
					},
					&cli.IntFlag{
						Name:  "slides",
						Usage: "目標スライド数（省略時は設定値）",
					},
					&cli.StringFlag{
						Name:  "output-json",
						Usage: "生成結果をJSONで書き出すファイルパス",
					},
					&cli.BoolFlag{
						Name:  "metrics",
						Usage: "LLM呼び出しのメトリクスを表示",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "進捗を表示しない",
					},
				),
				Action: commands.GenerateAction,
			},
			{
				Name:   "validate",
				Usage:  "入力を検証",
				Flags:  commands.ProjectFlags(),
				Action: commands.ValidateAction,
			},
			{
				Name:  "preview",
				Usage: "資料を生成せずに分析結果と見積もりを表示",
				Flags: append(commands.ProjectFlags(),
					&cli.IntFlag{
						Name:  "slides",
						Usage: "目標スライド数（省略時は設定値）",
					},
					&cli.StringFlag{
						Name:  "output-json",
						Usage: "プレビュー結果をJSONで書き出すファイルパス",
					},
				),
				Action: commands.PreviewAction,
			},
			{
				Name:  "cleanup",
				Usage: "古い図の画像を削除",
				Flags: []cli.Flag{
					envFlag(),
					&cli.IntFlag{
						Name:  "max-age-hours",
						Usage: "この時間より古い画像を削除（省略時は DIAGRAM_MAX_AGE_HOURS）",
					},
				},
				Action: commands.CleanupAction,
			},
			{
				Name:  "runs",
				Usage: "生成履歴コマンド",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "生成履歴を一覧表示",
						Flags: []cli.Flag{
							envFlag(),
							&cli.IntFlag{
								Name:  "limit",
								Usage: "表示件数",
								Value: 20,
							},
						},
						Action: commands.RunsListAction,
					},
					{
						Name:  "show",
						Usage: "生成履歴の詳細を表示",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:     "id",
								Usage:    "Run ID",
								Required: true,
							},
						},
						Action: commands.RunsShowAction,
					},
				},
			},
			{
				Name:  "template",
				Usage: "テンプレートコマンド",
				Commands: []*cli.Command{
					{
						Name:  "inspect",
						Usage: "テンプレートのレイアウトを表示して検証",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:  "path",
								Usage: "テンプレートファイル（省略時は既定のテンプレート）",
							},
						},
						Action: commands.TemplateInspectAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
