package presentation

import (
	"errors"
	"time"

	"github.com/jchntrl/power-point-assistant/internal/core/diagram"
)

// ErrNoLayouts はテンプレートにレイアウトが1つもない場合のエラー
var ErrNoLayouts = errors.New("template has no slide layouts")

// Layout はテンプレートのスライドレイアウト
type Layout struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Rect はスライド上の矩形（インチ）
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromPlacement は図の既定配置を矩形に変換する
func RectFromPlacement(p diagram.Placement) Rect {
	return Rect{Left: p.Left, Top: p.Top, Width: p.Width, Height: p.Height}
}

// CoreProperties はプレゼンテーションの文書プロパティ
type CoreProperties struct {
	Title    string
	Author   string
	Subject  string
	Comments string
	Category string
	Keywords string
	Created  time.Time
	Modified time.Time
}

// Template はスライドを書き込むテンプレート
// スライド番号は0始まり
type Template interface {
	Layouts() []Layout
	ClearSlides()
	AddSlide(layoutIndex int) (int, error)
	SetTitle(slide int, text string) error
	SetBody(slide int, lines []string) error
	SetNotes(slide int, text string) error
	AddPicture(slide int, imagePath string, rect Rect) error
	SetCoreProperties(props CoreProperties)
	Save(path string) error
}

// DiagramRole は図スライドでの図の扱い
type DiagramRole string

const (
	// DiagramFull は本文なしで図を大きく配置する
	DiagramFull DiagramRole = "full"

	// DiagramSplit は本文と並べて配置する
	DiagramSplit DiagramRole = "split"
)

// DiagramSlot は図を挿入するスライドの情報
type DiagramSlot struct {
	SlideIndex int
	Layout     Layout
	Role       DiagramRole
	Diagram    diagram.Generated
}

// Meta は出力ファイル名と文書プロパティに使う案件情報
type Meta struct {
	ClientName         string
	ProjectDescription string
}

// BuildResult はBuildの結果
type BuildResult struct {
	Path         string        `json:"path"`
	SlideCount   int           `json:"slideCount"`
	DiagramSlots []DiagramSlot `json:"-"`
}

// InsertOutcome は図1つの挿入結果
type InsertOutcome struct {
	Success    bool   `json:"success"`
	SlideIndex int    `json:"slideIndex"`
	Rect       Rect   `json:"rect"`
	Error      string `json:"error,omitempty"`
}

// InsertResult は図の挿入結果（キーは図のタイトル）
type InsertResult struct {
	Results    map[string]InsertOutcome `json:"results"`
	Successful int                      `json:"successfulInsertions"`
	Failed     int                      `json:"failedInsertions"`
}

// StructureReport はスライド構成の検証結果
type StructureReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
