package presentation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/jchntrl/power-point-assistant/internal/core/content"
)

// Assembler はスライド構成をテンプレートに流し込んでファイルに保存する
type Assembler struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewAssembler は新しいAssemblerを作成します
func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		logger: logger,
		now:    time.Now,
	}
}

// OutputFileName は "{Client}_Proposal_{YYYYmmdd_HHMM}.pptx" 形式のファイル名を返す
func OutputFileName(clientName string, at time.Time) string {
	var b strings.Builder
	for _, r := range clientName {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	clean := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	return fmt.Sprintf("%s_Proposal_%s.pptx", clean, at.Format("20060102_1504"))
}

// Build はテンプレートの既存スライドを削除し、slidesを書き込んで保存する
// 図を持つスライドはDiagramSlotsとして返し、画像はInsertDiagramsで配置する
func (a *Assembler) Build(ctx context.Context, tmpl Template, slides []content.Slide, meta Meta, outputDir string) (BuildResult, error) {
	if err := ctx.Err(); err != nil {
		return BuildResult{}, err
	}

	layouts := tmpl.Layouts()
	if len(layouts) == 0 {
		return BuildResult{}, ErrNoLayouts
	}
	if err := ValidateTemplate(layouts); err != nil {
		// 既定のフォールバックで続行する
		a.logger.Warn("template validation failed", "error", err)
	}
	mapping := MapLayouts(layouts)

	a.logger.Info("building presentation", "client", meta.ClientName, "slides", len(slides))

	tmpl.ClearSlides()

	var slots []DiagramSlot
	for _, s := range slides {
		layoutType := string(s.Layout)
		role := DiagramRole("")
		if s.HasDiagram() {
			role = diagramRole(s)
			if role == DiagramFull {
				layoutType = string(content.LayoutDiagram)
			} else {
				layoutType = string(content.LayoutSplit)
			}
		}

		layoutIndex := mapping.Index(layoutType)
		idx, err := tmpl.AddSlide(layoutIndex)
		if err != nil {
			return BuildResult{}, fmt.Errorf("failed to add slide %q: %w", s.Title, err)
		}

		a.populate(tmpl, idx, s, role)

		if s.HasDiagram() {
			slots = append(slots, DiagramSlot{
				SlideIndex: idx,
				Layout:     layouts[layoutIndex],
				Role:       role,
				Diagram:    *s.Diagram,
			})
		}
	}

	now := a.now()
	tmpl.SetCoreProperties(CoreProperties{
		Title:    fmt.Sprintf("%s - Proposal for %s", content.ProjectTitle(meta.ProjectDescription), meta.ClientName),
		Author:   "Keyrus",
		Subject:  "Technology Proposal for " + meta.ClientName,
		Comments: fmt.Sprintf("Generated presentation with %d slides", len(slides)),
		Category: "Technology Proposal",
		Keywords: fmt.Sprintf("Keyrus, %s, Technology, Proposal", meta.ClientName),
		Created:  now,
		Modified: now,
	})

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return BuildResult{}, fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(outputDir, OutputFileName(meta.ClientName, now))
	if err := tmpl.Save(path); err != nil {
		return BuildResult{}, fmt.Errorf("failed to save presentation: %w", err)
	}

	a.logger.Info("presentation created", "path", path, "diagramSlots", len(slots))

	return BuildResult{
		Path:         path,
		SlideCount:   len(slides),
		DiagramSlots: slots,
	}, nil
}

// diagramRole は本文がなければ図を全面に、あれば本文と並べて配置する
func diagramRole(s content.Slide) DiagramRole {
	if s.Layout == content.LayoutDiagram || len(s.Content) == 0 {
		return DiagramFull
	}
	return DiagramSplit
}

// populate はプレースホルダへの書き込みに失敗してもタイトルだけのスライドとして続行する
func (a *Assembler) populate(tmpl Template, idx int, s content.Slide, role DiagramRole) {
	if err := tmpl.SetTitle(idx, s.Title); err != nil {
		a.logger.Warn("failed to set slide title", "slide", idx, "error", err)
	}

	if role != DiagramFull && len(s.Content) > 0 {
		if err := tmpl.SetBody(idx, s.Content); err != nil {
			a.logger.Warn("failed to set slide body", "slide", idx, "error", err)
		}
	}

	if s.Notes != "" {
		if err := tmpl.SetNotes(idx, s.Notes); err != nil {
			a.logger.Warn("failed to set speaker notes", "slide", idx, "error", err)
		}
	}
}

// InsertDiagrams は図の画像をスライドに配置する
// 1つの図の失敗は結果に記録し、残りの図の挿入は続ける
func (a *Assembler) InsertDiagrams(tmpl Template, slots []DiagramSlot) InsertResult {
	result := InsertResult{Results: make(map[string]InsertOutcome, len(slots))}

	for _, slot := range slots {
		key := uniqueKey(result.Results, slot.Diagram.Spec.Title)
		rect := DiagramRect(slot)

		outcome := InsertOutcome{SlideIndex: slot.SlideIndex, Rect: rect}
		if err := a.insert(tmpl, slot, rect); err != nil {
			a.logger.Error("failed to insert diagram", "title", slot.Diagram.Spec.Title, "error", err)
			outcome.Error = err.Error()
			result.Failed++
		} else {
			outcome.Success = true
			result.Successful++
		}
		result.Results[key] = outcome
	}

	a.logger.Info("diagram insertion completed", "successful", result.Successful, "failed", result.Failed)
	return result
}

func (a *Assembler) insert(tmpl Template, slot DiagramSlot, rect Rect) error {
	if _, err := os.Stat(slot.Diagram.ImagePath); err != nil {
		return fmt.Errorf("diagram image not available: %w", err)
	}
	if err := tmpl.AddPicture(slot.SlideIndex, slot.Diagram.ImagePath, rect); err != nil {
		return fmt.Errorf("failed to add picture: %w", err)
	}
	return nil
}

func uniqueKey(m map[string]InsertOutcome, title string) string {
	key := title
	for i := 2; ; i++ {
		if _, exists := m[key]; !exists {
			return key
		}
		key = fmt.Sprintf("%s (%d)", title, i)
	}
}

// DiagramRect はレイアウト名と配置方法から図の矩形を決める
func DiagramRect(slot DiagramSlot) Rect {
	name := strings.ToLower(slot.Layout.Name)
	switch {
	case strings.Contains(name, "blank"):
		return Rect{Left: 0.5, Top: 0.5, Width: 9.0, Height: 6.5}
	case strings.Contains(name, "title") && strings.Contains(name, "slide"):
		return Rect{Left: 2.0, Top: 3.5, Width: 6.0, Height: 3.5}
	case slot.Role == DiagramSplit:
		// 本文の右側に配置する
		return Rect{Left: 5.0, Top: 1.5, Width: 4.5, Height: 5.0}
	default:
		return RectFromPlacement(slot.Diagram.Placement)
	}
}
