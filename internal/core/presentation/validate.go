package presentation

import (
	"fmt"
	"strings"

	"github.com/jchntrl/power-point-assistant/internal/core/content"
)

const (
	maxBulletsPerSlide = 7
	maxBulletLength    = 150
)

// ValidateStructure はスライド構成を検証する
// 枚数不足・タイトル不足・内容なしはエラー、それ以外は警告
func ValidateStructure(slides []content.Slide, minSlides, maxSlides int) StructureReport {
	report := StructureReport{Errors: []string{}, Warnings: []string{}}

	switch n := len(slides); {
	case n < minSlides:
		report.Errors = append(report.Errors, fmt.Sprintf("Too few slides: %d (minimum: %d)", n, minSlides))
	case maxSlides > 0 && n > maxSlides:
		report.Warnings = append(report.Warnings, fmt.Sprintf("Many slides: %d (maximum recommended: %d)", n, maxSlides))
	}

	seen := make(map[string]bool, len(slides))
	duplicate := false
	for i, s := range slides {
		if len([]rune(strings.TrimSpace(s.Title))) < 3 {
			report.Errors = append(report.Errors, fmt.Sprintf("Slide %d: Title too short or missing", i+1))
		}

		switch {
		case len(s.Content) == 0:
			report.Errors = append(report.Errors, fmt.Sprintf("Slide %d: No content", i+1))
		case len(s.Content) > maxBulletsPerSlide:
			report.Warnings = append(report.Warnings, fmt.Sprintf("Slide %d: Too many bullet points (%d)", i+1, len(s.Content)))
		}

		for j, bullet := range s.Content {
			if len([]rune(bullet)) > maxBulletLength {
				report.Warnings = append(report.Warnings, fmt.Sprintf("Slide %d, bullet %d: Very long bullet point", i+1, j+1))
			}
		}

		if seen[s.Title] {
			duplicate = true
		}
		seen[s.Title] = true
	}
	if duplicate {
		report.Warnings = append(report.Warnings, "Duplicate slide titles found")
	}

	report.Valid = len(report.Errors) == 0
	return report
}
