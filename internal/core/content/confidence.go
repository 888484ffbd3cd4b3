package content

import (
	"strings"

	"github.com/jchntrl/power-point-assistant/internal/core/parser"
)

// Confidence はスライド構成の完成度から信頼度を算出する
func Confidence(slides []Slide, metadata map[string]any) float64 {
	score := 0.0

	if len(slides) > 0 {
		score += 0.3
	}

	switch n := len(slides); {
	case n >= 5 && n <= 10:
		score += 0.2
	case n >= 3 && n <= 15:
		score += 0.1
	}

	for _, s := range slides {
		if len([]rune(strings.TrimSpace(s.Title))) > 5 {
			score += 0.05
		}
		if len(s.Content) >= 2 {
			score += 0.05
		}
		if len([]rune(strings.TrimSpace(s.Notes))) > 10 {
			score += 0.02
		}
	}

	if parser.StringOf(metadata, "presentation_flow", "") != "" {
		score += 0.1
	}
	if len(parser.StringsOf(metadata, "key_messages")) > 0 {
		score += 0.1
	}

	return min(max(score, 0), 1)
}
