package presentation

import (
	"testing"

	"github.com/jchntrl/power-point-assistant/internal/core/content"
	"github.com/stretchr/testify/assert"
)

func TestValidateStructure(t *testing.T) {
	long := make([]rune, 151)
	for i := range long {
		long[i] = 'x'
	}

	slides := []content.Slide{
		{Title: "Intro", Content: []string{"a"}},
		{Title: "Go", Content: []string{"a"}},
		{Title: "Empty"},
		{Title: "Details", Content: []string{"1", "2", "3", "4", "5", "6", "7", "8", string(long)}},
		{Title: "Intro", Content: []string{"b"}},
	}

	report := ValidateStructure(slides, 3, 4)

	assert.False(t, report.Valid)
	assert.Equal(t, []string{
		"Slide 2: Title too short or missing",
		"Slide 3: No content",
	}, report.Errors)
	assert.Equal(t, []string{
		"Many slides: 5 (maximum recommended: 4)",
		"Slide 4: Too many bullet points (9)",
		"Slide 4, bullet 9: Very long bullet point",
		"Duplicate slide titles found",
	}, report.Warnings)
}

func TestValidateStructure_TooFew(t *testing.T) {
	report := ValidateStructure([]content.Slide{{Title: "Only", Content: []string{"a"}}}, 3, 15)

	assert.False(t, report.Valid)
	assert.Equal(t, []string{"Too few slides: 1 (minimum: 3)"}, report.Errors)
	assert.Empty(t, report.Warnings)
}
