package pipeline

import (
	"math"
	"os"
	"path/filepath"

	"github.com/jchntrl/power-point-assistant/internal/core/diagram"
)

func (o *Orchestrator) summarize(r *run) *Summary {
	da := r.result.DocumentAnalysis
	pa := r.result.ProjectAnalysis
	diagrams := r.result.DiagramResult.Diagrams

	s := &Summary{
		Client:                   r.req.Project.ClientName,
		ProjectDescription:       truncateRunes(r.req.Project.Description, 100) + "...",
		DocumentsAnalyzed:        da.SourceDocuments,
		TechnologiesIdentified:   len(da.Technologies),
		ApproachesIdentified:     len(da.Approaches),
		ProjectRequirements:      len(pa.Requirements),
		TargetAudience:           pa.TargetAudience,
		SlidesGenerated:          len(r.result.Content.Slides),
		DiagramsGenerated:        len(diagrams),
		DiagramGenerationEnabled: o.cfg.DiagramsEnabled,
		DiagramTypes:             diagramTypes(diagrams),
		ConfidenceScore:          r.result.Content.Confidence,
		DiagramConfidenceScore:   r.result.DiagramResult.Confidence,
		PresentationFile:         filepath.Base(r.result.PresentationPath),
		FileSizeMB:               fileSizeMB(r.result.PresentationPath),
		KeyTechnologies:          firstN(da.Technologies, 5),
		KeyApproaches:            firstN(da.Approaches, 3),
		SlideTitles:              r.result.Content.Titles(),
		DiagramTitles:            diagramTitles(diagrams),
	}
	return s
}

func diagramTypes(diagrams []diagram.Generated) []string {
	types := make([]string, 0, len(diagrams))
	for _, d := range diagrams {
		types = append(types, string(d.Spec.Type))
	}
	return types
}

func diagramTitles(diagrams []diagram.Generated) []string {
	titles := make([]string, 0, len(diagrams))
	for _, d := range diagrams {
		titles = append(titles, d.Spec.Title)
	}
	return titles
}

// fileSizeMB は小数第2位で丸めたMB単位のサイズを返す（ファイルが無ければ0）
func fileSizeMB(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return math.Round(float64(info.Size())/(1024*1024)*100) / 100
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	return append([]string{}, items...)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
