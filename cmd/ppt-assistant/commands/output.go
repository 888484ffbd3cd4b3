package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jchntrl/power-point-assistant/internal/core/pipeline"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgMagenta, color.Bold)
)

// progressPrinter は進捗をターミナルに表示する pipeline.Observer
type progressPrinter struct {
	w io.Writer
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w}
}

// OnProgress は段階が変わるたびに1行表示する
func (p *progressPrinter) OnProgress(s pipeline.Snapshot) {
	switch s.Stage {
	case pipeline.StageError:
		errorColor.Fprintf(p.w, "✗ %s\n", s.Message)
	case pipeline.StageCompleted:
		successColor.Fprintf(p.w, "✓ %s\n", s.Message)
	default:
		infoColor.Fprintf(p.w, "[%3.0f%%] %s\n", s.Progress*100, s.Message)
	}
}

func printValidation(w io.Writer, v pipeline.Validation) {
	for _, e := range v.Errors {
		errorColor.Fprintf(w, "✗ %s\n", e)
	}
	for _, warn := range v.Warnings {
		warningColor.Fprintf(w, "! %s\n", warn)
	}
	if v.Valid {
		successColor.Fprintln(w, "✓ Inputs are valid")
	}
}

func printSummary(w io.Writer, result pipeline.Result) {
	headerColor.Fprintln(w, "\n=== Generation Summary ===")
	fmt.Fprintf(w, "Run ID:        %s\n", result.RunID)
	fmt.Fprintf(w, "Presentation:  %s\n", result.PresentationPath)
	if result.ArtifactURL != "" {
		fmt.Fprintf(w, "Artifact URL:  %s\n", result.ArtifactURL)
	}
	fmt.Fprintf(w, "Slides:        %d\n", result.FinalSlideCount)
	fmt.Fprintf(w, "Diagrams:      %d\n", result.DiagramCount)
	fmt.Fprintf(w, "Confidence:    %.2f\n", result.ConfidenceScore)

	if s := result.Summary; s != nil {
		if len(s.KeyTechnologies) > 0 {
			fmt.Fprintf(w, "Technologies:  %s\n", strings.Join(s.KeyTechnologies, ", "))
		}
		if len(s.SlideTitles) > 0 {
			fmt.Fprintln(w, "Slide titles:")
			for i, title := range s.SlideTitles {
				fmt.Fprintf(w, "  %2d. %s\n", i+1, title)
			}
		}
	}

	for _, f := range result.FileFailures {
		warningColor.Fprintf(w, "! %s: %s\n", f.Name, f.Error)
	}
	for _, warn := range result.Structure.Warnings {
		warningColor.Fprintf(w, "! %s\n", warn)
	}
}
