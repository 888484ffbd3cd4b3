package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchntrl/power-point-assistant/internal/core/pipeline"
)

func init() {
	// テストでは色付けを無効にして出力を比較する
	color.NoColor = true
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "Acme Re...", truncateString("Acme Retail Group", 10))
	assert.Equal(t, "日本語...", truncateString("日本語のクライアント名", 6))
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{"Azure, Databricks", " dbt ", ""})
	assert.Equal(t, []string{"Azure", "Databricks", "dbt"}, got)
	assert.Nil(t, splitList(nil))
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	files, err := readFiles([]string{path})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "case.pdf", files[0].Name)
	assert.Equal(t, "pdf", files[0].Ext())

	_, err = readFiles([]string{filepath.Join(dir, "missing.pptx")})
	assert.Error(t, err)
}

func TestPrintValidation(t *testing.T) {
	var buf bytes.Buffer
	printValidation(&buf, pipeline.Validation{
		Valid:    false,
		Errors:   []string{"Client name too short (minimum 2 characters)"},
		Warnings: []string{"No reference documents provided - using default content patterns"},
	})

	out := buf.String()
	assert.Contains(t, out, "✗ Client name too short")
	assert.Contains(t, out, "! No reference documents provided")
	assert.NotContains(t, out, "Inputs are valid")
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf)

	p.OnProgress(pipeline.Snapshot{Stage: pipeline.StageAnalyzingProject, Progress: 0.4, Message: "Analyzing project requirements..."})
	p.OnProgress(pipeline.Snapshot{Stage: pipeline.StageCompleted, Progress: 1, Message: "Done: deck.pptx"})

	assert.Equal(t, "[ 40%] Analyzing project requirements...\n✓ Done: deck.pptx\n", buf.String())
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, pipeline.Result{
		Success:          true,
		PresentationPath: "out/deck.pptx",
		FinalSlideCount:  6,
		Summary: &pipeline.Summary{
			KeyTechnologies: []string{"Azure", "Databricks"},
			SlideTitles:     []string{"Executive Summary", "Next Steps"},
		},
		FileFailures: []pipeline.FileFailure{{Name: "broken.pdf", Error: "invalid pdf"}},
	})

	out := buf.String()
	assert.Contains(t, out, "Presentation:  out/deck.pptx")
	assert.Contains(t, out, "Technologies:  Azure, Databricks")
	assert.Contains(t, out, "   2. Next Steps")
	assert.Contains(t, out, "! broken.pdf: invalid pdf")
	assert.NotContains(t, out, "Artifact URL")
}

func TestRunStatus(t *testing.T) {
	assert.Equal(t, "success", runStatus(&pipeline.RunRecord{Success: true}))
	assert.Equal(t, "failed", runStatus(&pipeline.RunRecord{}))
}
