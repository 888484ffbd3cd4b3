package pipeline

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)
}

func TestStage_CanTransition(t *testing.T) {
	tests := []struct {
		from Stage
		to   Stage
		want bool
	}{
		{StageInitialized, StageProcessingDocuments, true},
		{StageProcessingDocuments, StageAnalyzingDocuments, true},
		{StageBuildingPresentation, StageInsertingDiagrams, true},
		{StageBuildingPresentation, StageCompleted, true},
		{StageInsertingDiagrams, StageCompleted, true},
		{StageAnalyzingProject, StageError, true},
		// 段階の飛び越しと逆戻りは不可
		{StageInitialized, StageAnalyzingDocuments, false},
		{StageGeneratingContent, StageAnalyzingProject, false},
		// 終端からは遷移しない
		{StageCompleted, StageError, false},
		{StageError, StageProcessingDocuments, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestTracker_Advance(t *testing.T) {
	var got []Snapshot
	observer := ObserverFunc(func(s Snapshot) { got = append(got, s) })

	runID := uuid.New()
	tr := newTracker(runID, observer, discardLogger(), fixedNow)

	require.NoError(t, tr.advance(StageProcessingDocuments, ""))
	require.NoError(t, tr.advance(StageAnalyzingDocuments, ""))

	err := tr.advance(StageCompleted, "done")
	require.ErrorIs(t, err, ErrIllegalTransition)

	require.Len(t, got, 2)
	assert.Equal(t, StageProcessingDocuments, got[0].Stage)
	assert.Equal(t, 0.1, got[0].Progress)
	assert.Equal(t, "Processing uploaded documents...", got[0].Message)
	assert.Equal(t, runID, got[0].RunID)
	assert.Equal(t, TotalSteps, got[0].TotalSteps)
	assert.Equal(t, fixedNow(), got[0].Timestamp)

	// 通知済みのスナップショットは後の遷移で変わらない
	assert.Equal(t, StageProcessingDocuments, got[0].Stage)
	assert.Equal(t, StageAnalyzingDocuments, tr.last().Stage)
}

func TestTracker_Fail(t *testing.T) {
	var got []Snapshot
	tr := newTracker(uuid.New(), ObserverFunc(func(s Snapshot) { got = append(got, s) }), discardLogger(), fixedNow)

	require.NoError(t, tr.advance(StageProcessingDocuments, ""))
	tr.fail("Presentation generation failed: boom")
	tr.fail("ignored")

	require.Len(t, got, 2)
	last := tr.last()
	assert.Equal(t, StageError, last.Stage)
	assert.Equal(t, 0.0, last.Progress)
	assert.Equal(t, "Presentation generation failed: boom", last.Error)
	assert.Equal(t, 0, last.CompletedSteps)
}

func TestTracker_ObserverPanic(t *testing.T) {
	tr := newTracker(uuid.New(), ObserverFunc(func(Snapshot) { panic("observer bug") }), discardLogger(), fixedNow)

	assert.NotPanics(t, func() {
		require.NoError(t, tr.advance(StageProcessingDocuments, ""))
	})
	assert.Equal(t, StageProcessingDocuments, tr.last().Stage)
}

func TestSnapshot_CompletedSteps(t *testing.T) {
	tr := newTracker(uuid.New(), nil, discardLogger(), fixedNow)

	assert.Equal(t, 3, tr.snapshot(uuid.Nil, StageGeneratingDiagrams, "", "").CompletedSteps)
	assert.Equal(t, 5, tr.snapshot(uuid.Nil, StageBuildingPresentation, "", "").CompletedSteps)
	assert.Equal(t, 6, tr.snapshot(uuid.Nil, StageCompleted, "", "").CompletedSteps)
}
