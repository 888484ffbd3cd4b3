package pipeline

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition は遷移表にない段階遷移を要求した場合のエラー
var ErrIllegalTransition = errors.New("illegal stage transition")

// Stage はパイプラインの処理段階
type Stage string

const (
	StageInitialized          Stage = "initialized"
	StageProcessingDocuments  Stage = "processing_documents"
	StageAnalyzingDocuments   Stage = "analyzing_documents"
	StageAnalyzingProject     Stage = "analyzing_project"
	StageGeneratingDiagrams   Stage = "generating_diagrams"
	StageGeneratingContent    Stage = "generating_content"
	StageBuildingPresentation Stage = "building_presentation"
	StageInsertingDiagrams    Stage = "inserting_diagrams"
	StageCompleted            Stage = "completed"
	StageError                Stage = "error"
)

// transitions は正常系の遷移表
// errorへの遷移は終端以外のすべての段階から許可する
var transitions = map[Stage][]Stage{
	StageInitialized:          {StageProcessingDocuments},
	StageProcessingDocuments:  {StageAnalyzingDocuments},
	StageAnalyzingDocuments:   {StageAnalyzingProject},
	StageAnalyzingProject:     {StageGeneratingDiagrams},
	StageGeneratingDiagrams:   {StageGeneratingContent},
	StageGeneratingContent:    {StageBuildingPresentation},
	StageBuildingPresentation: {StageInsertingDiagrams, StageCompleted},
	StageInsertingDiagrams:    {StageCompleted},
}

// Terminal は終端段階かを返す
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageError
}

// CanTransition はsからtoへ遷移できるかを返す
func (s Stage) CanTransition(to Stage) bool {
	if s.Terminal() {
		return false
	}
	if to == StageError {
		return true
	}
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type stageInfo struct {
	progress float64
	message  string
}

// stages は段階ごとの進捗率と表示メッセージ
// completed と error のメッセージは実行時に組み立てる
var stages = map[Stage]stageInfo{
	StageInitialized:          {0.0, "Orchestration chain ready"},
	StageProcessingDocuments:  {0.1, "Processing uploaded documents..."},
	StageAnalyzingDocuments:   {0.2, "Analyzing document content..."},
	StageAnalyzingProject:     {0.3, "Analyzing project requirements..."},
	StageGeneratingDiagrams:   {0.5, "Generating architecture diagrams..."},
	StageGeneratingContent:    {0.7, "Generating slide content..."},
	StageBuildingPresentation: {0.85, "Creating PowerPoint presentation..."},
	StageInsertingDiagrams:    {0.95, "Inserting diagrams into presentation..."},
	StageCompleted:            {1.0, "Presentation created successfully"},
	StageError:                {0.0, "Presentation generation failed"},
}

// Progress は段階の進捗率を返す
func (s Stage) Progress() float64 {
	return stages[s].progress
}

func illegalTransition(from, to Stage) error {
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}
