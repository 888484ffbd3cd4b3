package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jchntrl/power-point-assistant/internal/core/content"
	"github.com/jchntrl/power-point-assistant/internal/core/diagram"
	"github.com/jchntrl/power-point-assistant/internal/core/document"
	"github.com/jchntrl/power-point-assistant/internal/core/presentation"
	"github.com/jchntrl/power-point-assistant/internal/core/project"
)

// Request は提案資料の生成リクエスト
type Request struct {
	Project          project.Description
	Files            []document.File
	TargetSlideCount int      // 0 なら設定値
	TemplatePath     string   // 空なら既定のテンプレート
	Observer         Observer // 任意
}

// Result は生成結果
// 失敗した場合もSuccess=falseとErrorを持つ値として返す
type Result struct {
	RunID                 uuid.UUID                    `json:"runId"`
	Success               bool                         `json:"success"`
	Error                 string                       `json:"error,omitempty"`
	PresentationPath      string                       `json:"presentationPath,omitempty"`
	ArtifactURL           string                       `json:"artifactUrl,omitempty"`
	ProjectAnalysis       project.AnalysisResult       `json:"projectAnalysis"`
	DocumentAnalysis      document.AnalysisResult      `json:"documentAnalysis"`
	Match                 project.MatchResult          `json:"match"`
	DiagramResult         diagram.GenerationResult     `json:"diagramGenerationResult"`
	DiagramInsertion      *presentation.InsertResult   `json:"diagramInsertionResults,omitempty"`
	Content               content.GenerationResult     `json:"generationResult"`
	Structure             presentation.StructureReport `json:"structure"`
	FileFailures          []FileFailure                `json:"fileFailures,omitempty"`
	ExtractedContentCount int                          `json:"extractedContentCount"`
	FinalSlideCount       int                          `json:"finalSlideCount"`
	DiagramCount          int                          `json:"diagramCount"`
	ConfidenceScore       float64                      `json:"confidenceScore"`
	Status                Snapshot                     `json:"processingStatus"`
	Summary               *Summary                     `json:"summary,omitempty"`
}

// FileFailure は読み込めなかった参照ファイル
type FileFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Summary は生成結果の要約
type Summary struct {
	Client                   string   `json:"client"`
	ProjectDescription       string   `json:"project_description"`
	DocumentsAnalyzed        int      `json:"documents_analyzed"`
	TechnologiesIdentified   int      `json:"technologies_identified"`
	ApproachesIdentified     int      `json:"approaches_identified"`
	ProjectRequirements      int      `json:"project_requirements"`
	TargetAudience           string   `json:"target_audience"`
	SlidesGenerated          int      `json:"slides_generated"`
	DiagramsGenerated        int      `json:"diagrams_generated"`
	DiagramGenerationEnabled bool     `json:"diagram_generation_enabled"`
	DiagramTypes             []string `json:"diagram_types"`
	ConfidenceScore          float64  `json:"confidence_score"`
	DiagramConfidenceScore   float64  `json:"diagram_confidence_score"`
	PresentationFile         string   `json:"presentation_file"`
	FileSizeMB               float64  `json:"file_size_mb"`
	KeyTechnologies          []string `json:"key_technologies"`
	KeyApproaches            []string `json:"key_approaches"`
	SlideTitles              []string `json:"slide_titles"`
	DiagramTitles            []string `json:"diagram_titles"`
}

// Validation は入力検証の結果
type Validation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// PreviewResult は本生成前の見積もり
type PreviewResult struct {
	Success                 bool     `json:"success"`
	Error                   string   `json:"error,omitempty"`
	EstimatedProcessingTime float64  `json:"estimated_processing_time"` // 秒
	DocumentCount           int      `json:"document_count"`
	ExtractedItemsPreview   int      `json:"extracted_items_preview"`
	IdentifiedTechnologies  []string `json:"identified_technologies"`
	TargetAudience          string   `json:"target_audience"`
	EstimatedSlides         int      `json:"estimated_slides"`
	KeyRequirements         []string `json:"key_requirements"`
}

// RunRecord は生成履歴の1件
type RunRecord struct {
	ID                 uuid.UUID `json:"id"`
	ClientName         string    `json:"clientName"`
	ProjectDescription string    `json:"projectDescription"`
	Success            bool      `json:"success"`
	Error              string    `json:"error,omitempty"`
	PresentationPath   string    `json:"presentationPath,omitempty"`
	ArtifactURL        string    `json:"artifactUrl,omitempty"`
	SlideCount         int       `json:"slideCount"`
	DiagramCount       int       `json:"diagramCount"`
	Confidence         float64   `json:"confidence"`
	Summary            *Summary  `json:"summary,omitempty"`
	StartedAt          time.Time `json:"startedAt"`
	FinishedAt         time.Time `json:"finishedAt"`
}

// TemplateLoader はテンプレートファイルを開く
type TemplateLoader interface {
	Load(path string) (presentation.Template, error)
}

// RunRecorder は生成履歴を保存する
type RunRecorder interface {
	RecordRun(ctx context.Context, run RunRecord) error
}

// ArtifactStore は生成物をアップロードしてURLを返す
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}
