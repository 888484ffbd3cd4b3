package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jchntrl/power-point-assistant/internal/core/content"
	"github.com/jchntrl/power-point-assistant/internal/core/diagram"
	"github.com/jchntrl/power-point-assistant/internal/core/document"
	"github.com/jchntrl/power-point-assistant/internal/core/presentation"
	"github.com/jchntrl/power-point-assistant/internal/core/project"
)

// Config はOrchestratorの設定
type Config struct {
	MinSlides           int
	MaxSlides           int
	TargetSlides        int
	OutputDir           string
	DefaultTemplatePath string
	DiagramsEnabled     bool
	Validation          ValidationConfig
}

// Dependencies はOrchestratorが使う各段階の処理
// Runs と Artifacts は任意
type Dependencies struct {
	Processor *document.Processor
	Documents *document.Analyzer
	Projects  *project.Analyzer
	Diagrams  *diagram.Service
	Content   *content.Generator
	Assembler *presentation.Assembler
	Templates TemplateLoader
	Runs      RunRecorder
	Artifacts ArtifactStore
}

// Orchestrator はドキュメント分析から資料の保存までを順に実行する
type Orchestrator struct {
	deps   Dependencies
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewOrchestrator は新しいOrchestratorを作成します
func NewOrchestrator(deps Dependencies, cfg Config, logger *slog.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case deps.Processor == nil:
		return nil, errors.New("document processor is required")
	case deps.Documents == nil:
		return nil, errors.New("document analyzer is required")
	case deps.Projects == nil:
		return nil, errors.New("project analyzer is required")
	case deps.Content == nil:
		return nil, errors.New("content generator is required")
	case deps.Assembler == nil:
		return nil, errors.New("presentation assembler is required")
	case deps.Templates == nil:
		return nil, errors.New("template loader is required")
	}
	if deps.Diagrams == nil {
		cfg.DiagramsEnabled = false
	}
	if cfg.MinSlides <= 0 {
		cfg.MinSlides = 3
	}
	if cfg.MaxSlides < cfg.MinSlides {
		cfg.MaxSlides = max(15, cfg.MinSlides)
	}
	if cfg.TargetSlides <= 0 {
		cfg.TargetSlides = 8
	}

	return &Orchestrator{
		deps:   deps,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}, nil
}

// run は1回の生成で段階をまたいで受け渡す値
type run struct {
	req     Request
	tracker *tracker
	result  Result
	slots   []presentation.DiagramSlot
	tmpl    presentation.Template

	extracted []document.ExtractedContent
}

// Generate は提案資料を生成する
// 必須段階の失敗はerror段階に遷移し、Success=falseの結果として返す
func (o *Orchestrator) Generate(ctx context.Context, req Request) Result {
	runID := uuid.New()
	startedAt := o.now()

	r := &run{
		req:     req,
		tracker: newTracker(runID, req.Observer, o.logger, o.now),
		result:  Result{RunID: runID},
	}

	o.logger.Info("starting presentation generation",
		"runId", runID,
		"client", req.Project.ClientName,
		"files", len(req.Files))

	if err := o.execute(ctx, r); err != nil {
		msg := fmt.Sprintf("Presentation generation failed: %v", err)
		o.logger.Error("presentation generation failed", "runId", runID, "error", err)
		r.tracker.fail(msg)
		r.result = Result{
			RunID:        runID,
			Success:      false,
			Error:        msg,
			FileFailures: r.result.FileFailures,
			Status:       r.tracker.last(),
		}
	}

	o.recordRun(ctx, req, r.result, startedAt)
	return r.result
}

func (o *Orchestrator) execute(ctx context.Context, r *run) error {
	steps := []struct {
		stage Stage
		fn    func(context.Context, *run) error
	}{
		{StageProcessingDocuments, o.processDocuments},
		{StageAnalyzingDocuments, o.analyzeDocuments},
		{StageAnalyzingProject, o.analyzeProject},
		{StageGeneratingDiagrams, o.generateDiagrams},
		{StageGeneratingContent, o.generateContent},
		{StageBuildingPresentation, o.buildPresentation},
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.tracker.advance(step.stage, ""); err != nil {
			return err
		}
		o.logger.Info(fmt.Sprintf("Step %d: %s", i+1, step.stage), "runId", r.result.RunID)
		if err := step.fn(ctx, r); err != nil {
			return err
		}
	}

	if len(r.slots) > 0 {
		if err := r.tracker.advance(StageInsertingDiagrams, ""); err != nil {
			return err
		}
		o.logger.Info(fmt.Sprintf("Step %d: %s", len(steps)+1, StageInsertingDiagrams), "runId", r.result.RunID)
		o.insertDiagrams(r)
	}

	o.uploadArtifact(ctx, r)

	msg := fmt.Sprintf("%s: %s", stages[StageCompleted].message, filepath.Base(r.result.PresentationPath))
	if err := r.tracker.advance(StageCompleted, msg); err != nil {
		return err
	}

	r.result.Success = true
	r.result.Status = r.tracker.last()
	r.result.Summary = o.summarize(r)

	o.logger.Info("successfully generated presentation",
		"runId", r.result.RunID,
		"path", r.result.PresentationPath,
		"slides", r.result.FinalSlideCount,
		"diagrams", r.result.DiagramCount)
	return nil
}

func (o *Orchestrator) processDocuments(ctx context.Context, r *run) error {
	contents, failures, err := o.deps.Processor.Process(ctx, r.req.Files)
	if err != nil {
		return fmt.Errorf("failed to process documents: %w", err)
	}
	for _, f := range failures {
		r.result.FileFailures = append(r.result.FileFailures, FileFailure{Name: f.Name, Error: f.Err.Error()})
	}
	r.result.ExtractedContentCount = len(contents)
	r.extracted = contents
	return nil
}

func (o *Orchestrator) analyzeDocuments(ctx context.Context, r *run) error {
	r.result.DocumentAnalysis = o.deps.Documents.Analyze(ctx, r.extracted, r.req.Project.Description)
	return ctx.Err()
}

func (o *Orchestrator) analyzeProject(ctx context.Context, r *run) error {
	pa := o.deps.Projects.Analyze(ctx, r.req.Project)
	if err := ctx.Err(); err != nil {
		return err
	}
	r.result.ProjectAnalysis = pa
	r.result.Match = project.MatchWithDocuments(pa, r.result.DocumentAnalysis.Technologies, r.result.DocumentAnalysis.Approaches)
	o.logger.Info("project matched with documents",
		"matchScore", r.result.Match.MatchScore,
		"relevance", r.result.Match.ContentRelevance.RelevanceLevel)
	return nil
}

// generateDiagrams は失敗しても図なしで続行する
func (o *Orchestrator) generateDiagrams(ctx context.Context, r *run) error {
	if !o.cfg.DiagramsEnabled {
		o.logger.Info("diagram generation is disabled")
		r.result.DiagramResult = diagram.GenerationResult{
			Diagrams: []diagram.Generated{},
			Metadata: map[string]any{"disabled": true},
		}
		return nil
	}

	dr := o.deps.Diagrams.Generate(ctx, r.req.Project, r.result.ProjectAnalysis, r.result.DocumentAnalysis)
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg, ok := dr.Metadata["error"]; ok {
		o.logger.Warn("diagram generation failed, continuing without diagrams", "error", msg)
	}
	r.result.DiagramResult = dr
	r.result.DiagramCount = len(dr.Diagrams)
	return nil
}

func (o *Orchestrator) generateContent(ctx context.Context, r *run) error {
	target := r.req.TargetSlideCount
	if target <= 0 {
		target = o.cfg.TargetSlides
	}

	cr := o.deps.Content.Generate(ctx, content.Request{
		Project:          r.req.Project,
		ProjectAnalysis:  r.result.ProjectAnalysis,
		DocumentAnalysis: r.result.DocumentAnalysis,
		TargetSlideCount: target,
	})
	if err := ctx.Err(); err != nil {
		return err
	}

	slides, unplaced := content.AttachDiagrams(cr.Slides, r.result.DiagramResult.Diagrams, o.cfg.MaxSlides)
	for _, d := range unplaced {
		o.logger.Warn("no slide available for diagram", "title", d.Spec.Title)
	}
	cr.Slides = slides

	r.result.Content = cr
	r.result.FinalSlideCount = len(slides)
	r.result.ConfidenceScore = cr.Confidence
	r.result.Structure = presentation.ValidateStructure(slides, o.cfg.MinSlides, o.cfg.MaxSlides)
	for _, w := range r.result.Structure.Warnings {
		o.logger.Warn("presentation structure warning", "warning", w)
	}
	for _, e := range r.result.Structure.Errors {
		o.logger.Warn("presentation structure issue", "issue", e)
	}
	return nil
}

func (o *Orchestrator) buildPresentation(ctx context.Context, r *run) error {
	path := r.req.TemplatePath
	if path == "" {
		path = o.cfg.DefaultTemplatePath
	}
	tmpl, err := o.deps.Templates.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	built, err := o.deps.Assembler.Build(ctx, tmpl, r.result.Content.Slides, presentation.Meta{
		ClientName:         r.req.Project.ClientName,
		ProjectDescription: r.req.Project.Description,
	}, o.cfg.OutputDir)
	if err != nil {
		return err
	}

	r.tmpl = tmpl
	r.slots = built.DiagramSlots
	r.result.PresentationPath = built.Path
	return nil
}

// insertDiagrams は図を配置して保存し直す
// 失敗しても図なしの資料を成果物とする
func (o *Orchestrator) insertDiagrams(r *run) {
	ins := o.deps.Assembler.InsertDiagrams(r.tmpl, r.slots)
	r.result.DiagramInsertion = &ins

	if ins.Successful == 0 {
		return
	}
	if err := r.tmpl.Save(r.result.PresentationPath); err != nil {
		o.logger.Error("failed to save presentation with diagrams", "path", r.result.PresentationPath, "error", err)
		return
	}
	o.logger.Info("inserted diagrams into presentation", "successful", ins.Successful, "failed", ins.Failed)
}

func (o *Orchestrator) uploadArtifact(ctx context.Context, r *run) {
	if o.deps.Artifacts == nil {
		return
	}
	key := fmt.Sprintf("%s/%s", r.result.RunID, filepath.Base(r.result.PresentationPath))
	url, err := o.deps.Artifacts.Upload(ctx, r.result.PresentationPath, key)
	if err != nil {
		o.logger.Warn("failed to upload presentation", "path", r.result.PresentationPath, "error", err)
		return
	}
	r.result.ArtifactURL = url
}

func (o *Orchestrator) recordRun(ctx context.Context, req Request, result Result, startedAt time.Time) {
	if o.deps.Runs == nil {
		return
	}
	rec := RunRecord{
		ID:                 result.RunID,
		ClientName:         req.Project.ClientName,
		ProjectDescription: req.Project.Description,
		Success:            result.Success,
		Error:              result.Error,
		PresentationPath:   result.PresentationPath,
		ArtifactURL:        result.ArtifactURL,
		SlideCount:         result.FinalSlideCount,
		DiagramCount:       result.DiagramCount,
		Confidence:         result.ConfidenceScore,
		Summary:            result.Summary,
		StartedAt:          startedAt,
		FinishedAt:         o.now(),
	}
	// 呼び出し元のキャンセル後も履歴は残す
	if err := o.deps.Runs.RecordRun(context.WithoutCancel(ctx), rec); err != nil {
		o.logger.Warn("failed to record run", "runId", result.RunID, "error", err)
	}
}

// CleanupDiagrams は保持期間を過ぎた図の画像を削除する
func (o *Orchestrator) CleanupDiagrams(maxAge time.Duration) (int, error) {
	if o.deps.Diagrams == nil {
		return 0, nil
	}
	return o.deps.Diagrams.Cleanup(maxAge)
}
