package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jchntrl/power-point-assistant/internal/core/pipeline"
	"github.com/samber/mo"
)

//go:embed schema/runs.sql
var runsSchema string

// DBTX は *pgxpool.Pool と pgx.Tx の共通インターフェース
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DefaultListLimit は List で limit が未指定の場合の件数
const DefaultListLimit = 20

// RunRepository は生成履歴を generation_runs テーブルに保存する
type RunRepository struct {
	db DBTX
}

// NewRunRepository は新しい RunRepository を作成します
func NewRunRepository(db DBTX) *RunRepository {
	return &RunRepository{db: db}
}

// コンパイル時の型チェック
var _ pipeline.RunRecorder = (*RunRepository)(nil)

// Migrate はテーブルが存在しなければ作成する
func (r *RunRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, runsSchema); err != nil {
		return fmt.Errorf("failed to migrate generation_runs: %w", err)
	}
	return nil
}

const insertRunSQL = `
INSERT INTO generation_runs (
    id, client_name, project_description, success, error,
    presentation_path, artifact_url, slide_count, diagram_count,
    confidence, summary, started_at, finished_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (id) DO UPDATE SET
    success = EXCLUDED.success,
    error = EXCLUDED.error,
    presentation_path = EXCLUDED.presentation_path,
    artifact_url = EXCLUDED.artifact_url,
    slide_count = EXCLUDED.slide_count,
    diagram_count = EXCLUDED.diagram_count,
    confidence = EXCLUDED.confidence,
    summary = EXCLUDED.summary,
    finished_at = EXCLUDED.finished_at`

// RecordRun は実行結果を保存する。同じIDの再記録は上書きになる
func (r *RunRepository) RecordRun(ctx context.Context, run pipeline.RunRecord) error {
	if run.ID == uuid.Nil {
		return errors.New("run id is required")
	}

	summaryJSON, err := JSONBFromValue(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	_, err = r.db.Exec(ctx, insertRunSQL,
		UUIDToPgtype(run.ID),
		run.ClientName,
		run.ProjectDescription,
		run.Success,
		StringToNullableText(run.Error),
		StringToNullableText(run.PresentationPath),
		StringToNullableText(run.ArtifactURL),
		int32(run.SlideCount),
		int32(run.DiagramCount),
		run.Confidence,
		summaryJSON,
		TimeToPgtype(run.StartedAt),
		TimeToPgtype(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

const selectRunColumns = `
SELECT id, client_name, project_description, success, error,
       presentation_path, artifact_url, slide_count, diagram_count,
       confidence, summary, started_at, finished_at
FROM generation_runs`

// Get はIDで実行履歴を取得する
func (r *RunRepository) Get(ctx context.Context, id uuid.UUID) (mo.Option[*pipeline.RunRecord], error) {
	row := r.db.QueryRow(ctx, selectRunColumns+` WHERE id = $1`, UUIDToPgtype(id))
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*pipeline.RunRecord](), nil
		}
		return mo.None[*pipeline.RunRecord](), fmt.Errorf("failed to get run: %w", err)
	}
	return mo.Some(run), nil
}

// List は新しい順に実行履歴を返す
func (r *RunRepository) List(ctx context.Context, limit int) ([]*pipeline.RunRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.Query(ctx, selectRunColumns+` ORDER BY started_at DESC LIMIT $1`, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*pipeline.RunRecord, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(row pgx.Row) (*pipeline.RunRecord, error) {
	var (
		id                       pgtype.UUID
		errText, path, artifact  pgtype.Text
		slideCount, diagramCount int32
		summaryJSON              []byte
		startedAt, finishedAt    pgtype.Timestamptz
		run                      pipeline.RunRecord
	)

	if err := row.Scan(
		&id,
		&run.ClientName,
		&run.ProjectDescription,
		&run.Success,
		&errText,
		&path,
		&artifact,
		&slideCount,
		&diagramCount,
		&run.Confidence,
		&summaryJSON,
		&startedAt,
		&finishedAt,
	); err != nil {
		return nil, err
	}

	summary, err := ValueFromJSONB[pipeline.Summary](summaryJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	run.ID = PgtypeToUUID(id)
	run.Error = PgtextToString(errText)
	run.PresentationPath = PgtextToString(path)
	run.ArtifactURL = PgtextToString(artifact)
	run.SlideCount = int(slideCount)
	run.DiagramCount = int(diagramCount)
	run.Summary = summary
	run.StartedAt = PgtypeToTime(startedAt)
	run.FinishedAt = PgtypeToTime(finishedAt)
	return &run, nil
}
