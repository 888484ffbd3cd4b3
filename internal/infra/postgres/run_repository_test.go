package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jchntrl/power-point-assistant/internal/core/pipeline"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool は dockertest で PostgreSQL を起動する。Docker が無い環境ではスキップする
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	if err := dockerPool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	dockerPool.MaxWait = 60 * time.Second

	resource, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=ppt",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=ppt_assistant",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = dockerPool.Purge(resource)
	})
	_ = resource.Expire(120)

	dsn := fmt.Sprintf("postgres://ppt:secret@%s/ppt_assistant?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var pool *pgxpool.Pool
	err = dockerPool.Retry(func() error {
		p, err := pgxpool.New(context.Background(), dsn)
		if err != nil {
			return err
		}
		if err := p.Ping(context.Background()); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func sampleRun(started time.Time) pipeline.RunRecord {
	return pipeline.RunRecord{
		ID:                 uuid.New(),
		ClientName:         "Acme Retail",
		ProjectDescription: "Cloud lakehouse migration",
		Success:            true,
		PresentationPath:   "output/acme.pptx",
		SlideCount:         6,
		DiagramCount:       1,
		Confidence:         0.8,
		Summary: &pipeline.Summary{
			Client:          "Acme Retail",
			SlidesGenerated: 6,
			SlideTitles:     []string{"Executive Summary"},
		},
		StartedAt:  started,
		FinishedAt: started.Add(30 * time.Second),
	}
}

func TestRunRepository_Integration(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	repo := NewRunRepository(pool)
	require.NoError(t, repo.Migrate(ctx))
	// 2回目のマイグレーションも成功すること
	require.NoError(t, repo.Migrate(ctx))

	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	t.Run("record and get", func(t *testing.T) {
		run := sampleRun(base)
		require.NoError(t, repo.RecordRun(ctx, run))

		got, err := repo.Get(ctx, run.ID)
		require.NoError(t, err)
		require.True(t, got.IsPresent())

		stored := got.MustGet()
		assert.Equal(t, run.ClientName, stored.ClientName)
		assert.True(t, stored.Success)
		assert.Empty(t, stored.Error)
		assert.Empty(t, stored.ArtifactURL)
		assert.Equal(t, 6, stored.SlideCount)
		assert.InDelta(t, 0.8, stored.Confidence, 1e-9)
		require.NotNil(t, stored.Summary)
		assert.Equal(t, []string{"Executive Summary"}, stored.Summary.SlideTitles)
		assert.True(t, run.StartedAt.Equal(stored.StartedAt))
	})

	t.Run("re-record overwrites", func(t *testing.T) {
		run := sampleRun(base.Add(time.Hour))
		require.NoError(t, repo.RecordRun(ctx, run))

		run.ArtifactURL = "http://localhost:9000/proposals/x.pptx"
		require.NoError(t, repo.RecordRun(ctx, run))

		got, err := repo.Get(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ArtifactURL, got.MustGet().ArtifactURL)
	})

	t.Run("failed run without summary", func(t *testing.T) {
		run := sampleRun(base.Add(2 * time.Hour))
		run.Success = false
		run.Error = "template not found"
		run.Summary = nil
		require.NoError(t, repo.RecordRun(ctx, run))

		got, err := repo.Get(ctx, run.ID)
		require.NoError(t, err)
		assert.Nil(t, got.MustGet().Summary)
		assert.Equal(t, "template not found", got.MustGet().Error)
	})

	t.Run("get missing", func(t *testing.T) {
		got, err := repo.Get(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, got.IsAbsent())
	})

	t.Run("list newest first", func(t *testing.T) {
		runs, err := repo.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
	})
}

func TestRunRepository_RecordRun_RequiresID(t *testing.T) {
	// DB に到達する前に検証エラーになる
	repo := NewRunRepository(nil)
	err := repo.RecordRun(context.Background(), pipeline.RunRecord{})
	require.Error(t, err)
}

func TestConverters(t *testing.T) {
	assert.False(t, StringToNullableText("").Valid)
	assert.Equal(t, "x", PgtextToString(StringToNullableText("x")))

	assert.False(t, TimeToPgtype(time.Time{}).Valid)
	assert.True(t, PgtypeToTime(TimeToPgtype(time.Time{})).IsZero())

	id := uuid.New()
	assert.Equal(t, id, PgtypeToUUID(UUIDToPgtype(id)))

	b, err := JSONBFromValue[pipeline.Summary](nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	s, err := ValueFromJSONB[pipeline.Summary]([]byte(`{"client":"Acme"}`))
	require.NoError(t, err)
	assert.Equal(t, "Acme", s.Client)

	_, err = ValueFromJSONB[pipeline.Summary]([]byte(`{`))
	assert.Error(t, err)
}
