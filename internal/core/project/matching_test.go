package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatches(t *testing.T) {
	matches := FindMatches(
		[]string{"Kubernetes", "AWS Lambda", "Rust"},
		[]string{"kubernetes", "Lambda", "Go"},
	)

	require.Len(t, matches, 2)
	assert.Equal(t, MatchExact, matches[0].Type)
	assert.Equal(t, 1.0, matches[0].Confidence)
	assert.Equal(t, "kubernetes", matches[0].Available)
	assert.Equal(t, MatchPartial, matches[1].Type)
	assert.Equal(t, 0.7, matches[1].Confidence)
}

func TestMatchScore(t *testing.T) {
	exact := Match{Confidence: 1.0}
	partial := Match{Confidence: 0.7}

	assert.Equal(t, 0.0, MatchScore(nil, nil))
	// 手法側が0件の場合は0として平均する
	assert.InDelta(t, 0.5, MatchScore([]Match{exact}, nil), 1e-9)
	assert.InDelta(t, 0.85, MatchScore([]Match{exact, partial}, []Match{exact}), 1e-9)
	assert.InDelta(t, 0.7, MatchScore([]Match{partial}, []Match{partial}), 1e-9)
}

func TestRelevanceLevel(t *testing.T) {
	tests := []struct {
		score  float64
		prefix string
	}{
		{1.0, "High"},
		{0.8, "High"},
		{0.79, "Good"},
		{0.6, "Good"},
		{0.4, "Moderate"},
		{0.2, "Low"},
		{0.19, "Minimal"},
		{0, "Minimal"},
	}
	for _, tt := range tests {
		assert.Contains(t, RelevanceLevel(tt.score), tt.prefix+" - ", "score=%v", tt.score)
	}
}

func TestMatchWithDocuments(t *testing.T) {
	analysis := NewAnalysisResult()
	analysis.Technologies = []string{"Snowflake", "Airflow"}
	analysis.SolutionApproaches = []string{"Agile"}
	analysis.KeyObjectives = []string{"a", "b"}

	result := MatchWithDocuments(analysis, []string{"Snowflake", "dbt"}, []string{"Agile delivery"})

	assert.Len(t, result.TechnologyMatches, 1)
	assert.Len(t, result.ApproachMatches, 1)
	assert.InDelta(t, 0.85, result.MatchScore, 1e-9)
	assert.Equal(t, []string{
		"Leverage experience with Snowflake from previous projects",
		"Apply proven Agile delivery methodologies",
		"Tailor presentation content for Business stakeholders",
		"Focus on achieving 2 key objectives",
	}, result.Recommendations)

	rel := result.ContentRelevance
	assert.InDelta(t, 0.5, rel.TechnologyCoverage, 1e-9)
	assert.InDelta(t, 1.0, rel.ApproachCoverage, 1e-9)
	assert.InDelta(t, 0.75, rel.OverallRelevance, 1e-9)
	assert.Equal(t, []string{"Airflow"}, rel.MissingTechnologies)
	assert.Empty(t, rel.MissingApproaches)
}

func TestAssessContentRelevance_Empty(t *testing.T) {
	rel := AssessContentRelevance(NewAnalysisResult(), nil, nil)

	assert.Equal(t, 0.0, rel.OverallRelevance)
	assert.Contains(t, rel.RelevanceLevel, "Minimal")
	assert.NotNil(t, rel.MissingTechnologies)
}
