package project

import (
	"fmt"
	"strings"
)

// MatchType は一致の種類
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchPartial MatchType = "partial"
)

const (
	exactConfidence   = 1.0
	partialConfidence = 0.7
)

// Match は要求項目と提供可能項目の一致
type Match struct {
	Required   string    `json:"required"`
	Available  string    `json:"available"`
	Type       MatchType `json:"matchType"`
	Confidence float64   `json:"confidence"`
}

// ContentRelevance はドキュメント内容が案件をどれだけカバーしているか
type ContentRelevance struct {
	TechnologyCoverage  float64  `json:"technologyCoverage"`
	ApproachCoverage    float64  `json:"approachCoverage"`
	OverallRelevance    float64  `json:"overallRelevance"`
	RelevanceLevel      string   `json:"relevanceLevel"`
	MissingTechnologies []string `json:"missingTechnologies"`
	MissingApproaches   []string `json:"missingApproaches"`
}

// MatchResult は案件分析とドキュメント分析の照合結果
type MatchResult struct {
	TechnologyMatches []Match          `json:"technologyMatches"`
	ApproachMatches   []Match          `json:"approachMatches"`
	MatchScore        float64          `json:"matchScore"`
	Recommendations   []string         `json:"recommendations"`
	ContentRelevance  ContentRelevance `json:"contentRelevance"`
}

// MatchWithDocuments は案件の技術・アプローチをドキュメント由来のものと照合する
func MatchWithDocuments(analysis AnalysisResult, docTechnologies, docApproaches []string) MatchResult {
	techMatches := FindMatches(analysis.Technologies, docTechnologies)
	approachMatches := FindMatches(analysis.SolutionApproaches, docApproaches)

	return MatchResult{
		TechnologyMatches: techMatches,
		ApproachMatches:   approachMatches,
		MatchScore:        MatchScore(techMatches, approachMatches),
		Recommendations:   recommendations(analysis, techMatches, approachMatches),
		ContentRelevance:  AssessContentRelevance(analysis, docTechnologies, docApproaches),
	}
}

// FindMatches は大文字小文字を無視した完全一致(1.0)と部分一致(0.7)を全組み合わせで求める
func FindMatches(required, available []string) []Match {
	matches := []Match{}
	for _, req := range required {
		reqLower := strings.ToLower(req)
		for _, avail := range available {
			availLower := strings.ToLower(avail)
			switch {
			case reqLower == availLower:
				matches = append(matches, Match{Required: req, Available: avail, Type: MatchExact, Confidence: exactConfidence})
			case strings.Contains(availLower, reqLower) || strings.Contains(reqLower, availLower):
				matches = append(matches, Match{Required: req, Available: avail, Type: MatchPartial, Confidence: partialConfidence})
			}
		}
	}
	return matches
}

// MatchScore は技術側と手法側それぞれの一致度平均をさらに平均する
// 一致が0件の側は0として扱う
func MatchScore(techMatches, approachMatches []Match) float64 {
	if len(techMatches) == 0 && len(approachMatches) == 0 {
		return 0
	}
	return (meanConfidence(techMatches) + meanConfidence(approachMatches)) / 2
}

func meanConfidence(matches []Match) float64 {
	if len(matches) == 0 {
		return 0
	}
	var sum float64
	for _, m := range matches {
		sum += m.Confidence
	}
	return sum / float64(len(matches))
}

// RelevanceLevel はスコアを5段階の定性ラベルに変換する
func RelevanceLevel(score float64) string {
	switch {
	case score >= 0.8:
		return "High - Excellent alignment with project requirements"
	case score >= 0.6:
		return "Good - Strong alignment with most requirements"
	case score >= 0.4:
		return "Moderate - Some alignment with project requirements"
	case score >= 0.2:
		return "Low - Limited alignment with project requirements"
	default:
		return "Minimal - Little alignment with project requirements"
	}
}

// AssessContentRelevance は案件の技術・アプローチのうちドキュメントでカバーされている割合を求める
func AssessContentRelevance(analysis AnalysisResult, docTechnologies, docApproaches []string) ContentRelevance {
	coveredTech, missingTech := coverage(analysis.Technologies, docTechnologies)
	coveredApproach, missingApproach := coverage(analysis.SolutionApproaches, docApproaches)

	techCoverage := float64(coveredTech) / float64(max(len(analysis.Technologies), 1))
	approachCoverage := float64(coveredApproach) / float64(max(len(analysis.SolutionApproaches), 1))
	overall := (techCoverage + approachCoverage) / 2

	return ContentRelevance{
		TechnologyCoverage:  techCoverage,
		ApproachCoverage:    approachCoverage,
		OverallRelevance:    overall,
		RelevanceLevel:      RelevanceLevel(overall),
		MissingTechnologies: missingTech,
		MissingApproaches:   missingApproach,
	}
}

func coverage(required, available []string) (int, []string) {
	covered := 0
	missing := []string{}
	for _, req := range required {
		reqLower := strings.ToLower(req)
		found := false
		for _, avail := range available {
			if strings.Contains(strings.ToLower(avail), reqLower) {
				found = true
				break
			}
		}
		if found {
			covered++
		} else {
			missing = append(missing, req)
		}
	}
	return covered, missing
}

func recommendations(analysis AnalysisResult, techMatches, approachMatches []Match) []string {
	recs := []string{}

	if len(techMatches) > 0 {
		recs = append(recs, fmt.Sprintf("Leverage experience with %s from previous projects", joinAvailable(techMatches, 3)))
	}
	if len(approachMatches) > 0 {
		recs = append(recs, fmt.Sprintf("Apply proven %s methodologies", joinAvailable(approachMatches, 2)))
	}
	if analysis.TargetAudience != "" {
		recs = append(recs, fmt.Sprintf("Tailor presentation content for %s", analysis.TargetAudience))
	}
	if len(analysis.KeyObjectives) > 0 {
		recs = append(recs, fmt.Sprintf("Focus on achieving %d key objectives", len(analysis.KeyObjectives)))
	}

	return recs
}

func joinAvailable(matches []Match, n int) string {
	names := make([]string, 0, n)
	for i, m := range matches {
		if i >= n {
			break
		}
		names = append(names, m.Available)
	}
	return strings.Join(names, ", ")
}
