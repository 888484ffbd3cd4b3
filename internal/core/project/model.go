package project

import "strings"

// DefaultTargetAudience は分析結果に対象者が含まれない場合の既定値
const DefaultTargetAudience = "Business stakeholders"

// Description はユーザーが入力した案件情報
type Description struct {
	Description  string   `json:"description"`
	ClientName   string   `json:"clientName"`
	Industry     string   `json:"industry,omitempty"`
	Timeline     string   `json:"timeline,omitempty"`
	BudgetRange  string   `json:"budgetRange,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// Title は案件タイトルとして説明文の先頭50文字を返す
func (d Description) Title() string {
	r := []rune(d.Description)
	if len(r) <= 50 {
		return d.Description
	}
	return string(r[:50]) + "..."
}

// AnalysisResult は案件要件の構造化分析
// リスト型のフィールドは常に非nil
type AnalysisResult struct {
	Requirements        []string `json:"requirements"`
	Technologies        []string `json:"technologies"`
	SolutionApproaches  []string `json:"solutionApproaches"`
	TargetAudience      string   `json:"targetAudience"`
	KeyObjectives       []string `json:"keyObjectives"`
	BusinessDrivers     []string `json:"businessDrivers"`
	TechnicalChallenges []string `json:"technicalChallenges"`
	SuccessCriteria     []string `json:"successCriteria"`
	PresentationFocus   []string `json:"presentationFocus"`
	ValuePropositions   []string `json:"valuePropositions"`
}

const failurePrefix = "Analysis failed: "

// NewAnalysisResult は全リストが空の分析結果を作成する
func NewAnalysisResult() AnalysisResult {
	return AnalysisResult{
		Requirements:        []string{},
		Technologies:        []string{},
		SolutionApproaches:  []string{},
		TargetAudience:      DefaultTargetAudience,
		KeyObjectives:       []string{},
		BusinessDrivers:     []string{},
		TechnicalChallenges: []string{},
		SuccessCriteria:     []string{},
		PresentationFocus:   []string{},
		ValuePropositions:   []string{},
	}
}

// Degraded は分析が失敗してフォールバック結果になっているかを返す
func (r AnalysisResult) Degraded() bool {
	return len(r.Requirements) == 1 && strings.HasPrefix(r.Requirements[0], failurePrefix)
}
