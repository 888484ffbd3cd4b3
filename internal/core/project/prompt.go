package project

import (
	"fmt"
	"strings"
)

const notSpecified = "Not specified"

const analysisPromptTemplate = `You are an expert solutions architect analyzing a project to create a compelling PowerPoint presentation proposal.

PROJECT DETAILS:
Description: %s
Client: %s
Industry: %s
Timeline: %s
Budget Range: %s
Key Technologies: %s

Please analyze this project and provide a structured analysis in JSON format:

{
    "requirements": ["list of specific project requirements identified"],
    "technologies": ["list of recommended technologies and tools"],
    "solution_approaches": ["list of recommended solution approaches and methodologies"],
    "target_audience": "description of the target audience for this presentation",
    "key_objectives": ["list of key project objectives"],
    "business_drivers": ["business drivers and motivations"],
    "technical_challenges": ["technical challenges to address"],
    "success_criteria": ["criteria for project success"],
    "presentation_focus": ["key areas the presentation should focus on"],
    "value_propositions": ["key value propositions to highlight"]
}

ANALYSIS GUIDELINES:
1. Extract specific, actionable requirements from the project description
2. Recommend appropriate technologies based on the project scope and industry
3. Suggest proven methodologies and approaches suitable for the project
4. Identify the primary audience (technical team, executives, stakeholders)
5. Define clear objectives that align with business goals
6. Consider industry-specific needs and constraints
7. Focus on practical, implementable solutions
8. Highlight the unique value proposition for this client

JSON OUTPUT:
`

// BuildAnalysisPrompt は案件分析用のプロンプトを構築する
func BuildAnalysisPrompt(d Description) string {
	technologies := notSpecified
	if len(d.Technologies) > 0 {
		technologies = strings.Join(d.Technologies, ", ")
	}
	return fmt.Sprintf(analysisPromptTemplate,
		d.Description,
		d.ClientName,
		orNotSpecified(d.Industry),
		orNotSpecified(d.Timeline),
		orNotSpecified(d.BudgetRange),
		technologies,
	)
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}

// Summarize は後続ステージのプロンプトに埋め込む分析要約を作成する
func Summarize(r AnalysisResult) string {
	var parts []string

	if len(r.Requirements) > 0 {
		parts = append(parts, "Requirements: "+joinFirst(r.Requirements, 5))
	}
	if len(r.Technologies) > 0 {
		parts = append(parts, "Technologies: "+joinFirst(r.Technologies, 5))
	}
	if len(r.SolutionApproaches) > 0 {
		parts = append(parts, "Approaches: "+joinFirst(r.SolutionApproaches, 3))
	}
	if r.TargetAudience != "" {
		parts = append(parts, "Audience: "+r.TargetAudience)
	}
	if len(r.KeyObjectives) > 0 {
		parts = append(parts, "Objectives: "+joinFirst(r.KeyObjectives, 3))
	}
	if len(r.TechnicalChallenges) > 0 {
		parts = append(parts, "Challenges: "+joinFirst(r.TechnicalChallenges, 3))
	}

	if len(parts) == 0 {
		return "No project analysis available"
	}
	return strings.Join(parts, " | ")
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
