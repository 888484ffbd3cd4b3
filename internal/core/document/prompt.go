package document

import (
	"fmt"
	"strings"
)

const analysisPromptTemplate = `You are an expert business analyst reviewing documents to extract relevant information for a PowerPoint presentation proposal.

PROJECT DESCRIPTION:
%s

DOCUMENTS TO ANALYZE:
%s

Please analyze these documents and extract the following information in JSON format:

{
    "technologies": ["list of technologies mentioned"],
    "approaches": ["list of solution approaches and methodologies"],
    "case_studies": ["relevant case studies or examples"],
    "key_themes": ["main themes and topics"],
    "business_benefits": ["business benefits and value propositions mentioned"],
    "challenges_addressed": ["challenges or problems addressed"],
    "implementation_patterns": ["implementation patterns or best practices"],
    "client_examples": ["examples of similar client work"]
}

ANALYSIS GUIDELINES:
1. Focus on content most relevant to the project description
2. Extract specific technologies, tools, and platforms mentioned
3. Identify proven methodologies and approaches
4. Note any case studies that demonstrate similar work
5. Capture key business themes and value propositions
6. Look for implementation patterns and best practices
7. Identify challenges addressed that relate to the project

Only include items that are clearly relevant to the project requirements.

JSON OUTPUT:
`

// BuildAnalysisPrompt はドキュメント分析用のプロンプトを構築する
func BuildAnalysisPrompt(projectDescription, documents string) string {
	return fmt.Sprintf(analysisPromptTemplate, projectDescription, documents)
}

// FormatContent は抽出コンテンツ1件をプロンプト用のブロックに整形する
func FormatContent(c ExtractedContent) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n--- Document: %s ---\n", c.SourceFile))
	sb.WriteString(fmt.Sprintf("Type: %s\n", strings.ToUpper(string(c.Format))))
	sb.WriteString(fmt.Sprintf("Slide/Page: %d\n", c.Number))
	sb.WriteString(fmt.Sprintf("Title: %s\n", c.Title))
	sb.WriteString(fmt.Sprintf("Layout: %s\n", c.LayoutType))
	sb.WriteString("\nContent:\n")
	sb.WriteString(c.Body)
	sb.WriteString("\n")
	return sb.String()
}
