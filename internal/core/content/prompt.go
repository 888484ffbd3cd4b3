package content

import (
	"fmt"
	"strings"

	"github.com/jchntrl/power-point-assistant/internal/core/document"
)

const generationPromptTemplate = `You are an expert presentation designer creating a compelling PowerPoint proposal for a technology consulting engagement.

PROJECT CONTEXT:
Client: %s
Project: %s

PROJECT ANALYSIS:
%s

DOCUMENT ANALYSIS (Previous work and capabilities):
%s

TARGET: Create %d slides
FOCUS: %s

Generate a PowerPoint presentation structure with detailed slide content in JSON format:

{
    "slides": [
        {
            "title": "Slide title",
            "content": ["Bullet point 1", "Bullet point 2", "Bullet point 3"],
            "layout_type": "title|bullet|blank",
            "notes": "Speaker notes for this slide"
        }
    ],
    "presentation_metadata": {
        "total_slides": number,
        "presentation_flow": "Brief description of the logical flow",
        "key_messages": ["Key message 1", "Key message 2"],
        "call_to_action": "Main call to action"
    }
}

SLIDE STRUCTURE GUIDELINES:
1. Title Slide: Client name, project title, "Prepared by Keyrus"
2. Executive Summary: High-level overview and value proposition
3. Understanding Your Needs: Demonstrate grasp of client requirements
4. Our Approach: Methodology and solution approach
5. Technical Solution: Detailed technical architecture and implementation
6. Relevant Experience: Showcase similar work from document analysis
7. Timeline & Deliverables: Project phases and key milestones
8. Investment & Next Steps: Value proposition and immediate actions

CONTENT GUIDELINES:
- Use specific technologies and approaches from the analysis
- Reference relevant case studies and experience from documents
- Tailor language and technical depth to the target audience
- Include concrete benefits and value propositions
- Ensure logical flow from problem to solution to value
- Use bullet points effectively (3-5 per slide maximum)
- Include compelling speaker notes for presentation delivery

TECHNICAL ACCURACY:
- Only reference technologies and approaches mentioned in the analysis
- Ensure solution recommendations align with project requirements

JSON OUTPUT:
`

// SummarizeDocuments はスライド生成向けに過去資料の分析結果を要約する
func SummarizeDocuments(r document.AnalysisResult) string {
	parts := []string{fmt.Sprintf("Documents analyzed: %d", r.SourceDocuments)}
	if len(r.Technologies) > 0 {
		parts = append(parts, "Experience with: "+joinFirst(r.Technologies, 5))
	}
	if len(r.Approaches) > 0 {
		parts = append(parts, "Proven approaches: "+joinFirst(r.Approaches, 3))
	}
	if len(r.CaseStudies) > 0 {
		parts = append(parts, "Case studies: "+joinFirst(r.CaseStudies, 2))
	}
	if len(r.KeyThemes) > 0 {
		parts = append(parts, "Key themes: "+joinFirst(r.KeyThemes, 3))
	}
	return strings.Join(parts, " | ")
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
