package diagram

import (
	"fmt"
	"strings"

	"github.com/jchntrl/power-point-assistant/internal/core/document"
)

const diagramPromptTemplate = `You are an expert solution architect analyzing a technology project to generate accurate architecture diagrams.

PROJECT CONTEXT:
Client: %s
Project: %s

PROJECT ANALYSIS:
%s

DOCUMENT ANALYSIS (Previous work and capabilities):
%s

DIAGRAM CONSTRAINTS:
- Supported providers: %s
- Maximum components per diagram: %d
- Available diagram types: %s

Generate 1-2 architecture diagrams that best represent the technical solution for this project.

ANALYSIS INSTRUCTIONS:
1. Identify the core architecture pattern (microservices, data pipeline, cloud architecture, etc.)
2. Determine the most appropriate cloud provider based on project context
3. Select components that accurately represent the technical solution
4. Design logical connections between components
5. Group related components into clusters when appropriate

OUTPUT FORMAT (JSON):
{
    "diagrams": [
        {
            "diagram_type": "microservices|data_pipeline|cloud_architecture|database_schema",
            "title": "Descriptive diagram title",
            "components": [
                {
                    "name": "Component Display Name",
                    "component_type": "service|database|queue|api|storage|compute|container|loadbalancer|analytics|etl|streaming",
                    "icon_provider": "aws|azure|gcp|kubernetes|onprem",
                    "icon_name": "specific_icon_name",
                    "position_hint": "top|bottom|left|right|center"
                }
            ],
            "connections": [
                {
                    "source": "Source Component Name",
                    "target": "Target Component Name",
                    "connection_type": "arrow|bidirectional|data_flow|async",
                    "label": "Optional connection label"
                }
            ],
            "layout_direction": "TB|LR|BT|RL",
            "clustering": {
                "Cluster Name": ["Component 1", "Component 2"]
            },
            "styling": {}
        }
    ],
    "analysis_metadata": {
        "architecture_pattern": "Pattern identified",
        "complexity_level": "low|medium|high",
        "technical_confidence": 0.8,
        "recommended_slides": ["Slide 2", "Slide 4"]
    }
}

COMPONENT SELECTION GUIDELINES:
%s
DIAGRAM DESIGN PRINCIPLES:
1. Keep diagrams focused and readable (5-15 components maximum)
2. Show logical data flow and component relationships
3. Group related components into meaningful clusters
4. Choose layout direction that best represents the flow
5. Only include components that are explicitly mentioned or strongly implied

CLUSTERING GUIDELINES:
- "Web Tier": Frontend components, load balancers
- "Application Tier": Business logic, APIs, microservices
- "Data Tier": Databases, caches, storage
- "Processing": ETL, analytics, streaming components
- "Integration": Queues, message buses, event systems

OUTPUT JSON ONLY:
`

// PromptInput はプロンプトに埋め込む値
type PromptInput struct {
	ClientName         string
	ProjectDescription string
	ProjectSummary     string
	DocumentSummary    string
	MaxComponents      int
}

// BuildPrompt は図の仕様を生成するためのプロンプトを構築する
func BuildPrompt(in PromptInput, catalog *IconCatalog, types []Type) string {
	providers := make([]string, 0)
	var guide strings.Builder
	for _, p := range catalog.Providers() {
		providers = append(providers, string(p))
		pairs := make([]string, 0)
		for _, ct := range catalog.ComponentTypes(p) {
			icon := catalog.Resolve(p, ComponentType(ct), "")
			pairs = append(pairs, ct+": "+icon.Name)
		}
		fmt.Fprintf(&guide, "- %s: %s\n", p, strings.Join(pairs, ", "))
	}

	typeNames := make([]string, 0, len(types))
	for _, t := range types {
		typeNames = append(typeNames, string(t))
	}

	return fmt.Sprintf(diagramPromptTemplate,
		in.ClientName,
		in.ProjectDescription,
		in.ProjectSummary,
		in.DocumentSummary,
		strings.Join(providers, ", "),
		in.MaxComponents,
		strings.Join(typeNames, ", "),
		guide.String(),
	)
}

// SummarizeDocuments は過去資料の分析結果を図生成向けに要約する
func SummarizeDocuments(r document.AnalysisResult) string {
	var parts []string
	if len(r.Technologies) > 0 {
		parts = append(parts, "Experience with: "+joinFirst(r.Technologies, 5))
	}
	if len(r.Approaches) > 0 {
		parts = append(parts, "Proven approaches: "+joinFirst(r.Approaches, 3))
	}
	if len(r.CaseStudies) > 0 {
		parts = append(parts, "Case studies: "+joinFirst(r.CaseStudies, 2))
	}
	if len(parts) == 0 {
		return "No document analysis available"
	}
	return strings.Join(parts, " | ")
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
