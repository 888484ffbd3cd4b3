package content

import "fmt"

// ProjectTitle は案件説明の先頭50文字から仮タイトルを作る
func ProjectTitle(description string) string {
	r := []rune(description)
	if len(r) > 50 {
		r = r[:50]
	}
	return string(r) + "..."
}

// DefaultSlides は生成に失敗した場合に使う定型スライド
func DefaultSlides(projectTitle, clientName string) []Slide {
	return []Slide{
		{
			Title:   projectTitle,
			Content: []string{"Proposal for " + clientName, "Prepared by Keyrus"},
			Layout:  LayoutTitle,
			Notes:   "Opening slide with project title and client information",
		},
		{
			Title: "Executive Summary",
			Content: []string{
				"Project overview and objectives",
				"Key benefits and value proposition",
				"High-level approach and methodology",
				"Expected outcomes and deliverables",
			},
			Layout: LayoutBullet,
			Notes:  "High-level overview of the project proposal",
		},
		{
			Title: "Technical Approach",
			Content: []string{
				"Solution architecture overview",
				"Technology stack and tools",
				"Implementation methodology",
				"Integration considerations",
			},
			Layout: LayoutBullet,
			Notes:  "Detailed technical approach and methodology",
		},
		{
			Title: "Project Timeline",
			Content: []string{
				"Phase 1: Planning and Design",
				"Phase 2: Development and Implementation",
				"Phase 3: Testing and Deployment",
				"Phase 4: Go-live and Support",
			},
			Layout: LayoutBullet,
			Notes:  "High-level project phases and timeline",
		},
		{
			Title: "Next Steps",
			Content: []string{
				"Project kick-off and team formation",
				"Detailed requirements gathering",
				"Technical architecture finalization",
				"Contract and timeline confirmation",
			},
			Layout: LayoutBullet,
			Notes:  "Immediate next steps for project initiation",
		},
	}
}

// FillerSlide は定型スライドを使い切った後に補う汎用スライド（iは0始まり）
func FillerSlide(i int) Slide {
	return Slide{
		Title: fmt.Sprintf("Additional Topic %d", i+1),
		Content: []string{
			"Key point to be developed",
			"Supporting information",
			"Benefits and implications",
		},
		Layout: LayoutBullet,
		Notes:  "This slide requires further customization based on project specifics",
	}
}

// FallbackSlides は定型スライドから順にcount枚を返し、足りなければ汎用スライドで補う
func FallbackSlides(projectTitle, clientName string, count int) []Slide {
	if count <= 0 {
		return []Slide{}
	}
	defaults := DefaultSlides(projectTitle, clientName)
	if count <= len(defaults) {
		return defaults[:count]
	}
	slides := defaults
	for i := 0; len(slides) < count; i++ {
		slides = append(slides, FillerSlide(i))
	}
	return slides
}
