package document

// Summary は複数の分析結果を統合した要約
type Summary struct {
	TotalDocuments      int            `json:"totalDocuments"`
	UniqueTechnologies  []string       `json:"uniqueTechnologies"`
	UniqueApproaches    []string       `json:"uniqueApproaches"`
	UniqueCaseStudies   []string       `json:"uniqueCaseStudies"`
	UniqueThemes        []string       `json:"uniqueThemes"`
	TechnologyFrequency map[string]int `json:"technologyFrequency"`
	ApproachFrequency   map[string]int `json:"approachFrequency"`
	ThemeFrequency      map[string]int `json:"themeFrequency"`
}

// SummarizeResults は複数の分析結果を出現順を保って重複排除し、頻度を数える
func SummarizeResults(results []AnalysisResult) Summary {
	var techs, approaches, cases, themes []string
	total := 0

	for _, r := range results {
		techs = append(techs, r.Technologies...)
		approaches = append(approaches, r.Approaches...)
		cases = append(cases, r.CaseStudies...)
		themes = append(themes, r.KeyThemes...)
		total += r.SourceDocuments
	}

	return Summary{
		TotalDocuments:      total,
		UniqueTechnologies:  unique(techs),
		UniqueApproaches:    unique(approaches),
		UniqueCaseStudies:   unique(cases),
		UniqueThemes:        unique(themes),
		TechnologyFrequency: frequency(techs),
		ApproachFrequency:   frequency(approaches),
		ThemeFrequency:      frequency(themes),
	}
}

func unique(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func frequency(items []string) map[string]int {
	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[item]++
	}
	return counts
}
