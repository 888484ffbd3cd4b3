package diagram

// DefaultTechnicalConfidence はLLMが技術的確信度を返さなかった場合の値
const DefaultTechnicalConfidence = 0.5

// Confidence は生成できた図の数と規模から信頼度を算出する
func Confidence(diagrams []Generated, technicalConfidence float64) float64 {
	score := 0.0

	if len(diagrams) > 0 {
		score += 0.4
	}
	if len(diagrams) >= 1 {
		score += 0.2
	}
	if len(diagrams) >= 2 {
		score += 0.1
	}

	score += technicalConfidence * 0.3

	for _, d := range diagrams {
		n := len(d.Spec.Components)
		switch {
		case n >= 5 && n <= 15:
			score += 0.05
		case n >= 3 && n <= 20:
			score += 0.02
		}
	}

	return clamp(score)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
