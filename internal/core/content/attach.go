package content

import (
	"fmt"

	"github.com/jchntrl/power-point-assistant/internal/core/diagram"
)

// AttachDiagrams は図をスライドに割り当てた新しいスライド列を返す
//
// 図ごとに SlideTarget 番目以降で、図を持たないタイトル以外のスライドに割り当てる。
// 該当がなければ図専用スライドを末尾に追加する（maxSlidesに達している場合は割り当てない）。
// 割り当てられなかった図は2つ目の戻り値で返す。
func AttachDiagrams(slides []Slide, diagrams []diagram.Generated, maxSlides int) ([]Slide, []diagram.Generated) {
	out := make([]Slide, len(slides))
	copy(out, slides)

	var unplaced []diagram.Generated
	for i := range diagrams {
		d := diagrams[i]

		start := max(d.SlideTarget-1, 0)
		placed := false
		for j := start; j < len(out); j++ {
			if out[j].HasDiagram() || out[j].Layout == LayoutTitle {
				continue
			}
			out[j].Diagram = &d
			placed = true
			break
		}
		if placed {
			continue
		}

		if maxSlides > 0 && len(out) >= maxSlides {
			unplaced = append(unplaced, d)
			continue
		}
		out = append(out, DiagramSlide(d))
	}
	return out, unplaced
}

// DiagramSlide は図を全面に配置する専用スライドを作る
func DiagramSlide(d diagram.Generated) Slide {
	return Slide{
		Title:   d.Spec.Title,
		Content: []string{fmt.Sprintf("%s architecture overview", d.Spec.Type)},
		Layout:  LayoutDiagram,
		Notes:   fmt.Sprintf("Architecture diagram with %d components", len(d.Spec.Components)),
		Diagram: &d,
	}
}
