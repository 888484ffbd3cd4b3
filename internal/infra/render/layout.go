package render

import (
	"github.com/jchntrl/power-point-assistant/internal/core/diagram"
)

// box はキャンバス上の矩形（左上座標とサイズ、ピクセル）
type box struct {
	X, Y, W, H float64
}

func (b box) center() (float64, float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// border は中心から (tx, ty) へ向かう線分が矩形の枠と交わる点を返す
func (b box) border(tx, ty float64) (float64, float64) {
	cx, cy := b.center()
	dx, dy := tx-cx, ty-cy
	if dx == 0 && dy == 0 {
		return cx, cy
	}
	t := 1.0
	if dx != 0 {
		t = min(t, (b.W/2)/abs(dx))
	}
	if dy != 0 {
		t = min(t, (b.H/2)/abs(dy))
	}
	return cx + dx*t, cy + dy*t
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// metrics はレイアウトの寸法（scale倍する前の値）
type metrics struct {
	NodeW, NodeH     float64
	RankGap, NodeGap float64
	Margin, TitleH   float64
	ClusterPad       float64
	ClusterLabel     float64
}

var baseMetrics = metrics{
	NodeW:        180,
	NodeH:        80,
	RankGap:      110,
	NodeGap:      60,
	Margin:       60,
	TitleH:       50,
	ClusterPad:   20,
	ClusterLabel: 22,
}

func (m metrics) scaled(s float64) metrics {
	return metrics{
		NodeW:        m.NodeW * s,
		NodeH:        m.NodeH * s,
		RankGap:      m.RankGap * s,
		NodeGap:      m.NodeGap * s,
		Margin:       m.Margin * s,
		TitleH:       m.TitleH * s,
		ClusterPad:   m.ClusterPad * s,
		ClusterLabel: m.ClusterLabel * s,
	}
}

type clusterBox struct {
	Cluster diagram.ResolvedCluster
	Box     box
}

// layout はノードとクラスタの配置結果
type layout struct {
	Width, Height float64
	Nodes         map[string]box
	Clusters      []clusterBox
}

// rankNodes は辺の向きに沿った最長路でランクを付ける
// 循環があってもノード数の回数で打ち切る
func rankNodes(g diagram.Resolved) map[string]int {
	rank := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		rank[n.ID] = 0
	}
	limit := len(g.Nodes) - 1

	for range g.Nodes {
		changed := false
		for _, e := range g.Edges {
			if e.From == e.To {
				continue
			}
			from, okFrom := rank[e.From]
			to, okTo := rank[e.To]
			if !okFrom || !okTo {
				continue
			}
			if next := from + 1; next > to && next <= limit {
				rank[e.To] = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return rank
}

// computeLayout はランクごとに行（TB/BT）または列（LR/RL）へノードを並べる
// 同じランク内はNodesの順（クラスタのメンバーが隣り合う順）に置く
func computeLayout(g diagram.Resolved, m metrics) layout {
	rank := rankNodes(g)

	maxRank := 0
	for _, r := range rank {
		maxRank = max(maxRank, r)
	}
	rows := make([][]string, maxRank+1)
	for _, n := range g.Nodes {
		r := rank[n.ID]
		if g.Direction == diagram.DirectionBT || g.Direction == diagram.DirectionRL {
			r = maxRank - r
		}
		rows[r] = append(rows[r], n.ID)
	}

	widest := 0
	for _, row := range rows {
		widest = max(widest, len(row))
	}
	widest = max(widest, 1)

	horizontal := g.Direction.Horizontal()

	// along はランク方向、across はランク内の並び方向
	rankStep := m.NodeH + m.RankGap
	acrossStep := m.NodeW + m.NodeGap
	acrossSize := float64(widest)*m.NodeW + float64(widest-1)*m.NodeGap
	alongSize := float64(len(rows))*m.NodeH + float64(len(rows)-1)*m.RankGap
	if horizontal {
		rankStep = m.NodeW + m.RankGap
		acrossStep = m.NodeH + m.NodeGap
		acrossSize = float64(widest)*m.NodeH + float64(widest-1)*m.NodeGap
		alongSize = float64(len(rows))*m.NodeW + float64(len(rows)-1)*m.RankGap
	}

	originX, originY := m.Margin, m.Margin+m.TitleH
	out := layout{Nodes: make(map[string]box, len(g.Nodes))}
	if horizontal {
		out.Width = 2*m.Margin + alongSize
		out.Height = 2*m.Margin + m.TitleH + acrossSize
	} else {
		out.Width = 2*m.Margin + acrossSize
		out.Height = 2*m.Margin + m.TitleH + alongSize
	}

	for r, row := range rows {
		rowSize := float64(len(row))*acrossStep - m.NodeGap
		offset := (acrossSize - rowSize) / 2
		for i, id := range row {
			along := float64(r) * rankStep
			across := offset + float64(i)*acrossStep
			if horizontal {
				out.Nodes[id] = box{X: originX + along, Y: originY + across, W: m.NodeW, H: m.NodeH}
			} else {
				out.Nodes[id] = box{X: originX + across, Y: originY + along, W: m.NodeW, H: m.NodeH}
			}
		}
	}

	for _, c := range g.Clusters {
		var bounds box
		first := true
		for _, id := range c.NodeIDs {
			b, ok := out.Nodes[id]
			if !ok {
				continue
			}
			if first {
				bounds = b
				first = false
				continue
			}
			right := max(bounds.X+bounds.W, b.X+b.W)
			bottom := max(bounds.Y+bounds.H, b.Y+b.H)
			bounds.X = min(bounds.X, b.X)
			bounds.Y = min(bounds.Y, b.Y)
			bounds.W = right - bounds.X
			bounds.H = bottom - bounds.Y
		}
		if first {
			continue
		}
		out.Clusters = append(out.Clusters, clusterBox{
			Cluster: c,
			Box: box{
				X: bounds.X - m.ClusterPad,
				Y: bounds.Y - m.ClusterPad - m.ClusterLabel,
				W: bounds.W + 2*m.ClusterPad,
				H: bounds.H + 2*m.ClusterPad + m.ClusterLabel,
			},
		})
	}

	return out
}
