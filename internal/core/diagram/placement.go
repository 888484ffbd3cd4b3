package diagram

// DefaultSlideTarget は図を配置するスライド番号
const DefaultSlideTarget = 2

var placements = map[Type]Placement{
	TypeMicroservices:     {Left: 0.5, Top: 1.5, Width: 9.0, Height: 5.5},
	TypeDataPipeline:      {Left: 0.5, Top: 1.5, Width: 9.0, Height: 5.0},
	TypeCloudArchitecture: {Left: 0.5, Top: 1.5, Width: 9.0, Height: 6.0},
	TypeDatabaseSchema:    {Left: 1.0, Top: 2.0, Width: 8.0, Height: 5.0},
}

// DefaultPlacement は図の種類ごとの既定配置（インチ）を返す
// 不明な種類はmicroservicesの配置を使う
func DefaultPlacement(t Type) Placement {
	if p, ok := placements[t]; ok {
		return p
	}
	return placements[TypeMicroservices]
}
