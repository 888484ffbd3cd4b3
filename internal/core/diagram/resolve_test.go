package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSpec() Spec {
	return Spec{
		Type:  TypeMicroservices,
		Title: "Order Platform",
		Components: []Component{
			{Name: "Gateway", Type: ComponentAPI, Provider: ProviderAWS, IconName: "api"},
			{Name: "Orders", Type: ComponentService, Provider: ProviderAWS, IconName: "service"},
			{Name: "Orders DB", Type: ComponentDatabase, Provider: ProviderAWS, IconName: "database"},
			{Name: "Events", Type: ComponentQueue, Provider: ProviderAWS, IconName: "queue"},
		},
		Connections: []Connection{
			{Source: "Gateway", Target: "Orders", Kind: ConnectionArrow},
			{Source: "Orders", Target: "Orders DB", Kind: ConnectionBidirectional},
			{Source: "Orders", Target: "Billing", Kind: ConnectionAsync},
		},
		Direction: DirectionTB,
		Clusters: []Cluster{
			{Name: "Data Tier", Members: []string{"Orders DB", "Ghost"}},
		},
	}
}

func TestResolve_ClustersFirst(t *testing.T) {
	r, _ := Resolve(sampleSpec(), NewIconCatalog(), NewStyler(BrandColors{Primary: "#0066CC"}, 300), DefaultStyle)

	require.Len(t, r.Nodes, 4)
	// クラスタのメンバーが先に並び、残りは元の順
	assert.Equal(t, "Orders DB", r.Nodes[0].Label())
	assert.Equal(t, "Data Tier", r.Nodes[0].Cluster)
	assert.Equal(t, []string{"Gateway", "Orders", "Events"}, []string{r.Nodes[1].Label(), r.Nodes[2].Label(), r.Nodes[3].Label()})
	assert.Empty(t, r.Nodes[1].Cluster)

	require.Len(t, r.Clusters, 1)
	assert.Equal(t, []string{r.Nodes[0].ID}, r.Clusters[0].NodeIDs)
	assert.Equal(t, "#28A745", r.Clusters[0].Style["color"])

	assert.Equal(t, "aws.database.RDS", r.Nodes[0].Icon.ID())
}

func TestResolve_Connections(t *testing.T) {
	r, diags := Resolve(sampleSpec(), NewIconCatalog(), NewStyler(BrandColors{}, 300), DefaultStyle)

	// 参照先のない接続は捨てられる
	require.Len(t, r.Edges, 2)
	gateway, orders, db := r.Nodes[1].ID, r.Nodes[2].ID, r.Nodes[0].ID
	assert.Equal(t, gateway, r.Edges[0].From)
	assert.Equal(t, orders, r.Edges[0].To)
	assert.False(t, r.Edges[0].Bidirectional)

	assert.Equal(t, orders, r.Edges[1].From)
	assert.Equal(t, db, r.Edges[1].To)
	assert.True(t, r.Edges[1].Bidirectional)
	assert.Equal(t, "both", r.Edges[1].Style["dir"])

	var warnings []string
	for _, d := range diags {
		if d.Level == DiagnosticWarn {
			warnings = append(warnings, d.Message)
		}
	}
	assert.Len(t, warnings, 2)
	assert.Contains(t, warnings, "cannot connect Orders -> Billing: component not found")
	assert.Contains(t, warnings, `cluster "Data Tier" references unknown component "Ghost"`)
}

func TestResolve_EdgeCountMatchesResolvableConnections(t *testing.T) {
	spec := sampleSpec()
	spec.Connections = []Connection{{Source: "Gateway", Target: "Events"}}

	r, _ := Resolve(spec, NewIconCatalog(), NewStyler(BrandColors{}, 300), DefaultStyle)
	assert.Len(t, r.Edges, 1)

	spec.Connections = []Connection{{Source: "Gateway", Target: "Nowhere"}}
	r, _ = Resolve(spec, NewIconCatalog(), NewStyler(BrandColors{}, 300), DefaultStyle)
	assert.Empty(t, r.Edges)
}

func TestResolve_Styling(t *testing.T) {
	spec := sampleSpec()
	spec.Styling = map[string]any{
		"graph_attr":     map[string]any{"bgcolor": "white", "fontsize": float64(20)},
		"direction":      "LR",
		"custom_colors":  map[string]any{},
		"layout_spacing": "compact",
		"show":           false,
	}

	r, diags := Resolve(spec, NewIconCatalog(), NewStyler(BrandColors{}, 300), DefaultStyle)

	assert.Equal(t, "white", r.Graph["bgcolor"])
	assert.Equal(t, "20", r.Graph["fontsize"])
	// microservicesのレイアウト間隔が適用される
	assert.Equal(t, "0.8", r.Graph["nodesep"])
	assert.Equal(t, DirectionLR, r.Direction)
	assert.Equal(t, false, r.Options["show"])
	assert.NotContains(t, r.Options, "custom_colors")

	require.NotEmpty(t, diags)
	last := diags[len(diags)-1]
	assert.Equal(t, DiagnosticDebug, last.Level)
	assert.Contains(t, last.Message, "custom_colors, layout_spacing")
}

func TestResolve_DuplicateComponent(t *testing.T) {
	spec := sampleSpec()
	spec.Components = append(spec.Components, Component{Name: "Orders", Type: ComponentContainer, Provider: ProviderGCP})

	r, diags := Resolve(spec, NewIconCatalog(), NewStyler(BrandColors{}, 300), DefaultStyle)
	assert.Len(t, r.Nodes, 4)
	assert.Equal(t, DiagnosticWarn, diags[0].Level)
	assert.Contains(t, diags[0].Message, "duplicate")
}

func TestFilterStyling(t *testing.T) {
	kept, dropped := FilterStyling(map[string]any{"strict": true, "zoom": 2, "edge_attr": map[string]any{}})

	assert.Len(t, kept, 2)
	assert.Equal(t, []string{"zoom"}, dropped)

	kept, dropped = FilterStyling(nil)
	assert.Empty(t, kept)
	assert.Empty(t, dropped)
}
