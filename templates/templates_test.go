package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tawny-metrics/internal/assets"
	"tawny-metrics/internal/prospect"
	"tawny-metrics/internal/table"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	return renderCtx(t, context.Background(), c)
}

func renderCtx(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func TestImageFallsBackToBadge(t *testing.T) {
	out := render(t, Image(assets.Image{Alt: "Duke", Fallback: "D"}, "w-8"))
	assert.Equal(t, `<span class="img-badge w-8">D</span>`, out)

	out = render(t, Image(assets.Image{Src: "/assets/schools/duke.png", Alt: "Duke", Fallback: "D"}, "w-8"))
	assert.Contains(t, out, `src="/assets/schools/duke.png"`)
	assert.Contains(t, out, `data-fallback="D"`)
}

func TestPageEscapesText(t *testing.T) {
	ctx := templ.WithChildren(context.Background(), EmptyState())
	out := renderCtx(t, ctx, Page(`<script>alert(1)</script>`))
	assert.NotContains(t, out, "<script>alert")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "No results found")
}

func TestGridRendersCells(t *testing.T) {
	g := GridView{
		Table: "consensus",
		Grid: table.Grid{
			Columns: []table.Column{{Key: prospect.Tier, Label: "Tier", Sortable: true}},
			All:     []table.Column{{Key: prospect.Tier, Label: "Tier", Visible: true}},
			Rows: []table.GridRow{{
				Key:   "AJ Dybantsa",
				Cells: []table.Cell{{Badge: &table.Badge{Label: "Tier 1", Color: "#7c3aed"}}},
			}},
		},
		Header: []Header{{Label: "Tier", URL: "/consensus?col=Tier&cdir=asc"}},
		Return: "/consensus",
	}
	out := render(t, Grid(g))
	assert.Contains(t, out, `action="/columns/consensus/toggle"`)
	assert.Contains(t, out, `href="/consensus?col=Tier&amp;cdir=asc"`)
	assert.Contains(t, out, `style="background:#7c3aed;"`)
	assert.Contains(t, out, `data-key="AJ Dybantsa"`)
}

func TestGridEmpty(t *testing.T) {
	out := render(t, Grid(GridView{Table: "history"}))
	assert.Contains(t, out, "No results found")
	assert.NotContains(t, out, "<table")
}

func TestGridHeaderArrows(t *testing.T) {
	cols := []table.Column{
		{Key: prospect.Name, Label: "Name", Sortable: true},
		{Key: prospect.Age, Label: "Age", Sortable: true},
		{Key: prospect.Tier, Label: "Tier"},
	}
	g := GridView{
		Table: "history",
		Grid: table.Grid{
			Columns: cols,
			Rows:    []table.GridRow{{Key: "A", Cells: []table.Cell{{Text: "A"}, {Text: "19"}, {Text: "1"}}}},
		},
		Header: []Header{
			{Label: "Name", URL: "/history?col=Name", Active: true, Desc: true},
			{Label: "Age", URL: "/history?col=Age"},
			{Label: "Tier", URL: "/history?col=Tier"},
		},
	}
	out := render(t, Grid(g))
	assert.Contains(t, out, `href="/history?col=Name">Name ▼</a>`)
	assert.Contains(t, out, `href="/history?col=Age">Age</a>`)
	assert.NotContains(t, out, `href="/history?col=Tier"`)
	assert.Contains(t, out, `<th class="p-2 text-left whitespace-nowrap">Tier</th>`)
}

func TestFilterFormCarriesHiddenFieldsInOrder(t *testing.T) {
	out := render(t, FilterForm(Filters{
		Action:    "/board",
		Search:    `"zion"`,
		Hidden:    map[string]string{"view": "table", "cdir": "asc"},
		Years:     []Option{{Value: "2024", Label: "2024", Selected: true}, {Value: "2025", Label: "2025"}},
		MultiYear: true,
	}))
	cdir := strings.Index(out, `name="cdir"`)
	view := strings.Index(out, `name="view"`)
	require.NotEqual(t, -1, cdir)
	require.NotEqual(t, -1, view)
	assert.Less(t, cdir, view)
	assert.Contains(t, out, `value="&#34;zion&#34;"`)
	assert.Contains(t, out, `name="years" multiple>`)
	assert.Contains(t, out, `<option value="2024" selected>2024</option>`)
	assert.Contains(t, out, `<option value="2025">2025</option>`)
	assert.NotContains(t, out, `name="sort"`)
}
