package templates

import (
	"tawny-metrics/internal/assets"
	"tawny-metrics/internal/card"
	"tawny-metrics/internal/chart"
	"tawny-metrics/internal/table"
)

type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Filters echoes the active query back into the filter form.
type Filters struct {
	Action    string
	Search    string
	Positions []Option
	Sorts     []Option
	Desc      bool
	Years     []Option
	// MultiYear renders the year picker as a multi-select.
	MultiYear bool
	// Hidden carries query values the form does not edit.
	Hidden map[string]string
}

type CardView struct {
	card.Card
	Portrait  assets.Image
	School    assets.Image
	ToggleURL string
	// FragmentURL returns the card in its other state, for in-place swaps.
	FragmentURL string
}

// Header is a sortable column header link aligned with Grid.Columns.
type Header struct {
	Label  string
	URL    string
	Active bool
	Desc   bool
}

type GridView struct {
	Table  string
	Grid   table.Grid
	Header []Header
	// Return is where the column toggle form sends the browser back to.
	Return string
}

type HomePageData struct {
	Year    int
	Leaders []CardView
}

type BoardPageData struct {
	Year     int
	Filters  Filters
	Cards    []CardView
	Grid     *GridView
	TableURL string
	CardsURL string
	// Trend is embedded as JSON for the client chart.
	Trend chart.Chart
}

type TablePageData struct {
	Title   string
	Filters Filters
	Grid    GridView
	Count   int
}
