package site

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tawny-metrics/internal/app"
	"tawny-metrics/internal/assets"
	"tawny-metrics/internal/board"
	"tawny-metrics/internal/card"
	"tawny-metrics/internal/chart"
	"tawny-metrics/internal/prospect"
	"tawny-metrics/internal/table"
	"tawny-metrics/templates"
)

const homeLeaders = 5

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	year := h.catalog.Board.DefaultYear
	res := board.Apply(prospect.Rows(h.boardRows(ctx, year)), board.Query{Sort: board.DefaultSort})
	leaders := res.Rows[:min(homeLeaders, len(res.Rows))]

	data := templates.HomePageData{Year: year}
	for _, row := range leaders {
		c := card.Build(row, res.Ranks.Of(row), res.Rows, card.Collapsed)
		link := url.Values{"year": {strconv.Itoa(year)}, "expand": {row.Key()}}
		data.Leaders = append(data.Leaders, h.cardView(c, "/board?"+link.Encode(), ""))
	}
	templ.Handler(templates.Home(data)).ServeHTTP(w, r)
}

// Board renders the draft board as cards, or as a grid with ?view=table. ?expand=
// names the cards shown expanded and may repeat.
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	year := parseYear(r, h.catalog.Board)
	query := h.parseQuery(r, board.DefaultSort)
	res := board.Apply(prospect.Rows(h.boardRows(ctx, year)), query)

	data := templates.BoardPageData{
		Year:     year,
		Filters:  h.filters("/board", query, h.catalog.Board, []int{year}, board.SortKeys),
		TableURL: withQuery(r, "/board", map[string]string{"view": "table"}),
		CardsURL: withQuery(r, "/board", map[string]string{"view": ""}),
	}
	if view := r.URL.Query().Get("view"); view != "" {
		data.Filters.Hidden = map[string]string{"view": view}
	}

	if r.URL.Query().Get("view") == "table" {
		gv := h.gridView(ctx, r, "board", res.Rows, res.Ranks)
		data.Grid = &gv
	} else {
		expanded := r.URL.Query()["expand"]
		for _, row := range res.Rows {
			state := card.ParseState(slices.Contains(expanded, row.Key()))
			c := card.Build(row, res.Ranks.Of(row), res.Rows, state)
			data.Cards = append(data.Cards, h.cardView(c, toggleExpand(r, expanded, row.Key()), fragmentURL(r, row.Key(), state.Toggle())))
		}
	}

	data.Trend = chart.Build(res.Rows, r.URL.Query().Get("focus"))

	templ.Handler(templates.BoardPage(data)).ServeHTTP(w, r)
}

// Card renders one card fragment in the state named by ?expanded=. Position ranks are
// computed against the same filtered set the board page would show.
func (h *Handler) Card(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	key := r.URL.Query().Get("key")
	year := parseYear(r, h.catalog.Board)
	res := board.Apply(prospect.Rows(h.boardRows(ctx, year)), h.parseQuery(r, board.DefaultSort))

	i := slices.IndexFunc(res.Rows, func(row prospect.Row) bool { return row.Key() == key })
	if i < 0 {
		templ.Handler(templates.EmptyState(), templ.WithStatus(http.StatusNotFound)).ServeHTTP(w, r)
		return
	}
	row := res.Rows[i]
	expanded, _ := strconv.ParseBool(r.URL.Query().Get("expanded"))
	state := card.ParseState(expanded)
	c := card.Build(row, res.Ranks.Of(row), res.Rows, state)

	cur := r.URL.Query()["expand"]
	templ.Handler(templates.Card(h.cardView(c, toggleExpand(r, cur, key), fragmentURL(r, key, state.Toggle())))).ServeHTTP(w, r)
}

// History renders the draft-history grid for one year or a span of years. The engine
// orders by actual pick unless ?sort= names another key.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	years := parseYears(r, h.catalog.History)
	query := h.parseQuery(r, prospect.ActualPick)
	query.Span = len(years) > 1
	res := board.Apply(prospect.Rows(h.historyRows(ctx, years)), query)

	f := h.filters("/history", query, h.catalog.History, years, board.SortKeys)
	f.MultiYear = true
	data := templates.TablePageData{
		Title:   historyTitle(years),
		Filters: f,
		Grid:    h.gridView(ctx, r, "history", res.Rows, res.Ranks),
		Count:   len(res.Rows),
	}
	templ.Handler(templates.TablePage(data)).ServeHTTP(w, r)
}

func (h *Handler) Consensus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	query := h.parseQuery(r, prospect.ConsensusRank)
	res := board.Apply(prospect.Rows(h.consensusRows(ctx)), query)

	data := templates.TablePageData{
		Title:   "Consensus Board",
		Filters: h.filters("/consensus", query, app.Dataset{}, nil, nil),
		Grid:    h.gridView(ctx, r, "consensus", res.Rows, res.Ranks),
		Count:   len(res.Rows),
	}
	templ.Handler(templates.TablePage(data)).ServeHTTP(w, r)
}

// ToggleColumn flips one column of a table for the current client and sends the
// browser back to the page it came from.
func (h *Handler) ToggleColumn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	name := chi.URLParam(r, "table")
	defs, ok := tableColumns[name]
	if !ok {
		http.Error(w, "Unknown table", http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	set := table.NewColumnSet(defs)
	key := prospect.Field(r.PostForm.Get("column"))
	if _, ok := set.Lookup(key); !ok {
		http.Error(w, "Unknown column", http.StatusBadRequest)
		return
	}

	owner := ClientFrom(r.Context())
	h.prefs.Restore(ctx, owner, set)
	if err := h.prefs.Toggle(ctx, owner, set, key); err != nil {
		// The page still renders with defaults; nothing to surface.
		log.Warn().Err(err).Str("table", name).Str("column", string(key)).Msg("Column toggle not saved")
	}

	http.Redirect(w, r, returnPath(r.PostForm.Get("return"), "/"+name), http.StatusSeeOther)
}

// gridView restores the client's columns for a table, applies the header sort and
// formats the grid.
func (h *Handler) gridView(ctx context.Context, r *http.Request, name string, rows []prospect.Row, ranks board.RankingMap) templates.GridView {
	set := table.NewColumnSet(tableColumns[name])
	h.prefs.Restore(ctx, ClientFrom(r.Context()), set)

	limits := h.catalog.Limits()
	state := headerSort(r, set)
	if state.Key != "" {
		rows = table.Sort(rows, state, ranks, limits)
	}
	grid := table.Build(rows, ranks, set, state, limits, h.assets)

	headers := make([]templates.Header, len(grid.Columns))
	for i, col := range grid.Columns {
		next := state.Click(col.Key)
		headers[i] = templates.Header{
			Label:  col.Label,
			URL:    withQuery(r, r.URL.Path, map[string]string{"col": string(next.Key), "cdir": next.Dir()}),
			Active: state.Key == col.Key,
			Desc:   state.Desc,
		}
	}
	return templates.GridView{Table: name, Grid: grid, Header: headers, Return: r.URL.RequestURI()}
}

func (h *Handler) cardView(c card.Card, toggle, fragment string) templates.CardView {
	return templates.CardView{
		Card:        c,
		Portrait:    h.assets.Resolve(assets.Cutout, c.Prospect.Get(prospect.Name)),
		School:      h.assets.Resolve(assets.School, c.Prospect.Get(prospect.PreNBA)),
		ToggleURL:   toggle,
		FragmentURL: fragment,
	}
}

func (h *Handler) filters(action string, q board.Query, d app.Dataset, selected []int, sorts []prospect.Field) templates.Filters {
	f := templates.Filters{Action: action, Search: q.Search, Desc: q.Desc}
	for _, p := range prospect.Positions {
		f.Positions = append(f.Positions, templates.Option{Value: string(p), Label: string(p), Selected: p == q.Position})
	}
	for _, k := range sorts {
		f.Sorts = append(f.Sorts, templates.Option{Value: string(k), Label: string(k), Selected: k == q.Sort})
	}
	for _, y := range d.Years {
		s := strconv.Itoa(y)
		f.Years = append(f.Years, templates.Option{Value: s, Label: s, Selected: slices.Contains(selected, y)})
	}
	return f
}

// toggleExpand returns the board URL with key added to or removed from ?expand=.
func toggleExpand(r *http.Request, expanded []string, key string) string {
	q := r.URL.Query()
	next := slices.DeleteFunc(slices.Clone(expanded), func(k string) bool { return k == key })
	if len(next) == len(expanded) {
		next = append(next, key)
	}
	q.Del("expand")
	for _, k := range next {
		q.Add("expand", k)
	}
	if len(q) == 0 {
		return "/board"
	}
	return "/board?" + q.Encode()
}

func fragmentURL(r *http.Request, key string, state card.State) string {
	return withQuery(r, "/board/card", map[string]string{
		"key":      key,
		"expanded": strconv.FormatBool(state == card.Expanded),
		"expand":   "",
		"view":     "",
	})
}

func historyTitle(years []int) string {
	if len(years) == 1 {
		return strconv.Itoa(years[0]) + " NBA Draft"
	}
	return strconv.Itoa(years[len(years)-1]) + "-" + strconv.Itoa(years[0]) + " NBA Drafts"
}
