// Package site serves the draft pages and the JSON API.
package site

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"tawny-metrics/internal/app"
	"tawny-metrics/internal/assets"
	"tawny-metrics/internal/board"
	"tawny-metrics/internal/loader"
	"tawny-metrics/internal/prefs"
	"tawny-metrics/internal/prospect"
	"tawny-metrics/internal/table"
)

const requestTimeout = 10 * time.Second

// tableColumns maps the {table} route segment onto its column definitions.
var tableColumns = map[string][]table.Column{
	"board":     table.BoardColumns,
	"history":   table.HistoryColumns,
	"consensus": table.ConsensusColumns,
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	loader  *loader.Loader
	cache   *loader.Cache
	catalog *app.Catalog
	prefs   *prefs.Preferences
	assets  *assets.Resolver
}

// NewHandler creates a new handler with dependencies
func NewHandler(l *loader.Loader, cache *loader.Cache, catalog *app.Catalog, p *prefs.Preferences, res *assets.Resolver) *Handler {
	return &Handler{
		loader:  l,
		cache:   cache,
		catalog: catalog,
		prefs:   p,
		assets:  res,
	}
}

func datasetPath(d app.Dataset, year int) string {
	if !d.Yearly() {
		return d.Path
	}
	return loader.YearPath(d.Path, year)
}

// Dataset loads never fail: the loader already degrades to empty, so the cache only
// ever sees successful values.

func (h *Handler) boardRows(ctx context.Context, year int) []*prospect.Prospect {
	path := datasetPath(h.catalog.Board, year)
	rows, _ := loader.Fetch(ctx, h.cache, "board:"+path, []string{path}, func(ctx context.Context) ([]*prospect.Prospect, error) {
		return prospect.DecodeProspects(h.loader.Load(ctx, path)), nil
	})
	return rows
}

func (h *Handler) historyRows(ctx context.Context, years []int) []*prospect.HistoryEntry {
	d := h.catalog.History
	files := make([]string, len(years))
	tags := make([]string, len(years))
	for i, y := range years {
		files[i] = datasetPath(d, y)
		tags[i] = strconv.Itoa(y)
	}
	key := "history:" + strings.Join(tags, ",")

	rows, _ := loader.Fetch(ctx, h.cache, key, files, func(ctx context.Context) ([]*prospect.HistoryEntry, error) {
		if len(years) == 1 {
			return prospect.DecodeHistory(h.loader.Load(ctx, files[0]), years[0]), nil
		}
		return prospect.DecodeHistory(h.loader.LoadSpan(ctx, d.Path, years), 0), nil
	})
	return rows
}

func (h *Handler) consensusRows(ctx context.Context) []*prospect.ConsensusEntry {
	path := datasetPath(h.catalog.Consensus, h.catalog.Consensus.DefaultYear)
	rows, _ := loader.Fetch(ctx, h.cache, "consensus:"+path, []string{path}, func(ctx context.Context) ([]*prospect.ConsensusEntry, error) {
		return prospect.DecodeConsensus(h.loader.Load(ctx, path)), nil
	})
	return rows
}

// parseYear reads ?year=, falling back to the dataset default for missing or unknown
// years.
func parseYear(r *http.Request, d app.Dataset) int {
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && d.HasYear(y) {
		return y
	}
	return d.DefaultYear
}

// parseYears reads a span selection. ?years= takes a comma list, repeated values or
// "all"; a single ?year= also works. Unknown years are dropped and the result keeps
// the catalog's newest-first order.
func parseYears(r *http.Request, d app.Dataset) []int {
	q := r.URL.Query()
	var raw []string
	for _, v := range q["years"] {
		raw = append(raw, strings.Split(v, ",")...)
	}
	if len(raw) == 0 && q.Get("year") != "" {
		raw = []string{q.Get("year")}
	}

	picked := make(map[int]bool)
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if strings.EqualFold(v, "all") {
			return slices.Clone(d.Years)
		}
		if y, err := strconv.Atoi(v); err == nil && d.HasYear(y) {
			picked[y] = true
		}
	}

	var years []int
	for _, y := range d.Years {
		if picked[y] {
			years = append(years, y)
		}
	}
	if len(years) == 0 {
		return []int{d.DefaultYear}
	}
	return years
}

// parseQuery builds the engine query from ?q=, ?role=, ?sort= and ?dir=.
func (h *Handler) parseQuery(r *http.Request, defaultSort prospect.Field) board.Query {
	q := r.URL.Query()
	query := board.Query{
		Search:    q.Get("q"),
		Sort:      defaultSort,
		Desc:      strings.EqualFold(q.Get("dir"), "desc"),
		PickLimit: h.catalog.Limits().Limit,
	}
	if p, ok := prospect.ParsePosition(q.Get("role")); ok {
		query.Position = p
	}
	if k, ok := board.ParseSortKey(q.Get("sort")); ok {
		query.Sort = k
	}
	return query
}

// headerSort reads the ?col=/?cdir= header sort. Unknown or unsortable columns leave
// the engine order untouched.
func headerSort(r *http.Request, set *table.ColumnSet) table.SortState {
	q := r.URL.Query()
	col, ok := set.Lookup(prospect.Field(q.Get("col")))
	if !ok || !col.Sortable {
		return table.SortState{}
	}
	return table.SortState{Key: col.Key, Desc: strings.EqualFold(q.Get("cdir"), "desc")}
}

// withQuery returns path with the request's query, after applying set. Empty values
// delete their key.
func withQuery(r *http.Request, path string, set map[string]string) string {
	q := url.Values{}
	for k, v := range r.URL.Query() {
		q[k] = slices.Clone(v)
	}
	for k, v := range set {
		if v == "" {
			q.Del(k)
		} else {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// returnPath accepts only local paths so the toggle redirect cannot leave the site.
func returnPath(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return u.RequestURI()
}
