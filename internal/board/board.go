// Package board orders, ranks and filters prospect rows for the draft-board views.
//
// Ranks are assigned over the fully sorted dataset before search and position filters
// run, so narrowing the visible set never renumbers a prospect.
package board

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"tawny-metrics/internal/prospect"
)

// SortKeys are the columns the board views offer as sort options.
var SortKeys = []prospect.Field{
	prospect.AvgRank3,
	prospect.AvgRank5,
	prospect.PredY1,
	prospect.PredY2,
	prospect.PredY3,
	prospect.PredY4,
	prospect.PredY5,
	prospect.ActualPick,
	prospect.ConsensusRank,
}

// DefaultSort is used when a request names no sort key or an unknown one.
const DefaultSort = prospect.AvgRank3

// ParseSortKey resolves a sort option by its column header.
func ParseSortKey(s string) (prospect.Field, bool) {
	for _, k := range SortKeys {
		if strings.EqualFold(strings.TrimSpace(s), string(k)) {
			return k, true
		}
	}
	return "", false
}

// Query carries the user's selection.
type Query struct {
	Search   string
	Position prospect.Position
	Sort     prospect.Field
	Desc     bool
	// Span is set when rows come from more than one draft year.
	Span bool
	// PickLimit returns the last valid pick of a draft year. Nil uses the built-in table.
	PickLimit func(year int) int
}

// RankingMap maps a row key to its standing in the fully sorted dataset.
type RankingMap map[string]prospect.Rank

// Of returns the rank of a row, or "not applicable" when the row is unknown.
func (m RankingMap) Of(r prospect.Row) prospect.Rank {
	return m[r.Key()]
}

// Result is the ordered, filtered view plus the rank lookup over every row.
type Result struct {
	Rows  []prospect.Row
	Ranks RankingMap
}

type entry struct {
	row   prospect.Row
	index int
	year  int
	value float64
	ok    bool
}

// Apply sorts, ranks and filters rows. The input slice is not modified.
func Apply(rows []prospect.Row, q Query) Result {
	key := q.Sort
	if key == "" {
		key = DefaultSort
	}
	limit := q.PickLimit
	if limit == nil {
		limit = prospect.PickLimit
	}

	entries := make([]entry, len(rows))
	for i, r := range rows {
		e := entry{row: r, index: i}
		e.year, _ = strconv.Atoi(r.Get(prospect.DraftYear))
		if key == prospect.ActualPick {
			var n int
			n, e.ok = prospect.PickOf(r, limit)
			e.value = float64(n)
		} else {
			e.value, e.ok = prospect.Number(r.Get(key))
		}
		entries[i] = e
	}

	byYear := q.Span && key == prospect.ActualPick
	slices.SortStableFunc(entries, func(a, b entry) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case a.ok && b.ok && a.value != b.value:
			if q.Desc {
				return cmp.Compare(b.value, a.value)
			}
			return cmp.Compare(a.value, b.value)
		}
		if byYear {
			if c := cmp.Compare(b.year, a.year); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.index, b.index)
	})

	ranks := make(RankingMap, len(entries))
	for i, e := range entries {
		switch {
		case key != prospect.ActualPick:
			ranks[e.row.Key()] = prospect.RankOf(i + 1)
		case e.ok:
			ranks[e.row.Key()] = prospect.RankOf(int(e.value))
		default:
			ranks[e.row.Key()] = prospect.Rank{}
		}
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	visible := make([]prospect.Row, 0, len(entries))
	for _, e := range entries {
		if q.Position != "" && prospect.Position(e.row.Get(prospect.Role)) != q.Position {
			continue
		}
		if !Matches(e.row, search) {
			continue
		}
		visible = append(visible, e.row)
	}

	return Result{Rows: visible, Ranks: ranks}
}

// Matches reports whether a row satisfies a search query. The query must already be
// lower-cased and trimmed; an empty query matches everything.
func Matches(r prospect.Row, query string) bool {
	if query == "" {
		return true
	}
	name := strings.ToLower(r.Get(prospect.Name))
	if strings.HasPrefix(name, query) {
		return true
	}
	if tokens := strings.Fields(name); len(tokens) > 0 {
		if strings.HasPrefix(tokens[0], query) || strings.HasPrefix(tokens[len(tokens)-1], query) {
			return true
		}
	}
	team := r.Get(prospect.NBATeam)
	for _, s := range []string{r.Get(prospect.PreNBA), team, prospect.TeamName(team)} {
		if s != "" && strings.Contains(strings.ToLower(s), query) {
			return true
		}
	}
	return false
}
