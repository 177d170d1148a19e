package table

import (
	"cmp"
	"slices"
	"strings"

	"tawny-metrics/internal/board"
	"tawny-metrics/internal/prospect"
)

// SortState tracks the active header sort of a grid.
type SortState struct {
	Key  prospect.Field
	Desc bool
}

// Click returns the state after a header click: the same column flips direction, a
// new column starts ascending.
func (s SortState) Click(key prospect.Field) SortState {
	if s.Key == key {
		return SortState{Key: key, Desc: !s.Desc}
	}
	return SortState{Key: key}
}

// Dir is the direction query value of the state.
func (s SortState) Dir() string {
	if s.Desc {
		return "desc"
	}
	return "asc"
}

// valueClass orders the kinds of cell value: numbers, then text, then missing.
type valueClass int

const (
	numeric valueClass = iota
	textual
	absent
)

type sortEntry struct {
	row    prospect.Row
	index  int
	class  valueClass
	num    float64
	text   string
	pick   int
	picked bool
}

func classify(raw string) (valueClass, float64, string) {
	raw = strings.TrimSpace(raw)
	if prospect.Missing(raw) || strings.EqualFold(raw, prospect.Undrafted) {
		return absent, 0, ""
	}
	if n, ok := prospect.Number(raw); ok {
		return numeric, n, ""
	}
	return textual, 0, strings.ToLower(raw)
}

// Sort orders rows by an arbitrary column. Numbers sort before text, numbers by value
// and text case-insensitively; direction applies within each kind. Missing and
// undrafted values go last in either direction. Actual Pick is classified against the
// season limits, as the board engine does. Ties fall back to draft pick ascending,
// then input order. ranks feeds RankColumn.
func Sort(rows []prospect.Row, state SortState, ranks board.RankingMap, limits prospect.PickLimits) []prospect.Row {
	entries := make([]sortEntry, len(rows))
	for i, r := range rows {
		e := sortEntry{row: r, index: i}
		e.pick, e.picked = prospect.PickOf(r, limits.Limit)
		switch {
		case state.Key == RankColumn:
			e.class = absent
			if rk := ranks.Of(r); rk.Valid {
				e.class, e.num = numeric, float64(rk.Value)
			}
		case state.Key == prospect.ActualPick:
			e.class = absent
			if e.picked {
				e.class, e.num = numeric, float64(e.pick)
			}
		default:
			e.class, e.num, e.text = classify(r.Get(state.Key))
		}
		entries[i] = e
	}

	slices.SortStableFunc(entries, func(a, b sortEntry) int {
		if c := cmp.Compare(a.class, b.class); c != 0 {
			return c
		}
		var c int
		switch a.class {
		case numeric:
			c = cmp.Compare(a.num, b.num)
		case textual:
			c = cmp.Compare(a.text, b.text)
		}
		if state.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		switch {
		case a.picked && !b.picked:
			return -1
		case !a.picked && b.picked:
			return 1
		case a.picked && b.picked && a.pick != b.pick:
			return cmp.Compare(a.pick, b.pick)
		}
		return cmp.Compare(a.index, b.index)
	})

	out := make([]prospect.Row, len(entries))
	for i, e := range entries {
		out[i] = e.row
	}
	return out
}
