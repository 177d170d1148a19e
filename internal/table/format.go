package table

import (
	"fmt"
	"strconv"
	"strings"

	"tawny-metrics/internal/assets"
	"tawny-metrics/internal/board"
	"tawny-metrics/internal/prospect"
)

// tierColors is the fixed badge palette. Labels are matched after stripping a
// leading "Tier".
var tierColors = map[string]string{
	"1": "#7c3aed",
	"2": "#2563eb",
	"3": "#0d9488",
	"4": "#16a34a",
	"5": "#ca8a04",
	"6": "#ea580c",
	"7": "#dc2626",
}

const defaultTierColor = "#6b7280"

// TierColor returns the badge color of a tier label.
func TierColor(label string) string {
	key := strings.TrimSpace(strings.ToLower(label))
	key = strings.TrimSpace(strings.TrimPrefix(key, "tier"))
	if c, ok := tierColors[key]; ok {
		return c
	}
	return defaultTierColor
}

// Badge is a colored text chip.
type Badge struct {
	Label string
	Color string
}

// Cell is one formatted grid cell.
type Cell struct {
	Text string
	// Background is an inline CSS color for gradient columns.
	Background string
	Badge      *Badge
	Image      *assets.Image
}

// GridRow is one prospect's formatted cells, aligned with Grid.Columns.
type GridRow struct {
	Key   string
	Cells []Cell
}

// Grid is the table view model.
type Grid struct {
	StorageKey string
	Columns    []Column
	All        []Column
	Sort       SortState
	Rows       []GridRow
}

// normalize scales values onto [0,1]. A flat column maps to all zeros.
func normalize(vals []float64) []float64 {
	if len(vals) == 0 {
		return nil
	}
	minV, maxV := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	out := make([]float64, len(vals))
	if maxV == minV {
		return out
	}
	denom := maxV - minV
	for i, v := range vals {
		out[i] = (v - minV) / denom
	}
	return out
}

// intensity maps normalized values onto an alpha range that keeps text readable.
func intensity(n float64) float64 {
	return 0.1 + 0.75*n
}

func percentColor(n float64) string {
	return fmt.Sprintf("rgba(37, 99, 235, %.2f)", intensity(n))
}

func rankColor(n float64) string {
	return fmt.Sprintf("rgba(22, 163, 74, %.2f)", intensity(1-n))
}

// FormatPercent renders a probability. Values carrying a % sign are already
// percentages; bare values in [0,1] are fractions.
func FormatPercent(raw string) (float64, string, bool) {
	v, ok := prospect.Number(raw)
	if !ok {
		return 0, prospect.NotApplicable, false
	}
	if !strings.Contains(raw, "%") && v >= 0 && v <= 1 {
		v *= 100
	}
	return v, fmt.Sprintf("%.1f%%", v), true
}

// gradient computes per-row backgrounds for one gradient column. Rows without a
// numeric value get no background.
func gradient(rows []prospect.Row, col Column) []string {
	vals := make([]float64, 0, len(rows))
	idx := make([]int, 0, len(rows))
	for i, r := range rows {
		var v float64
		var ok bool
		if col.Format == Percent {
			v, _, ok = FormatPercent(r.Get(col.Key))
		} else {
			v, ok = prospect.Number(r.Get(col.Key))
		}
		if ok {
			vals = append(vals, v)
			idx = append(idx, i)
		}
	}
	out := make([]string, len(rows))
	for j, n := range normalize(vals) {
		if col.Format == Percent {
			out[idx[j]] = percentColor(n)
		} else {
			out[idx[j]] = rankColor(n)
		}
	}
	return out
}

// Build formats rows against the visible columns of set. ranks feeds RankColumn,
// limits classifies draft picks and res resolves logo and portrait cells.
func Build(rows []prospect.Row, ranks board.RankingMap, set *ColumnSet, state SortState, limits prospect.PickLimits, res *assets.Resolver) Grid {
	cols := set.Visible()
	g := Grid{
		StorageKey: set.StorageKey(),
		Columns:    cols,
		All:        set.All(),
		Sort:       state,
		Rows:       make([]GridRow, len(rows)),
	}

	backgrounds := make([][]string, len(cols))
	for c, col := range cols {
		if col.Format == Percent || col.Format == PredictedRank {
			backgrounds[c] = gradient(rows, col)
		}
	}

	for i, r := range rows {
		gr := GridRow{Key: r.Key(), Cells: make([]Cell, len(cols))}
		for c, col := range cols {
			cell := formatCell(r, col, ranks, limits, res)
			if backgrounds[c] != nil {
				cell.Background = backgrounds[c][i]
			}
			gr.Cells[c] = cell
		}
		g.Rows[i] = gr
	}
	return g
}

func formatCell(r prospect.Row, col Column, ranks board.RankingMap, limits prospect.PickLimits, res *assets.Resolver) Cell {
	raw := r.Get(col.Key)
	switch col.Format {
	case Rank:
		return Cell{Text: ranks.Of(r).String()}
	case Pick:
		if n, ok := prospect.PickOf(r, limits.Limit); ok {
			return Cell{Text: strconv.Itoa(n)}
		}
		return Cell{Text: prospect.Undrafted}
	case Percent:
		_, text, _ := FormatPercent(raw)
		return Cell{Text: text}
	case TierBadge:
		if prospect.Missing(raw) {
			return Cell{Text: prospect.NotApplicable}
		}
		return Cell{Badge: &Badge{Label: strings.TrimSpace(raw), Color: TierColor(raw)}}
	case Logo, Portrait:
		img := res.Resolve(col.Image, raw)
		return Cell{Text: prospect.Display(raw), Image: &img}
	}
	return Cell{Text: prospect.Display(raw)}
}
