// Package table drives the column-configurable prospect grids: column sets with
// persisted visibility, header-click sorting, and per-column cell formatting.
package table

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"tawny-metrics/internal/assets"
	"tawny-metrics/internal/prospect"
)

// RankColumn is the pseudo-column showing a row's standing from the rank lookup.
const RankColumn prospect.Field = "#"

// Format selects how a column's cells are rendered.
type Format int

const (
	Text Format = iota
	Rank
	Pick
	Percent
	PredictedRank
	TierBadge
	Logo
	Portrait
)

// Column describes one grid column.
type Column struct {
	Key      prospect.Field
	Label    string
	Category string
	Visible  bool
	Sortable bool
	Format   Format
	// Image is the asset family for Logo and Portrait columns.
	Image assets.Kind
}

// ColumnSet is an ordered column list with a mutable visibility overlay. The order is
// fixed at construction so hiding and re-showing a column restores its position.
type ColumnSet struct {
	columns []Column
}

// NewColumnSet copies defs so callers can share static column lists.
func NewColumnSet(defs []Column) *ColumnSet {
	cols := make([]Column, len(defs))
	copy(cols, defs)
	return &ColumnSet{columns: cols}
}

// All returns every column, visible or not.
func (s *ColumnSet) All() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Visible returns visible columns in their original order.
func (s *ColumnSet) Visible() []Column {
	out := make([]Column, 0, len(s.columns))
	for _, c := range s.columns {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// Lookup finds a column by key.
func (s *ColumnSet) Lookup(key prospect.Field) (Column, bool) {
	for _, c := range s.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Toggle flips the visibility of a column and reports whether the key was known.
func (s *ColumnSet) Toggle(key prospect.Field) bool {
	for i := range s.columns {
		if s.columns[i].Key == key {
			s.columns[i].Visible = !s.columns[i].Visible
			return true
		}
	}
	return false
}

// Overlay applies persisted visibility. Unknown keys are ignored.
func (s *ColumnSet) Overlay(visible map[string]bool) {
	for i := range s.columns {
		if v, ok := visible[string(s.columns[i].Key)]; ok {
			s.columns[i].Visible = v
		}
	}
}

// Snapshot is the visibility map written back to the preference store.
func (s *ColumnSet) Snapshot() map[string]bool {
	out := make(map[string]bool, len(s.columns))
	for _, c := range s.columns {
		out[string(c.Key)] = c.Visible
	}
	return out
}

// StorageKey identifies the set's shape for preference storage.
func (s *ColumnSet) StorageKey() string {
	return StorageKey(s.columns)
}

// StorageKey hashes the ordered key/category signature of a column list. Tables with
// different shapes get different keys; identical shapes share one.
func StorageKey(columns []Column) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = string(c.Key) + ":" + c.Category
	}
	return "columns:" + strconv.FormatUint(xxhash.Sum64String(strings.Join(parts, "|")), 16)
}
