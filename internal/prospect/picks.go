package prospect

import "strconv"

// DefaultPickLimit is the pick count of a draft with no forfeited picks.
const DefaultPickLimit = 60

// seasonPickLimits records drafts shortened by forfeited second-round picks.
var seasonPickLimits = map[int]int{
	2022: 58,
	2023: 58,
	2024: 58,
	2025: 59,
}

// PickLimit returns the last valid pick number of a draft year.
func PickLimit(year int) int {
	if n, ok := seasonPickLimits[year]; ok {
		return n
	}
	return DefaultPickLimit
}

// PickLimits resolves the last valid pick of a year, letting a catalog override the
// built-in table.
type PickLimits map[int]int

// Limit consults the overrides before falling back to PickLimit.
func (p PickLimits) Limit(year int) int {
	if n, ok := p[year]; ok && n > 0 {
		return n
	}
	return PickLimit(year)
}

// Pick classifies an Actual Pick value. Picks beyond the season limit, UDFA and
// non-numeric values are undrafted and report false.
func Pick(raw string, limit int) (int, bool) {
	f, ok := Number(raw)
	if !ok {
		return 0, false
	}
	n := int(f)
	if float64(n) != f || n < 1 || n > limit {
		return 0, false
	}
	return n, true
}

// PickOf classifies the Actual Pick of a row against the limit of its draft year.
// Rows without a year are held to DefaultPickLimit.
func PickOf(r Row, limit func(year int) int) (int, bool) {
	lim := DefaultPickLimit
	if year, err := strconv.Atoi(r.Get(DraftYear)); err == nil && year != 0 && limit != nil {
		lim = limit(year)
	}
	return Pick(r.Get(ActualPick), lim)
}
