// Package card builds prospect card view state: collapsed or expanded, with per-year
// projections ranked against same-position peers.
package card

import (
	"cmp"
	"slices"

	"tawny-metrics/internal/prospect"
)

// State is the expansion state of a prospect card.
type State int

const (
	Collapsed State = iota
	Expanded
)

// Toggle flips between the collapsed and expanded states.
func (s State) Toggle() State {
	if s == Expanded {
		return Collapsed
	}
	return Expanded
}

func (s State) String() string {
	if s == Expanded {
		return "expanded"
	}
	return "collapsed"
}

// ParseState reads the expanded flag of a request.
func ParseState(expanded bool) State {
	if expanded {
		return Expanded
	}
	return Collapsed
}

// YearRank is a prospect's standing among same-position prospects for one projection year.
type YearRank struct {
	Year      int
	Predicted string
	Position  prospect.Rank
}

// Card is the view model of one prospect card.
type Card struct {
	Prospect prospect.Row
	Rank     prospect.Rank
	State    State
	// Years is only populated for expanded cards.
	Years []YearRank
}

// Build assembles a card. all is the filtered set the card was drawn from; position
// ranks are computed against it when the card is expanded.
func Build(p prospect.Row, rank prospect.Rank, all []prospect.Row, state State) Card {
	c := Card{Prospect: p, Rank: rank, State: state}
	if state != Expanded {
		return c
	}
	c.Years = make([]YearRank, 0, prospect.Years)
	for year := 1; year <= prospect.Years; year++ {
		f, _ := prospect.PredField(year)
		c.Years = append(c.Years, YearRank{
			Year:      year,
			Predicted: prospect.Display(p.Get(f)),
			Position:  PositionRank(p, all, year),
		})
	}
	return c
}

// PositionRank locates target among prospects sharing its position, ordered by the
// year's predicted rank. Prospects without a numeric prediction are left out, and a
// target without one gets no rank.
func PositionRank(target prospect.Row, all []prospect.Row, year int) prospect.Rank {
	f, err := prospect.PredField(year)
	if err != nil {
		return prospect.Rank{}
	}
	if _, ok := prospect.Number(target.Get(f)); !ok {
		return prospect.Rank{}
	}

	type ranked struct {
		key   string
		value float64
	}
	role := target.Get(prospect.Role)
	peers := make([]ranked, 0, len(all))
	for _, r := range all {
		if r.Get(prospect.Role) != role {
			continue
		}
		if v, ok := prospect.Number(r.Get(f)); ok {
			peers = append(peers, ranked{key: r.Key(), value: v})
		}
	}
	slices.SortStableFunc(peers, func(a, b ranked) int {
		return cmp.Compare(a.value, b.value)
	})
	for i, p := range peers {
		if p.key == target.Key() {
			return prospect.RankOf(i + 1)
		}
	}
	return prospect.Rank{}
}
