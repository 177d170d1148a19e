package prospect

import (
	"strconv"
	"strings"
)

// Record is one parsed CSV row keyed by header text. It only lives at the parse
// boundary; everything past the decoders works with the typed variants below.
type Record map[string]string

func (r Record) get(f Field) string {
	return strings.TrimSpace(r[string(f)])
}

// Row is the read-only view the engine, table and chart code share.
type Row interface {
	// Key identifies the row within its dataset.
	Key() string
	// Get returns the raw value of a column, or "" when the variant has no such column.
	Get(Field) string
}

// Prospect is one row of a draft-board file.
type Prospect struct {
	Name        string
	Role        Position
	PreNBA      string
	League      string
	Nationality string
	Height      string
	Wingspan    string
	Weight      string
	Age         string
	Tier        string
	Color       string
	Pred        [Years]string
	AvgRank3    string
	AvgRank5    string
}

func (p *Prospect) Key() string { return p.Name }

func (p *Prospect) Get(f Field) string {
	switch f {
	case Name:
		return p.Name
	case Role:
		return string(p.Role)
	case PreNBA:
		return p.PreNBA
	case League:
		return p.League
	case Nationality:
		return p.Nationality
	case Height:
		return p.Height
	case Wingspan:
		return p.Wingspan
	case Weight:
		return p.Weight
	case Age:
		return p.Age
	case Tier:
		return p.Tier
	case Color:
		return p.Color
	case PredY1:
		return p.Pred[0]
	case PredY2:
		return p.Pred[1]
	case PredY3:
		return p.Pred[2]
	case PredY4:
		return p.Pred[3]
	case PredY5:
		return p.Pred[4]
	case AvgRank3:
		return p.AvgRank3
	case AvgRank5:
		return p.AvgRank5
	}
	return ""
}

// HistoryEntry is one row of a yearly draft-history file.
type HistoryEntry struct {
	Prospect
	ActualPick string
	NBATeam    string
	Year       int
}

// Key disambiguates repeated names across draft years.
func (h *HistoryEntry) Key() string {
	return strings.Join([]string{h.Name, strconv.Itoa(h.Year), h.PreNBA, h.NBATeam}, "|")
}

func (h *HistoryEntry) Get(f Field) string {
	switch f {
	case ActualPick:
		return h.ActualPick
	case NBATeam:
		return h.NBATeam
	case DraftYear:
		if h.Year == 0 {
			return ""
		}
		return strconv.Itoa(h.Year)
	}
	return h.Prospect.Get(f)
}

// ConsensusEntry is one row of the consensus board.
type ConsensusEntry struct {
	Name          string
	Role          Position
	PreNBA        string
	Tier          string
	ConsensusRank string
	Boards        string
	Top3Pct       string
	Top5Pct       string
	LotteryPct    string
	FirstRoundPct string
}

func (c *ConsensusEntry) Key() string { return c.Name }

func (c *ConsensusEntry) Get(f Field) string {
	switch f {
	case Name:
		return c.Name
	case Role:
		return string(c.Role)
	case PreNBA:
		return c.PreNBA
	case Tier:
		return c.Tier
	case ConsensusRank:
		return c.ConsensusRank
	case Boards:
		return c.Boards
	case Top3Pct:
		return c.Top3Pct
	case Top5Pct:
		return c.Top5Pct
	case LotteryPct:
		return c.LotteryPct
	case FirstRoundPct:
		return c.FirstRoundPct
	}
	return ""
}

func decodeProspect(r Record) Prospect {
	p := Prospect{
		Name:        r.get(Name),
		Role:        decodeRole(r.get(Role)),
		PreNBA:      r.get(PreNBA),
		League:      r.get(League),
		Nationality: r.get(Nationality),
		Height:      r.get(Height),
		Wingspan:    r.get(Wingspan),
		Weight:      r.get(Weight),
		Age:         r.get(Age),
		Tier:        r.get(Tier),
		Color:       r.get(Color),
		AvgRank3:    r.get(AvgRank3),
		AvgRank5:    r.get(AvgRank5),
	}
	for i := range p.Pred {
		f, _ := PredField(i + 1)
		p.Pred[i] = r.get(f)
	}
	return p
}

func decodeRole(s string) Position {
	if p, ok := ParsePosition(s); ok {
		return p
	}
	return Position(s)
}

// DecodeProspects converts draft-board records. Rows without a name are skipped.
func DecodeProspects(records []Record) []*Prospect {
	out := make([]*Prospect, 0, len(records))
	for _, r := range records {
		p := decodeProspect(r)
		if p.Name == "" {
			continue
		}
		out = append(out, &p)
	}
	return out
}

// DecodeHistory converts draft-history records. A record carrying its own Draft Year
// keeps it; otherwise year is applied.
func DecodeHistory(records []Record, year int) []*HistoryEntry {
	out := make([]*HistoryEntry, 0, len(records))
	for _, r := range records {
		h := HistoryEntry{
			Prospect:   decodeProspect(r),
			ActualPick: r.get(ActualPick),
			NBATeam:    r.get(NBATeam),
			Year:       year,
		}
		if h.Name == "" {
			continue
		}
		if y, err := strconv.Atoi(r.get(DraftYear)); err == nil {
			h.Year = y
		}
		out = append(out, &h)
	}
	return out
}

// DecodeConsensus converts consensus-board records.
func DecodeConsensus(records []Record) []*ConsensusEntry {
	out := make([]*ConsensusEntry, 0, len(records))
	for _, r := range records {
		c := ConsensusEntry{
			Name:          r.get(Name),
			Role:          decodeRole(r.get(Role)),
			PreNBA:        r.get(PreNBA),
			Tier:          r.get(Tier),
			ConsensusRank: r.get(ConsensusRank),
			Boards:        r.get(Boards),
			Top3Pct:       r.get(Top3Pct),
			Top5Pct:       r.get(Top5Pct),
			LotteryPct:    r.get(LotteryPct),
			FirstRoundPct: r.get(FirstRoundPct),
		}
		if c.Name == "" {
			continue
		}
		out = append(out, &c)
	}
	return out
}

// Rows widens a typed slice to the shared Row view.
func Rows[T Row](in []T) []Row {
	out := make([]Row, len(in))
	for i, r := range in {
		out[i] = r
	}
	return out
}
