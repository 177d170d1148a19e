package prospect

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names a CSV column. The value is the header text used in the data files.
type Field string

const (
	Name          Field = "Name"
	Role          Field = "Role"
	ActualPick    Field = "Actual Pick"
	NBATeam       Field = "NBA Team"
	PreNBA        Field = "Pre-NBA"
	DraftYear     Field = "Draft Year"
	League        Field = "League"
	Nationality   Field = "Nationality"
	Height        Field = "Height"
	Wingspan      Field = "Wingspan"
	Weight        Field = "Weight"
	Age           Field = "Age"
	Tier          Field = "Tier"
	Color         Field = "Color"
	AvgRank3      Field = "Avg. Rank Y1-3"
	AvgRank5      Field = "Avg. Rank Y1-5"
	ConsensusRank Field = "Consensus Rank"
	Boards        Field = "Boards"
	Top3Pct       Field = "Top 3 %"
	Top5Pct       Field = "Top 5 %"
	LotteryPct    Field = "Lottery %"
	FirstRoundPct Field = "1st Round %"
)

// Predicted-rank columns, one per projection year.
const (
	PredY1 Field = "Pred. Y1 Rank"
	PredY2 Field = "Pred. Y2 Rank"
	PredY3 Field = "Pred. Y3 Rank"
	PredY4 Field = "Pred. Y4 Rank"
	PredY5 Field = "Pred. Y5 Rank"
)

// Years is the number of projection years carried by every dataset.
const Years = 5

// PredField returns the predicted-rank column for projection year 1..5.
func PredField(year int) (Field, error) {
	if year < 1 || year > Years {
		return "", fmt.Errorf("projection year %d out of range 1-%d", year, Years)
	}
	return Field(fmt.Sprintf("Pred. Y%d Rank", year)), nil
}

// Sentinels recognised in the CSV files.
const (
	NotApplicable = "N/A"
	Undrafted     = "UDFA"
)

// Missing reports whether a raw value carries no data.
func Missing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, NotApplicable)
}

// Number parses a numeric-as-string field. Missing and non-numeric values report false.
func Number(s string) (float64, bool) {
	if Missing(s) {
		return 0, false
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Display returns the value or the N/A sentinel when it is missing.
func Display(s string) string {
	if Missing(s) {
		return NotApplicable
	}
	return strings.TrimSpace(s)
}

// Rank is a 1-based standing. The zero value is "not applicable".
type Rank struct {
	Value int
	Valid bool
}

// RankOf builds a valid rank.
func RankOf(v int) Rank { return Rank{Value: v, Valid: true} }

func (r Rank) String() string {
	if !r.Valid {
		return NotApplicable
	}
	return strconv.Itoa(r.Value)
}

// MarshalText renders invalid ranks as the N/A sentinel in JSON payloads.
func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
