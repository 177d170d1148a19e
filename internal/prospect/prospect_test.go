package prospect

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"5", 5, true},
		{" 12.5 ", 12.5, true},
		{"42%", 42, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"n/a", 0, false},
		{"UDFA", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := Number(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestPickRespectsSeasonLimit(t *testing.T) {
	_, ok := Pick("61", 58)
	assert.False(t, ok)
	_, ok = Pick("59", 58)
	assert.False(t, ok)
	_, ok = Pick("UDFA", 58)
	assert.False(t, ok)
	_, ok = Pick("0", 60)
	assert.False(t, ok)

	n, ok := Pick("58", 58)
	require.True(t, ok)
	assert.Equal(t, 58, n)
}

func TestPickLimits(t *testing.T) {
	assert.Equal(t, 58, PickLimit(2024))
	assert.Equal(t, 59, PickLimit(2025))
	assert.Equal(t, 60, PickLimit(2019))

	overrides := PickLimits{2019: 59}
	assert.Equal(t, 59, overrides.Limit(2019))
	assert.Equal(t, 58, overrides.Limit(2024))
}

func TestRankString(t *testing.T) {
	assert.Equal(t, "N/A", Rank{}.String())
	assert.Equal(t, "7", RankOf(7).String())

	out, err := json.Marshal(map[string]Rank{"a": RankOf(1), "b": {}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"1","b":"N/A"}`, string(out))
}

func TestParsePosition(t *testing.T) {
	p, ok := ParsePosition(" wing ")
	require.True(t, ok)
	assert.Equal(t, Wing, p)

	_, ok = ParsePosition("Center")
	assert.False(t, ok)
}

func TestDecodeHistory(t *testing.T) {
	records := []Record{
		{"Name": "Cooper Flagg", "Role": "wing", "Actual Pick": "1", "NBA Team": "DAL", "Pre-NBA": "Duke", "Pred. Y2 Rank": "3"},
		{"Name": "", "Actual Pick": "2"},
		{"Name": "Old Timer", "Draft Year": "2019", "Actual Pick": "UDFA"},
	}

	got := DecodeHistory(records, 2025)
	require.Len(t, got, 2)

	assert.Equal(t, Wing, got[0].Role)
	assert.Equal(t, 2025, got[0].Year)
	assert.Equal(t, "3", got[0].Get(PredY2))
	assert.Equal(t, "2025", got[0].Get(DraftYear))
	assert.Equal(t, "Cooper Flagg|2025|Duke|DAL", got[0].Key())

	assert.Equal(t, 2019, got[1].Year)
	assert.Equal(t, "UDFA", got[1].Get(ActualPick))
}

func TestDecodeConsensusSkipsUnknownColumns(t *testing.T) {
	got := DecodeConsensus([]Record{{"Name": "A", "Top 3 %": "0.42", "Wingspan": "7'0\""}})
	require.Len(t, got, 1)
	assert.Equal(t, "0.42", got[0].Get(Top3Pct))
	assert.Equal(t, "", got[0].Get(Wingspan))
}

func TestTeamName(t *testing.T) {
	assert.Equal(t, "Oklahoma City Thunder", TeamName("okc"))
	assert.Equal(t, "", TeamName("XYZ"))
}

func TestPredField(t *testing.T) {
	f, err := PredField(3)
	require.NoError(t, err)
	assert.Equal(t, PredY3, f)

	_, err = PredField(6)
	assert.Error(t, err)
}
