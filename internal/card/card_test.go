package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tawny-metrics/internal/prospect"
)

func withPreds(name string, pos prospect.Position, preds ...string) *prospect.Prospect {
	p := &prospect.Prospect{Name: name, Role: pos}
	copy(p.Pred[:], preds)
	return p
}

func TestPositionRank(t *testing.T) {
	a := withPreds("A", prospect.Guard, "10", "3")
	b := withPreds("B", prospect.Guard, "4", "N/A")
	c := withPreds("C", prospect.Wing, "1", "1")
	d := withPreds("D", prospect.Guard, "7", "2")
	all := prospect.Rows([]*prospect.Prospect{a, b, c, d})

	assert.Equal(t, prospect.RankOf(3), PositionRank(a, all, 1))
	assert.Equal(t, prospect.RankOf(1), PositionRank(b, all, 1))
	assert.Equal(t, prospect.RankOf(1), PositionRank(c, all, 1))
	assert.Equal(t, prospect.RankOf(2), PositionRank(a, all, 2))
	assert.False(t, PositionRank(b, all, 2).Valid)
	assert.False(t, PositionRank(a, all, 3).Valid)
	assert.False(t, PositionRank(a, all, 9).Valid)
}

func TestBuildOnlyComputesWhenExpanded(t *testing.T) {
	a := withPreds("A", prospect.Big, "2", "5", "", "N/A", "1")
	all := prospect.Rows([]*prospect.Prospect{a})

	collapsed := Build(a, prospect.RankOf(4), all, Collapsed)
	assert.Empty(t, collapsed.Years)

	expanded := Build(a, prospect.RankOf(4), all, collapsed.State.Toggle())
	require.Len(t, expanded.Years, prospect.Years)
	assert.Equal(t, "2", expanded.Years[0].Predicted)
	assert.Equal(t, "N/A", expanded.Years[2].Predicted)
	assert.Equal(t, prospect.RankOf(1), expanded.Years[4].Position)
	assert.False(t, expanded.Years[3].Position.Valid)
}

func TestStateToggle(t *testing.T) {
	assert.Equal(t, Expanded, Collapsed.Toggle())
	assert.Equal(t, Collapsed, Expanded.Toggle())
	assert.Equal(t, "expanded", ParseState(true).String())
}
