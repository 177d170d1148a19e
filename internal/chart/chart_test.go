package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tawny-metrics/internal/prospect"
)

func TestBuild(t *testing.T) {
	a := &prospect.Prospect{Name: "A", Color: "1d428a", Pred: [5]string{"3", "2", "N/A", "", "1"}}
	b := &prospect.Prospect{Name: "B", Pred: [5]string{"1", "4", "6", "x", "9"}}

	c := Build(prospect.Rows([]*prospect.Prospect{a, b}), "A")

	require.Len(t, c.Points, prospect.Years)
	assert.Equal(t, "Y1", c.Points[0].Label)
	assert.Equal(t, map[string]float64{"A": 3, "B": 1}, c.Points[0].Values)
	assert.Equal(t, map[string]float64{"B": 6}, c.Points[2].Values)
	assert.Empty(t, c.Points[3].Values)

	require.Len(t, c.Series, 2)
	assert.True(t, c.Series[0].Focused)
	assert.Equal(t, "#1d428a", c.Series[0].Color)
	assert.Equal(t, FocusWidth, c.Series[0].StrokeWidth)
	assert.False(t, c.Series[1].Focused)
	assert.Equal(t, BackgroundColor, c.Series[1].Color)
	assert.Equal(t, BackgroundOpacity, c.Series[1].Opacity)
}

func TestBuildWithoutFocus(t *testing.T) {
	a := &prospect.Prospect{Name: "A"}
	c := Build(prospect.Rows([]*prospect.Prospect{a}), "")
	assert.False(t, c.Series[0].Focused)
}

func TestFocusColor(t *testing.T) {
	assert.Equal(t, FocusFallback, focusColor(""))
	assert.Equal(t, FocusFallback, focusColor("N/A"))
	assert.Equal(t, "#fff", focusColor("fff"))
	assert.Equal(t, "rebeccapurple", focusColor("rebeccapurple"))
}
