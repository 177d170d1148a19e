// Package chart reshapes prospect rows into year-keyed series for the trend chart.
package chart

import (
	"strconv"
	"strings"

	"tawny-metrics/internal/prospect"
)

// Stroke styling for the focused and background series.
const (
	FocusWidth      = 3
	FocusOpacity    = 1.0
	FocusFallback   = "#e07a1f"
	BackgroundWidth = 1
	// BackgroundOpacity keeps context lines faint behind the focused series.
	BackgroundOpacity = 0.15
	BackgroundColor   = "#9ca3af"
)

// Point holds every series' predicted rank for one projection year.
type Point struct {
	Year   int                `json:"year"`
	Label  string             `json:"label"`
	Values map[string]float64 `json:"values"`
}

// Series describes how one prospect's line is drawn.
type Series struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	StrokeWidth int     `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
	Focused     bool    `json:"focused"`
}

// Chart is the payload handed to the client-side line chart.
type Chart struct {
	Points []Point  `json:"points"`
	Series []Series `json:"series"`
}

// Build produces one point per projection year and one series per row. The row whose
// key equals focus is highlighted; pass "" for no focus.
func Build(rows []prospect.Row, focus string) Chart {
	c := Chart{
		Points: make([]Point, 0, prospect.Years),
		Series: make([]Series, 0, len(rows)),
	}
	for year := 1; year <= prospect.Years; year++ {
		f, _ := prospect.PredField(year)
		p := Point{Year: year, Label: "Y" + strconv.Itoa(year), Values: make(map[string]float64, len(rows))}
		for _, r := range rows {
			if v, ok := prospect.Number(r.Get(f)); ok {
				p.Values[r.Key()] = v
			}
		}
		c.Points = append(c.Points, p)
	}

	for _, r := range rows {
		s := Series{
			Key:         r.Key(),
			Name:        r.Get(prospect.Name),
			Color:       BackgroundColor,
			StrokeWidth: BackgroundWidth,
			Opacity:     BackgroundOpacity,
		}
		if focus != "" && r.Key() == focus {
			s.Focused = true
			s.Color = focusColor(r.Get(prospect.Color))
			s.StrokeWidth = FocusWidth
			s.Opacity = FocusOpacity
		}
		c.Series = append(c.Series, s)
	}
	return c
}

func focusColor(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || prospect.Missing(raw) {
		return FocusFallback
	}
	if !strings.HasPrefix(raw, "#") && isHex(raw) {
		return "#" + raw
	}
	return raw
}

func isHex(s string) bool {
	if len(s) != 3 && len(s) != 6 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
