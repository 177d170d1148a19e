package app

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"tawny-metrics/internal/loader"
	"tawny-metrics/internal/prospect"
)

// Dataset locates one family of CSV files.
type Dataset struct {
	// Path is relative to the data root. Yearly datasets carry a {year} placeholder.
	Path        string `yaml:"path"`
	Years       []int  `yaml:"years"`
	DefaultYear int    `yaml:"default_year"`
}

// Yearly reports whether the dataset has one file per draft year.
func (d Dataset) Yearly() bool {
	return strings.Contains(d.Path, loader.YearPlaceholder)
}

// HasYear reports whether year is one of the dataset's files.
func (d Dataset) HasYear(year int) bool {
	return slices.Contains(d.Years, year)
}

// Catalog lists the datasets the site serves.
type Catalog struct {
	Board      Dataset     `yaml:"board"`
	History    Dataset     `yaml:"history"`
	Consensus  Dataset     `yaml:"consensus"`
	PickLimits map[int]int `yaml:"pick_limits"`
}

// Limits exposes the pick-limit overrides to the engine.
func (c *Catalog) Limits() prospect.PickLimits {
	return prospect.PickLimits(c.PickLimits)
}

// DefaultCatalog matches the layout of the bundled data directory.
func DefaultCatalog() *Catalog {
	c := &Catalog{
		Board:     Dataset{Path: "board/Draft Board {year}.csv", Years: []int{2025, 2026}},
		History:   Dataset{Path: "history/NBA Draft History {year}.csv"},
		Consensus: Dataset{Path: "consensus/Consensus Board.csv"},
	}
	for y := 2025; y >= 2016; y-- {
		c.History.Years = append(c.History.Years, y)
	}
	if err := c.validate(); err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog reads a YAML catalog. An empty path returns DefaultCatalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// validate checks paths and fills default years. Years are kept newest first.
func (c *Catalog) validate() error {
	for name, d := range map[string]*Dataset{"board": &c.Board, "history": &c.History, "consensus": &c.Consensus} {
		if d.Path == "" {
			return fmt.Errorf("%s.path is required", name)
		}
		if d.Yearly() && len(d.Years) == 0 {
			return fmt.Errorf("%s.years is required for a yearly path", name)
		}
		if !d.Yearly() && len(d.Years) > 0 {
			return fmt.Errorf("%s.path needs a %s placeholder to serve several years", name, loader.YearPlaceholder)
		}
		slices.Sort(d.Years)
		slices.Reverse(d.Years)
		d.Years = slices.Compact(d.Years)
		if d.DefaultYear == 0 && len(d.Years) > 0 {
			d.DefaultYear = d.Years[0]
		}
		if d.DefaultYear != 0 && !d.HasYear(d.DefaultYear) {
			return fmt.Errorf("%s.default_year %d is not one of its years", name, d.DefaultYear)
		}
	}
	for year, n := range c.PickLimits {
		if n < 1 || n > prospect.DefaultPickLimit {
			return fmt.Errorf("pick_limits[%d] = %d out of range", year, n)
		}
	}
	return nil
}
