// Package loader fetches CSV datasets and keeps decoded copies in a cache.
//
// Loads never fail outward: a missing or malformed file becomes an empty dataset and a
// warning in the log.
package loader

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"tawny-metrics/internal/prospect"
)

// YearPlaceholder is substituted with the draft year in span path templates.
const YearPlaceholder = "{year}"

// Loader fetches and parses datasets from a Source.
type Loader struct {
	source Source
}

func New(source Source) *Loader {
	return &Loader{source: source}
}

// Load fetches and parses one file, degrading to an empty slice on any failure.
func (l *Loader) Load(ctx context.Context, path string) []prospect.Record {
	records, err := l.load(ctx, path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Dataset unavailable, using empty result")
		return []prospect.Record{}
	}
	log.Debug().Str("path", path).Int("rows", len(records)).Msg("Loaded dataset")
	return records
}

func (l *Loader) load(ctx context.Context, path string) ([]prospect.Record, error) {
	data, err := l.source.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// YearPath fills the year placeholder of a path template.
func YearPath(template string, year int) string {
	return strings.ReplaceAll(template, YearPlaceholder, strconv.Itoa(year))
}

// LoadSpan fetches one file per year, in order, tagging every record with its draft
// year. Years that fail to load are skipped.
func (l *Loader) LoadSpan(ctx context.Context, template string, years []int) []prospect.Record {
	out := []prospect.Record{}
	for _, year := range years {
		if ctx.Err() != nil {
			log.Warn().Err(ctx.Err()).Int("year", year).Msg("Span load interrupted")
			break
		}
		path := YearPath(template, year)
		records, err := l.load(ctx, path)
		if err != nil {
			log.Warn().Err(err).Int("year", year).Str("path", path).Msg("Skipping draft year")
			continue
		}
		tag := strconv.Itoa(year)
		for _, r := range records {
			r[string(prospect.DraftYear)] = tag
		}
		out = append(out, records...)
	}
	return out
}
