// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package features

import (
	"fmt"
	"strings"

	"github.com/tomtom215/movierec/internal/dataset"
)

// Column names read and written by the composer.
const (
	ColumnTitle       = "title"
	ColumnOverview    = "overview"
	ColumnKeywords    = "keywords"
	ColumnGenres      = "genres"
	ColumnCompanies   = "production_companies"
	ColumnLanguage    = "original_language"
	ColumnDescription = "concat_description"
)

// DefaultGenreWeight is how many times the genre list is appended.
const DefaultGenreWeight = 3

// DefaultDropColumns are vote, financial and identifier columns that carry
// no content signal. Every one must be present in the raw dataset.
var DefaultDropColumns = []string{
	"positive_users", "positive_count", "negative_users", "negative_count",
	"vote_average", "vote_count", "status", "release_date", "revenue",
	"runtime", "budget", "poster_path", "movieId", "imdbId", "tmdb_id",
	"imdb_id", "adult", "tmdbId",
}

// Composer builds one description per movie from its raw metadata fields.
type Composer struct {
	// GenreWeight is the number of times the genre list is repeated at the
	// end of the description. Zero disables weighting.
	GenreWeight int

	// IncludeKeywords adds the keywords column after the overview.
	IncludeKeywords bool

	// ExpandLanguage replaces ISO 639-1 codes with English language names.
	ExpandLanguage bool

	// DropColumns are removed before composition. Nil means none.
	DropColumns []string
}

// NewComposer returns a Composer with the reference defaults.
func NewComposer() *Composer {
	return &Composer{
		GenreWeight:     DefaultGenreWeight,
		IncludeKeywords: true,
		DropColumns:     append([]string(nil), DefaultDropColumns...),
	}
}

// Row holds the raw fields of one movie.
type Row struct {
	Overview  string
	Keywords  string
	Genres    string
	Companies string
	Language  string
}

// Compose returns the weighted description for one movie. Genres and
// companies are cleaned here, so raw cell values can be passed in.
func (c *Composer) Compose(row Row) string {
	genres := CleanGenres(row.Genres)
	language := row.Language
	if c.ExpandLanguage {
		language = LanguageName(language)
	}

	var b strings.Builder
	b.WriteString(row.Overview)
	b.WriteByte(' ')
	if c.IncludeKeywords {
		b.WriteString(row.Keywords)
		b.WriteByte(' ')
	}
	b.WriteString(genres)
	b.WriteByte(' ')
	b.WriteString(CleanCompanies(row.Companies))
	b.WriteByte(' ')
	b.WriteString(language)
	b.WriteByte(' ')

	b.WriteByte(' ')
	b.WriteString(WeightGenres(genres, c.GenreWeight))
	return b.String()
}

// sourceColumns returns the columns Compose reads, which Transform removes.
func (c *Composer) sourceColumns() []string {
	cols := []string{ColumnOverview, ColumnGenres, ColumnCompanies, ColumnLanguage}
	if c.IncludeKeywords {
		cols = append(cols, ColumnKeywords)
	}
	return cols
}

// Transform drops the hygiene columns, composes a description per row into
// concat_description and removes the source columns. The input table is
// modified in place and returned. Missing columns yield a
// *dataset.SchemaError naming every one of them.
func (c *Composer) Transform(t *dataset.Table) (*dataset.Table, error) {
	if len(c.DropColumns) > 0 {
		if err := t.DropColumns(c.DropColumns...); err != nil {
			return nil, fmt.Errorf("drop columns: %w", err)
		}
	}

	sources := c.sourceColumns()
	if err := t.Require(sources...); err != nil {
		return nil, fmt.Errorf("compose description: %w", err)
	}

	descriptions := make([]string, t.Len())
	for i := range descriptions {
		descriptions[i] = c.Compose(Row{
			Overview:  t.Value(i, ColumnOverview),
			Keywords:  t.Value(i, ColumnKeywords),
			Genres:    t.Value(i, ColumnGenres),
			Companies: t.Value(i, ColumnCompanies),
			Language:  t.Value(i, ColumnLanguage),
		})
	}
	if err := t.SetColumn(ColumnDescription, descriptions); err != nil {
		return nil, err
	}
	if err := t.DropColumns(sources...); err != nil {
		return nil, err
	}
	return t, nil
}

// CleanCompanies removes spaces inside every company name so multi-word
// names become single tokens: "Marvel Studios, Walt Disney" becomes
// "MarvelStudios, WaltDisney".
func CleanCompanies(raw string) string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, " ", "")
	}
	return strings.Join(parts, ", ")
}

// WeightGenres repeats the comma-separated genre list weight times, joined
// by spaces: ("Action, Drama", 2) gives "Action Drama Action Drama".
func WeightGenres(genres string, weight int) string {
	if weight <= 0 {
		return ""
	}
	parts := strings.Split(genres, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	repeated := make([]string, 0, len(parts)*weight)
	for range weight {
		repeated = append(repeated, parts...)
	}
	return strings.Join(repeated, " ")
}
