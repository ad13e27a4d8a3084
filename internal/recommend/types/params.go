package types

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SearchParams is the structured filter object produced by the filter
// extractor and consumed by the catalog client. Every field is optional;
// the zero value means "no filter, show popular results". JSON
// serialization omits absent keys.
type SearchParams struct {
	SearchTerm string   `json:"search_term,omitempty" validate:"omitempty,min=1"`
	Season     string   `json:"season,omitempty" validate:"omitempty,oneof=WINTER SPRING SUMMER FALL"`
	Year       int      `json:"year,omitempty" validate:"omitempty,gte=1960,lte=2100"`
	Genre      string   `json:"genre,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Sort       []string `json:"sort,omitempty"`
	Page       int      `json:"page,omitempty" validate:"omitempty,gte=1"`
	PerPage    int      `json:"per_page,omitempty" validate:"omitempty,gte=1,lte=50"`
	LikeAnimes string   `json:"like_animes,omitempty"`
}

var validate = validator.New()

// Validate checks range constraints (year, page, per_page, season enum).
func (p *SearchParams) Validate() error {
	return validate.Struct(p)
}

// Normalize trims blank values, case-normalizes the season and sort
// tokens, and enforces the genre vocabulary: any genres entry outside
// OfficialGenres is re-routed to tags in title case. Unrecognized sort
// hints collapse to the default popularity ordering.
func (p *SearchParams) Normalize() {
	p.SearchTerm = strings.TrimSpace(p.SearchTerm)
	p.LikeAnimes = strings.TrimSpace(p.LikeAnimes)

	if p.Season != "" {
		p.Season = NormalizeSeason(p.Season)
	}

	if len(p.Sort) > 0 {
		p.Sort = NormalizeSortList(p.Sort)
	}

	var genres []string
	var tags []string

	route := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" {
			return
		}
		if canonical, ok := CanonicalGenre(term); ok {
			genres = append(genres, canonical)
		} else {
			tags = append(tags, TitleCase(term))
		}
	}

	if p.Genre != "" {
		if canonical, ok := CanonicalGenre(p.Genre); ok {
			p.Genre = canonical
		} else {
			route(p.Genre)
			p.Genre = ""
		}
	}
	for _, g := range p.Genres {
		route(g)
	}
	for _, t := range p.Tags {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, TitleCase(t))
		}
	}

	p.Genres = dedupe(genres)
	p.Tags = dedupe(tags)
}

// Seeds splits the comma-separated like_animes list into clean titles.
func (p *SearchParams) Seeds() []string {
	if p.LikeAnimes == "" {
		return nil
	}
	var seeds []string
	for _, raw := range strings.Split(p.LikeAnimes, ",") {
		if title := strings.TrimSpace(raw); title != "" {
			seeds = append(seeds, title)
		}
	}
	return seeds
}

// MergeTasteProfile unions extra genres and tags derived from seed
// titles into the existing filter sets. Duplicates collapse; the result
// is sorted so repeated requests build identical queries.
func (p *SearchParams) MergeTasteProfile(genres, tags []string) {
	if len(genres) > 0 {
		merged := dedupe(append(append([]string{}, p.Genres...), genres...))
		sort.Strings(merged)
		p.Genres = merged
	}
	if len(tags) > 0 {
		merged := dedupe(append(append([]string{}, p.Tags...), tags...))
		sort.Strings(merged)
		p.Tags = merged
	}
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
