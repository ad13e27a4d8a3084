package anilist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/osusume/osusume-backend/internal/recommend/types"
)

// searchQuery is the one fixed query document every search uses.
const searchQuery = `
query (
  $search: String, $season: MediaSeason, $seasonYear: Int,
  $genre: String, $genres: [String], $tags: [String],
  $page: Int, $perPage: Int, $sort: [MediaSort]
) {
  Page(page: $page, perPage: $perPage) {
    media(
      search: $search, type: ANIME, season: $season,
      seasonYear: $seasonYear, genre: $genre, genre_in: $genres,
      tag_in: $tags, sort: $sort
    ) {
      id
      title { romaji english }
      genres
      tags { id name rank isMediaSpoiler }
      averageScore
      episodes
      format
      status
      seasonYear
      coverImage { medium }
    }
  }
}`

// singleQuery resolves one title to its best catalog match.
const singleQuery = `
query ($search: String) {
  Media(search: $search, type: ANIME) {
    id
    title { romaji english }
    genres
    tags { id name rank isMediaSpoiler }
    averageScore
    episodes
    format
    status
    seasonYear
    coverImage { medium }
  }
}`

const (
	defaultPage    = 1
	defaultPerPage = 20
)

type pageEnvelope struct {
	Data struct {
		Page struct {
			Media []Media `json:"media"`
		} `json:"Page"`
	} `json:"data"`
}

type mediaEnvelope struct {
	Data struct {
		Media *Media `json:"Media"`
	} `json:"data"`
}

// Search executes exactly one catalog round trip with the given
// filters and returns the matching records unfiltered. Params are
// mapped 1:1 onto the upstream filter fields; absent filters are
// omitted from the variables object entirely.
func (c *Client) Search(ctx context.Context, params types.SearchParams) ([]Media, error) {
	body, err := c.do(ctx, searchQuery, buildVariables(params))
	if err != nil {
		return nil, err
	}

	var envelope pageEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &APIError{Kind: FailurePayload, Detail: fmt.Sprintf("undecodable response: %v", err)}
	}

	return envelope.Data.Page.Media, nil
}

// FindOne resolves a single title to its top catalog hit, or nil when
// the catalog has no match.
func (c *Client) FindOne(ctx context.Context, title string) (*Media, error) {
	body, err := c.do(ctx, singleQuery, map[string]interface{}{"search": title})
	if err != nil {
		return nil, err
	}

	var envelope mediaEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &APIError{Kind: FailurePayload, Detail: fmt.Sprintf("undecodable response: %v", err)}
	}

	return envelope.Data.Media, nil
}

// buildVariables maps SearchParams onto the upstream variables object,
// including only the filters that are actually set.
func buildVariables(params types.SearchParams) map[string]interface{} {
	variables := map[string]interface{}{
		"page":    defaultPage,
		"perPage": defaultPerPage,
		"sort":    []string{types.DefaultSort},
	}

	if params.Page > 0 {
		variables["page"] = params.Page
	}
	if params.PerPage > 0 {
		variables["perPage"] = params.PerPage
	}
	if len(params.Sort) > 0 {
		variables["sort"] = types.NormalizeSortList(params.Sort)
	}
	if params.SearchTerm != "" {
		variables["search"] = params.SearchTerm
	}
	if params.Season != "" {
		variables["season"] = params.Season
	}
	if params.Year > 0 {
		variables["seasonYear"] = params.Year
	}
	if params.Genre != "" {
		variables["genre"] = params.Genre
	}
	if len(params.Genres) > 0 {
		variables["genres"] = params.Genres
	}
	if len(params.Tags) > 0 {
		variables["tags"] = params.Tags
	}

	return variables
}
