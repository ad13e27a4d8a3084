package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchParamsJSONOmitsAbsentKeys(t *testing.T) {
	params := SearchParams{
		Genres: []string{"Fantasy"},
		Tags:   []string{"Dark"},
		Year:   2020,
	}

	encoded, err := json.Marshal(&params)
	require.NoError(t, err)

	var keys map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &keys))

	assert.Equal(t, 3, len(keys))
	assert.Contains(t, keys, "genres")
	assert.Contains(t, keys, "tags")
	assert.Contains(t, keys, "year")
	assert.NotContains(t, keys, "search_term")
	assert.NotContains(t, keys, "season")
	assert.NotContains(t, keys, "per_page")
}

func TestSearchParamsEmptyIsValid(t *testing.T) {
	params := SearchParams{}
	assert.NoError(t, params.Validate())

	encoded, err := json.Marshal(&params)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(encoded))
}

func TestSearchParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  SearchParams
		wantErr bool
	}{
		{
			name:   "all filters set",
			params: SearchParams{Season: "WINTER", Year: 2024, Page: 1, PerPage: 20},
		},
		{
			name:    "per_page too large",
			params:  SearchParams{PerPage: 51},
			wantErr: true,
		},
		{
			name:    "per_page negative",
			params:  SearchParams{PerPage: -1},
			wantErr: true,
		},
		{
			name:   "per_page upper bound",
			params: SearchParams{PerPage: 50},
		},
		{
			name:    "year before catalog epoch",
			params:  SearchParams{Year: 1959},
			wantErr: true,
		},
		{
			name:    "year too far out",
			params:  SearchParams{Year: 2101},
			wantErr: true,
		},
		{
			name:   "year bounds",
			params: SearchParams{Year: 1960},
		},
		{
			name:    "unknown season",
			params:  SearchParams{Season: "MONSOON"},
			wantErr: true,
		},
		{
			name:    "page zero is absent, negative fails",
			params:  SearchParams{Page: -2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeRoutesNonVocabularyTermsToTags(t *testing.T) {
	params := SearchParams{
		Genres: []string{"Fantasy", "isekai", "School Life", "comedy"},
		Tags:   []string{"dark"},
	}
	params.Normalize()

	assert.Equal(t, []string{"Fantasy", "Comedy"}, params.Genres)
	assert.Equal(t, []string{"Isekai", "School Life", "Dark"}, params.Tags)
}

func TestNormalizeSingleGenreField(t *testing.T) {
	params := SearchParams{Genre: "sci-fi"}
	params.Normalize()
	assert.Equal(t, "Sci-Fi", params.Genre)

	params = SearchParams{Genre: "Wholesome"}
	params.Normalize()
	assert.Empty(t, params.Genre)
	assert.Equal(t, []string{"Wholesome"}, params.Tags)
}

func TestNormalizeSeasonAndSort(t *testing.T) {
	params := SearchParams{
		Season: "fall",
		Sort:   []string{"rating", "newest", "nonsense", "rating"},
	}
	params.Normalize()

	assert.Equal(t, "FALL", params.Season)
	assert.Equal(t, []string{"SCORE_DESC", "START_DATE_DESC", "POPULARITY_DESC"}, params.Sort)
}

func TestNormalizeDropsBlankValues(t *testing.T) {
	params := SearchParams{
		SearchTerm: "  ",
		Genres:     []string{" ", "Fantasy"},
		Tags:       []string{"", "Dark"},
	}
	params.Normalize()

	assert.Empty(t, params.SearchTerm)
	assert.Equal(t, []string{"Fantasy"}, params.Genres)
	assert.Equal(t, []string{"Dark"}, params.Tags)
}

func TestSeeds(t *testing.T) {
	params := SearchParams{LikeAnimes: "Akira, Ghost in the Shell , ,Monster"}
	assert.Equal(t, []string{"Akira", "Ghost in the Shell", "Monster"}, params.Seeds())

	empty := SearchParams{}
	assert.Nil(t, empty.Seeds())
}

func TestMergeTasteProfile(t *testing.T) {
	params := SearchParams{
		Genres: []string{"Fantasy"},
		Tags:   []string{"Dark"},
	}
	params.MergeTasteProfile(
		[]string{"Action", "Fantasy"},
		[]string{"Cyberpunk", "Dark"},
	)

	// Set union: duplicates collapse, result is sorted.
	assert.Equal(t, []string{"Action", "Fantasy"}, params.Genres)
	assert.Equal(t, []string{"Cyberpunk", "Dark"}, params.Tags)
}

func TestMergeTasteProfileNoInput(t *testing.T) {
	params := SearchParams{Genres: []string{"Fantasy"}}
	params.MergeTasteProfile(nil, nil)
	assert.Equal(t, []string{"Fantasy"}, params.Genres)
	assert.Nil(t, params.Tags)
}
