package biz

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/osusume/osusume-backend/internal/anilist"
	apperrors "github.com/osusume/osusume-backend/internal/pkg/errors"
	"github.com/osusume/osusume-backend/internal/recommend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediaNamed(id int, english, romaji, cover string) anilist.Media {
	return anilist.Media{
		ID:         id,
		Title:      anilist.MediaTitle{English: english, Romaji: romaji},
		Genres:     []string{"Action"},
		CoverImage: anilist.CoverImage{Medium: cover},
	}
}

func TestFormatEmptyCandidates(t *testing.T) {
	called := false
	formatter := NewFormatter(llmFunc(func(ctx context.Context, system, user string) (string, error) {
		called = true
		return "", nil
	}), nil)

	items, err := formatter.Format(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.False(t, called, "no model call for an empty candidate list")
}

func TestFormatReturnsParsedItems(t *testing.T) {
	candidates := []anilist.Media{
		mediaNamed(1, "Attack on Titan", "Shingeki no Kyojin", "https://img.example/aot.png"),
		mediaNamed(2, "", "Mononoke Hime", "https://img.example/mononoke.png"),
	}

	output := `[
		{"title": "Attack on Titan", "description": "Grim military action.", "image_url": "https://img.example/aot.png"},
		{"title": "Mononoke Hime", "description": "A forest epic.", "image_url": "https://img.example/mononoke.png"}
	]`
	formatter := NewFormatter(fixedLLM(output), nil)

	items, err := formatter.Format(context.Background(), "something intense", candidates)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Attack on Titan", items[0].Title)
	assert.Equal(t, "Grim military action.", items[0].Description)
}

func TestFormatCapsAtFive(t *testing.T) {
	var candidates []anilist.Media
	var output []types.RecommendationItem
	for i := 1; i <= 8; i++ {
		title := fmt.Sprintf("Show %d", i)
		candidates = append(candidates, mediaNamed(i, title, "", fmt.Sprintf("https://img.example/%d.png", i)))
		output = append(output, types.RecommendationItem{Title: title, Description: "Fine."})
	}
	encoded, err := json.Marshal(output)
	require.NoError(t, err)

	formatter := NewFormatter(fixedLLM(string(encoded)), nil)

	items, err := formatter.Format(context.Background(), "anything", candidates)
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestFormatFewerCandidatesThanCap(t *testing.T) {
	candidates := []anilist.Media{
		mediaNamed(1, "Only Show", "", "https://img.example/only.png"),
	}
	output := `[{"title": "Only Show", "description": "The only option."}]`
	formatter := NewFormatter(fixedLLM(output), nil)

	items, err := formatter.Format(context.Background(), "anything", candidates)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFormatRestoresImageURLs(t *testing.T) {
	candidates := []anilist.Media{
		mediaNamed(1, "Attack on Titan", "Shingeki no Kyojin", "https://img.example/aot.png"),
	}

	// The model answers with the romaji title and an invented URL; the
	// URL must come back from the catalog record regardless.
	output := `[{"title": "shingeki no kyojin", "description": "Grim.", "image_url": "https://evil.example/x.png"}]`
	formatter := NewFormatter(fixedLLM(output), nil)

	items, err := formatter.Format(context.Background(), "anything", candidates)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://img.example/aot.png", items[0].ImageURL)
}

func TestFormatRejectsInventedTitles(t *testing.T) {
	candidates := []anilist.Media{
		mediaNamed(1, "Attack on Titan", "Shingeki no Kyojin", "https://img.example/aot.png"),
	}

	// A title outside the candidate list means the model made something
	// up; its invented URL must never reach the caller.
	output := `[{"title": "Totally Invented Show", "description": "Sounds great.", "image_url": "https://evil.example/x.png"}]`
	formatter := NewFormatter(fixedLLM(output), nil)

	items, err := formatter.Format(context.Background(), "anything", candidates)
	require.Error(t, err)
	assert.Nil(t, items)
	assert.True(t, apperrors.Is(err, apperrors.ErrMalformedOutput))
}

func TestFormatRejectsShortList(t *testing.T) {
	candidates := []anilist.Media{
		mediaNamed(1, "Show A", "", "https://img.example/a.png"),
		mediaNamed(2, "Show B", "", "https://img.example/b.png"),
		mediaNamed(3, "Show C", "", "https://img.example/c.png"),
	}

	output := `[{"title": "Show A", "description": "Good."}]`
	formatter := NewFormatter(fixedLLM(output), nil)

	items, err := formatter.Format(context.Background(), "anything", candidates)
	require.Error(t, err)
	assert.Nil(t, items)
	assert.True(t, apperrors.Is(err, apperrors.ErrMalformedOutput))
}

func TestFormatMalformedOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"prose instead of JSON", "Here are my picks: Attack on Titan!"},
		{"truncated array", `[{"title": "A", "description":`},
		{"missing title", `[{"description": "No title here."}]`},
		{"missing description", `[{"title": "Attack on Titan"}]`},
	}

	candidates := []anilist.Media{
		mediaNamed(1, "Attack on Titan", "", "https://img.example/aot.png"),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewFormatter(fixedLLM(tt.output), nil)

			items, err := formatter.Format(context.Background(), "anything", candidates)
			require.Error(t, err)
			assert.Nil(t, items)
			assert.True(t, apperrors.Is(err, apperrors.ErrMalformedOutput))
		})
	}
}
