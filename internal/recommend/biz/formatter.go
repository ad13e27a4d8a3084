package biz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/osusume/osusume-backend/internal/anilist"
	"github.com/osusume/osusume-backend/internal/llm"
	apperrors "github.com/osusume/osusume-backend/internal/pkg/errors"
	"github.com/osusume/osusume-backend/internal/pkg/logger"
	"github.com/osusume/osusume-backend/internal/recommend/types"
	"go.uber.org/zap"
)

// maxRecommendations caps the recommendation list at five entries.
const maxRecommendations = 5

const formatterSystemPrompt = "You are a seasoned anime critic. " +
	"You justify every recommendation with the work's own genres and tags, in one sentence. " +
	"Answer with JSON only."

// candidate is the compact view of a catalog record handed to the model.
type candidate struct {
	Title        string   `json:"title"`
	Genres       []string `json:"genres"`
	Tags         []string `json:"tags"`
	AverageScore int      `json:"average_score,omitempty"`
	SeasonYear   int      `json:"season_year,omitempty"`
	ImageURL     string   `json:"image_url"`
}

// Formatter turns the raw candidate list into the final recommendation
// document via one model call. Malformed model output is fatal to the
// request; an empty candidate list is a valid, empty result.
type Formatter struct {
	llm    llm.Client
	logger *logger.Logger
}

func NewFormatter(client llm.Client, log *logger.Logger) *Formatter {
	if log == nil {
		log = logger.L()
	}
	return &Formatter{
		llm:    client,
		logger: log.Named("formatter"),
	}
}

// Format produces exactly min(5, available) recommendation entries.
// Titles prefer the English variant; every entry must name one of the
// candidates, and image URLs are copied verbatim from the matching
// record after parsing, so the model cannot invent titles or corrupt
// URLs.
func (f *Formatter) Format(ctx context.Context, request string, candidates []anilist.Media) ([]types.RecommendationItem, error) {
	if len(candidates) == 0 {
		return []types.RecommendationItem{}, nil
	}

	limit := maxRecommendations
	if len(candidates) < limit {
		limit = len(candidates)
	}

	prompt, err := f.buildPrompt(request, candidates, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrMalformedOutput)
	}

	raw, err := f.llm.Complete(ctx, formatterSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	items, err := parseRecommendations(raw)
	if err != nil {
		f.logger.Error("recommendation output malformed",
			zap.Error(err),
			zap.String("output", truncateForLog(raw)))
		return nil, apperrors.Wrap(err, apperrors.ErrMalformedOutput)
	}

	if len(items) > limit {
		items = items[:limit]
	}
	if len(items) < limit {
		err := fmt.Errorf("expected %d recommendations, got %d", limit, len(items))
		f.logger.Error("recommendation output incomplete",
			zap.Error(err),
			zap.String("output", truncateForLog(raw)))
		return nil, apperrors.Wrap(err, apperrors.ErrMalformedOutput)
	}

	if err := f.bindCandidates(items, candidates); err != nil {
		f.logger.Error("recommendation output names unknown title",
			zap.Error(err),
			zap.String("output", truncateForLog(raw)))
		return nil, apperrors.Wrap(err, apperrors.ErrMalformedOutput)
	}

	return items, nil
}

func (f *Formatter) buildPrompt(request string, candidates []anilist.Media, limit int) (string, error) {
	views := make([]candidate, len(candidates))
	for i := range candidates {
		m := &candidates[i]
		views[i] = candidate{
			Title:        m.DisplayTitle(),
			Genres:       m.Genres,
			Tags:         m.TagNames(),
			AverageScore: m.AverageScore,
			SeasonYear:   m.SeasonYear,
			ImageURL:     m.CoverImage.Medium,
		}
	}

	encoded, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode candidates: %w", err)
	}

	var b strings.Builder
	b.WriteString("USER_REQUEST:\n")
	b.WriteString(request)
	b.WriteString("\n\nCANDIDATES:\n")
	b.Write(encoded)
	b.WriteString(fmt.Sprintf("\n\nPick the %d candidates that best match the request.\n", limit))
	b.WriteString("Output a JSON array of exactly that many objects, each with keys ")
	b.WriteString(`"title", "description" (one sentence grounded in the candidate's genres and tags) and "image_url" (copied unchanged).` + "\n")
	b.WriteString("No prose outside the JSON array.")
	return b.String(), nil
}

// parseRecommendations decodes the model's document with strict JSON
// parsing and rejects structurally incomplete entries rather than
// returning a partially-parsed list.
func parseRecommendations(raw string) ([]types.RecommendationItem, error) {
	text := firstJSONValue(raw)
	if text == "" {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	var items []types.RecommendationItem
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}

	for i, item := range items {
		if strings.TrimSpace(item.Title) == "" {
			return nil, fmt.Errorf("recommendation %d has no title", i)
		}
		if strings.TrimSpace(item.Description) == "" {
			return nil, fmt.Errorf("recommendation %d has no description", i)
		}
	}

	return items, nil
}

// bindCandidates maps each item back to its catalog record by title
// (English or romaji, case-insensitive) and replaces the image URL with
// the record's own. An item naming a title outside the candidate list
// is malformed output: the model may only recommend candidates it was
// given, and its image URLs are never trusted.
func (f *Formatter) bindCandidates(items []types.RecommendationItem, candidates []anilist.Media) error {
	byTitle := make(map[string]string, len(candidates)*2)
	for i := range candidates {
		m := &candidates[i]
		if m.Title.English != "" {
			byTitle[strings.ToLower(m.Title.English)] = m.CoverImage.Medium
		}
		if m.Title.Romaji != "" {
			byTitle[strings.ToLower(m.Title.Romaji)] = m.CoverImage.Medium
		}
	}

	for i := range items {
		url, ok := byTitle[strings.ToLower(items[i].Title)]
		if !ok {
			return fmt.Errorf("recommendation %d names %q, which is not a candidate", i, items[i].Title)
		}
		items[i].ImageURL = url
	}

	return nil
}
