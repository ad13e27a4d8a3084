package biz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/osusume/osusume-backend/internal/anilist"
	"github.com/osusume/osusume-backend/internal/llm"
	"github.com/osusume/osusume-backend/internal/pkg/logger"
	"github.com/osusume/osusume-backend/internal/recommend/types"
	"go.uber.org/zap"
)

// CatalogClient is the catalog surface the pipeline depends on,
// satisfied by *anilist.Client and stubbed in tests.
type CatalogClient interface {
	Search(ctx context.Context, params types.SearchParams) ([]anilist.Media, error)
	FindOne(ctx context.Context, title string) (*anilist.Media, error)
}

const tasteSystemPrompt = "You pick the tags that best characterize an anime. " +
	"Answer with JSON only."

// relevantTagCount is how many representative tags one seed contributes.
const relevantTagCount = 3

// TasteExpander derives extra genre/tag filters from a user's
// liked-title seed list. Expansion is best-effort: a seed that fails to
// resolve is skipped and never aborts the request.
type TasteExpander struct {
	catalog CatalogClient
	llm     llm.Client
	logger  *logger.Logger
}

func NewTasteExpander(catalog CatalogClient, client llm.Client, log *logger.Logger) *TasteExpander {
	if log == nil {
		log = logger.L()
	}
	return &TasteExpander{
		catalog: catalog,
		llm:     client,
		logger:  log.Named("taste"),
	}
}

// Expand resolves every seed title to its top catalog hit, asks the
// model for that hit's most representative tags, and unions the
// resulting genres/tags into the filter sets. Returns the (possibly
// unchanged) params.
func (t *TasteExpander) Expand(ctx context.Context, params types.SearchParams) types.SearchParams {
	seeds := params.Seeds()
	if len(seeds) == 0 {
		return params
	}

	var genres []string
	var tags []string

	for _, seed := range seeds {
		hit, err := t.catalog.FindOne(ctx, seed)
		if err != nil {
			t.logger.Debug("seed lookup failed, skipping",
				zap.String("seed", seed),
				zap.Error(err))
			continue
		}
		if hit == nil {
			t.logger.Debug("seed has no catalog hit, skipping",
				zap.String("seed", seed))
			continue
		}

		g, tg := t.classify(ctx, hit)
		genres = append(genres, g...)
		tags = append(tags, tg...)
	}

	if len(genres) == 0 && len(tags) == 0 {
		return params
	}

	params.MergeTasteProfile(genres, tags)

	t.logger.Info("taste profile merged",
		zap.Int("seeds", len(seeds)),
		zap.Strings("genres", params.Genres),
		zap.Strings("tags", params.Tags))

	return params
}

// classify picks the representative genres and tags for one resolved
// seed: the hit's leading genre plus the model's choice of its most
// characteristic tags. Falls back to the hit's leading tag when the
// model output is unusable.
func (t *TasteExpander) classify(ctx context.Context, hit *anilist.Media) ([]string, []string) {
	var genres []string
	if len(hit.Genres) > 0 {
		genres = hit.Genres[:1]
	}

	tagNames := hit.TagNames()
	if len(tagNames) == 0 {
		return genres, nil
	}

	prompt := fmt.Sprintf(
		"Return ONLY a JSON array of the %d most relevant tags for the anime %q with the genres [%s] and the tags [%s].",
		relevantTagCount,
		hit.DisplayTitle(),
		strings.Join(hit.Genres, ", "),
		strings.Join(tagNames, ", "),
	)

	raw, err := t.llm.Complete(ctx, tasteSystemPrompt, prompt)
	if err != nil {
		t.logger.Debug("tag classification failed, using leading tag",
			zap.String("title", hit.DisplayTitle()),
			zap.Error(err))
		return genres, tagNames[:1]
	}

	picked, err := parseTagArray(raw)
	if err != nil {
		t.logger.Debug("tag classification unparseable, using leading tag",
			zap.String("title", hit.DisplayTitle()),
			zap.Error(err))
		return genres, tagNames[:1]
	}

	// Each seed contributes a fixed number of tags no matter how
	// talkative the model is.
	if len(picked) > relevantTagCount {
		picked = picked[:relevantTagCount]
	}

	return genres, picked
}

func parseTagArray(raw string) ([]string, error) {
	text := firstJSONValue(raw)
	if text == "" {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	var tags []string
	if err := json.Unmarshal([]byte(text), &tags); err != nil {
		return nil, fmt.Errorf("decode tag array: %w", err)
	}

	out := tags[:0]
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty tag array")
	}
	return out, nil
}
