package biz

import (
	"context"
	"errors"

	"github.com/osusume/osusume-backend/internal/anilist"
	"github.com/osusume/osusume-backend/internal/pkg/logger"
	"github.com/osusume/osusume-backend/internal/recommend/types"
	"go.uber.org/zap"
)

// Pipeline runs the three stages strictly in sequence: extract filters,
// search the catalog, format recommendations. A Pipeline is constructed
// once and reused across independent requests; it holds no per-request
// state, so concurrent non-overlapping requests are safe.
type Pipeline struct {
	extractor *FilterExtractor
	expander  *TasteExpander
	catalog   CatalogClient
	formatter *Formatter
	logger    *logger.Logger
}

func NewPipeline(
	extractor *FilterExtractor,
	expander *TasteExpander,
	catalog CatalogClient,
	formatter *Formatter,
	log *logger.Logger,
) *Pipeline {
	if log == nil {
		log = logger.L()
	}
	return &Pipeline{
		extractor: extractor,
		expander:  expander,
		catalog:   catalog,
		formatter: formatter,
		logger:    log.Named("pipeline"),
	}
}

// GetRecommendations is the sole externally consumed surface of the
// pipeline. Failure policy per stage:
//   - extraction schema violations fall back to empty filters
//     (popular results), never abort;
//   - catalog unavailability degrades to an empty candidate list at
//     this boundary, so the result is an empty recommendation list
//     rather than a crash (the client itself always reports);
//   - malformed final output is fatal to the request.
//
// There is no automatic broader fallback query on empty results: one
// search pass, and zero candidates is a valid, reportable outcome.
func (p *Pipeline) GetRecommendations(ctx context.Context, request string) ([]types.RecommendationItem, error) {
	log := p.logger.WithContext(ctx)

	params, err := p.extractor.Extract(ctx, request)
	if err != nil {
		log.Warn("filter extraction failed, using empty filters", zap.Error(err))
		params = types.SearchParams{}
	}

	if params.LikeAnimes != "" {
		params = p.expander.Expand(ctx, params)
	}

	candidates, err := p.catalog.Search(ctx, params)
	if err != nil {
		if errors.Is(err, anilist.ErrUnavailable) {
			log.Error("catalog search unavailable, reporting no recommendations", zap.Error(err))
			candidates = nil
		} else {
			return nil, err
		}
	}

	log.Info("pipeline search completed",
		zap.Int("candidates", len(candidates)),
		zap.Strings("genres", params.Genres),
		zap.Strings("tags", params.Tags))

	return p.formatter.Format(ctx, request, candidates)
}
