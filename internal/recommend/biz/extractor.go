package biz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/osusume/osusume-backend/internal/llm"
	apperrors "github.com/osusume/osusume-backend/internal/pkg/errors"
	"github.com/osusume/osusume-backend/internal/pkg/logger"
	"github.com/osusume/osusume-backend/internal/recommend/types"
	"go.uber.org/zap"
)

const extractorSystemPrompt = "You are an anime librarian who knows the difference between genres and tags. " +
	"Return only the filters present in the user's request, as minimal JSON."

// FilterExtractor turns a free-text request into SearchParams via one
// model call constrained by the genre vocabulary. Extraction failures
// are non-fatal: the caller falls back to an empty filter set.
type FilterExtractor struct {
	llm    llm.Client
	logger *logger.Logger
}

func NewFilterExtractor(client llm.Client, log *logger.Logger) *FilterExtractor {
	if log == nil {
		log = logger.L()
	}
	return &FilterExtractor{
		llm:    client,
		logger: log.Named("extractor"),
	}
}

// Extract maps a user request to structured search filters. The model
// output is parsed strictly as JSON, never evaluated; anything that
// does not validate against the schema yields an extraction error and
// zero-value params.
func (e *FilterExtractor) Extract(ctx context.Context, request string) (types.SearchParams, error) {
	prompt := e.buildPrompt(request)

	raw, err := e.llm.Complete(ctx, extractorSystemPrompt, prompt)
	if err != nil {
		return types.SearchParams{}, apperrors.Wrap(err, apperrors.ErrExtractionFailed)
	}

	params, err := parseParams(raw)
	if err != nil {
		e.logger.Warn("extraction produced invalid filters",
			zap.Error(err),
			zap.String("output", truncateForLog(raw)))
		return types.SearchParams{}, apperrors.Wrap(err, apperrors.ErrExtractionFailed)
	}

	e.logger.Debug("filters extracted",
		zap.Strings("genres", params.Genres),
		zap.Strings("tags", params.Tags),
		zap.String("search_term", params.SearchTerm))

	return params, nil
}

func (e *FilterExtractor) buildPrompt(request string) string {
	var b strings.Builder
	b.WriteString("USER_REQUEST:\n")
	b.WriteString(request)
	b.WriteString("\n\nProduce one JSON object with any of these keys: ")
	b.WriteString(`search_term, season ("WINTER"|"SPRING"|"SUMMER"|"FALL"), year, genres, tags, sort, page, per_page, like_animes.` + "\n")
	b.WriteString("Rules:\n")
	b.WriteString(fmt.Sprintf("- Only items in this list may appear in genres: %s.\n", strings.Join(types.OfficialGenres, ", ")))
	b.WriteString("- Any other descriptive phrase (moods, sub-genres like 'School Life', adjectives like 'Wholesome') must go into tags.\n")
	b.WriteString("- Title-case every word (e.g. 'school-life' -> 'School Life').\n")
	b.WriteString("- If the user names anime they liked, put the titles comma-separated into like_animes.\n")
	b.WriteString("- Do not include genres unless they are specified in the request.\n")
	b.WriteString("- Omit every key whose value would be null.\n\n")
	b.WriteString("Example:\n")
	b.WriteString("USER_REQUEST: Recommend a dark fantasy from 2020.\n")
	b.WriteString(`OUTPUT: {"genres": ["Fantasy"], "tags": ["Dark"], "year": 2020}`)
	return b.String()
}

// parseParams decodes model output into SearchParams with strict JSON
// parsing, then normalizes and validates the result.
func parseParams(raw string) (types.SearchParams, error) {
	text := firstJSONValue(raw)
	if text == "" {
		return types.SearchParams{}, fmt.Errorf("no JSON object in model output")
	}

	var params types.SearchParams
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		return types.SearchParams{}, fmt.Errorf("decode filters: %w", err)
	}

	params.Normalize()
	if err := params.Validate(); err != nil {
		return types.SearchParams{}, fmt.Errorf("validate filters: %w", err)
	}

	return params, nil
}

func truncateForLog(s string) string {
	const max = 512
	if len(s) <= max {
		return s
	}
	n := max
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
