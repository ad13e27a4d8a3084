package biz

import (
	"context"

	"github.com/osusume/osusume-backend/internal/anilist"
	"github.com/osusume/osusume-backend/internal/recommend/types"
)

// llmFunc adapts a function to the llm.Client interface.
type llmFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

func (f llmFunc) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}

// fixedLLM always answers with the same output.
func fixedLLM(output string) llmFunc {
	return func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		return output, nil
	}
}

// failingLLM always fails.
func failingLLM(err error) llmFunc {
	return func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		return "", err
	}
}

// stubCatalog is a canned CatalogClient.
type stubCatalog struct {
	searchMedia []anilist.Media
	searchErr   error
	hits        map[string]*anilist.Media
	findErr     error

	searchParams []types.SearchParams
}

func (s *stubCatalog) Search(ctx context.Context, params types.SearchParams) ([]anilist.Media, error) {
	s.searchParams = append(s.searchParams, params)
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.searchMedia, nil
}

func (s *stubCatalog) FindOne(ctx context.Context, title string) (*anilist.Media, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.hits[title], nil
}
