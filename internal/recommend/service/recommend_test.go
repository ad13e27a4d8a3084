package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/osusume/osusume-backend/internal/anilist"
	apperrors "github.com/osusume/osusume-backend/internal/pkg/errors"
	"github.com/osusume/osusume-backend/internal/recommend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type stubRecommender struct {
	items []types.RecommendationItem
	err   error

	requests []string
}

func (s *stubRecommender) GetRecommendations(ctx context.Context, request string) ([]types.RecommendationItem, error) {
	s.requests = append(s.requests, request)
	return s.items, s.err
}

type stubCoverFinder struct {
	hit *anilist.Media
	err error
}

func (s *stubCoverFinder) FindOne(ctx context.Context, title string) (*anilist.Media, error) {
	return s.hit, s.err
}

func newTestRouter(pipeline Recommender, catalog CoverFinder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := NewRecommendService(pipeline, catalog, nil)
	svc.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postRecommendations(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecommendSuccess(t *testing.T) {
	pipeline := &stubRecommender{items: []types.RecommendationItem{
		{Title: "Berserk", Description: "Dark fantasy at its bleakest.", ImageURL: "https://img.example/berserk.png"},
	}}
	router := newTestRouter(pipeline, &stubCoverFinder{})

	w := postRecommendations(t, router, `{"request": "a dark fantasy"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, int64(0), gjson.Get(body, "code").Int())
	assert.Equal(t, "Berserk", gjson.Get(body, "data.items.0.title").String())
	assert.Equal(t, "https://img.example/berserk.png", gjson.Get(body, "data.items.0.image_url").String())

	require.Len(t, pipeline.requests, 1)
	assert.Equal(t, "a dark fantasy", pipeline.requests[0])
}

func TestRecommendEmptyResultIsStillOK(t *testing.T) {
	pipeline := &stubRecommender{items: []types.RecommendationItem{}}
	router := newTestRouter(pipeline, &stubCoverFinder{})

	w := postRecommendations(t, router, `{"request": "anything"}`)

	require.Equal(t, http.StatusOK, w.Code)
	items := gjson.Get(w.Body.String(), "data.items")
	assert.True(t, items.IsArray())
	assert.Empty(t, items.Array())
}

func TestRecommendRejectsBadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not JSON", "not json"},
		{"missing request", `{}`},
		{"empty request", `{"request": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &stubRecommender{}
			router := newTestRouter(pipeline, &stubCoverFinder{})

			w := postRecommendations(t, router, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, pipeline.requests, "pipeline must not run on invalid input")
		})
	}
}

func TestRecommendPipelineError(t *testing.T) {
	pipeline := &stubRecommender{
		err: apperrors.New(apperrors.ErrMalformedOutput),
	}
	router := newTestRouter(pipeline, &stubCoverFinder{})

	w := postRecommendations(t, router, `{"request": "anything"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, int64(apperrors.ErrMalformedOutput), gjson.Get(w.Body.String(), "code").Int())
}

func TestCoverSuccess(t *testing.T) {
	catalog := &stubCoverFinder{hit: &anilist.Media{
		Title:      anilist.MediaTitle{English: "Akira"},
		CoverImage: anilist.CoverImage{Medium: "https://img.example/akira.png"},
	}}
	router := newTestRouter(&stubRecommender{}, catalog)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/anime/cover?title=Akira", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, "Akira", gjson.Get(body, "data.title").String())
	assert.Equal(t, "https://img.example/akira.png", gjson.Get(body, "data.image_url").String())
}

func TestCoverNoMatch(t *testing.T) {
	router := newTestRouter(&stubRecommender{}, &stubCoverFinder{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/anime/cover?title=unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCoverCatalogUnavailable(t *testing.T) {
	catalog := &stubCoverFinder{err: errors.New("connection refused")}
	router := newTestRouter(&stubRecommender{}, catalog)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/anime/cover?title=Akira", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, int64(apperrors.ErrSearchUnavailable), gjson.Get(w.Body.String(), "code").Int())
}

func TestCoverRequiresTitle(t *testing.T) {
	router := newTestRouter(&stubRecommender{}, &stubCoverFinder{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/anime/cover", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
