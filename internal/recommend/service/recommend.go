package service

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/osusume/osusume-backend/internal/anilist"
	apperrors "github.com/osusume/osusume-backend/internal/pkg/errors"
	"github.com/osusume/osusume-backend/internal/pkg/logger"
	"github.com/osusume/osusume-backend/internal/pkg/response"
	"github.com/osusume/osusume-backend/internal/recommend/types"
	"go.uber.org/zap"
)

// Recommender is the pipeline surface the HTTP layer depends on.
type Recommender interface {
	GetRecommendations(ctx context.Context, request string) ([]types.RecommendationItem, error)
}

// CoverFinder resolves one title to its catalog record, used by the
// web form's per-title cover-art re-query.
type CoverFinder interface {
	FindOne(ctx context.Context, title string) (*anilist.Media, error)
}

// RecommendService exposes the pipeline over HTTP.
type RecommendService struct {
	pipeline Recommender
	catalog  CoverFinder
	logger   *logger.Logger
}

func NewRecommendService(pipeline Recommender, catalog CoverFinder, log *logger.Logger) *RecommendService {
	if log == nil {
		log = logger.L()
	}
	return &RecommendService{
		pipeline: pipeline,
		catalog:  catalog,
		logger:   log.Named("service"),
	}
}

// RegisterRoutes mounts the recommendation endpoints on the API group.
func (s *RecommendService) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/recommendations", s.Recommend)
	r.GET("/anime/cover", s.Cover)
}

// Recommend runs one request through the pipeline. Every failure
// resolves to a response envelope with a message; nothing here crashes
// the process.
func (s *RecommendService) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	items, err := s.pipeline.GetRecommendations(c.Request.Context(), req.Request)
	if err != nil {
		s.logger.Error("recommendation request failed",
			zap.String("request_id", logger.GetRequestID(c.Request.Context())),
			zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, RecommendResponse{Items: items})
}

// Cover resolves one recommended title to its cover-art URL for the
// web form's gallery.
func (s *RecommendService) Cover(c *gin.Context) {
	var req CoverRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	hit, err := s.catalog.FindOne(c.Request.Context(), req.Title)
	if err != nil {
		response.HandleError(c, apperrors.Wrap(err, apperrors.ErrSearchUnavailable))
		return
	}
	if hit == nil || hit.CoverImage.Medium == "" {
		response.NotFound(c, "no cover art for title")
		return
	}

	response.Success(c, CoverResponse{
		Title:    hit.DisplayTitle(),
		ImageURL: hit.CoverImage.Medium,
	})
}
