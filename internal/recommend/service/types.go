package service

import "github.com/osusume/osusume-backend/internal/recommend/types"

// RecommendRequest is the body of POST /api/v1/recommendations.
type RecommendRequest struct {
	Request string `json:"request" binding:"required,min=1,max=2000"`
}

// RecommendResponse is the final recommendation document.
type RecommendResponse struct {
	Items []types.RecommendationItem `json:"items"`
}

// CoverRequest is the query of GET /api/v1/anime/cover.
type CoverRequest struct {
	Title string `form:"title" binding:"required,min=1,max=255"`
}

// CoverResponse carries one resolved cover-art URL.
type CoverResponse struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}
