package rest

import (
	"context"
	"net/http"
	"time"

	"caseAssist/business/recommend"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type Recommender interface {
	Recommend(ctx context.Context, profile recommend.ClientProfile) (recommend.Recommendation, error)
}

type RecommendationHandler struct {
	recommender Recommender
	timeout     time.Duration
}

func NewRecommendationHandler(recommender Recommender) *RecommendationHandler {
	return &RecommendationHandler{
		recommender: recommender,
		timeout:     10 * time.Second,
	}
}

// RecommendRequest scores an ad-hoc profile that is not stored as a client.
type RecommendRequest struct {
	Profile recommend.ClientProfile `json:"profile"`
}

// POST /api/v1/recommendations
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.Profile) == 0 {
		return badRequest(c, "profile is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, err := h.recommender.Recommend(ctx, req.Profile)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rec))
}
