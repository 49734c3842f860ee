package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/internal/service"
)

// RatingHandler handles HTTP requests for ratings
type RatingHandler struct {
	service *service.RatingService
}

// NewRatingHandler creates a new RatingHandler
func NewRatingHandler(svc *service.RatingService) *RatingHandler {
	return &RatingHandler{service: svc}
}

// Rate godoc
// @Summary      평점 등록/수정
// @Description  사용자당 콘텐츠 하나에 평점 하나. 최초 등록은 201, 수정은 200
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Param        request  body  domain.RatingRequest  true  "평점 (1-5)"
// @Success      200  {object}  common.APIResponse{data=domain.Rating}
// @Success      201  {object}  common.APIResponse{data=domain.Rating}
// @Failure      400  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /ratings [post]
func (h *RatingHandler) Rate(c *gin.Context) {
	var req domain.RatingRequest
	if !bindJSON(c, &req) {
		return
	}
	rating, created, err := h.service.Rate(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if created {
		common.Created(c, rating)
		return
	}
	common.Success(c, rating)
}

// Summary godoc
// @Summary      평점 요약
// @Tags         ratings
// @Produce      json
// @Param        type  path  string  true  "콘텐츠 타입"
// @Param        id    path  int     true  "콘텐츠 ID"
// @Success      200  {object}  common.APIResponse{data=domain.RatingSummary}
// @Router       /ratings/{type}/{id} [get]
func (h *RatingHandler) Summary(c *gin.Context) {
	ct, id, ok := contentRef(c)
	if !ok {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), ct, id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, summary)
}

// Mine godoc
// @Summary      내 평점
// @Tags         ratings
// @Produce      json
// @Param        type  path  string  true  "콘텐츠 타입"
// @Param        id    path  int     true  "콘텐츠 ID"
// @Success      200  {object}  common.APIResponse{data=domain.Rating}
// @Failure      404  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /ratings/{type}/{id}/me [get]
func (h *RatingHandler) Mine(c *gin.Context) {
	ct, id, ok := contentRef(c)
	if !ok {
		return
	}
	rating, err := h.service.Mine(c.Request.Context(), middleware.GetActor(c), ct, id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, rating)
}

// Delete godoc
// @Summary      내 평점 삭제
// @Tags         ratings
// @Param        type  path  string  true  "콘텐츠 타입"
// @Param        id    path  int     true  "콘텐츠 ID"
// @Success      204
// @Security     BearerAuth
// @Router       /ratings/{type}/{id} [delete]
func (h *RatingHandler) Delete(c *gin.Context) {
	ct, id, ok := contentRef(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.GetActor(c), ct, id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}
