package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/internal/service"
	"github.com/mediaportal/portal-backend/pkg/ginutil"
)

// StoryHandler handles HTTP requests for stories
type StoryHandler struct {
	contentHandler[domain.Story, *domain.Story]
	service *service.StoryService
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(svc *service.StoryService) *StoryHandler {
	return &StoryHandler{
		contentHandler: contentHandler[domain.Story, *domain.Story]{svc: svc.ContentService},
		service:        svc,
	}
}

// List godoc
// @Summary      스토리 목록
// @Tags         stories
// @Produce      json
// @Param        page   query  int     false  "페이지 번호"
// @Param        limit  query  int     false  "페이지 크기"
// @Param        genre  query  string  false  "장르"
// @Param        tag    query  string  false  "태그 slug"
// @Success      200  {object}  common.APIResponse{data=[]domain.Story,meta=common.Meta}
// @Router       /stories [get]
func (h *StoryHandler) List(c *gin.Context) { h.list(c) }

// Series godoc
// @Summary      시리즈 회차 목록
// @Description  chapter 순으로 정렬된 공개 회차
// @Tags         stories
// @Produce      json
// @Param        series  path   string  true   "시리즈 이름"
// @Param        page    query  int     false  "페이지 번호"
// @Param        limit   query  int     false  "페이지 크기"
// @Success      200  {object}  common.APIResponse{data=[]domain.Story,meta=common.Meta}
// @Router       /stories/series/{series} [get]
func (h *StoryHandler) Series(c *gin.Context) {
	page, limit := ginutil.Pagination(c)
	stories, meta, err := h.service.Series(c.Request.Context(), c.Param("series"), page, limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessWithMeta(c, stories, meta)
}

// GetBySlug godoc
// @Summary      스토리 상세
// @Tags         stories
// @Produce      json
// @Param        slug  path  string  true  "slug"
// @Success      200  {object}  common.APIResponse{data=domain.Story}
// @Failure      404  {object}  common.APIResponse
// @Router       /stories/{slug} [get]
func (h *StoryHandler) GetBySlug(c *gin.Context) { h.getBySlug(c) }

// GetByID godoc
// @Summary      스토리 ID 조회
// @Tags         stories
// @Produce      json
// @Param        id  path  int  true  "ID"
// @Success      200  {object}  common.APIResponse{data=domain.Story}
// @Router       /stories/id/{id} [get]
func (h *StoryHandler) GetByID(c *gin.Context) { h.getByID(c) }

// Create godoc
// @Summary      스토리 작성
// @Tags         stories
// @Accept       json
// @Produce      json
// @Param        request  body  domain.CreateStoryRequest  true  "스토리"
// @Success      201  {object}  common.APIResponse{data=domain.Story}
// @Failure      409  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /stories [post]
func (h *StoryHandler) Create(c *gin.Context) {
	var req domain.CreateStoryRequest
	if !bindJSON(c, &req) {
		return
	}
	story, err := h.service.CreateStory(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, story)
}

// Update godoc
// @Summary      스토리 수정
// @Tags         stories
// @Accept       json
// @Produce      json
// @Param        id       path  int                        true  "ID"
// @Param        request  body  domain.UpdateStoryRequest  true  "변경 내용"
// @Success      200  {object}  common.APIResponse{data=domain.Story}
// @Security     BearerAuth
// @Router       /stories/{id} [put]
func (h *StoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req domain.UpdateStoryRequest
	if !bindJSON(c, &req) {
		return
	}
	story, err := h.service.UpdateStory(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, story)
}

// Delete godoc
// @Summary      스토리 삭제
// @Tags         stories
// @Param        id  path  int  true  "ID"
// @Success      204
// @Security     BearerAuth
// @Router       /stories/{id} [delete]
func (h *StoryHandler) Delete(c *gin.Context) { h.delete(c) }
