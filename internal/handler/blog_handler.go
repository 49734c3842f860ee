package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/internal/service"
)

// BlogHandler handles HTTP requests for blog posts
type BlogHandler struct {
	contentHandler[domain.BlogPost, *domain.BlogPost]
	service *service.BlogService
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(svc *service.BlogService) *BlogHandler {
	return &BlogHandler{
		contentHandler: contentHandler[domain.BlogPost, *domain.BlogPost]{svc: svc.ContentService},
		service:        svc,
	}
}

// List godoc
// @Summary      블로그 글 목록
// @Tags         blog
// @Produce      json
// @Param        page      query  int     false  "페이지 번호"
// @Param        limit     query  int     false  "페이지 크기"
// @Param        category  query  string  false  "카테고리 slug"
// @Param        tag       query  string  false  "태그 slug"
// @Param        search    query  string  false  "검색어"
// @Success      200  {object}  common.APIResponse{data=[]domain.BlogPost,meta=common.Meta}
// @Router       /blog [get]
func (h *BlogHandler) List(c *gin.Context) { h.list(c) }

// GetBySlug godoc
// @Summary      블로그 글 상세
// @Tags         blog
// @Produce      json
// @Param        slug  path  string  true  "slug"
// @Success      200  {object}  common.APIResponse{data=domain.BlogPost}
// @Failure      404  {object}  common.APIResponse
// @Router       /blog/{slug} [get]
func (h *BlogHandler) GetBySlug(c *gin.Context) { h.getBySlug(c) }

// GetByID godoc
// @Summary      블로그 글 ID 조회
// @Tags         blog
// @Produce      json
// @Param        id  path  int  true  "ID"
// @Success      200  {object}  common.APIResponse{data=domain.BlogPost}
// @Router       /blog/id/{id} [get]
func (h *BlogHandler) GetByID(c *gin.Context) { h.getByID(c) }

// Create godoc
// @Summary      블로그 글 작성
// @Description  읽기 시간(분)이 자동 계산됩니다
// @Tags         blog
// @Accept       json
// @Produce      json
// @Param        request  body  domain.ContentRequest  true  "글"
// @Success      201  {object}  common.APIResponse{data=domain.BlogPost}
// @Failure      409  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /blog [post]
func (h *BlogHandler) Create(c *gin.Context) {
	var req domain.ContentRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.service.CreatePost(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, post)
}

// Update godoc
// @Summary      블로그 글 수정
// @Tags         blog
// @Accept       json
// @Produce      json
// @Param        id       path  int                          true  "ID"
// @Param        request  body  domain.UpdateContentRequest  true  "변경 내용"
// @Success      200  {object}  common.APIResponse{data=domain.BlogPost}
// @Security     BearerAuth
// @Router       /blog/{id} [put]
func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req domain.UpdateContentRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.service.UpdatePost(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, post)
}

// Delete godoc
// @Summary      블로그 글 삭제
// @Tags         blog
// @Param        id  path  int  true  "ID"
// @Success      204
// @Security     BearerAuth
// @Router       /blog/{id} [delete]
func (h *BlogHandler) Delete(c *gin.Context) { h.delete(c) }
