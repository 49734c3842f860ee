package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/internal/service"
	"github.com/mediaportal/portal-backend/pkg/ginutil"
)

// ArticleHandler handles HTTP requests for articles
type ArticleHandler struct {
	contentHandler[domain.Article, *domain.Article]
	service *service.ArticleService
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(svc *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		contentHandler: contentHandler[domain.Article, *domain.Article]{svc: svc.ContentService},
		service:        svc,
	}
}

// List godoc
// @Summary      기사 목록 조회
// @Description  공개 사용자는 PUBLISHED 기사만 조회됩니다
// @Tags         articles
// @Produce      json
// @Param        page      query  int     false  "페이지 번호"
// @Param        limit     query  int     false  "페이지 크기 (최대 100)"
// @Param        status    query  string  false  "DRAFT, PUBLISHED, ARCHIVED (staff)"
// @Param        category  query  string  false  "카테고리 slug"
// @Param        tag       query  string  false  "태그 slug"
// @Param        author    query  int     false  "저자 ID"
// @Param        search    query  string  false  "제목/본문 검색어"
// @Param        featured  query  bool    false  "추천 기사만"
// @Param        sort      query  string  false  "newest, oldest, title, popular"
// @Success      200  {object}  common.APIResponse{data=[]domain.Article,meta=common.Meta}
// @Router       /articles [get]
func (h *ArticleHandler) List(c *gin.Context) { h.list(c) }

// Featured godoc
// @Summary      추천 기사 목록
// @Tags         articles
// @Produce      json
// @Param        limit  query  int  false  "개수 (기본 5)"
// @Success      200  {object}  common.APIResponse{data=[]domain.Article}
// @Router       /articles/featured [get]
func (h *ArticleHandler) Featured(c *gin.Context) {
	items, err := h.service.Featured(c.Request.Context(), ginutil.QueryInt(c, "limit", 5))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, items)
}

// GetBySlug godoc
// @Summary      기사 상세 조회
// @Description  조회수가 증가하며 content_html이 포함됩니다
// @Tags         articles
// @Produce      json
// @Param        slug  path  string  true  "기사 slug"
// @Success      200  {object}  common.APIResponse{data=domain.Article}
// @Failure      404  {object}  common.APIResponse
// @Router       /articles/{slug} [get]
func (h *ArticleHandler) GetBySlug(c *gin.Context) { h.getBySlug(c) }

// GetByID godoc
// @Summary      기사 ID 조회
// @Tags         articles
// @Produce      json
// @Param        id  path  int  true  "기사 ID"
// @Success      200  {object}  common.APIResponse{data=domain.Article}
// @Failure      404  {object}  common.APIResponse
// @Router       /articles/id/{id} [get]
func (h *ArticleHandler) GetByID(c *gin.Context) { h.getByID(c) }

// Create godoc
// @Summary      기사 작성
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        request  body  domain.CreateArticleRequest  true  "기사"
// @Success      201  {object}  common.APIResponse{data=domain.Article}
// @Failure      400  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /articles [post]
func (h *ArticleHandler) Create(c *gin.Context) {
	var req domain.CreateArticleRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.CreateArticle(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, item)
}

// Update godoc
// @Summary      기사 수정
// @Description  제목이 바뀌면 slug가 다시 생성됩니다 (작성자 또는 staff)
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id       path  int                          true  "기사 ID"
// @Param        request  body  domain.UpdateArticleRequest  true  "변경 내용"
// @Success      200  {object}  common.APIResponse{data=domain.Article}
// @Failure      403  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /articles/{id} [put]
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req domain.UpdateArticleRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.UpdateArticle(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, item)
}

// Delete godoc
// @Summary      기사 삭제
// @Tags         articles
// @Param        id  path  int  true  "기사 ID"
// @Success      204
// @Failure      403  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /articles/{id} [delete]
func (h *ArticleHandler) Delete(c *gin.Context) { h.delete(c) }
