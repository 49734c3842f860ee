package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/service"
	"github.com/mediaportal/portal-backend/pkg/ginutil"
)

// AuthorHandler handles author profiles
type AuthorHandler struct {
	service *service.AuthorService
}

// NewAuthorHandler creates a new AuthorHandler
func NewAuthorHandler(svc *service.AuthorService) *AuthorHandler {
	return &AuthorHandler{service: svc}
}

// List godoc
// @Summary      작가 목록
// @Tags         authors
// @Produce      json
// @Param        search  query  string  false  "이름 검색"
// @Param        page    query  int     false  "페이지 번호"
// @Param        limit   query  int     false  "페이지 크기"
// @Success      200  {object}  common.APIResponse{data=[]domain.Author,meta=common.Meta}
// @Router       /authors [get]
func (h *AuthorHandler) List(c *gin.Context) {
	page, limit := ginutil.Pagination(c)
	authors, meta, err := h.service.List(c.Request.Context(), c.Query("search"), page, limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessWithMeta(c, authors, meta)
}

// GetBySlug godoc
// @Summary      작가 상세
// @Tags         authors
// @Produce      json
// @Param        slug  path  string  true  "slug"
// @Success      200  {object}  common.APIResponse{data=domain.Author}
// @Failure      404  {object}  common.APIResponse
// @Router       /authors/{slug} [get]
func (h *AuthorHandler) GetBySlug(c *gin.Context) {
	author, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, author)
}

// GetByID godoc
// @Summary      작가 ID 조회
// @Tags         authors
// @Produce      json
// @Param        id  path  int  true  "작가 ID"
// @Success      200  {object}  common.APIResponse{data=domain.Author}
// @Router       /authors/id/{id} [get]
func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	author, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, author)
}

// ContentSummary godoc
// @Summary      작가별 콘텐츠 수
// @Description  게시된 콘텐츠만 타입별로 셉니다
// @Tags         authors
// @Produce      json
// @Param        slug  path  string  true  "slug"
// @Success      200  {object}  common.APIResponse{data=domain.AuthorContentSummary}
// @Router       /authors/{slug}/content [get]
func (h *AuthorHandler) ContentSummary(c *gin.Context) {
	summary, err := h.service.ContentSummary(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, summary)
}

// Create godoc
// @Summary      작가 생성 (스태프)
// @Tags         authors
// @Accept       json
// @Produce      json
// @Param        request  body  domain.AuthorRequest  true  "작가"
// @Success      201  {object}  common.APIResponse{data=domain.Author}
// @Failure      409  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /authors [post]
func (h *AuthorHandler) Create(c *gin.Context) {
	var req domain.AuthorRequest
	if !bindJSON(c, &req) {
		return
	}
	author, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, author)
}

// Update godoc
// @Summary      작가 수정 (스태프)
// @Tags         authors
// @Accept       json
// @Produce      json
// @Param        id       path  int                         true  "작가 ID"
// @Param        request  body  domain.UpdateAuthorRequest  true  "변경 내용"
// @Success      200  {object}  common.APIResponse{data=domain.Author}
// @Security     BearerAuth
// @Router       /authors/{id} [put]
func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req domain.UpdateAuthorRequest
	if !bindJSON(c, &req) {
		return
	}
	author, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, author)
}

// Delete godoc
// @Summary      작가 삭제 (스태프)
// @Description  연결된 콘텐츠가 있으면 삭제할 수 없습니다
// @Tags         authors
// @Param        id  path  int  true  "작가 ID"
// @Success      204
// @Failure      400  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /authors/{id} [delete]
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}
