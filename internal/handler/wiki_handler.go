package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/internal/service"
)

// WikiHandler handles HTTP requests for wiki pages
type WikiHandler struct {
	contentHandler[domain.WikiPage, *domain.WikiPage]
	service *service.WikiService
}

// NewWikiHandler creates a new WikiHandler
func NewWikiHandler(svc *service.WikiService) *WikiHandler {
	return &WikiHandler{
		contentHandler: contentHandler[domain.WikiPage, *domain.WikiPage]{svc: svc.ContentService},
		service:        svc,
	}
}

// List godoc
// @Summary      위키 문서 목록
// @Tags         wiki
// @Produce      json
// @Param        page    query  int     false  "페이지 번호"
// @Param        limit   query  int     false  "페이지 크기"
// @Param        search  query  string  false  "검색어"
// @Success      200  {object}  common.APIResponse{data=[]domain.WikiPage,meta=common.Meta}
// @Router       /wiki [get]
func (h *WikiHandler) List(c *gin.Context) { h.list(c) }

// Tree godoc
// @Summary      위키 트리
// @Description  공개 문서의 계층 구조 (최대 깊이 5)
// @Tags         wiki
// @Produce      json
// @Success      200  {object}  common.APIResponse{data=[]domain.WikiTreeNode}
// @Router       /wiki/tree [get]
func (h *WikiHandler) Tree(c *gin.Context) {
	tree, err := h.service.Tree(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, tree)
}

// GetBySlug godoc
// @Summary      위키 문서 상세
// @Tags         wiki
// @Produce      json
// @Param        slug  path  string  true  "slug"
// @Success      200  {object}  common.APIResponse{data=domain.WikiPage}
// @Failure      404  {object}  common.APIResponse
// @Router       /wiki/{slug} [get]
func (h *WikiHandler) GetBySlug(c *gin.Context) { h.getBySlug(c) }

// Breadcrumbs godoc
// @Summary      위키 경로
// @Description  루트부터 현재 문서까지의 경로
// @Tags         wiki
// @Produce      json
// @Param        slug  path  string  true  "slug"
// @Success      200  {object}  common.APIResponse{data=[]domain.Breadcrumb}
// @Router       /wiki/{slug}/breadcrumbs [get]
func (h *WikiHandler) Breadcrumbs(c *gin.Context) {
	crumbs, err := h.service.Breadcrumbs(c.Request.Context(), middleware.GetActor(c), c.Param("slug"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, crumbs)
}

// Children godoc
// @Summary      하위 문서
// @Tags         wiki
// @Produce      json
// @Param        id  path  int  true  "문서 ID"
// @Success      200  {object}  common.APIResponse{data=[]domain.WikiPage}
// @Router       /wiki/{id}/children [get]
func (h *WikiHandler) Children(c *gin.Context) {
	// /wiki/:slug 와 같은 wildcard 를 공유하므로 slug 자리에서 ID를 읽는다
	id, ok := paramUint(c, "slug")
	if !ok {
		return
	}
	pages, err := h.service.Children(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, pages)
}

// GetByID godoc
// @Summary      위키 문서 ID 조회
// @Tags         wiki
// @Produce      json
// @Param        id  path  int  true  "ID"
// @Success      200  {object}  common.APIResponse{data=domain.WikiPage}
// @Router       /wiki/id/{id} [get]
func (h *WikiHandler) GetByID(c *gin.Context) { h.getByID(c) }

// Create godoc
// @Summary      위키 문서 작성
// @Description  parent_id가 있으면 해당 문서가 존재해야 합니다
// @Tags         wiki
// @Accept       json
// @Produce      json
// @Param        request  body  domain.CreateWikiPageRequest  true  "문서"
// @Success      201  {object}  common.APIResponse{data=domain.WikiPage}
// @Failure      400  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /wiki [post]
func (h *WikiHandler) Create(c *gin.Context) {
	var req domain.CreateWikiPageRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := h.service.CreatePage(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, page)
}

// Update godoc
// @Summary      위키 문서 수정
// @Description  부모 변경 시 순환 참조를 검사합니다
// @Tags         wiki
// @Accept       json
// @Produce      json
// @Param        id       path  int                           true  "ID"
// @Param        request  body  domain.UpdateWikiPageRequest  true  "변경 내용"
// @Success      200  {object}  common.APIResponse{data=domain.WikiPage}
// @Failure      400  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /wiki/{id} [put]
func (h *WikiHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req domain.UpdateWikiPageRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := h.service.UpdatePage(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, page)
}

// Delete godoc
// @Summary      위키 문서 삭제
// @Description  하위 문서가 있으면 삭제할 수 없습니다
// @Tags         wiki
// @Param        id  path  int  true  "ID"
// @Success      204
// @Failure      400  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /wiki/{id} [delete]
func (h *WikiHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.service.DeletePage(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}
