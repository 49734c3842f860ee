package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/service"
)

// TaxonomyHandler handles categories and tags
type TaxonomyHandler struct {
	service *service.TaxonomyService
}

// NewTaxonomyHandler creates a new TaxonomyHandler
func NewTaxonomyHandler(svc *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: svc}
}

// ListCategories godoc
// @Summary      카테고리 목록
// @Tags         taxonomy
// @Produce      json
// @Success      200  {object}  common.APIResponse{data=[]domain.Category}
// @Router       /categories [get]
func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, categories)
}

// CreateCategory godoc
// @Summary      카테고리 생성 (스태프)
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Param        request  body  domain.TaxonomyRequest  true  "카테고리"
// @Success      201  {object}  common.APIResponse{data=domain.Category}
// @Failure      409  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /categories [post]
func (h *TaxonomyHandler) CreateCategory(c *gin.Context) {
	var req domain.TaxonomyRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, category)
}

// DeleteCategory godoc
// @Summary      카테고리 삭제 (스태프)
// @Tags         taxonomy
// @Param        id  path  int  true  "카테고리 ID"
// @Success      204
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
func (h *TaxonomyHandler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}

// ListTags godoc
// @Summary      태그 목록
// @Tags         taxonomy
// @Produce      json
// @Success      200  {object}  common.APIResponse{data=[]domain.Tag}
// @Router       /tags [get]
func (h *TaxonomyHandler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, tags)
}

// CreateTag godoc
// @Summary      태그 생성 (스태프)
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Param        request  body  domain.TaxonomyRequest  true  "태그"
// @Success      201  {object}  common.APIResponse{data=domain.Tag}
// @Security     BearerAuth
// @Router       /tags [post]
func (h *TaxonomyHandler) CreateTag(c *gin.Context) {
	var req domain.TaxonomyRequest
	if !bindJSON(c, &req) {
		return
	}
	tag, err := h.service.CreateTag(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, tag)
}

// DeleteTag godoc
// @Summary      태그 삭제 (스태프)
// @Tags         taxonomy
// @Param        id  path  int  true  "태그 ID"
// @Success      204
// @Security     BearerAuth
// @Router       /tags/{id} [delete]
func (h *TaxonomyHandler) DeleteTag(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTag(c.Request.Context(), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}
