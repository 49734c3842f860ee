package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/internal/service"
	"github.com/mediaportal/portal-backend/pkg/ginutil"
)

// contentHandler serves the read and delete endpoints every content type shares
type contentHandler[T any, PT repository.ContentModel[T]] struct {
	svc *service.ContentService[T, PT]
}

// bindFilter reads list query parameters
func bindFilter(c *gin.Context) domain.ContentFilter {
	page, limit := ginutil.Pagination(c)
	f := domain.ContentFilter{
		Status:       domain.ContentStatus(strings.ToUpper(c.Query("status"))),
		CategorySlug: c.Query("category"),
		TagSlug:      c.Query("tag"),
		AuthorID:     ginutil.QueryUint64(c, "author"),
		Search:       strings.TrimSpace(c.Query("search")),
		Genre:        c.Query("genre"),
		Sort:         c.Query("sort"),
		Page:         page,
		Limit:        limit,
	}
	if v, err := strconv.ParseBool(c.Query("featured")); err == nil {
		f.Featured = &v
	}
	return f
}

func (h *contentHandler[T, PT]) list(c *gin.Context) {
	items, meta, err := h.svc.List(c.Request.Context(), middleware.GetActor(c), bindFilter(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessWithMeta(c, items, meta)
}

func (h *contentHandler[T, PT]) getBySlug(c *gin.Context) {
	item, err := h.svc.GetBySlug(c.Request.Context(), middleware.GetActor(c), c.Param("slug"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, item)
}

func (h *contentHandler[T, PT]) getByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	item, err := h.svc.GetByID(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, item)
}

func (h *contentHandler[T, PT]) delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}

// paramID parses :id and writes a 400 when it is not a positive integer
func paramID(c *gin.Context) (uint64, bool) {
	return paramUint(c, "id")
}

func paramUint(c *gin.Context, key string) (uint64, bool) {
	id, err := ginutil.ParamUint64(c, key)
	if err != nil || id == 0 {
		common.ErrorResponse(c, 400, "Invalid "+key, nil)
		return 0, false
	}
	return id, true
}

// bindJSON binds the body and writes a 400 with the validation error
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return false
	}
	return true
}
