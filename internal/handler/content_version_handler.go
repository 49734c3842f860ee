package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/internal/service"
	"github.com/mediaportal/portal-backend/pkg/ginutil"
)

// ContentVersionHandler handles HTTP requests for content versions
type ContentVersionHandler struct {
	service *service.ContentVersionService
}

// NewContentVersionHandler creates a new ContentVersionHandler
func NewContentVersionHandler(svc *service.ContentVersionService) *ContentVersionHandler {
	return &ContentVersionHandler{service: svc}
}

// Create godoc
// @Summary      버전 저장
// @Description  is_autosave=true면 직전 스냅샷과 같을 때 저장하지 않습니다 (200, 기존 버전 반환)
// @Tags         versions
// @Accept       json
// @Produce      json
// @Param        request  body  domain.CreateVersionRequest  true  "스냅샷"
// @Success      201  {object}  common.APIResponse{data=domain.ContentVersion}
// @Success      200  {object}  common.APIResponse{data=domain.ContentVersion}
// @Failure      403  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /content-versions [post]
func (h *ContentVersionHandler) Create(c *gin.Context) {
	var req domain.CreateVersionRequest
	if !bindJSON(c, &req) {
		return
	}
	v, created, err := h.service.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if created {
		common.Created(c, v)
		return
	}
	common.Success(c, v)
}

// List godoc
// @Summary      버전 목록
// @Tags         versions
// @Produce      json
// @Param        type   path   string  true   "콘텐츠 타입"
// @Param        id     path   int     true   "콘텐츠 ID"
// @Param        page   query  int     false  "페이지 번호"
// @Param        limit  query  int     false  "페이지 크기"
// @Success      200  {object}  common.APIResponse{data=[]domain.ContentVersion,meta=common.Meta}
// @Failure      404  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /content-versions/{type}/{id} [get]
func (h *ContentVersionHandler) List(c *gin.Context) {
	ct, id, ok := contentRef(c)
	if !ok {
		return
	}
	page, limit := ginutil.Pagination(c)
	versions, meta, err := h.service.List(c.Request.Context(), middleware.GetActor(c), ct, id, page, limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessWithMeta(c, versions, meta)
}

// Get godoc
// @Summary      버전 상세
// @Tags         versions
// @Produce      json
// @Param        versionId  path  int  true  "버전 ID"
// @Success      200  {object}  common.APIResponse{data=domain.ContentVersion}
// @Failure      404  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /content-versions/version/{versionId} [get]
func (h *ContentVersionHandler) Get(c *gin.Context) {
	id, ok := paramUint(c, "versionId")
	if !ok {
		return
	}
	v, err := h.service.Get(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, v)
}

// Diff godoc
// @Summary      버전 비교
// @Description  두 버전은 같은 콘텐츠여야 합니다. content_diff는 unified diff 형식
// @Tags         versions
// @Produce      json
// @Param        from  path  int  true  "기준 버전 ID"
// @Param        to    path  int  true  "비교 버전 ID"
// @Success      200  {object}  common.APIResponse{data=domain.VersionDiff}
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /content-versions/diff/{from}/{to} [get]
func (h *ContentVersionHandler) Diff(c *gin.Context) {
	from, ok := paramUint(c, "from")
	if !ok {
		return
	}
	to, ok := paramUint(c, "to")
	if !ok {
		return
	}
	diff, err := h.service.Diff(c.Request.Context(), middleware.GetActor(c), from, to)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, diff)
}

// Restore godoc
// @Summary      버전 복원
// @Description  스냅샷을 콘텐츠에 적용하고 새 버전을 기록합니다
// @Tags         versions
// @Produce      json
// @Param        versionId  path  int  true  "버전 ID"
// @Success      200  {object}  common.APIResponse{data=domain.ContentVersion}
// @Failure      403  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /content-versions/version/{versionId}/restore [post]
func (h *ContentVersionHandler) Restore(c *gin.Context) {
	id, ok := paramUint(c, "versionId")
	if !ok {
		return
	}
	v, err := h.service.Restore(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, v)
}

// Prune godoc
// @Summary      오래된 버전 정리 (스태프)
// @Tags         versions
// @Accept       json
// @Produce      json
// @Param        request  body  domain.PruneVersionsRequest  true  "유지할 개수"
// @Success      200  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /content-versions/prune [post]
func (h *ContentVersionHandler) Prune(c *gin.Context) {
	var req domain.PruneVersionsRequest
	if !bindJSON(c, &req) {
		return
	}
	deleted, err := h.service.Prune(c.Request.Context(), middleware.GetActor(c), req.ContentType, req.ContentID, req.KeepCount)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, gin.H{"deleted": deleted})
}
