package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/internal/service"
	"github.com/mediaportal/portal-backend/pkg/ginutil"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// GetUnreadCount godoc
// @Summary      읽지 않은 알림 수
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  common.APIResponse{data=domain.UnreadCountResponse}
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	result, err := h.service.GetUnreadCount(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, result)
}

// GetList godoc
// @Summary      알림 목록
// @Tags         notifications
// @Produce      json
// @Param        unread  query  bool  false  "읽지 않은 알림만"
// @Param        page    query  int   false  "페이지 번호"
// @Param        limit   query  int   false  "페이지 크기"
// @Success      200  {object}  common.APIResponse{data=[]domain.Notification,meta=common.Meta}
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) GetList(c *gin.Context) {
	page, limit := ginutil.Pagination(c)
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))
	items, meta, err := h.service.GetList(c.Request.Context(), middleware.GetActor(c), unreadOnly, page, limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessWithMeta(c, items, meta)
}

// MarkAsRead godoc
// @Summary      알림 읽음 처리
// @Tags         notifications
// @Param        id  path  int  true  "알림 ID"
// @Success      204
// @Failure      404  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.service.MarkAsRead(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}

// MarkAllAsRead godoc
// @Summary      모든 알림 읽음 처리
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	updated, err := h.service.MarkAllAsRead(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, gin.H{"updated": updated})
}

// Delete godoc
// @Summary      알림 삭제
// @Tags         notifications
// @Param        id  path  int  true  "알림 ID"
// @Success      204
// @Security     BearerAuth
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}
