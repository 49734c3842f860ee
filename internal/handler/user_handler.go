package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/internal/service"
	"github.com/mediaportal/portal-backend/pkg/ginutil"
)

// UserHandler handles user administration
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary      사용자 목록 (관리자)
// @Tags         users
// @Produce      json
// @Param        page   query  int  false  "페이지 번호"
// @Param        limit  query  int  false  "페이지 크기"
// @Success      200  {object}  common.APIResponse{data=[]domain.User,meta=common.Meta}
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	page, limit := ginutil.Pagination(c)
	users, meta, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessWithMeta(c, users, meta)
}

// UpdateRole godoc
// @Summary      사용자 권한 변경 (관리자)
// @Description  변경된 사용자의 세션은 모두 종료됩니다. 자기 자신은 변경할 수 없습니다
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path  int                       true  "사용자 ID"
// @Param        request  body  domain.UpdateRoleRequest  true  "권한"
// @Success      200  {object}  common.APIResponse{data=domain.User}
// @Failure      403  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /users/{id}/role [patch]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req domain.UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.UpdateRole(c.Request.Context(), middleware.GetActor(c), id, req.Role)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, user)
}
