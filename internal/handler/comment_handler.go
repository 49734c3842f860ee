package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/internal/service"
)

// CommentHandler handles HTTP requests for comments
type CommentHandler struct {
	service *service.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{service: svc}
}

// contentRef reads :type and :id, the polymorphic content reference
func contentRef(c *gin.Context) (domain.ContentType, uint64, bool) {
	ct := domain.ContentType(c.Param("type"))
	if !ct.Valid() {
		common.HandleError(c, common.ErrInvalidType)
		return "", 0, false
	}
	id, ok := paramID(c)
	if !ok {
		return "", 0, false
	}
	return ct, id, true
}

// List godoc
// @Summary      콘텐츠 댓글 목록
// @Description  트리 형태로 반환합니다. 비스태프는 승인된 댓글만 보입니다
// @Tags         comments
// @Produce      json
// @Param        type  path  string  true  "콘텐츠 타입 (article, blogPost, wikiPage, galleryItem, story)"
// @Param        id    path  int     true  "콘텐츠 ID"
// @Success      200  {object}  common.APIResponse{data=[]domain.Comment}
// @Failure      404  {object}  common.APIResponse
// @Router       /comments/{type}/{id} [get]
func (h *CommentHandler) List(c *gin.Context) {
	ct, id, ok := contentRef(c)
	if !ok {
		return
	}
	comments, err := h.service.ListThreaded(c.Request.Context(), middleware.GetActor(c), ct, id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, comments)
}

// Create godoc
// @Summary      댓글 작성
// @Description  parent_id는 같은 콘텐츠의 댓글이어야 합니다
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        request  body  domain.CreateCommentRequest  true  "댓글"
// @Success      201  {object}  common.APIResponse{data=domain.Comment}
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	var req domain.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.service.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, comment)
}

// Update godoc
// @Summary      댓글 수정
// @Description  작성자만 수정할 수 있습니다
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id       path  int                          true  "댓글 ID"
// @Param        request  body  domain.UpdateCommentRequest  true  "내용"
// @Success      200  {object}  common.APIResponse{data=domain.Comment}
// @Failure      403  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /comments/{id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req domain.UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.service.Update(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, comment)
}

// Delete godoc
// @Summary      댓글 삭제
// @Description  작성자 또는 스태프. 답글은 상위로 올라갑니다
// @Tags         comments
// @Param        id  path  int  true  "댓글 ID"
// @Success      204
// @Security     BearerAuth
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
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

// Moderate godoc
// @Summary      댓글 상태 변경 (스태프)
// @Tags         comments
// @Accept       json
// @Param        id       path  int                            true  "댓글 ID"
// @Param        request  body  domain.ModerateCommentRequest  true  "상태"
// @Success      204
// @Failure      403  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /comments/{id}/status [patch]
func (h *CommentHandler) Moderate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req domain.ModerateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.Moderate(c.Request.Context(), middleware.GetActor(c), id, req.Status); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}
