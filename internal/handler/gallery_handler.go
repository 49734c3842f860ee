package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/internal/service"
)

// GalleryHandler handles HTTP requests for gallery items
type GalleryHandler struct {
	contentHandler[domain.GalleryItem, *domain.GalleryItem]
	service *service.GalleryService
}

// NewGalleryHandler creates a new GalleryHandler
func NewGalleryHandler(svc *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{
		contentHandler: contentHandler[domain.GalleryItem, *domain.GalleryItem]{svc: svc.ContentService},
		service:        svc,
	}
}

// List godoc
// @Summary      갤러리 목록
// @Tags         gallery
// @Produce      json
// @Param        page      query  int     false  "페이지 번호"
// @Param        limit     query  int     false  "페이지 크기"
// @Param        category  query  string  false  "카테고리 slug"
// @Success      200  {object}  common.APIResponse{data=[]domain.GalleryItem,meta=common.Meta}
// @Router       /gallery [get]
func (h *GalleryHandler) List(c *gin.Context) { h.list(c) }

// GetBySlug godoc
// @Summary      갤러리 상세
// @Tags         gallery
// @Produce      json
// @Param        slug  path  string  true  "slug"
// @Success      200  {object}  common.APIResponse{data=domain.GalleryItem}
// @Router       /gallery/{slug} [get]
func (h *GalleryHandler) GetBySlug(c *gin.Context) { h.getBySlug(c) }

// GetByID godoc
// @Summary      갤러리 ID 조회
// @Tags         gallery
// @Produce      json
// @Param        id  path  int  true  "ID"
// @Success      200  {object}  common.APIResponse{data=domain.GalleryItem}
// @Router       /gallery/id/{id} [get]
func (h *GalleryHandler) GetByID(c *gin.Context) { h.getByID(c) }

// Upload godoc
// @Summary      이미지 업로드
// @Description  jpg, jpeg, png, gif, webp만 허용 (확장자와 실제 내용 모두 검사). 썸네일은 비동기로 생성됩니다
// @Tags         gallery
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true   "이미지 파일"
// @Param        title        formData  string  true   "제목"
// @Param        description  formData  string  false  "설명 (markdown)"
// @Param        alt_text     formData  string  false  "대체 텍스트"
// @Param        status       formData  string  false  "DRAFT, PUBLISHED"
// @Success      201  {object}  common.APIResponse{data=domain.GalleryItem}
// @Failure      400  {object}  common.APIResponse
// @Failure      413  {object}  common.APIResponse
// @Failure      503  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /gallery [post]
func (h *GalleryHandler) Upload(c *gin.Context) {
	var form domain.GalleryUploadForm
	if err := c.ShouldBind(&form); err != nil {
		common.ErrorResponse(c, 400, "Invalid form", err)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, 400, "file is required", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		common.HandleError(c, err)
		return
	}
	defer file.Close()

	item, err := h.service.Upload(c.Request.Context(), middleware.GetActor(c), &form, service.UploadFile{
		Name:   fileHeader.Filename,
		Size:   fileHeader.Size,
		Reader: file,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, item)
}

// Update godoc
// @Summary      갤러리 메타데이터 수정
// @Tags         gallery
// @Accept       json
// @Produce      json
// @Param        id       path  int                              true  "ID"
// @Param        request  body  domain.UpdateGalleryItemRequest  true  "변경 내용"
// @Success      200  {object}  common.APIResponse{data=domain.GalleryItem}
// @Security     BearerAuth
// @Router       /gallery/{id} [put]
func (h *GalleryHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req domain.UpdateGalleryItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.UpdateItem(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, item)
}

// Delete godoc
// @Summary      갤러리 삭제
// @Description  원본과 썸네일도 스토리지에서 삭제됩니다
// @Tags         gallery
// @Param        id  path  int  true  "ID"
// @Success      204
// @Security     BearerAuth
// @Router       /gallery/{id} [delete]
func (h *GalleryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteItem(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.NoContent(c)
}
