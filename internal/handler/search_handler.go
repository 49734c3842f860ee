package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/service"
	"github.com/mediaportal/portal-backend/pkg/ginutil"
)

// SearchHandler handles full-text search
type SearchHandler struct {
	service *service.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{service: svc}
}

// Search godoc
// @Summary      통합 검색
// @Description  게시된 콘텐츠 전체에서 검색합니다. type을 여러 번 지정하면 해당 타입만 검색
// @Tags         search
// @Produce      json
// @Param        q      query  string    true   "검색어"
// @Param        type   query  []string  false  "콘텐츠 타입"  collectionFormat(multi)
// @Param        page   query  int       false  "페이지 번호"
// @Param        limit  query  int       false  "페이지 크기"
// @Success      200  {object}  common.APIResponse{data=domain.SearchResult}
// @Failure      400  {object}  common.APIResponse
// @Failure      503  {object}  common.APIResponse
// @Router       /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	var q domain.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.ErrorResponse(c, 400, "Invalid query", err)
		return
	}
	result, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, result)
}

// Suggest godoc
// @Summary      검색어 자동완성
// @Tags         search
// @Produce      json
// @Param        q      query  string  true   "접두어"
// @Param        limit  query  int     false  "최대 개수 (기본 5, 최대 10)"
// @Success      200  {object}  common.APIResponse{data=[]string}
// @Router       /search/suggest [get]
func (h *SearchHandler) Suggest(c *gin.Context) {
	suggestions, err := h.service.Suggest(c.Request.Context(), c.Query("q"), ginutil.QueryInt(c, "limit", 5))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, suggestions)
}

// Reindex godoc
// @Summary      검색 인덱스 재구성 (관리자)
// @Tags         search
// @Produce      json
// @Success      200  {object}  common.APIResponse
// @Failure      503  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /search/reindex [post]
func (h *SearchHandler) Reindex(c *gin.Context) {
	count, err := h.service.Reindex(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, gin.H{"indexed": count})
}
