package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/middleware"
	"github.com/mediaportal/portal-backend/internal/service"
)

const refreshCookieName = "refresh_token"

// AuthHandler handles authentication requests
type AuthHandler struct {
	service       *service.AuthService
	secureCookies bool
	refreshMaxAge int
}

// NewAuthHandler creates a new AuthHandler; refreshMaxAge is the refresh token lifetime in seconds
func NewAuthHandler(svc *service.AuthService, secureCookies bool, refreshMaxAge int) *AuthHandler {
	return &AuthHandler{service: svc, secureCookies: secureCookies, refreshMaxAge: refreshMaxAge}
}

func clientInfo(c *gin.Context) service.ClientInfo {
	return service.ClientInfo{UserAgent: c.Request.UserAgent(), IP: c.ClientIP()}
}

// Register godoc
// @Summary      회원가입
// @Description  이메일과 사용자명은 소문자로 저장됩니다. 환영 메일은 큐로 발송
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  domain.RegisterRequest  true  "가입 정보"
// @Success      201  {object}  common.APIResponse{data=domain.User}
// @Failure      409  {object}  common.APIResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, user)
}

// Login godoc
// @Summary      로그인
// @Description  login에는 이메일 또는 사용자명. refresh_token은 httpOnly 쿠키로도 설정됩니다
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  domain.LoginRequest  true  "로그인 정보"
// @Success      200  {object}  common.APIResponse{data=domain.AuthResponse}
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Login(c.Request.Context(), &req, clientInfo(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	h.setRefreshTokenCookie(c, resp.RefreshToken)
	common.Success(c, resp)
}

// Refresh godoc
// @Summary      토큰 갱신
// @Description  body 또는 refresh_token 쿠키. 사용한 refresh token은 폐기됩니다 (rotation)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  domain.RefreshRequest  false  "refresh token"
// @Success      200  {object}  common.APIResponse{data=domain.TokenPair}
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		cookie, cerr := c.Cookie(refreshCookieName)
		if cerr != nil || cookie == "" {
			common.ErrorResponse(c, http.StatusBadRequest, "refresh_token is required", nil)
			return
		}
		req.RefreshToken = cookie
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken, clientInfo(c))
	if err != nil {
		if common.StatusFor(err) == http.StatusUnauthorized {
			h.clearRefreshTokenCookie(c)
		}
		common.HandleError(c, err)
		return
	}
	h.setRefreshTokenCookie(c, tokens.RefreshToken)
	common.Success(c, tokens)
}

// Logout godoc
// @Summary      로그아웃
// @Description  현재 access token을 블랙리스트에 등록하고 세션을 종료합니다
// @Tags         auth
// @Success      204
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.GetToken(c), middleware.GetClaims(c)); err != nil {
		common.HandleError(c, err)
		return
	}
	h.clearRefreshTokenCookie(c)
	common.NoContent(c)
}

// LogoutAll godoc
// @Summary      모든 기기에서 로그아웃
// @Tags         auth
// @Produce      json
// @Success      200  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	closed, err := h.service.LogoutAll(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	h.clearRefreshTokenCookie(c)
	common.Success(c, gin.H{"sessions_closed": closed})
}

// Me godoc
// @Summary      내 정보
// @Tags         auth
// @Produce      json
// @Success      200  {object}  common.APIResponse{data=domain.User}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, user)
}

// setRefreshTokenCookie sets the refresh token as an httpOnly cookie scoped to the auth routes
func (h *AuthHandler) setRefreshTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, h.refreshMaxAge, "/api/v1/auth", "", h.secureCookies, true)
}

func (h *AuthHandler) clearRefreshTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, "/api/v1/auth", "", h.secureCookies, true)
}
