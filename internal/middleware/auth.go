package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/service"
	"github.com/mediaportal/portal-backend/pkg/jwt"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
)

// gin context keys
const (
	ctxActor  = "actor"
	ctxClaims = "claims"
	ctxToken  = "token"
)

// TokenChecker reports whether a verified token was revoked
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, claims *jwt.Claims) (bool, error)
}

// JWTAuth requires a valid, unrevoked access token
func JWTAuth(jwtManager *jwt.Manager, blacklist TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authenticate(c, jwtManager, blacklist); err != nil {
			common.HandleError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth sets the actor when a valid token is presented; anonymous otherwise.
// A presented but invalid token is still rejected.
func OptionalAuth(jwtManager *jwt.Manager, blacklist TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rawToken(c) == "" {
			c.Next()
			return
		}
		if err := authenticate(c, jwtManager, blacklist); err != nil {
			common.HandleError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// rawToken returns the Authorization header; WebSocket upgrades may pass ?access_token= instead
func rawToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return h
	}
	if c.IsWebsocket() {
		if t := c.Query("access_token"); t != "" {
			return "Bearer " + t
		}
	}
	return ""
}

func authenticate(c *gin.Context, jwtManager *jwt.Manager, blacklist TokenChecker) error {
	// 1. Bearer 토큰 추출
	authHeader := rawToken(c)
	if authHeader == "" {
		return common.ErrUnauthorized
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return common.ErrInvalidToken
	}
	tokenString := parts[1]

	// 2. 서명/만료 검증
	claims, err := jwtManager.VerifyAccessToken(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return common.ErrExpiredToken
		}
		return common.ErrInvalidToken
	}

	// 3. 블랙리스트 확인 (jti, sid)
	if blacklist != nil {
		revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims)
		if err != nil {
			// Redis 장애 시 통과
			pkglogger.GetLogger().Warn().Err(err).Msg("blacklist check failed")
		} else if revoked {
			return common.ErrTokenRevoked
		}
	}

	// 4. context에 저장
	c.Set(ctxClaims, claims)
	c.Set(ctxToken, tokenString)
	c.Set(ctxActor, &service.Actor{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     domain.Role(claims.Role),
	})
	return nil
}

// RequireRoles allows only the given roles; must run after JWTAuth
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor == nil {
			common.HandleError(c, common.ErrUnauthorized)
			c.Abort()
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		common.ErrorResponse(c, http.StatusForbidden, "insufficient role", nil)
		c.Abort()
	}
}

// RequireStaff allows ADMIN and MODERATOR
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(domain.RoleAdmin, domain.RoleModerator)
}

// RequireAdmin allows ADMIN only
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(domain.RoleAdmin)
}

// GetActor returns the authenticated caller, or nil for anonymous requests
func GetActor(c *gin.Context) *service.Actor {
	v, ok := c.Get(ctxActor)
	if !ok {
		return nil
	}
	actor, _ := v.(*service.Actor)
	return actor
}

// GetUserID returns the authenticated user's ID, or 0
func GetUserID(c *gin.Context) uint64 {
	if actor := GetActor(c); actor != nil {
		return actor.UserID
	}
	return 0
}

// GetClaims returns the verified token claims
func GetClaims(c *gin.Context) *jwt.Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

// GetToken returns the raw bearer token
func GetToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}
