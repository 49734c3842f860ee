package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/jobs"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/pkg/jwt"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// TokenRevoker stores revoked tokens and sessions
type TokenRevoker interface {
	AddToken(ctx context.Context, token string) (bool, error)
	RevokeSessions(ctx context.Context, sessionIDs []string, ttl time.Duration) error
}

// ClientInfo describes where a login came from
type ClientInfo struct {
	UserAgent string
	IP        string
}

// AuthService authentication business logic
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	jwtManager *jwt.Manager
	revoker    TokenRevoker
	jobs       jobs.Enqueuer
	bcryptCost int
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	jwtManager *jwt.Manager,
	revoker TokenRevoker,
	enqueuer jobs.Enqueuer,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		jwtManager: jwtManager,
		revoker:    revoker,
		jobs:       enqueuer,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// Register creates a USER account and queues the welcome email
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrEmailTaken
	}
	exists, err = s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = username
	}

	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrEmailTaken
		}
		return nil, err
	}

	err = s.jobs.EnqueueEmail(ctx, jobs.EmailPayload{
		To:      user.Email,
		Subject: "Welcome to the portal",
		Body:    fmt.Sprintf("Hi %s,\n\nyour account %q is ready.\n", user.DisplayName, user.Username),
	})
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("user_id", user.ID).Msg("enqueue welcome email failed")
	}
	return user, nil
}

// Login authenticates by email or username and opens a session
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest, client ClientInfo) (*domain.AuthResponse, error) {
	user, err := s.users.FindByLogin(ctx, strings.TrimSpace(req.Login))
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, common.ErrAccountDisabled
	}

	pair, err := s.issueTokens(ctx, user, client)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("user_id", user.ID).Msg("last login update failed")
	}
	user.LastLoginAt = &now
	return &domain.AuthResponse{TokenPair: *pair, User: user}, nil
}

// issueTokens creates a session row keyed by the refresh token's jti and an access token bound to it
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User, client ClientInfo) (*domain.TokenPair, error) {
	refreshToken, jti, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	session := &domain.Session{
		UserID:    user.ID,
		TokenID:   jti,
		UserAgent: truncate(client.UserAgent, 255),
		IP:        truncate(client.IP, 45),
		ExpiresAt: s.now().Add(s.jwtManager.RefreshDuration()),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, string(user.Role), jti)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwtManager.AccessDuration().Seconds()),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Refresh rotates a refresh token: the old session is revoked and a new one opened
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, common.ErrExpiredToken
		}
		return nil, common.ErrInvalidToken
	}

	session, err := s.sessions.FindByTokenID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrSessionNotFound) {
			return nil, common.ErrTokenRevoked
		}
		return nil, err
	}
	now := s.now()
	if !session.Active(now) || session.UserID != claims.UserID {
		return nil, common.ErrTokenRevoked
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrAccountDisabled
	}

	// 동시에 들어온 같은 토큰 중 revoke에 성공한 쪽만 회전한다
	if err := s.sessions.Revoke(ctx, session.TokenID, now); err != nil {
		if errors.Is(err, common.ErrSessionNotFound) {
			return nil, common.ErrTokenRevoked
		}
		return nil, err
	}
	return s.issueTokens(ctx, user, client)
}

// Logout blacklists the presented access token and closes its session
func (s *AuthService) Logout(ctx context.Context, accessToken string, claims *jwt.Claims) error {
	if _, err := s.revoker.AddToken(ctx, accessToken); err != nil {
		return err
	}
	if claims != nil && claims.SessionID != "" {
		err := s.sessions.Revoke(ctx, claims.SessionID, s.now())
		if err != nil && !errors.Is(err, common.ErrSessionNotFound) {
			return err
		}
	}
	return nil
}

// LogoutAll closes every session of the user and rejects all tokens bound to them
func (s *AuthService) LogoutAll(ctx context.Context, userID uint64) (int, error) {
	sids, err := s.sessions.RevokeAllForUser(ctx, userID, s.now())
	if err != nil {
		return 0, err
	}
	if err := s.revoker.RevokeSessions(ctx, sids, s.jwtManager.AccessDuration()); err != nil {
		return 0, err
	}
	return len(sids), nil
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context, actor *Actor) (*domain.User, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized
	}
	return s.users.FindByID(ctx, actor.UserID)
}

// PurgeExpiredSessions deletes session rows that expired before now
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}
