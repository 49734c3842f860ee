package service

import (
	"context"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/pkg/ginutil"
)

// SessionCloser ends every session of a user
type SessionCloser interface {
	LogoutAll(ctx context.Context, userID uint64) (int, error)
}

// UserService is the admin view of accounts
type UserService struct {
	repo     repository.UserRepository
	sessions SessionCloser
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository, sessions SessionCloser) *UserService {
	return &UserService{repo: repo, sessions: sessions}
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, page, limit int) ([]*domain.User, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > ginutil.MaxPageSize {
		limit = ginutil.DefaultPageSize
	}
	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return users, common.NewMeta(page, limit, total), nil
}

// UpdateRole changes a user's role; tokens carry the role, so the user's sessions are closed
func (s *UserService) UpdateRole(ctx context.Context, actor *Actor, id uint64, role domain.Role) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrForbidden
	}
	if !role.Valid() {
		return nil, common.ErrInvalidInput
	}
	if actor.UserID == id {
		// 자기 자신의 권한은 변경 불가
		return nil, common.ErrForbidden
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	user.Role = role
	if _, err := s.sessions.LogoutAll(ctx, id); err != nil {
		return nil, err
	}
	return user, nil
}
