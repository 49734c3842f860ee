package repository

import (
	"context"
	"time"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository 사용자 저장소 인터페이스
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, page, limit int) ([]*domain.User, int64, error)
	UpdateRole(ctx context.Context, id uint64, role domain.Role) error
	TouchLastLogin(ctx context.Context, id uint64, at time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, userError(err)
	}
	return &user, nil
}

// FindByLogin matches either email or username
func (r *userRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", login, login).
		First(&user).Error
	if err != nil {
		return nil, userError(err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) List(ctx context.Context, page, limit int) ([]*domain.User, int64, error) {
	var users []*domain.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (r *userRepository) UpdateRole(ctx context.Context, id uint64, role domain.Role) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

func userError(err error) error {
	if translated := translate(err); translated == common.ErrNotFound {
		return common.ErrUserNotFound
	}
	return err
}

// SessionRepository 세션(리프레시 토큰) 저장소
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	FindByTokenID(ctx context.Context, tokenID string) (*domain.Session, error)
	Revoke(ctx context.Context, tokenID string, at time.Time) error
	RevokeAllForUser(ctx context.Context, userID uint64, at time.Time) ([]string, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) FindByTokenID(ctx context.Context, tokenID string) (*domain.Session, error) {
	var session domain.Session
	if err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&session).Error; err != nil {
		if translate(err) == common.ErrNotFound {
			return nil, common.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Revoke closes a live session; ErrSessionNotFound when it is unknown or already revoked
func (r *sessionRepository) Revoke(ctx context.Context, tokenID string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("token_id = ? AND revoked_at IS NULL", tokenID).
		Update("revoked_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrSessionNotFound
	}
	return nil
}

// RevokeAllForUser revokes every live session and returns their token ids
func (r *sessionRepository) RevokeAllForUser(ctx context.Context, userID uint64, at time.Time) ([]string, error) {
	var tokenIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Session{}).
			Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, at).
			Pluck("token_id", &tokenIDs).Error; err != nil {
			return err
		}
		if len(tokenIDs) == 0 {
			return nil
		}
		return tx.Model(&domain.Session{}).
			Where("token_id IN ?", tokenIDs).
			Update("revoked_at", at).Error
	})
	return tokenIDs, err
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&domain.Session{})
	return res.RowsAffected, res.Error
}
