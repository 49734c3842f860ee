package migration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mediaportal/portal-backend/internal/domain"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Models lists every table of the portal in creation order
func Models() []interface{} {
	return []interface{}{
		&domain.User{}, &domain.Session{}, &domain.Author{},
		&domain.Category{}, &domain.Tag{},
		&domain.Article{}, &domain.BlogPost{}, &domain.WikiPage{}, &domain.GalleryItem{}, &domain.Story{},
		&domain.Comment{}, &domain.Rating{}, &domain.ContentVersion{}, &domain.Notification{},
	}
}

// Run executes AutoMigrate for every table and seeds default categories if empty.
func Run(db *gorm.DB) error {
	// 1. AutoMigrate - 테이블 없으면 생성, 있으면 컬럼만 보강
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// 2. Seed - categories 테이블이 비어있을 때만 기본 카테고리 삽입
	var count int64
	if err := db.Model(&domain.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return seedCategories(db)
	}
	return nil
}

func seedCategories(db *gorm.DB) error {
	categories := []domain.Category{
		{Name: "News", Slug: "news", Description: "Reporting and announcements"},
		{Name: "Culture", Slug: "culture", Description: "Film, music, books and art"},
		{Name: "Technology", Slug: "technology", Description: "Software, hardware and the web"},
		{Name: "Fiction", Slug: "fiction", Description: "Serialised stories and short fiction"},
		{Name: "Photography", Slug: "photography", Description: "Gallery collections"},
		{Name: "Guides", Slug: "guides", Description: "How-tos and reference pages"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	pkglogger.Info("[Migration] seeded %d categories", len(categories))
	return nil
}

// EnsureAdmin creates an ADMIN account, or promotes the existing account with that email.
// Returns true when a new row was inserted.
func EnsureAdmin(ctx context.Context, db *gorm.DB, email, username, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.ToLower(strings.TrimSpace(username))
	if email == "" || username == "" {
		return false, errors.New("email and username are required")
	}

	var user domain.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		if user.Role == domain.RoleAdmin {
			return false, nil
		}
		return false, db.WithContext(ctx).Model(&user).Update("role", domain.RoleAdmin).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if len(password) < 8 {
		return false, errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	user = domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  username,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}
