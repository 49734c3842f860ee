package repository

import (
	"testing"

	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Session{}, &domain.Author{},
		&domain.Category{}, &domain.Tag{},
		&domain.Article{}, &domain.BlogPost{}, &domain.WikiPage{}, &domain.GalleryItem{}, &domain.Story{},
		&domain.Comment{}, &domain.Rating{}, &domain.ContentVersion{}, &domain.Notification{},
	))
	return db
}
