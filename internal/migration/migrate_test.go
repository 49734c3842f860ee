package migration

import (
	"context"
	"testing"

	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestRun_IsIdempotentAndSeedsOnce(t *testing.T) {
	db := openDB(t)

	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	var count int64
	require.NoError(t, db.Model(&domain.Category{}).Count(&count).Error)
	assert.Equal(t, int64(6), count)

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestEnsureAdmin(t *testing.T) {
	db := openDB(t)
	require.NoError(t, Run(db))
	ctx := context.Background()

	created, err := EnsureAdmin(ctx, db, " Root@Example.com ", "Root", "supersecret")
	require.NoError(t, err)
	assert.True(t, created)

	var admin domain.User
	require.NoError(t, db.Where("email = ?", "root@example.com").First(&admin).Error)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, "root", admin.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("supersecret")))

	created, err = EnsureAdmin(ctx, db, "root@example.com", "root", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEnsureAdmin_PromotesExistingUser(t *testing.T) {
	db := openDB(t)
	require.NoError(t, Run(db))
	require.NoError(t, db.Create(&domain.User{Email: "ed@example.com", Username: "ed", PasswordHash: "x", Role: domain.RoleUser, IsActive: true}).Error)

	created, err := EnsureAdmin(context.Background(), db, "ed@example.com", "ed", "")
	require.NoError(t, err)
	assert.False(t, created)

	var user domain.User
	require.NoError(t, db.Where("email = ?", "ed@example.com").First(&user).Error)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestEnsureAdmin_RejectsShortPassword(t *testing.T) {
	db := openDB(t)
	require.NoError(t, Run(db))

	_, err := EnsureAdmin(context.Background(), db, "a@example.com", "a", "short")
	assert.Error(t, err)
}
