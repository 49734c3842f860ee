package repository

import (
	"context"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingRepository 평점 저장소 인터페이스
type RatingRepository interface {
	Upsert(ctx context.Context, rating *domain.Rating) error
	Find(ctx context.Context, userID uint64, ct domain.ContentType, contentID uint64) (*domain.Rating, error)
	Delete(ctx context.Context, userID uint64, ct domain.ContentType, contentID uint64) error
	Summary(ctx context.Context, ct domain.ContentType, contentID uint64) (*domain.RatingSummary, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new RatingRepository
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert inserts the rating or updates the existing (user, content) row
func (r *ratingRepository) Upsert(ctx context.Context, rating *domain.Rating) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_type"}, {Name: "content_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "review", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		return err
	}
	// the id is unreliable after an update path, reload the row
	stored, err := r.Find(ctx, rating.UserID, rating.ContentType, rating.ContentID)
	if err != nil {
		return err
	}
	*rating = *stored
	return nil
}

func (r *ratingRepository) Find(ctx context.Context, userID uint64, ct domain.ContentType, contentID uint64) (*domain.Rating, error) {
	var rating domain.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND content_type = ? AND content_id = ?", userID, ct, contentID).
		First(&rating).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rating, nil
}

func (r *ratingRepository) Delete(ctx context.Context, userID uint64, ct domain.ContentType, contentID uint64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND content_type = ? AND content_id = ?", userID, ct, contentID).
		Delete(&domain.Rating{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *ratingRepository) Summary(ctx context.Context, ct domain.ContentType, contentID uint64) (*domain.RatingSummary, error) {
	var rows []struct {
		Score int
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).
		Select("score, COUNT(*) AS count").
		Where("content_type = ? AND content_id = ?", ct, contentID).
		Group("score").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &domain.RatingSummary{
		ContentType:  ct,
		ContentID:    contentID,
		Distribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	var sum int64
	for _, row := range rows {
		summary.Distribution[row.Score] = row.Count
		summary.Count += row.Count
		sum += int64(row.Score) * row.Count
	}
	if summary.Count > 0 {
		summary.Average = float64(sum) / float64(summary.Count)
	}
	return summary, nil
}
