package postgres

import (
	"context"
	"errors"
	"tuvino/domain"

	"gorm.io/gorm"
)

type RatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{
		DB: db,
	}
}

// Upsert creates the rating, or overwrites an existing rating the user
// already left for the same wine.
func (r *RatingRepository) Upsert(ctx context.Context, rating *domain.WineRating) error {
	var existing domain.WineRating

	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND wine_id = ?", rating.UserID, rating.WineID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.DB.WithContext(ctx).Create(&rating).Error
		}
		return err
	}

	rating.ID = existing.ID
	return r.DB.WithContext(ctx).Model(&existing).
		Updates(map[string]any{
			"rating": rating.Rating,
			"review": rating.Review,
			"date":   rating.Date,
			"year":   rating.Year,
		}).Error
}

func (r *RatingRepository) FindByUserID(ctx context.Context, userID string) ([]domain.WineRating, error) {
	var ratings []domain.WineRating

	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&ratings).Error
	if err != nil {
		return nil, err
	}

	return ratings, nil
}

func (r *RatingRepository) FindByUserAndWine(ctx context.Context, userID string, wineID int) (domain.WineRating, error) {
	var rating domain.WineRating

	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND wine_id = ?", userID, wineID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.WineRating{}, domain.ErrRatingNotFound
		}
		return domain.WineRating{}, err
	}

	return rating, nil
}

func (r *RatingRepository) FindByWineID(ctx context.Context, wineID int) ([]domain.WineRating, error) {
	var ratings []domain.WineRating

	err := r.DB.WithContext(ctx).Where("wine_id = ?", wineID).
		Order("created_at DESC").Find(&ratings).Error
	if err != nil {
		return nil, err
	}

	return ratings, nil
}

// FindRecordsByUserID joins ratings with the rated wines' attributes,
// which is the shape the feature builder consumes.
func (r *RatingRepository) FindRecordsByUserID(ctx context.Context, userID string) ([]domain.RatingRecord, error) {
	var records []domain.RatingRecord

	err := r.DB.WithContext(ctx).
		Table("wine_ratings").
		Select(`wine_ratings.wine_id,
			wine_ratings.rating,
			wine_ratings.review,
			wine_ratings.created_at,
			wines.type AS wine_type,
			wines.body,
			wines.acidity,
			wines.country,
			wines.grapes AS grape,
			wines.abv`).
		Joins("JOIN wines ON wines.wine_id = wine_ratings.wine_id").
		Where("wine_ratings.user_id = ? AND wine_ratings.deleted_at IS NULL", userID).
		Order("wine_ratings.created_at ASC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *RatingRepository) Delete(ctx context.Context, userID string, wineID int) error {
	result := r.DB.WithContext(ctx).
		Where("user_id = ? AND wine_id = ?", userID, wineID).
		Delete(&domain.WineRating{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrRatingNotFound
	}

	return nil
}
