package postgres

import (
	"context"
	"errors"
	"tuvino/domain"

	"gorm.io/gorm"
)

type FavoriteRepository struct {
	DB *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{
		DB: db,
	}
}

func (r *FavoriteRepository) Add(ctx context.Context, fav *domain.FavoriteWine) error {
	var existing domain.FavoriteWine

	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND wine_id = ?", fav.UserID, fav.WineID).
		First(&existing).Error
	if err == nil {
		// already favorited
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return r.DB.WithContext(ctx).Create(&fav).Error
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID string, wineID int) error {
	result := r.DB.WithContext(ctx).
		Where("user_id = ? AND wine_id = ?", userID, wineID).
		Delete(&domain.FavoriteWine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrWineNotFound
	}

	return nil
}

func (r *FavoriteRepository) FindWinesByUserID(ctx context.Context, userID string) ([]domain.Wine, error) {
	var wines []domain.Wine

	err := r.DB.WithContext(ctx).
		Table("wines").
		Select("wines.*").
		Joins("JOIN favorite_wines ON favorite_wines.wine_id = wines.wine_id").
		Where("favorite_wines.user_id = ?", userID).
		Order("favorite_wines.created_at DESC").
		Scan(&wines).Error
	if err != nil {
		return nil, err
	}

	return wines, nil
}
