package postgres

import (
	"context"
	"errors"
	"tuvino/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WineRepository struct {
	DB *gorm.DB
}

func NewWineRepository(db *gorm.DB) *WineRepository {
	return &WineRepository{
		DB: db,
	}
}

func (r *WineRepository) Create(ctx context.Context, wine *domain.Wine) error {
	if err := r.DB.WithContext(ctx).Create(&wine).Error; err != nil {
		return err
	}

	return nil
}

func (r *WineRepository) FindByWineID(ctx context.Context, wineID int) (domain.Wine, error) {
	var wine domain.Wine

	err := r.DB.WithContext(ctx).Where("wine_id = ?", wineID).First(&wine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Wine{}, domain.ErrWineNotFound
		}
		return domain.Wine{}, err
	}

	return wine, nil
}

func (r *WineRepository) FindByWineIDs(ctx context.Context, wineIDs []int) ([]domain.Wine, error) {
	var wines []domain.Wine

	if err := r.DB.WithContext(ctx).Where("wine_id IN ?", wineIDs).Find(&wines).Error; err != nil {
		return nil, err
	}

	return wines, nil
}

// Search filters the catalog and paginates. Name matching is a
// case-insensitive substring match, with wines whose name starts with
// the query ordered first.
func (r *WineRepository) Search(ctx context.Context, query domain.WineSearchQuery) ([]domain.Wine, int64, error) {
	var wines []domain.Wine
	var total int64

	tx := r.DB.WithContext(ctx).Model(&domain.Wine{})

	if query.Name != "" {
		tx = tx.Where("wine_name ILIKE ?", "%"+query.Name+"%")
	}
	if query.Type != "" {
		tx = tx.Where("type ILIKE ?", query.Type)
	}
	if query.Body != "" {
		tx = tx.Where("body ILIKE ?", query.Body)
	}
	if query.Country != "" {
		tx = tx.Where("country ILIKE ?", query.Country)
	}
	if query.ABVMin != nil {
		tx = tx.Where("abv >= ?", *query.ABVMin)
	}
	if query.ABVMax != nil {
		tx = tx.Where("abv <= ?", *query.ABVMax)
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.Name != "" {
		tx = tx.Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "(wine_name ILIKE ?) DESC, wine_name ASC",
			Vars:               []any{query.Name + "%"},
			WithoutParentheses: true,
		}})
	} else {
		tx = tx.Order("wine_name ASC")
	}

	offset := (query.Page - 1) * query.PageSize
	if err := tx.Limit(query.PageSize).Offset(offset).Find(&wines).Error; err != nil {
		return nil, 0, err
	}

	return wines, total, nil
}

func (r *WineRepository) Update(ctx context.Context, wine *domain.Wine) error {
	var existing domain.Wine
	if err := r.DB.WithContext(ctx).Where("wine_id = ?", wine.WineID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrWineNotFound
		}
		return err
	}

	if err := r.DB.WithContext(ctx).Model(&domain.Wine{}).Where("wine_id = ?", wine.WineID).
		Updates(wine).Error; err != nil {
		return err
	}

	return nil
}

func (r *WineRepository) UpdateSummary(ctx context.Context, wineID int, summary string) error {
	result := r.DB.WithContext(ctx).Model(&domain.Wine{}).Where("wine_id = ?", wineID).
		Update("summary", summary)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrWineNotFound
	}

	return nil
}

func (r *WineRepository) Delete(ctx context.Context, wineID int) error {
	result := r.DB.WithContext(ctx).Where("wine_id = ?", wineID).Delete(&domain.Wine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrWineNotFound
	}

	return nil
}
