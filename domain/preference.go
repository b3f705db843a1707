package domain

import "time"

// UserPreference stores the one-time onboarding answers. The values are
// option indexes from the mobile client's preference screens.
type UserPreference struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	Type      int       `gorm:"column:type" json:"type"`
	Body      int       `gorm:"column:body" json:"body"`
	Intensity int       `gorm:"column:intensity" json:"intensity"`
	Dryness   int       `gorm:"column:dryness" json:"dryness"`
	ABV       int       `gorm:"column:abv" json:"abv"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}

type FavoriteWine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;index" json:"user_id"`
	WineID    int       `gorm:"column:wine_id;not null" json:"wine_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (FavoriteWine) TableName() string {
	return "favorite_wines"
}
