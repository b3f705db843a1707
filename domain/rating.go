package domain

import (
	"time"

	"gorm.io/gorm"
)

type WineRating struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"column:user_id;not null;index" json:"user_id"`
	WineID    int            `gorm:"column:wine_id;not null;index" json:"wine_id"`
	Rating    float64        `gorm:"column:rating;not null" json:"rating"`
	Review    string         `gorm:"column:review;type:text" json:"review,omitempty"`
	Date      time.Time      `gorm:"column:date" json:"date"`
	Year      int            `gorm:"column:year" json:"year"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (WineRating) TableName() string {
	return "wine_ratings"
}

// RatingRecord is one rating denormalized with the wine attributes the
// feature computation needs. It is an immutable snapshot assembled at
// read time, never persisted in this shape.
//
// CreatedAt is optional: ratings imported without a date still count for
// every non-temporal feature.
type RatingRecord struct {
	WineID     int
	Rating     float64
	Review     string
	WineType   string
	Body       string
	Acidity    string
	Country    string
	Grape      string
	ABV        float64
	Complexity float64
	IsReserve  bool
	IsGrand    bool
	CreatedAt  *time.Time
}

// TastedWine is a rated wine joined with its catalog row for the
// wines/status endpoint.
type TastedWine struct {
	Wine   Wine    `json:"wine"`
	Rating float64 `json:"rating"`
	Review string  `json:"review,omitempty"`
}
