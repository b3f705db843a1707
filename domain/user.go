package domain

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	UID                 string  `gorm:"column:uid;primaryKey" json:"uid"`
	Username            string  `gorm:"column:username;not null" json:"username"`
	Email               string  `gorm:"column:email;unique;not null" json:"email"`
	Password            string  `gorm:"column:password;not null" json:"-"`
	IsVerified          bool    `gorm:"column:is_verified;default:false" json:"is_verified"`
	OnboardingCompleted bool    `gorm:"column:onboarding_completed;default:false" json:"onboarding_completed"`
	Role                string  `gorm:"column:role;default:customer" json:"role"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
