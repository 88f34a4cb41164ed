package model

import "time"

type DiscountType string

const (
	DiscountTypePercent DiscountType = "PERCENT"
	DiscountTypeFixed   DiscountType = "FIXED"
)

type PromoCode struct {
	ID            int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Code          string       `gorm:"type:varchar(64);not null;uniqueIndex" json:"code"`
	IsActive      bool         `gorm:"not null" json:"isActive"`
	DiscountType  DiscountType `gorm:"type:varchar(20);not null" json:"discountType"`
	DiscountValue int64        `gorm:"not null" json:"discountValue"`

	// nil は無制限
	ExpiresAt      *time.Time `json:"expiresAt"`
	MinOrderAmount *int64     `json:"minOrderAmount"`
	MaxUses        *int64     `json:"maxUses"`

	UsedCount    int64     `gorm:"not null;default:0" json:"usedCount"`
	FreeShipping bool      `gorm:"not null;default:false" json:"freeShipping"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
