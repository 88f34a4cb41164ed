package model

import "time"

// 1ユーザーにつき1つ。
// TotalAmount は明細から再計算した値（配送料込み）のキャッシュ。
type Cart struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"not null;uniqueIndex" json:"userId"`
	Token       string    `gorm:"type:varchar(64);not null" json:"token"`
	TotalAmount int64     `gorm:"not null;default:0" json:"totalAmount"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
