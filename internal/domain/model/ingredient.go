package model

import "time"

// トッピング（商品・カテゴリとは独立）
type Ingredient struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Price     int64     `gorm:"not null" json:"price"`
	ImageURL  string    `gorm:"type:text" json:"imageUrl"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
}
