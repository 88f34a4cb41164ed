package model

import "time"

// カタログの商品（カートからは読み取り専用）
type Product struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Price      int64     `gorm:"not null" json:"price"`
	ImageURL   string    `gorm:"type:text" json:"imageUrl"`
	CategoryID int64     `gorm:"not null;index" json:"categoryId"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
