package model

import "time"

// 商品のバリエーション（サイズ・生地タイプ）。
// 選択されている場合は Product.Price ではなくこちらの Price を使う。
type ProductVariant struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64 `gorm:"not null;index" json:"productId"`
	Price     int64 `gorm:"not null" json:"price"`
	Size      *int  `json:"size"`
	Type      *int  `json:"type"`

	// バリエーション未指定の追加時に自動作成したデフォルト
	IsSynthetic bool `gorm:"not null;default:false;index" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}
