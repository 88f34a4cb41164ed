package usecase

import "context"

// コミット後に他の端末へカート変更を知らせる
type CartChangedEvent struct {
	CartID      int64  `json:"cartId"`
	UserID      int64  `json:"userId"`
	TotalAmount int64  `json:"totalAmount"`
	Op          string `json:"op"`
}

type CartNotifier interface {
	CartChanged(ctx context.Context, ev CartChangedEvent) error
}

type noopNotifier struct{}

func (noopNotifier) CartChanged(ctx context.Context, ev CartChangedEvent) error { return nil }
