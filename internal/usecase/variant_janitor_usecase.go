package usecase

import (
	"context"
	"time"

	"foodcart/internal/platform/logger"
	repo "foodcart/internal/repository"
)

// 自動作成したデフォルトバリエーションの掃除。
// リクエスト処理中には消さず、作成から grace 以上経って
// どの明細からも参照されていないものだけを消す。
type VariantJanitorUsecase struct {
	tx    repo.TransactionManager
	grace time.Duration
	clock Clock
	log   *logger.Logger
}

// DI
func NewVariantJanitorUsecase(tx repo.TransactionManager, grace time.Duration, clock Clock, log *logger.Logger) *VariantJanitorUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &VariantJanitorUsecase{
		tx:    tx,
		grace: grace,
		clock: clock,
		log:   log,
	}
}

// Run は1回分の掃除。削除件数を返す。
func (u *VariantJanitorUsecase) Run(ctx context.Context) (int64, error) {
	before := u.clock.Now().Add(-u.grace)

	var deleted int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		n, err := r.Variants().DeleteUnreferencedSynthetic(ctx, before)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		u.log.Error("variant janitor failed", "err", err)
		return 0, dbError(err)
	}

	if deleted > 0 {
		u.log.Info("variant janitor", "deleted", deleted)
	}
	return deleted, nil
}

// Loop は ctx が終わるまで interval ごとに Run する。
// 1回の失敗では止めない（Run がログを出し、次の周期で再試行）。
func (u *VariantJanitorUsecase) Loop(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	var total, failures int64
	for {
		select {
		case <-ctx.Done():
			u.log.Debug("variant janitor stopped", "deleted", total, "failures", failures)
			return nil
		case <-t.C:
			n, err := u.Run(ctx)
			if err != nil {
				failures++
				continue
			}
			total += n
			u.log.Debug("variant janitor tick", "deleted", n, "totalDeleted", total)
		}
	}
}
