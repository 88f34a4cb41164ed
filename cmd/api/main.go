package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"foodcart/internal/config"
	"foodcart/internal/handler"
	"foodcart/internal/infra/db"
	"foodcart/internal/infra/notify"
	infraRepo "foodcart/internal/infra/repository"
	"foodcart/internal/platform/logger"
	"foodcart/internal/server"
	"foodcart/internal/usecase"
	"foodcart/internal/validator"
)

func main() {
	// .envが無くても環境変数で動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("db connect failed", "err", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("db migrate failed", "err", err)
	}

	//カート変更通知（REDIS_ADDR未設定なら何もしない）
	notifier, err := notify.New(cfg.RedisAddr, cfg.RedisChannel, log)
	if err != nil {
		log.Fatal("redis connect failed", "err", err)
	}
	defer notifier.Close()

	//Repository / Usecase
	tm := infraRepo.NewTxManagerGorm(gormDB)
	promoUC := usecase.NewPromoUsecase(
		infraRepo.NewPromoCodeGormRepository(gormDB),
		usecase.PromoPolicy{CapFixedToAmount: cfg.PromoCapFixedToSubtotal},
		nil,
		log,
	)
	cartUC := usecase.NewCartUsecase(tm, validator.NewCartValidator(), promoUC, notifier, log, cfg.DeliveryPrice)
	janitorUC := usecase.NewVariantJanitorUsecase(tm, cfg.JanitorGrace, nil, log)

	//Handler / Server
	e := server.New(log, server.Handlers{
		Cart:   handler.NewCartHandler(cartUC),
		Promo:  handler.NewPromoHandler(promoUC),
		Health: handler.NewHealthHandler(gormDB),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx, e, cfg.Addr(), log)
	})
	if cfg.JanitorInterval > 0 {
		g.Go(func() error {
			log.Info("variant janitor started", "interval", cfg.JanitorInterval, "grace", cfg.JanitorGrace)
			return janitorUC.Loop(gctx, cfg.JanitorInterval)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
