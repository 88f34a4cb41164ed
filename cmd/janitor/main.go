package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"foodcart/internal/config"
	"foodcart/internal/infra/db"
	infraRepo "foodcart/internal/infra/repository"
	"foodcart/internal/platform/logger"
	"foodcart/internal/usecase"
)

// 自動作成バリエーションの掃除を1回だけ行う（cron用）
func main() {
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

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("db connect failed", "err", err)
	}

	j := usecase.NewVariantJanitorUsecase(infraRepo.NewTxManagerGorm(gormDB), cfg.JanitorGrace, nil, log)
	n, err := j.Run(context.Background())
	if err != nil {
		log.Error("janitor failed", "err", err)
		os.Exit(1)
	}
	log.Info("janitor done", "deleted", n)
}
