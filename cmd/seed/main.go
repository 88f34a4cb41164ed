package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"foodcart/internal/config"
	"foodcart/internal/infra/db"
	"foodcart/internal/infra/seed"
	"foodcart/internal/platform/logger"
)

// 商品・トッピング・プロモの初期データ投入（SEED_FILE未指定なら埋め込み）
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
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("db migrate failed", "err", err)
	}

	f, err := seed.Load(cfg.SeedFile)
	if err != nil {
		log.Fatal("seed load failed", "err", err)
	}
	if err := seed.Apply(context.Background(), gormDB, f); err != nil {
		log.Error("seed apply failed", "err", err)
		os.Exit(1)
	}
	log.Info("seed done", "products", len(f.Products), "ingredients", len(f.Ingredients), "promoCodes", len(f.PromoCodes))
}
