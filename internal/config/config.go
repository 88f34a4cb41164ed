package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod（ログ形式）

	DBDriver    string // postgres / sqlite
	DatabaseURL string // あれば POSTGRES_* より優先
	SQLitePath  string // DB_DRIVER=sqlite のときのファイル

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	DeliveryPrice int64 // 配送料（合計に毎回加算）

	// FIXED割引を小計で頭打ちにするか
	PromoCapFixedToSubtotal bool

	JanitorInterval time.Duration // 0なら掃除ジョブを動かさない
	JanitorGrace    time.Duration // 作成からこの時間が経つまでは消さない

	RedisAddr    string // 空なら通知しない
	RedisChannel string

	SeedFile string
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := intOr("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	delivery, err := intOr("DELIVERY_PRICE", 50)
	if err != nil {
		return Config{}, err
	}
	capFixed, err := boolOr("PROMO_CAP_FIXED_TO_SUBTOTAL", false)
	if err != nil {
		return Config{}, err
	}
	interval, err := durationOr("JANITOR_INTERVAL", 0)
	if err != nil {
		return Config{}, err
	}
	grace, err := durationOr("JANITOR_GRACE", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getenv("SQLITE_PATH", "foodcart.db"),

		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "foodcart"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     int(pgPort),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		DeliveryPrice:           delivery,
		PromoCapFixedToSubtotal: capFixed,

		JanitorInterval: interval,
		JanitorGrace:    grace,

		RedisAddr:    strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisChannel: getenv("REDIS_CHANNEL", "cart"),

		SeedFile: os.Getenv("SEED_FILE"), // 空なら埋め込みの初期データ
	}

	//値チェック
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or sqlite")
	}
	if cfg.DeliveryPrice < 0 {
		return Config{}, fmt.Errorf("DELIVERY_PRICE must be >= 0")
	}
	if cfg.JanitorInterval < 0 || cfg.JanitorGrace < 0 {
		return Config{}, fmt.Errorf("JANITOR_INTERVAL and JANITOR_GRACE must be >= 0")
	}

	return cfg, nil
}

// ":8080" の形にする
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intOr(key string, def int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func boolOr(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
