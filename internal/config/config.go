package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // IDプロバイダと共有するJWT署名シークレット

	RedisAddr     string // 空ならキャッシュ無効
	RedisPassword string

	GoEnv string // dev/prod
}

// Loadは環境変数から設定を読む。
// DB接続情報は infra/db 側で DATABASE_URL / POSTGRES_* を見る
func Load() (Config, error) {
	cfg := Config{
		Port:          os.Getenv("PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		GoEnv:         os.Getenv("GO_ENV"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
