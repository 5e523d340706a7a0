// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
)

// セッションクッキーの保存方式です。
const (
	BackendCookie  = "cookie"
	BackendSession = "session"
)

// MinSecretLength は release モードで要求するシークレットの最小バイト数です。
const MinSecretLength = 32

// Config はアプリケーションの設定を保持する構造体です。
// 起動時に1回読み込み、以降は変更しません。
type Config struct {
	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// セッション設定
	SessionSecret   string // クッキー署名・暗号化用のシークレット
	EphemeralSecret bool   // SessionSecret が未設定のため起動ごとに生成したかどうか
	SessionBackend  string // cookie | session
	SessionMaxAge   int    // クッキーの MaxAge（秒）
	CookieDomain    string // クッキーの Domain 属性（空なら付与しない）

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// デモ用ユーザー（ログインは常にこのユーザーで成功する）
	DemoUserID   int64
	DemoUserName string

	// ログ設定
	LogLevel string
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		SessionSecret:  getEnv("SESSION_SECRET", ""),
		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", BackendCookie)),
		SessionMaxAge:  getEnvAsInt("SESSION_MAX_AGE", 86400), // 1日
		CookieDomain:   getEnv("COOKIE_DOMAIN", ""),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		DemoUserID:   getEnvAsInt64("DEMO_USER_ID", 2),
		DemoUserName: getEnv("DEMO_USER_NAME", "Ethan"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 開発時はシークレット未設定でも起動できるよう、プロセスごとに生成する
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = hex.EncodeToString(securecookie.GenerateRandomKey(MinSecretLength))
		cfg.EphemeralSecret = true
	}

	return cfg, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be one of debug, release, test: %q", c.GinMode)
	}

	switch c.SessionBackend {
	case BackendCookie, BackendSession:
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q: %q", BackendCookie, BackendSession, c.SessionBackend)
	}

	if c.SessionMaxAge < 0 {
		return fmt.Errorf("SESSION_MAX_AGE must not be negative: %d", c.SessionMaxAge)
	}
	if strings.TrimSpace(c.DemoUserName) == "" {
		return fmt.Errorf("DEMO_USER_NAME must not be empty")
	}

	// 本番環境ではシークレットを必須にする
	if c.GinMode == "release" {
		if c.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required in release mode")
		}
		if len(c.SessionSecret) < MinSecretLength {
			return fmt.Errorf("SESSION_SECRET must be at least %d bytes in release mode", MinSecretLength)
		}
	}

	return nil
}

// CookieSecure は Secure 属性を付与するかどうかを返します。
func (c *Config) CookieSecure() bool {
	return c.GinMode == "release"
}

// AllowedOrigins は CORSAllowedOrigins を分割し、空要素を除いて返します。
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsInt64 は環境変数を64ビット整数として取得します。
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
