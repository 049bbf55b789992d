// Package config は .env ファイルと環境変数から設定を読み込みます
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"PackScope/internal/usecase/packagetree"
)

// DefaultEnvFile は既定で読み込む .env ファイルの名前です
const DefaultEnvFile = ".env"

// Config はアプリケーション設定を保持する構造体です
type Config struct {
	// PackageName はパッケージルートの名前です
	PackageName string
	// LogLevel は出力する最小のログレベル（DEBUG, INFO, WARN, ERROR）です
	LogLevel string
	// WatchDir は新しいファイルを監視する取り込み用ディレクトリです（空の場合は監視しない）
	WatchDir string
	// WindowWidth, WindowHeight はメインウィンドウの初期サイズです
	WindowWidth  int
	WindowHeight int
}

// Load は既定の .env ファイルと環境変数から設定を読み込みます
func Load() (*Config, error) {
	return LoadFrom(DefaultEnvFile)
}

// LoadFrom は envFile と環境変数から設定を読み込みます。
// envFile が存在しない場合は環境変数のみを使います。既に設定済みの環境変数は上書きしません。
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
	}

	width, err := envInt("PACKSCOPE_WINDOW_WIDTH", 800)
	if err != nil {
		return nil, err
	}
	height, err := envInt("PACKSCOPE_WINDOW_HEIGHT", 600)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PackageName:  envOr("PACKSCOPE_PACKAGE_NAME", "package_name"),
		LogLevel:     strings.ToUpper(envOr("PACKSCOPE_LOG_LEVEL", "INFO")),
		WatchDir:     envOr("PACKSCOPE_WATCH_DIR", ""),
		WindowWidth:  width,
		WindowHeight: height,
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("設定が不正です: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := packagetree.ValidatePackageName(c.PackageName); err != nil {
		return fmt.Errorf("PACKSCOPE_PACKAGE_NAME: %w", err)
	}
	switch c.LogLevel {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("PACKSCOPE_LOG_LEVEL が不正です: %q", c.LogLevel)
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("ウィンドウサイズは正の値で指定してください: %dx%d", c.WindowWidth, c.WindowHeight)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s は整数で指定してください: %w", key, err)
	}
	return i, nil
}
