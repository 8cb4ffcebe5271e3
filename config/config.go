package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	DataDir        string `validate:"required"`
	RGBCameraIndex int    `validate:"gte=0"`
	NIRCameraIndex int    `validate:"gte=0"`
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	rgbIndex, err := envInt("RGB_CAMERA_INDEX", 0)
	if err != nil {
		return nil, err
	}
	nirIndex, err := envInt("NIR_CAMERA_INDEX", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:        envString("LYCHEE_DATA_DIR", "organized/lychee_dataset"),
		RGBCameraIndex: rgbIndex,
		NIRCameraIndex: nirIndex,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}
