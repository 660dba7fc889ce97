package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENV" default:"development"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":5000"`

	// Пустой DSN — реестр в памяти; заданный — реестр поверх PostgreSQL.
	DBDSN          string `envconfig:"DB_DSN"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"migrations"`

	// Ёмкость слота по умолчанию. Черновики расходились (1 или 5),
	// поэтому значение конфигурируемое, дефолт — строгий вариант.
	SlotCapacity int `envconfig:"SLOT_CAPACITY" default:"1"`

	CORSOrigins    []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	RateLimitRPS   float64  `envconfig:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst int      `envconfig:"RATE_LIMIT_BURST" default:"20"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.SlotCapacity < 1 {
		return nil, fmt.Errorf("SLOT_CAPACITY must be at least 1, got %d", cfg.SlotCapacity)
	}

	return &cfg, nil
}
