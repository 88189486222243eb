package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config структура конфигурации приложения
type Config struct {
	Environment string
	Server      struct {
		Port int
		Host string
	}
	Engine struct {
		BaseURL         string
		Timeout         int // в секундах
		DefaultCurrency string
		HealthInterval  int // в секундах
	}
	Prediction struct {
		IncludeNeighborhood bool
	}
	Locations struct {
		File string // пусто: встроенный справочник
	}
	Logging struct {
		Level string
	}
	Database struct {
		Enabled  bool
		Host     string
		Port     string
		Name     string
		User     string
		Password string
		SSLMode  string
	}
	GRPC struct {
		Enabled bool
		Port    int
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Переменные из .env подхватываются, если файл есть; уже заданные переменные не перезаписываются.
func LoadConfig(envPath ...string) *Config {
	_ = godotenv.Load(envPath...)

	cfg := &Config{}
	cfg.Environment = getEnv("ENVIRONMENT", "development")

	// Конфигурация сервера
	cfg.Server.Port = getEnvInt("SERVER_PORT", 8080)
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")

	// Конфигурация движка оценки
	cfg.Engine.BaseURL = getEnv("ENGINE_BASE_URL", "http://localhost:8000")
	cfg.Engine.Timeout = getEnvInt("ENGINE_TIMEOUT_SECONDS", 20)
	cfg.Engine.DefaultCurrency = getEnv("ENGINE_DEFAULT_CURRENCY", "TRY")
	cfg.Engine.HealthInterval = getEnvInt("ENGINE_HEALTH_INTERVAL_SECONDS", 30)

	cfg.Prediction.IncludeNeighborhood = getEnvBool("PREDICTION_INCLUDE_NEIGHBORHOOD", true)
	cfg.Locations.File = getEnv("LOCATIONS_FILE", "")

	// Конфигурация логирования
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	// История оценок
	cfg.Database.Enabled = getEnvBool("DB_ENABLED", false)
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.Name = getEnv("DB_NAME", "house_price")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.SSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.GRPC.Enabled = getEnvBool("GRPC_ENABLED", false)
	cfg.GRPC.Port = getEnvInt("GRPC_PORT", 9090)

	return cfg
}

// EngineTimeout предел ожидания ответа движка
func (c *Config) EngineTimeout() time.Duration {
	return time.Duration(c.Engine.Timeout) * time.Second
}

// HealthInterval период опроса состояния движка
func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.Engine.HealthInterval) * time.Second
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает int значение переменной окружения или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool понимает 1/0, true/false, t/f
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
