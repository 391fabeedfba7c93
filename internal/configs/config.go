package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/constants"
)

// ScraperConfig хранит параметры обхода портала
type ScraperConfig struct {
	MapBaseURL  string
	PageBaseURL string

	Country string
	Lat1    float64
	Lat2    float64
	Lon1    float64
	Lon2    float64

	MaxPages       int
	WorkerCount    int
	RequestTimeout time.Duration
	UserAgent      string

	OutputPath string
	DebugDir   string
}

// DBconfig хранит конфигурацию для БД (опционально)
type DBconfig struct {
	URL string
}

// RabbitMQConfig хранит конфигурацию для RabbitMQ (опционально)
type RabbitMQConfig struct {
	URL string
}

// FluentBitConfig — опциональная отправка логов в Fluent Bit
type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName  string
	Scraper  ScraperConfig
	Database DBconfig
	RabbitMQ RabbitMQConfig

	FluentBit      FluentBitConfig
	StdoutLogLevel string
}

// LoadConfig загружает конфигурацию из переменных окружения.
// .env необязателен: без него берутся значения из окружения и дефолты.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file: %v. Relying on environment variables.\n", err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "luximo-parser")

	cfg.Scraper.MapBaseURL = getEnvAsString("LUXIMMO_MAP_BASE_URL", constants.MapBaseURL)
	cfg.Scraper.PageBaseURL = getEnvAsString("LUXIMMO_PAGE_BASE_URL", constants.PageBaseURL)
	cfg.Scraper.Country = getEnvAsString("SEARCH_COUNTRY", constants.DefaultCountry)
	cfg.Scraper.Lat1 = getEnvAsFloat("SEARCH_LAT1", constants.DefaultLat1)
	cfg.Scraper.Lat2 = getEnvAsFloat("SEARCH_LAT2", constants.DefaultLat2)
	cfg.Scraper.Lon1 = getEnvAsFloat("SEARCH_LON1", constants.DefaultLon1)
	cfg.Scraper.Lon2 = getEnvAsFloat("SEARCH_LON2", constants.DefaultLon2)
	cfg.Scraper.MaxPages = getEnvAsInt("SEARCH_MAX_PAGES", constants.DefaultMaxPages)
	cfg.Scraper.WorkerCount = getEnvAsInt("WORKER_COUNT", constants.DefaultWorkerCount)
	cfg.Scraper.RequestTimeout = time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", int(constants.DefaultRequestTimeout/time.Second))) * time.Second
	cfg.Scraper.UserAgent = getEnvAsString("USER_AGENT", constants.DefaultUserAgent)
	cfg.Scraper.OutputPath = getEnvAsString("OUTPUT_PATH", constants.DefaultOutputPath)
	cfg.Scraper.DebugDir = getEnvAsString("DEBUG_DIR", constants.DefaultDebugDir)

	// БД и RabbitMQ опциональны: если URL не задан, соответствующий
	// приемник просто не включается.
	cfg.Database.URL = os.Getenv("DATABASE_URL")
	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogLevel = getEnvAsString("STDOUT_LOG_LEVEL", "info")

	return cfg, nil
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию.
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsFloat читает переменную окружения как float64 или возвращает значение по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueFloat, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %g\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueFloat
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
