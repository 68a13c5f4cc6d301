package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все настройки приложения
type Config struct {
	Server     ServerConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	JWT        JWTConfig
	Images     ImagesConfig
	Reconciler ReconcilerConfig
	CORS       CORSConfig
	LogLevel   string
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8080)
}

// MongoConfig - настройки подключения к MongoDB
type MongoConfig struct {
	URI    string // URI подключения (mongodb://host:port)
	DBName string // Имя базы данных
}

// RedisConfig - настройки Redis для кеша навигационного дерева
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig - настройки Kafka для событий заказов и каталога
type KafkaConfig struct {
	Brokers []string // Список брокеров (формат: host:port)
	Topic   string   // Топик событий ORDER_CREATED и изменений каталога
}

// JWTConfig - настройки токенов админки
type JWTConfig struct {
	Secret        string
	TokenDuration time.Duration // Срок жизни токена (по умолчанию 12h)
}

// ImagesConfig - настройки локального хранилища изображений
type ImagesConfig struct {
	Dir string // Корневая директория для загруженных файлов
}

// ReconcilerConfig - расписание сверки перекрестных ссылок
type ReconcilerConfig struct {
	Schedule string // Cron-выражение (по умолчанию каждый час)
}

// CORSConfig - разрешенные источники для фронтенда
type CORSConfig struct {
	AllowedOrigins []string
}

// Load загружает конфигурацию из переменных окружения
// Файл .env подхватывается при наличии (локальная разработка)
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	tokenDuration, err := time.ParseDuration(getEnv("JWT_TOKEN_DURATION", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TOKEN_DURATION value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Mongo: MongoConfig{
			URI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
			DBName: getEnv("MONGO_DB", "elpro"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "store_events"),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
			TokenDuration: tokenDuration,
		},
		Images: ImagesConfig{
			Dir: getEnv("IMAGES_DIR", "./uploads"),
		},
		Reconciler: ReconcilerConfig{
			Schedule: getEnv("RECONCILER_SCHEDULE", "0 * * * *"),
		},
		CORS: CORSConfig{
			AllowedOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
