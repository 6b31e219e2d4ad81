package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Leaderboard LeaderboardConfig
	Stream      StreamConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single', если Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`
}

// JWTConfig содержит настройки проверки токенов доступа.
// Токены выпускает внешний сервис аутентификации, здесь они только проверяются.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// LeaderboardConfig содержит настройки агрегатора лидерборда
type LeaderboardConfig struct {
	// DefaultLimit — размер глобального лидерборда по умолчанию
	DefaultLimit int `mapstructure:"default_limit"`

	// RankCacheTTL — время жизни кеша глобального ранга пользователя.
	// 0 отключает кеширование.
	RankCacheTTL time.Duration `mapstructure:"rank_cache_ttl"`
}

// StreamConfig содержит настройки push-рассылки снапшотов лидерборда
type StreamConfig struct {
	// Interval — период пересчета и отправки снапшота подписчику
	Interval time.Duration `mapstructure:"interval"`

	// Limit — размер снапшота глобального лидерборда
	Limit int `mapstructure:"limit"`

	// RateLimitPerMinute — лимит новых стриминговых подключений
	// с одного IP в минуту
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Отдельный экземпляр Viper, чтобы избежать глобального состояния

	// 1. Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 15)
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("leaderboard.default_limit", 100)
	vip.SetDefault("leaderboard.rank_cache_ttl", 10*time.Second)
	vip.SetDefault("stream.interval", 10*time.Second)
	vip.SetDefault("stream.limit", 100)
	vip.SetDefault("stream.rate_limit_per_minute", 30)

	// 2. Привязываем переменные окружения ЯВНО
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("jwt.secret", "JWT_SECRET")

	vip.BindEnv("server.port", "SERVER_PORT")

	vip.BindEnv("leaderboard.default_limit", "LEADERBOARD_DEFAULT_LIMIT")
	vip.BindEnv("leaderboard.rank_cache_ttl", "LEADERBOARD_RANK_CACHE_TTL")
	vip.BindEnv("stream.interval", "STREAM_INTERVAL")
	vip.BindEnv("stream.limit", "STREAM_LIMIT")
	vip.BindEnv("stream.rate_limit_per_minute", "STREAM_RATE_LIMIT_PER_MINUTE")

	// 3. Путь к файлу конфигурации
	if configPath != "" {
		vip.SetConfigFile(configPath)
		// Не страшно, если файла нет: значения придут из env/умолчаний
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	// 4. Анмаршалим конфигурацию (Viper объединит файл и привязанные env vars)
	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Логирование конфигурации (только не в release режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Port: %s", cfg.Database.Port)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("JWT Secret Set: %t", cfg.JWT.Secret != "")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Stream Interval: %v", cfg.Stream.Interval)
		log.Printf("Leaderboard Default Limit: %d", cfg.Leaderboard.DefaultLimit)
		log.Printf("-----------------------------------------")
	}

	// 6. Проверка обязательных параметров
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	if cfg.Stream.Interval <= 0 {
		return nil, fmt.Errorf("stream interval must be positive")
	}

	return &cfg, nil
}
