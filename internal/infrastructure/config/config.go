package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 資料來源
const (
	SourceCSV = "csv"
	SourceSQL = "sql"
)

// 快取後端
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Dataset     DatasetConfig    `mapstructure:"dataset"`
	Recommend   RecommendConfig  `mapstructure:"recommend"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Queue       QueueConfig      `mapstructure:"queue"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Image       ImageConfig      `mapstructure:"image"`
	Classifier  ClassifierConfig `mapstructure:"classifier"`
	Log         LogConfig        `mapstructure:"log"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatasetConfig 食譜資料集設定
type DatasetConfig struct {
	Source   string `mapstructure:"source"`
	Path     string `mapstructure:"path"`
	DSN      string `mapstructure:"dsn"`
	MaxRows  int    `mapstructure:"max_rows"`
	SkipRows []int  `mapstructure:"skip_rows"`
}

// RecommendConfig 推薦設定
type RecommendConfig struct {
	DefaultMaxCalories int  `mapstructure:"default_max_calories"`
	DefaultLimit       int  `mapstructure:"default_limit"`
	MaxLimit           int  `mapstructure:"max_limit"`
	IncludeUnmatched   bool `mapstructure:"include_unmatched"`
	Workers            int  `mapstructure:"workers"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisURL        string        `mapstructure:"redis_url"`
}

// QueueConfig 請求隊列設定
type QueueConfig struct {
	Workers int `mapstructure:"workers"`
	MaxSize int `mapstructure:"max_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
	// MaxPixels 解碼前允許的最大寬×高
	MaxPixels int64 `mapstructure:"max_pixels"`
}

// ClassifierConfig 外部影像分類服務設定
type ClassifierConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MinConfidence float64       `mapstructure:"min_confidence"`
}

// LogConfig 日誌設定
type LogConfig struct {
	File string `mapstructure:"file"`
	Mode string `mapstructure:"mode"`
}

// LoadDotEnv 載入 .env，檔案不存在不視為錯誤
func LoadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// LoadConfig 使用全域 viper 載入設定（cobra 綁定的旗標也在其中）
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load 從指定的 viper 實例載入設定
func Load(v *viper.Viper) (*Config, error) {
	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("dataset.path", "APP_DATASET_PATH", "DATASET_PATH")
	_ = v.BindEnv("dataset.dsn", "APP_DATASET_DSN", "DATABASE_URL")
	_ = v.BindEnv("cache.enabled", "APP_CACHE_ENABLED", "CACHE_ENABLED")
	_ = v.BindEnv("cache.redis_url", "APP_CACHE_REDIS_URL", "REDIS_URL")
	_ = v.BindEnv("classifier.base_url", "APP_CLASSIFIER_BASE_URL", "CLASSIFIER_URL")
	_ = v.BindEnv("classifier.api_key", "APP_CLASSIFIER_API_KEY", "CLASSIFIER_API_KEY")
	_ = v.BindEnv("rate_limit.enabled", "APP_RATE_LIMIT_ENABLED", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "APP_RATE_LIMIT_REQUESTS", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "APP_RATE_LIMIT_WINDOW", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "APP_DEDUP_WINDOW", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "APP_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("log.mode", "APP_LOG_MODE", "LOG_MODE")
	_ = v.BindEnv("server.port", "APP_SERVER_PORT", "PORT")

	// 設定設定檔名稱和路徑
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Dataset.Source = strings.ToLower(strings.TrimSpace(config.Dataset.Source))
	config.Cache.Backend = strings.ToLower(strings.TrimSpace(config.Cache.Backend))

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-recommender")

	// 伺服器設定
	v.SetDefault("server.port", 8082)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "30s")

	// 資料集設定
	v.SetDefault("dataset.source", SourceCSV)
	v.SetDefault("dataset.path", "archive/food-dataset-en.csv")
	v.SetDefault("dataset.dsn", "")
	v.SetDefault("dataset.max_rows", 5000)
	v.SetDefault("dataset.skip_rows", []int{})

	// 推薦設定
	v.SetDefault("recommend.default_max_calories", 500)
	v.SetDefault("recommend.default_limit", 5)
	v.SetDefault("recommend.max_limit", 100)
	v.SetDefault("recommend.include_unmatched", false)
	v.SetDefault("recommend.workers", 4)

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")

	// 隊列設定
	v.SetDefault("queue.workers", 5)
	v.SetDefault("queue.max_size", 100)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	// 圖片設定
	v.SetDefault("image.max_size_bytes", 10*1024*1024) // 10MB
	v.SetDefault("image.max_pixels", 40_000_000)

	// 分類服務設定
	v.SetDefault("classifier.enabled", false)
	v.SetDefault("classifier.base_url", "")
	v.SetDefault("classifier.api_key", "")
	v.SetDefault("classifier.timeout", "30s")
	v.SetDefault("classifier.min_confidence", 0.0)

	// 日誌設定
	v.SetDefault("log_level", "info")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.mode", "")

	v.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證資料集設定
	switch config.Dataset.Source {
	case SourceCSV:
		if config.Dataset.Path == "" {
			return fmt.Errorf("dataset path is required for csv source")
		}
	case SourceSQL:
		if config.Dataset.DSN == "" {
			return fmt.Errorf("dataset dsn is required for sql source")
		}
	default:
		return fmt.Errorf("unknown dataset source %q", config.Dataset.Source)
	}
	if config.Dataset.MaxRows < 0 {
		return fmt.Errorf("invalid dataset max rows")
	}

	// 驗證推薦設定
	if config.Recommend.DefaultMaxCalories < 0 {
		return fmt.Errorf("invalid default max calories")
	}
	if config.Recommend.DefaultLimit <= 0 || config.Recommend.MaxLimit <= 0 {
		return fmt.Errorf("invalid recommendation limits")
	}
	if config.Recommend.DefaultLimit > config.Recommend.MaxLimit {
		return fmt.Errorf("default limit %d exceeds max limit %d", config.Recommend.DefaultLimit, config.Recommend.MaxLimit)
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case CacheMemory:
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case CacheRedis:
			if config.Cache.RedisURL == "" {
				return fmt.Errorf("redis url is required for redis cache")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	// 驗證隊列設定
	if config.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}
	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	// 驗證分類服務設定
	if config.Classifier.Enabled && config.Classifier.BaseURL == "" {
		return fmt.Errorf("classifier base url is required when classifier is enabled")
	}

	return nil
}
