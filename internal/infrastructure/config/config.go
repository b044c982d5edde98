package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Seed        SeedConfig        `mapstructure:"seed"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	YouTube     YouTubeConfig     `mapstructure:"youtube"`
	Spoonacular SpoonacularConfig `mapstructure:"spoonacular"`
	Quota       QuotaConfig       `mapstructure:"quota"`
	Redis       RedisConfig       `mapstructure:"redis"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	CORS        CORSConfig        `mapstructure:"cors"`
	DedupWindow time.Duration     `mapstructure:"dedup_window"`
	LogLevel    string            `mapstructure:"log_level"`
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
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// DatabaseConfig 資料庫配置，driver 為 sqlite 或 postgres
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SeedConfig 目錄種子資料
type SeedConfig struct {
	Enabled   bool  `mapstructure:"enabled"`
	BatchSize int   `mapstructure:"batch_size"`
	Threshold int64 `mapstructure:"threshold"`
}

// HTTPConfig 外部 API 調用的連線/讀取超時
type HTTPConfig struct {
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// YouTubeConfig YouTube Data API 設定
type YouTubeConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	WatchBaseURL    string        `mapstructure:"watch_base_url"`
	DailyUnitLimit  int           `mapstructure:"daily_unit_limit"`
	SearchCost      int           `mapstructure:"search_cost"`
	StrictSuffix    string        `mapstructure:"strict_suffix"`
	LooseSuffix     string        `mapstructure:"loose_suffix"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

// SpoonacularConfig Spoonacular API 設定
type SpoonacularConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	DailyQuota   int    `mapstructure:"daily_quota"`
}

// QuotaConfig 每日配額計數設定
type QuotaConfig struct {
	Backend  string `mapstructure:"backend"`
	Timezone string `mapstructure:"timezone"`
}

// RedisConfig Redis 設定（quota.backend=redis 時使用）
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// CORSConfig 跨域設定
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Location 回傳配額日界線使用的時區
func (q QuotaConfig) Location() *time.Location {
	if q.Timezone == "" || strings.EqualFold(q.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 可選
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 舊版環境變數名稱
	_ = v.BindEnv("youtube.api_key", "APP_YOUTUBE_API_KEY", "YOUTUBE_API_KEY")
	_ = v.BindEnv("spoonacular.api_key", "APP_SPOONACULAR_API_KEY", "SPOONACULAR_API_KEY")
	_ = v.BindEnv("seed.enabled", "APP_SEED_ENABLED", "SEED_ENABLED")
	_ = v.BindEnv("database.dsn", "APP_DATABASE_DSN", "DATABASE_URL")
	_ = v.BindEnv("rate_limit.enabled", "APP_RATE_LIMIT_ENABLED", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("dedup_window", "APP_DEDUP_WINDOW", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "APP_LOG_LEVEL", "LOG_LEVEL")

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if key == "" {
		return "(empty)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "fridge-recipe")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "45s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "fridge.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.batch_size", 200)
	v.SetDefault("seed.threshold", 10)

	v.SetDefault("http.connect_timeout", "8s")
	v.SetDefault("http.read_timeout", "18s")
	v.SetDefault("http.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")

	v.SetDefault("youtube.api_key", "")
	v.SetDefault("youtube.base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("youtube.watch_base_url", "https://www.youtube.com")
	v.SetDefault("youtube.daily_unit_limit", 10000)
	v.SetDefault("youtube.search_cost", 100)
	v.SetDefault("youtube.strict_suffix", "만으로 만드는 레시피")
	v.SetDefault("youtube.loose_suffix", "레시피")
	v.SetDefault("youtube.breaker_failures", 5)
	v.SetDefault("youtube.breaker_timeout", "60s")

	v.SetDefault("spoonacular.api_key", "")
	v.SetDefault("spoonacular.base_url", "https://api.spoonacular.com")
	v.SetDefault("spoonacular.image_base_url", "https://img.spoonacular.com/recipes/")
	v.SetDefault("spoonacular.daily_quota", 45)

	v.SetDefault("quota.backend", "memory")
	v.SetDefault("quota.timezone", "Asia/Seoul")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "fridge-recipe:quota")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"https://*.vercel.app",
	})

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}
	if config.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}

	if config.Seed.BatchSize <= 0 {
		return fmt.Errorf("invalid seed batch size")
	}
	if config.HTTP.ConnectTimeout <= 0 || config.HTTP.ReadTimeout <= 0 {
		return fmt.Errorf("invalid http timeouts")
	}
	if config.Spoonacular.DailyQuota < 0 {
		return fmt.Errorf("invalid spoonacular daily quota")
	}

	switch config.Quota.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported quota backend %q", config.Quota.Backend)
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit settings")
	}

	return nil
}
