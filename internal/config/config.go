package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/pickup/internal/constants"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

/*
把init config跟read config分開
init : 需要設置viper watch 與 onConfigChange
read : 一般讀取  需要使用讀寫鎖
*/
var configSingleton *ConfigSingleTon
var muonce sync.Once

type ConfigSingleTon struct {
	config *Config
	mu     sync.RWMutex
}

type Config struct {
	Env         constants.ENV `mapstructure:"ENV"`
	ServiceName string        `mapstructure:"SERVICE_NAME"`
	ServerPort  string        `mapstructure:"SERVER_PORT"`

	DbDriver constants.DBDriver `mapstructure:"DB_DRIVER"`
	DbPath   string             `mapstructure:"DB_PATH"`
	DbName   string             `mapstructure:"POSTGRES_DB"`
	DbHost   string             `mapstructure:"POSTGRES_HOST"`
	DbPort   string             `mapstructure:"POSTGRES_PORT"`
	DbUser   string             `mapstructure:"POSTGRES_USER"`
	DbPas    string             `mapstructure:"POSTGRES_PASSWORD"`
	SeedFile string             `mapstructure:"SEED_FILE"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	MenuCacheTTL  time.Duration `mapstructure:"MENU_CACHE_TTL"`

	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	RateLimitCapacity  int     `mapstructure:"RATE_LIMIT_CAPACITY"`
	RateLimitPerSecond float64 `mapstructure:"RATE_LIMIT_PER_SECOND"`
	// 只有在可信任的反向代理後面才開啟
	TrustProxyHeaders bool `mapstructure:"TRUST_PROXY_HEADERS"`

	LogLevel        string   `mapstructure:"LOG_LEVEL"`
	LogKafkaBrokers []string `mapstructure:"LOG_KAFKA_BROKERS"`
	LogKafkaTopic   string   `mapstructure:"LOG_KAFKA_TOPIC"`

	TracingEnabled  bool          `mapstructure:"TRACING_ENABLED"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// RedisEnabled 沒有設定 REDIS_ADDR 時, menu cache 與分散式限流都不啟用
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.RedisAddr) != ""
}

func (c *Config) KafkaLogEnabled() bool {
	return len(c.LogKafkaBrokers) > 0 && c.LogKafkaTopic != ""
}

func (c *Config) Validate() error {
	switch c.DbDriver {
	case constants.DriverPostgres, constants.DriverSqlite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DbDriver)
	}
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.RateLimitCapacity <= 0 || c.RateLimitPerSecond <= 0 {
		return fmt.Errorf("rate limit capacity and rate must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", string(constants.Prod))
	v.SetDefault("SERVICE_NAME", "pickup")
	v.SetDefault("SERVER_PORT", "3000")
	v.SetDefault("DB_DRIVER", string(constants.DriverSqlite))
	v.SetDefault("DB_PATH", "data/app.db")
	v.SetDefault("POSTGRES_DB", "pickup")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "")
	v.SetDefault("POSTGRES_PASSWORD", "")
	v.SetDefault("SEED_FILE", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MENU_CACHE_TTL", "5m")
	v.SetDefault("ADMIN_PASSWORD", "changeme")
	v.SetDefault("RATE_LIMIT_CAPACITY", 20)
	v.SetDefault("RATE_LIMIT_PER_SECOND", 1)
	v.SetDefault("TRUST_PROXY_HEADERS", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_KAFKA_BROKERS", []string{})
	v.SetDefault("LOG_KAFKA_TOPIC", "")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")
}

// GetConfig 取得全域設定, 第一次呼叫時讀取並開始監聽設定檔
func GetConfig() *Config {
	initConfig()
	configSingleton.mu.RLock()
	defer configSingleton.mu.RUnlock()
	return configSingleton.config
}

func initConfig() {
	muonce.Do(func() {
		configSingleton = &ConfigSingleTon{}
		v := viper.New()
		cf, err := loadConfig(v, configFilePath())
		if err != nil {
			log.Fatalf("error read config: %v", err)
		}
		configSingleton.config = cf

		if v.ConfigFileUsed() == "" {
			return
		}
		v.OnConfigChange(func(e fsnotify.Event) {
			cf, err := unmarshal(v)
			if err != nil {
				log.Printf("failed to reload config file %s: %v", e.Name, err)
				return
			}
			configSingleton.mu.Lock()
			configSingleton.config = cf
			configSingleton.mu.Unlock()
		})
		v.WatchConfig()
	})
}

func configFilePath() string {
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		return p
	}
	return ".env"
}

// LoadConfig 讀取指定的 .env 檔(可不存在) 加上環境變數
// 單純回傳錯誤  由外部決定要不要Fatal
func LoadConfig(path string) (*Config, error) {
	return loadConfig(viper.New(), path)
}

func loadConfig(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		}
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}
