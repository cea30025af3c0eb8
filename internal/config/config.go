package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/oggyb/chuanglan-sms/internal/sms"
)

type Config struct {
	App struct {
		Name string
		Env  string
	}

	API struct {
		Host string
		Port string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	SMS struct {
		Account  string
		Password string
		SendURL  string
		QuotaURL string
		Affix    string
		Name     string
	}

	Quota struct {
		CacheTTL     time.Duration
		LowWatermark int
	}

	Scheduler struct {
		Interval     time.Duration
		BatchTimeout time.Duration
	}
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	// App
	cfg.App.Name = getEnv("APP_NAME", "chuanglan-sms")
	cfg.App.Env = getEnv("APP_ENV", "development")

	// API
	cfg.API.Host = getEnv("API_HOST", "0.0.0.0")
	cfg.API.Port = getEnv("API_PORT", "8080")

	// Redis
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "redis:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getInt("REDIS_DB", 0)

	// SMS gateway
	cfg.SMS.Account = getEnv("SMS_ACCOUNT", "")
	cfg.SMS.Password = getEnv("SMS_PASSWORD", "")
	cfg.SMS.SendURL = getEnv("SMS_SEND_URL", sms.DefaultSendURL)
	cfg.SMS.QuotaURL = getEnv("SMS_QUOTA_URL", sms.DefaultQuotaURL)
	cfg.SMS.Affix = getEnv("SMS_AFFIX", "")
	cfg.SMS.Name = getEnv("SMS_NAME", "")

	// Quota
	cfg.Quota.CacheTTL = getDuration("QUOTA_CACHE_TTL", time.Minute)
	cfg.Quota.LowWatermark = getInt("QUOTA_LOW_WATERMARK", 100)

	// Quota watcher
	cfg.Scheduler.Interval = getDuration("SCHEDULER_INTERVAL", 5*time.Minute)
	cfg.Scheduler.BatchTimeout = getDuration("SCHEDULER_BATCH_TIMEOUT", 30*time.Second)

	return cfg
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// GatewayConfig returns the options for sms.NewGatewayClient.
func (c *Config) GatewayConfig() sms.Config {
	return sms.Config{
		SendURL:  c.SMS.SendURL,
		QuotaURL: c.SMS.QuotaURL,
		Affix:    c.SMS.Affix,
		Name:     c.SMS.Name,
	}
}

// NewGatewayClient builds the gateway client from the SMS settings.
func (c *Config) NewGatewayClient() *sms.GatewayClient {
	return sms.NewGatewayClient(c.SMS.Account, c.SMS.Password, c.GatewayConfig(), nil)
}
