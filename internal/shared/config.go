package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"ko_lake_villa/internal/pricing"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	PricingRulesFile    string
	AvailabilityTimeout time.Duration
	Timezone            string

	ChannelBase string
	ChannelKey  string
	ChannelRPS  float64
	SyncWorkers int

	DirectDiscountPct     decimal.Decimal
	LastMinuteDiscountPct decimal.Decimal
	LastMinuteDays        int

	PublicRPS      float64
	MigrateOnStart bool
}

// Load reads the process environment. A .env file in the working directory,
// when present, fills in variables that are not already set.
func Load() Config { return load(".env") }

func load(dotenv string) Config {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("file", dotenv).Msg(".env not loaded")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/kolakevilla?parseTime=true&charset=utf8mb4,utf8&loc=UTC&multiStatements=true"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		PricingRulesFile:    env("PRICING_RULES_FILE", ""),
		AvailabilityTimeout: time.Duration(atoi("AVAILABILITY_TIMEOUT_MS", 300)) * time.Millisecond,
		Timezone:            env("VILLA_TIMEZONE", "Asia/Colombo"),

		ChannelBase: env("CHANNEL_BASE_URL", "https://channel.kolakevilla.com/api/v1"),
		ChannelKey:  env("CHANNEL_API_KEY", ""),
		ChannelRPS:  float64v("CHANNEL_RPS", 5),
		SyncWorkers: atoi("SYNC_WORKERS", 4),

		DirectDiscountPct:     decimalv("DIRECT_DISCOUNT_PCT", 10),
		LastMinuteDiscountPct: decimalv("LAST_MINUTE_DISCOUNT_PCT", 15),
		LastMinuteDays:        atoi("LAST_MINUTE_DAYS", 3),

		PublicRPS:      float64v("PUBLIC_RPS", 2),
		MigrateOnStart: boolv("MIGRATE_ON_START", true),
	}
	if c.ChannelKey == "" {
		log.Warn().Msg("CHANNEL_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func float64v(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func boolv(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func decimalv(k string, def int64) decimal.Decimal {
	if v := os.Getenv(k); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not a decimal, using default")
	}
	return decimal.NewFromInt(def)
}

// DirectPolicy is the configured direct-vs-platform discount policy.
func (c Config) DirectPolicy() pricing.DirectPolicy {
	return pricing.DirectPolicy{
		DiscountPercent:   c.DirectDiscountPct,
		LastMinutePercent: c.LastMinuteDiscountPct,
		LastMinuteDays:    c.LastMinuteDays,
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("tz", c.Timezone).Msg("unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}
