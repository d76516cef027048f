// Package config loads service configuration from the environment.
//
// Every tuning constant of the pipeline (similarity threshold, dedup
// lookback, fallback image, source lists, timeouts) lives here so tests
// and deployments can override them without touching package state.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8081"`

	// Content API
	APIPort       int           `env:"API_PORT" envDefault:"8000"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	ListCacheTTL  time.Duration `env:"LIST_CACHE_TTL" envDefault:"60s"`
	DefaultRegion string        `env:"DEFAULT_REGION" envDefault:"AP"`

	// Scheduling
	IngestInterval   time.Duration `env:"INGEST_INTERVAL" envDefault:"10m"`
	IngestRunOnStart bool          `env:"INGEST_RUN_ON_START" envDefault:"true"`

	// NewsAPI adapter
	NewsAPIKey      string        `env:"NEWSAPI_KEY"`
	NewsAPICountry  string        `env:"NEWSAPI_COUNTRY" envDefault:"in"`
	NewsAPICategory string        `env:"NEWSAPI_CATEGORY" envDefault:"business"`
	NewsAPITimeout  time.Duration `env:"NEWSAPI_TIMEOUT" envDefault:"30s"`
	NewsAPIRPM      int           `env:"NEWSAPI_RPM" envDefault:"1"`

	// RSS adapter
	FeedURLs    []string      `env:"FEED_URLS" envSeparator:"," envDefault:"https://timesofindia.indiatimes.com/rssfeedstopstories.cms"`
	FeedTimeout time.Duration `env:"FEED_TIMEOUT" envDefault:"10s"`

	// HTML scrape adapter
	ScrapeURL      string        `env:"SCRAPE_URL" envDefault:"https://www.hindustantimes.com/trending"`
	ScrapeSource   string        `env:"SCRAPE_SOURCE" envDefault:"HindustanTimes"`
	ScrapeSelector string        `env:"SCRAPE_SELECTOR" envDefault:"article"`
	ScrapeTimeout  time.Duration `env:"SCRAPE_TIMEOUT" envDefault:"30s"`
	ScrapeUA       string        `env:"SCRAPE_USER_AGENT" envDefault:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0 Safari/537.36"`

	// Social scrape adapter
	SocialAccounts []string      `env:"SOCIAL_ACCOUNTS" envSeparator:","`
	SocialMaxPosts int           `env:"SOCIAL_MAX_POSTS" envDefault:"5"`
	SocialNavWait  time.Duration `env:"SOCIAL_NAV_WAIT" envDefault:"45s"`
	SocialScrolls  int           `env:"SOCIAL_SCROLLS" envDefault:"3"`
	SocialHeadless bool          `env:"SOCIAL_HEADLESS" envDefault:"true"`
	SocialBaseURL  string        `env:"SOCIAL_BASE_URL" envDefault:"https://twitter.com"`

	// Normalization
	FallbackImageURL string   `env:"FALLBACK_IMAGE_URL" envDefault:"https://static.teluguwire.com/img/placeholder.jpg"`
	TeluguSources    []string `env:"TELUGU_SOURCES" envSeparator:"," envDefault:"sakshi,eenadu,andhrajyothy,ntv telugu,tv9 telugu"`

	// Duplicate gate
	DedupLookbackHours int     `env:"DEDUP_LOOKBACK_HOURS" envDefault:"12"`
	DedupThreshold     float64 `env:"DEDUP_THRESHOLD" envDefault:"0.6"`

	// Database pool
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"2"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

// DedupLookback returns the duplicate-gate window as a duration.
func (c *Config) DedupLookback() time.Duration {
	return time.Duration(c.DedupLookbackHours) * time.Hour
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}
