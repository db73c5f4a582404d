package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RunLogPath  string
	Port        string
	Scheduler   SchedulerConfig
	Browser     BrowserConfig
	VAPID       VAPIDConfig
	Retention   RetentionConfig
	LogPath     string
	Site        *SiteConfig
}

type SchedulerConfig struct {
	CrawlCron   string
	CleanupCron string
	Interval    time.Duration
}

type BrowserConfig struct {
	Headless  bool
	TimeoutMS float64
}

type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Subscriber string
}

type RetentionConfig struct {
	MaxAge time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RunLogPath:  getEnv("RUNLOG_PATH", "watcher.db"),
		Port:        getEnv("PORT", "8080"),
		Scheduler: SchedulerConfig{
			CrawlCron:   os.Getenv("CRAWL_CRON"),
			CleanupCron: getEnv("CLEANUP_CRON", "0 4 * * *"),
		},
		Browser: BrowserConfig{
			Headless:  getEnv("BROWSER_HEADLESS", "true") == "true",
			TimeoutMS: float64(getEnvInt("BROWSER_TIMEOUT_MS", 30000)),
		},
		VAPID: VAPIDConfig{
			PublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
			PrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
			Subscriber: getEnv("VAPID_SUBSCRIBER", "mailto:test@example.com"),
		},
		Retention: RetentionConfig{
			MaxAge: time.Duration(getEnvInt("RETENTION_DAYS", 3)) * 24 * time.Hour,
		},
		LogPath: getEnv("LOG_PATH", "daemon.log"),
	}

	if interval := os.Getenv("CRAWL_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	site, err := LoadSite()
	if err != nil {
		return nil, err
	}
	cfg.Site = site

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
